package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebPane/backend"
)

var testViewport = backend.Viewport{Width: 64, Height: 48}

func TestInsertAllocatesUniqueIDs(t *testing.T) {
	r := NewRegistry()
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		v := r.Insert(backend.Handle("h"), testViewport)
		assert.False(t, seen[v.ID], "ID %d allocated twice", v.ID)
		seen[v.ID] = true
	}
	assert.Equal(t, 100, r.Len())
}

func TestIDsNeverReused(t *testing.T) {
	r := NewRegistry()
	first := r.Insert("a", testViewport)
	_, ok := r.Remove(first.ID)
	require.True(t, ok)

	second := r.Insert("b", testViewport)
	assert.NotEqual(t, first.ID, second.ID, "closed ID must not be recycled")

	_, ok = r.Get(first.ID)
	assert.False(t, ok, "stale ID must not resolve")
}

func TestRemoveReturnsHandleOnce(t *testing.T) {
	r := NewRegistry()
	v := r.Insert("engine-7", testViewport)

	h, ok := r.Remove(v.ID)
	require.True(t, ok)
	assert.Equal(t, backend.Handle("engine-7"), h)

	_, ok = r.Remove(v.ID)
	assert.False(t, ok, "second remove is a no-op")
	assert.Equal(t, 0, r.Len())
}

func TestNewViewStartsWithPlaceholder(t *testing.T) {
	r := NewRegistry()
	v := r.Insert("h", testViewport)

	assert.True(t, v.NeedsRepaint)
	require.NoError(t, v.LastFrame.Validate())
	assert.Equal(t, testViewport.Width, v.LastFrame.Width)
	assert.Equal(t, testViewport.Height, v.LastFrame.Height)
}

func TestCurrentFollowsRecency(t *testing.T) {
	r := NewRegistry()
	a := r.Insert("a", testViewport)
	b := r.Insert("b", testViewport)
	c := r.Insert("c", testViewport)

	cur, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, c.ID, cur.ID, "newest view becomes current")

	require.True(t, r.SetCurrent(a.ID))
	cur, _ = r.Current()
	assert.Equal(t, a.ID, cur.ID)

	// Closing the current view falls back to the most recently current
	// survivor, not simply the newest.
	r.Remove(a.ID)
	cur, ok = r.Current()
	require.True(t, ok)
	assert.Equal(t, c.ID, cur.ID)

	r.Remove(c.ID)
	cur, ok = r.Current()
	require.True(t, ok)
	assert.Equal(t, b.ID, cur.ID)

	r.Remove(b.ID)
	_, ok = r.Current()
	assert.False(t, ok, "empty registry has no current view")
}

func TestRemovingBackgroundViewKeepsCurrent(t *testing.T) {
	r := NewRegistry()
	a := r.Insert("a", testViewport)
	b := r.Insert("b", testViewport)
	r.Insert("c", testViewport)

	require.True(t, r.SetCurrent(b.ID))
	r.Remove(a.ID)

	cur, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, b.ID, cur.ID)
}

func TestSetCurrentUnknownIgnored(t *testing.T) {
	r := NewRegistry()
	v := r.Insert("a", testViewport)

	assert.False(t, r.SetCurrent(ID(9999)))
	cur, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, v.ID, cur.ID)
}

func TestListInsertionOrder(t *testing.T) {
	r := NewRegistry()
	a := r.Insert("a", testViewport)
	b := r.Insert("b", testViewport)
	c := r.Insert("c", testViewport)

	// Recency changes must not disturb listing order.
	r.SetCurrent(a.ID)

	got := r.List()
	require.Len(t, got, 3)
	assert.Equal(t, []ID{a.ID, b.ID, c.ID}, []ID{got[0].ID, got[1].ID, got[2].ID})

	r.Remove(b.ID)
	got = r.List()
	require.Len(t, got, 2)
	assert.Equal(t, []ID{a.ID, c.ID}, []ID{got[0].ID, got[1].ID})
}
