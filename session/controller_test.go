package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/frame"
	"github.com/GriffinCanCode/WebPane/input"
	"github.com/GriffinCanCode/WebPane/view"
)

// mockEngine is a scriptable engine: tests queue frames and metadata per
// handle and record every call the controller makes.
type mockEngine struct {
	nextHandle int
	live       map[backend.Handle]bool

	createErr error
	initial   map[backend.Handle]*backend.PageSource

	loading map[backend.Handle]bool
	urls    map[backend.Handle]string
	titles  map[backend.Handle]string
	cursors map[backend.Handle]backend.CursorKind

	// frames are one-shot: consumed by the first Paint that asks.
	frames map[backend.Handle]frame.Buffer

	advances  int
	destroyed []backend.Handle
	onDestroy func(backend.Handle)

	navigations map[backend.Handle][]backend.PageSource
	resizes     []backend.Viewport
	keys        map[backend.Handle][]backend.KeyEvent
	pointers    map[backend.Handle][]backend.PointerEvent
	scrolls     map[backend.Handle][]backend.ScrollEvent
	backs       map[backend.Handle]int
	forwards    map[backend.Handle]int
	reloads     map[backend.Handle]int
	focuses     int
	unfocuses   int
}

func newMockEngine() *mockEngine {
	return &mockEngine{
		live:        make(map[backend.Handle]bool),
		initial:     make(map[backend.Handle]*backend.PageSource),
		loading:     make(map[backend.Handle]bool),
		urls:        make(map[backend.Handle]string),
		titles:      make(map[backend.Handle]string),
		cursors:     make(map[backend.Handle]backend.CursorKind),
		frames:      make(map[backend.Handle]frame.Buffer),
		navigations: make(map[backend.Handle][]backend.PageSource),
		keys:        make(map[backend.Handle][]backend.KeyEvent),
		pointers:    make(map[backend.Handle][]backend.PointerEvent),
		scrolls:     make(map[backend.Handle][]backend.ScrollEvent),
		backs:       make(map[backend.Handle]int),
		forwards:    make(map[backend.Handle]int),
		reloads:     make(map[backend.Handle]int),
	}
}

func (m *mockEngine) CreateView(_ context.Context, _ backend.Viewport, content *backend.PageSource) (backend.Handle, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.nextHandle++
	h := backend.Handle(fmt.Sprintf("mock-%d", m.nextHandle))
	m.live[h] = true
	m.initial[h] = content
	return h, nil
}

func (m *mockEngine) DestroyView(h backend.Handle) {
	if !m.live[h] {
		panic("destroy of unknown handle " + h)
	}
	if m.onDestroy != nil {
		m.onDestroy(h)
	}
	delete(m.live, h)
	m.destroyed = append(m.destroyed, h)
}

func (m *mockEngine) Navigate(h backend.Handle, target backend.PageSource) {
	m.navigations[h] = append(m.navigations[h], target)
}

func (m *mockEngine) Resize(vp backend.Viewport) { m.resizes = append(m.resizes, vp) }
func (m *mockEngine) Advance()                   { m.advances++ }

func (m *mockEngine) Paint(h backend.Handle) (frame.Buffer, bool) {
	buf, ok := m.frames[h]
	if !ok {
		return frame.Buffer{}, false
	}
	delete(m.frames, h)
	return buf, true
}

func (m *mockEngine) IsLoading(h backend.Handle) bool { return m.loading[h] }
func (m *mockEngine) URL(h backend.Handle) string     { return m.urls[h] }
func (m *mockEngine) Title(h backend.Handle) string   { return m.titles[h] }

func (m *mockEngine) CursorHint(h backend.Handle) backend.CursorKind { return m.cursors[h] }

func (m *mockEngine) DeliverKey(h backend.Handle, ev backend.KeyEvent) {
	m.keys[h] = append(m.keys[h], ev)
}

func (m *mockEngine) DeliverPointer(h backend.Handle, ev backend.PointerEvent) {
	m.pointers[h] = append(m.pointers[h], ev)
}

func (m *mockEngine) DeliverScroll(h backend.Handle, ev backend.ScrollEvent) {
	m.scrolls[h] = append(m.scrolls[h], ev)
}

func (m *mockEngine) GoBack(h backend.Handle)    { m.backs[h]++ }
func (m *mockEngine) GoForward(h backend.Handle) { m.forwards[h]++ }
func (m *mockEngine) Reload(h backend.Handle)    { m.reloads[h]++ }
func (m *mockEngine) Focus()                     { m.focuses++ }
func (m *mockEngine) Unfocus()                   { m.unfocuses++ }

// handleOf resolves the engine handle for the nth created view (1-based).
func (m *mockEngine) handleOf(n int) backend.Handle {
	return backend.Handle(fmt.Sprintf("mock-%d", n))
}

// recorder captures every host notification in arrival order.
type recorder struct {
	created []view.ID
	closed  []view.ID
	urls    []string
	titles  []string
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		ViewCreated:  func(id view.ID) { r.created = append(r.created, id) },
		ViewClosed:   func(id view.ID) { r.closed = append(r.closed, id) },
		URLChanged:   func(id view.ID, url string) { r.urls = append(r.urls, url) },
		TitleChanged: func(id view.ID, title string) { r.titles = append(r.titles, title) },
	}
}

var testViewport = backend.Viewport{Width: 32, Height: 16}

func newTestController(t *testing.T) (*Controller, *mockEngine, *recorder) {
	t.Helper()
	engine := newMockEngine()
	rec := &recorder{}
	ctrl := New(engine,
		WithViewport(testViewport),
		WithCallbacks(rec.callbacks()),
	)
	return ctrl, engine, rec
}

// createView dispatches CreateView and returns the assigned ID.
func createView(t *testing.T, ctrl *Controller, source *backend.PageSource) view.ID {
	t.Helper()
	require.NoError(t, ctrl.Dispatch(context.Background(), CreateView{Source: source}))
	id, ok := ctrl.CurrentView()
	require.True(t, ok)
	return id
}

func dispatch(t *testing.T, ctrl *Controller, cmd Command) {
	t.Helper()
	require.NoError(t, ctrl.Dispatch(context.Background(), cmd))
}

func TestCreateViewNotifiesAndStartsWithPlaceholder(t *testing.T) {
	ctrl, _, rec := newTestController(t)

	id := createView(t, ctrl, nil)

	require.Equal(t, []view.ID{id}, rec.created)
	assert.Equal(t, 1, ctrl.ViewCount())

	snap, ok := ctrl.Snapshot(id)
	require.True(t, ok)
	want := frame.Placeholder(testViewport.Width, testViewport.Height)
	assert.Equal(t, want.Pixels, snap.Frame.Pixels, "fresh view shows the solid placeholder")
	assert.Equal(t, testViewport.Width, snap.Frame.Width)
	assert.Equal(t, testViewport.Height, snap.Frame.Height)
}

func TestCreateViewPassesInitialContent(t *testing.T) {
	ctrl, engine, _ := newTestController(t)
	src := backend.URLSource("https://example.test")

	createView(t, ctrl, &src)

	got := engine.initial[engine.handleOf(1)]
	require.NotNil(t, got)
	assert.Equal(t, src, *got)
}

func TestCreateViewAllocationFailurePropagates(t *testing.T) {
	ctrl, engine, rec := newTestController(t)
	sentinel := errors.New("out of render surfaces")
	engine.createErr = sentinel

	err := ctrl.Dispatch(context.Background(), CreateView{})

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Zero(t, ctrl.ViewCount(), "failed creation must not register a view")
	assert.Empty(t, rec.created)
}

func TestCloseViewDetachesBeforeDestroy(t *testing.T) {
	ctrl, engine, rec := newTestController(t)
	id := createView(t, ctrl, nil)

	engine.onDestroy = func(backend.Handle) {
		_, ok := ctrl.Snapshot(id)
		assert.False(t, ok, "view must already be unreachable when the engine tears down")
	}
	dispatch(t, ctrl, CloseView{View: id})

	assert.Equal(t, []backend.Handle{engine.handleOf(1)}, engine.destroyed)
	assert.Equal(t, []view.ID{id}, rec.closed)
	assert.Zero(t, ctrl.ViewCount())
}

func TestCloseViewIdempotent(t *testing.T) {
	ctrl, engine, rec := newTestController(t)
	id := createView(t, ctrl, nil)

	dispatch(t, ctrl, CloseView{View: id})
	dispatch(t, ctrl, CloseView{View: id})

	assert.Len(t, engine.destroyed, 1, "second close must not reach the engine")
	assert.Len(t, rec.closed, 1, "second close must not re-notify")
}

func TestCommandsOnClosedViewAreSilentNoOps(t *testing.T) {
	ctrl, engine, rec := newTestController(t)
	id := createView(t, ctrl, nil)
	dispatch(t, ctrl, CloseView{View: id})

	dispatch(t, ctrl, Navigate{View: id, Source: backend.URLSource("https://gone.test")})
	dispatch(t, ctrl, Reload{View: id})
	dispatch(t, ctrl, GoBack{View: id})
	dispatch(t, ctrl, GoForward{View: id})
	dispatch(t, ctrl, KeyInput{View: id, Event: input.KeyEvent{Key: input.CharKey("a"), Text: "a", Pressed: true}})
	dispatch(t, ctrl, PointerInput{View: id, Event: input.PointerEvent{Kind: input.PointerMove}})
	dispatch(t, ctrl, ScrollInput{View: id, Delta: input.ScrollDelta{Unit: input.UnitLines, Y: 1}})
	dispatch(t, ctrl, ForceRepaint{View: id})

	h := engine.handleOf(1)
	assert.Empty(t, engine.navigations[h])
	assert.Zero(t, engine.reloads[h])
	assert.Zero(t, engine.backs[h])
	assert.Zero(t, engine.forwards[h])
	assert.Empty(t, engine.keys[h])
	assert.Empty(t, engine.pointers[h])
	assert.Empty(t, engine.scrolls[h])
	assert.Len(t, rec.closed, 1)
}

func TestSelectViewTracksCurrent(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	first := createView(t, ctrl, nil)
	second := createView(t, ctrl, nil)

	cur, ok := ctrl.CurrentView()
	require.True(t, ok)
	assert.Equal(t, second, cur, "new views become current")

	dispatch(t, ctrl, SelectView{View: first})
	cur, _ = ctrl.CurrentView()
	assert.Equal(t, first, cur)

	// Closing the current view falls back to the previously current one.
	dispatch(t, ctrl, CloseView{View: first})
	cur, ok = ctrl.CurrentView()
	require.True(t, ok)
	assert.Equal(t, second, cur)

	dispatch(t, ctrl, CloseView{View: second})
	_, ok = ctrl.CurrentView()
	assert.False(t, ok)
}

func TestNavigateReachesEngine(t *testing.T) {
	ctrl, engine, _ := newTestController(t)
	id := createView(t, ctrl, nil)
	src := backend.MarkupSource("<h1>hello</h1>")

	dispatch(t, ctrl, Navigate{View: id, Source: src})

	require.Len(t, engine.navigations[engine.handleOf(1)], 1)
	assert.Equal(t, src, engine.navigations[engine.handleOf(1)][0])
}

func TestKeyInputCharacterAndControlChord(t *testing.T) {
	ctrl, engine, _ := newTestController(t)
	id := createView(t, ctrl, nil)
	h := engine.handleOf(1)

	dispatch(t, ctrl, KeyInput{View: id, Event: input.KeyEvent{
		Key: input.CharKey("a"), Text: "a", Pressed: true,
	}})
	dispatch(t, ctrl, KeyInput{View: id, Event: input.KeyEvent{
		Key: input.CharKey("a"), Text: "a", Modifiers: backend.ModCtrl, Pressed: true,
	}})

	require.Len(t, engine.keys[h], 2)
	assert.Equal(t, backend.KeyChar, engine.keys[h][0].Type)
	assert.Equal(t, "a", engine.keys[h][0].Text)
	assert.Equal(t, backend.KeyRawDown, engine.keys[h][1].Type)
	assert.Empty(t, engine.keys[h][1].Text)
	assert.True(t, engine.keys[h][1].Modifiers.Has(backend.ModCtrl))
}

func TestUnmappedKeyNeverReachesEngine(t *testing.T) {
	ctrl, engine, _ := newTestController(t)
	id := createView(t, ctrl, nil)

	dispatch(t, ctrl, KeyInput{View: id, Event: input.KeyEvent{
		Key: input.CharKey("é"), Text: "é", Pressed: true,
	}})

	assert.Empty(t, engine.keys[engine.handleOf(1)])
}

func TestPointerHistoryButtonsNavigate(t *testing.T) {
	ctrl, engine, _ := newTestController(t)
	id := createView(t, ctrl, nil)
	h := engine.handleOf(1)

	dispatch(t, ctrl, PointerInput{View: id, Event: input.PointerEvent{
		Kind: input.PointerRelease, Button: input.ButtonBack,
	}})
	dispatch(t, ctrl, PointerInput{View: id, Event: input.PointerEvent{
		Kind: input.PointerRelease, Button: input.ButtonForward,
	}})

	assert.Equal(t, 1, engine.backs[h])
	assert.Equal(t, 1, engine.forwards[h])
	assert.Empty(t, engine.pointers[h], "history buttons are not generic pointer events")
}

func TestPointerCrossingTogglesEngineFocus(t *testing.T) {
	ctrl, engine, _ := newTestController(t)
	id := createView(t, ctrl, nil)

	dispatch(t, ctrl, PointerInput{View: id, Event: input.PointerEvent{Kind: input.PointerEnter}})
	dispatch(t, ctrl, PointerInput{View: id, Event: input.PointerEvent{Kind: input.PointerLeave}})

	assert.Equal(t, 1, engine.focuses)
	assert.Equal(t, 1, engine.unfocuses)
}

func TestScrollLinesArriveAsPixels(t *testing.T) {
	ctrl, engine, _ := newTestController(t)
	id := createView(t, ctrl, nil)

	dispatch(t, ctrl, ScrollInput{View: id, Delta: input.ScrollDelta{Unit: input.UnitLines, Y: -3}})

	scrolls := engine.scrolls[engine.handleOf(1)]
	require.Len(t, scrolls, 1)
	assert.Equal(t, int32(-300), scrolls[0].DeltaY)
}

func TestResizeIsGlobal(t *testing.T) {
	ctrl, engine, _ := newTestController(t)
	createView(t, ctrl, nil)
	createView(t, ctrl, nil)
	next := backend.Viewport{Width: 64, Height: 32}

	dispatch(t, ctrl, Resize{Viewport: next})

	assert.Equal(t, []backend.Viewport{next}, engine.resizes)
	assert.Equal(t, next, ctrl.Viewport())

	// Resizing to the size already in effect is absorbed.
	dispatch(t, ctrl, Resize{Viewport: next})
	assert.Len(t, engine.resizes, 1)
}

func TestViewsReportsCachedMetadata(t *testing.T) {
	ctrl, engine, _ := newTestController(t)
	first := createView(t, ctrl, nil)
	second := createView(t, ctrl, nil)

	engine.urls[engine.handleOf(1)] = "https://one.test"
	engine.titles[engine.handleOf(1)] = "One"
	dispatch(t, ctrl, Tick{})

	infos := ctrl.Views()
	require.Len(t, infos, 2)
	assert.Equal(t, first, infos[0].ID)
	assert.Equal(t, "https://one.test", infos[0].URL)
	assert.Equal(t, "One", infos[0].Title)
	assert.False(t, infos[0].Current)
	assert.Equal(t, second, infos[1].ID)
	assert.True(t, infos[1].Current)
}

func TestSnapshotReturnsCursorHint(t *testing.T) {
	ctrl, engine, _ := newTestController(t)
	id := createView(t, ctrl, nil)
	engine.cursors[engine.handleOf(1)] = backend.CursorText

	snap, ok := ctrl.Snapshot(id)
	require.True(t, ok)
	assert.Equal(t, backend.CursorText, snap.Cursor)
}

func TestSnapshotFrameIsACopy(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	id := createView(t, ctrl, nil)

	snap, ok := ctrl.Snapshot(id)
	require.True(t, ok)
	snap.Frame.Pixels[0] = 0x00

	again, _ := ctrl.Snapshot(id)
	assert.EqualValues(t, 0xFF, again.Frame.Pixels[0], "host mutation must not reach the view's frame")
}
