package view

import (
	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/frame"
)

// Registry owns view identity and lookup. It is not safe for concurrent
// use; the session serializes access.
type Registry struct {
	nextID ID
	views  map[ID]*View

	// order preserves insertion order for stable listings.
	order []ID

	// recency is a focus stack: the last element is the current view, and
	// closing it falls back to the most recently current survivor.
	recency []ID
}

// NewRegistry returns an empty registry. The first allocated ID is 1, so
// the zero ID stays free as a sentinel.
func NewRegistry() *Registry {
	return &Registry{
		nextID: 1,
		views:  make(map[ID]*View),
	}
}

// Insert allocates a fresh ID for an engine view and records it. The new
// view starts with a placeholder frame, is marked dirty, and becomes
// current.
func (r *Registry) Insert(handle backend.Handle, vp backend.Viewport) *View {
	id := r.nextID
	r.nextID++
	v := &View{
		ID:           id,
		Handle:       handle,
		LastFrame:    frame.Placeholder(vp.Width, vp.Height),
		NeedsRepaint: true,
	}
	r.views[id] = v
	r.order = append(r.order, id)
	r.recency = append(r.recency, id)
	return v
}

// Get looks up a view by ID. Stale and unknown IDs return (nil, false).
func (r *Registry) Get(id ID) (*View, bool) {
	v, ok := r.views[id]
	return v, ok
}

// Remove detaches a view from the registry and returns its engine handle.
// After Remove the ID is permanently stale: it will never resolve again and
// never be reallocated. Callers destroy the engine view with the returned
// handle after detaching, so a failure mid-teardown cannot leave a
// registered view pointing at a dead engine resource.
func (r *Registry) Remove(id ID) (backend.Handle, bool) {
	v, ok := r.views[id]
	if !ok {
		return "", false
	}
	delete(r.views, id)
	r.order = removeID(r.order, id)
	r.recency = removeID(r.recency, id)
	return v.Handle, true
}

// SetCurrent makes id the current view. Unknown IDs are ignored and return
// false.
func (r *Registry) SetCurrent(id ID) bool {
	if _, ok := r.views[id]; !ok {
		return false
	}
	r.recency = removeID(r.recency, id)
	r.recency = append(r.recency, id)
	return true
}

// Current returns the current view, or (nil, false) when no views remain.
// The current view is the top of the recency stack, so closing it promotes
// the view that was most recently current before it.
func (r *Registry) Current() (*View, bool) {
	if len(r.recency) == 0 {
		return nil, false
	}
	return r.views[r.recency[len(r.recency)-1]], true
}

// List returns the live views in insertion order.
func (r *Registry) List() []*View {
	out := make([]*View, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.views[id])
	}
	return out
}

// Len reports the number of live views.
func (r *Registry) Len() int { return len(r.views) }

func removeID(ids []ID, id ID) []ID {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
