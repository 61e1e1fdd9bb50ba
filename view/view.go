// Package view tracks the set of live views in a session: identity
// allocation, per-view render state, and current-view selection.
package view

import (
	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/frame"
)

// ID identifies a view for the session's lifetime. IDs are allocated from a
// monotonic counter and never reused, so a stale ID held after close can
// never alias a newer view.
type ID uint64

// View is the session-side record of one engine view.
type View struct {
	ID     ID
	Handle backend.Handle

	// LastFrame is the most recent composed frame, seeded with a
	// placeholder at creation so the view is presentable before the
	// engine produces pixels.
	LastFrame frame.Buffer

	// CachedURL and CachedTitle hold the engine metadata observed on the
	// last tick, used to detect changes worth notifying.
	CachedURL   string
	CachedTitle string

	// Loading mirrors the engine's loading state from the last tick.
	Loading bool

	// NeedsRepaint marks the view dirty: the next tick must attempt a
	// fresh paint even if the engine volunteers nothing.
	NeedsRepaint bool

	// Pointer replay state. When HasPointer is set, the last known pointer
	// position is re-sent before paint so hover effects render at the
	// right spot.
	PointerX   int32
	PointerY   int32
	HasPointer bool
}
