// Package session implements the multi-view browser session controller.
//
// A session owns one rendering engine and the set of views drawn by it. The
// host drives the session through commands and reads results back through
// snapshots and notification callbacks; it never touches views or engine
// handles directly.
//
// Components:
//   - Controller: Command dispatch, view lifecycle, notification diffing
//   - Command: The canonical action vocabulary (create, close, navigate,
//     input, resize, tick, force repaint)
//   - Callbacks: Optional host notification slots (view created/closed,
//     url/title changed)
//   - Snapshot: Read-only (frame, cursor) pair for host painting
//   - Metrics: Prometheus instrumentation for dispatch and paint activity
//
// Render Scheduling:
//  1. Tick pumps the engine once, then visits every view
//  2. Loading views display a placeholder, never a half-stale frame
//  3. Idle views attempt a paint; an empty paint keeps the previous frame
//  4. ForceRepaint paints unconditionally, bypassing the loading gate
//
// Concurrency:
//
// The controller is single-threaded by design. Commands are processed
// strictly sequentially and Tick is invoked by the host's own loop, so no
// locking exists at this layer; a host that receives events concurrently
// must serialize them before dispatching. Engines may be concurrent
// internally but expose only synchronous, non-blocking calls here.
//
// Example Usage:
//
//	engine, _ := backend.New(backend.EngineSim)
//	ctrl := session.New(engine, session.WithCallbacks(session.Callbacks{
//		TitleChanged: func(id view.ID, title string) { setTabLabel(id, title) },
//	}))
//	_ = ctrl.Dispatch(ctx, session.CreateView{Source: &homepage})
//	for range time.Tick(100 * time.Millisecond) {
//		_ = ctrl.Dispatch(ctx, session.Tick{})
//		if snap, ok := ctrl.Snapshot(mustCurrent(ctrl)); ok {
//			blit(snap.Frame)
//		}
//	}
package session
