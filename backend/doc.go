// Package backend defines the capability contract rendering engines
// implement, and the registry hosts use to select one.
//
// Key Components:
//   - Engine: the interface every rendering backend satisfies (view
//     creation, navigation, input delivery, frame production, metadata)
//   - Handle: backend-private view reference, opaque above this boundary
//   - PageSource: URL or literal-markup content for a view
//   - KeyEvent/PointerEvent/ScrollEvent: the native input vocabulary
//   - Register/New/Default: the engine factory registry
//
// Engines are swappable strategy objects behind one fixed interface: the
// interface's shape never varies by backend. The session layer above
// guarantees every handle it passes down came from a still-live CreateView
// on the same engine, so implementations are free to fail fast on foreign
// handles instead of validating provenance.
package backend
