package backend

import (
	"context"

	"github.com/GriffinCanCode/WebPane/frame"
)

// Handle is a backend-private reference to one of its view instances. It is
// opaque to everything above the engine boundary; the view registry holds
// one per view on the session's behalf and never exposes it to hosts.
type Handle string

// Viewport is the process-wide render size. One session renders at one
// size; per-view sizing is deliberately unsupported.
type Viewport struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// SourceKind discriminates PageSource variants.
type SourceKind int

const (
	// SourceURL loads a page by URL.
	SourceURL SourceKind = iota
	// SourceMarkup loads literal markup content.
	SourceMarkup
)

// PageSource is one of the two ways to populate a view's content.
type PageSource struct {
	Kind  SourceKind
	Value string
}

// URLSource returns a PageSource that loads the given URL.
func URLSource(url string) PageSource {
	return PageSource{Kind: SourceURL, Value: url}
}

// MarkupSource returns a PageSource that loads literal markup.
func MarkupSource(markup string) PageSource {
	return PageSource{Kind: SourceMarkup, Value: markup}
}

// CursorKind hints which pointer icon the host should display over a view.
type CursorKind int

const (
	CursorDefault CursorKind = iota
	CursorPointer
	CursorText
	CursorGrab
	CursorGrabbing
	CursorCrosshair
	CursorProgress
	CursorNotAllowed
	CursorZoomIn
	CursorResizeNS
	CursorResizeEW
)

// String returns the CSS-style cursor name.
func (c CursorKind) String() string {
	switch c {
	case CursorPointer:
		return "pointer"
	case CursorText:
		return "text"
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	case CursorCrosshair:
		return "crosshair"
	case CursorProgress:
		return "progress"
	case CursorNotAllowed:
		return "not-allowed"
	case CursorZoomIn:
		return "zoom-in"
	case CursorResizeNS:
		return "ns-resize"
	case CursorResizeEW:
		return "ew-resize"
	default:
		return "default"
	}
}

// Engine is the contract every rendering backend satisfies. The session
// layer drives it strictly sequentially; engines may use worker threads or
// async I/O internally but expose no async surface here: Advance and Paint
// are synchronous best-effort calls that may simply report nothing new.
type Engine interface {
	// CreateView allocates backend view state sized to the viewport. When
	// content is non-nil the view begins loading it; progress is observed
	// through IsLoading/URL/Title, never by blocking here.
	CreateView(ctx context.Context, vp Viewport, content *PageSource) (Handle, error)

	// DestroyView releases all backend resources for the handle, including
	// loads still in flight. Unknown handles are a programming error and
	// fail fast.
	DestroyView(h Handle)

	// Navigate begins loading target, replacing current content and setting
	// the loading state.
	Navigate(h Handle, target PageSource)

	// Resize applies the viewport to all live views.
	Resize(vp Viewport)

	// Advance pumps the backend's internal processing one step. It runs
	// every tick and must stay cheap when nothing changed.
	Advance()

	// Paint returns freshly rendered pixels when the backend has new
	// content to offer. A false return means no new frame; the caller keeps
	// the previous one.
	Paint(h Handle) (frame.Buffer, bool)

	// Metadata queries. Each tolerates being called before the first paint
	// and returns a well-defined zero value instead of failing.
	IsLoading(h Handle) bool
	URL(h Handle) string
	Title(h Handle) string
	CursorHint(h Handle) CursorKind

	// Input delivery. No return values; effects surface on a later Paint.
	DeliverKey(h Handle, ev KeyEvent)
	DeliverPointer(h Handle, ev PointerEvent)
	DeliverScroll(h Handle, ev ScrollEvent)

	// History controls; no-ops when history is empty in that direction.
	GoBack(h Handle)
	GoForward(h Handle)
	Reload(h Handle)

	// Focus hints for cursor-blink and keyboard-routing semantics inside
	// the backend. Global across views: the session is one logical window.
	Focus()
	Unfocus()
}
