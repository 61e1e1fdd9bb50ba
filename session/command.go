package session

import (
	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/input"
	"github.com/GriffinCanCode/WebPane/view"
)

// Command is the session's action vocabulary. The set is closed: hosts
// compose behavior from these commands rather than extending them.
type Command interface {
	isCommand()
}

// CreateView allocates a new view, optionally loading initial content. The
// new view becomes current and the view-created notification carries its ID.
// This is the only command whose failure surfaces as a Dispatch error.
type CreateView struct {
	Source *backend.PageSource
}

// CloseView destroys a view. Closing an unknown or already-closed ID is a
// no-op with no notification.
type CloseView struct {
	View view.ID
}

// SelectView makes a view current. Unknown IDs are ignored.
type SelectView struct {
	View view.ID
}

// Navigate loads new content into a view, replacing what it shows.
type Navigate struct {
	View   view.ID
	Source backend.PageSource
}

// Reload reloads a view's current content.
type Reload struct {
	View view.ID
}

// GoBack navigates a view's history backwards; a no-op at the oldest entry.
type GoBack struct {
	View view.ID
}

// GoForward navigates a view's history forwards; a no-op at the newest
// entry.
type GoForward struct {
	View view.ID
}

// KeyInput delivers a host keyboard event to a view.
type KeyInput struct {
	View  view.ID
	Event input.KeyEvent
}

// PointerInput delivers a host pointer event to a view.
type PointerInput struct {
	View  view.ID
	Event input.PointerEvent
}

// ScrollInput delivers a host scroll delta to a view.
type ScrollInput struct {
	View  view.ID
	Delta input.ScrollDelta
}

// Resize changes the session viewport. The size applies to every view;
// per-view sizing is unsupported.
type Resize struct {
	Viewport backend.Viewport
}

// Tick drives one scheduling pass: pump the engine, refresh stale frames,
// emit url/title change notifications. Hosts call this from their own loop.
type Tick struct{}

// ForceRepaint paints a view unconditionally, ignoring loading and dirty
// state. Used right after creation when the engine's own dirty signal
// cannot be trusted yet.
type ForceRepaint struct {
	View view.ID
}

func (CreateView) isCommand()   {}
func (CloseView) isCommand()    {}
func (SelectView) isCommand()   {}
func (Navigate) isCommand()     {}
func (Reload) isCommand()       {}
func (GoBack) isCommand()       {}
func (GoForward) isCommand()    {}
func (KeyInput) isCommand()     {}
func (PointerInput) isCommand() {}
func (ScrollInput) isCommand()  {}
func (Resize) isCommand()       {}
func (Tick) isCommand()         {}
func (ForceRepaint) isCommand() {}

// commandName labels commands for logs and metrics.
func commandName(cmd Command) string {
	switch cmd.(type) {
	case CreateView:
		return "create_view"
	case CloseView:
		return "close_view"
	case SelectView:
		return "select_view"
	case Navigate:
		return "navigate"
	case Reload:
		return "reload"
	case GoBack:
		return "go_back"
	case GoForward:
		return "go_forward"
	case KeyInput:
		return "key_input"
	case PointerInput:
		return "pointer_input"
	case ScrollInput:
		return "scroll_input"
	case Resize:
		return "resize"
	case Tick:
		return "tick"
	case ForceRepaint:
		return "force_repaint"
	default:
		return "unknown"
	}
}
