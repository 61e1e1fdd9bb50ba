package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/frame"
	"github.com/GriffinCanCode/WebPane/input"
	"github.com/GriffinCanCode/WebPane/view"
)

// DefaultViewport is the render size used when the host never resizes.
var DefaultViewport = backend.Viewport{Width: 1280, Height: 720}

// Callbacks are the host notification slots, one per notification kind, set
// once at construction. A nil slot means the host does not care about that
// notification class. Callbacks run synchronously inside Dispatch and must
// not re-enter the controller.
type Callbacks struct {
	ViewCreated  func(id view.ID)
	ViewClosed   func(id view.ID)
	URLChanged   func(id view.ID, url string)
	TitleChanged func(id view.ID, title string)
}

// Controller is the session state machine. It exclusively owns the engine
// and the view registry; all mutation flows through Dispatch.
type Controller struct {
	engine    backend.Engine
	views     *view.Registry
	viewport  backend.Viewport
	callbacks Callbacks
	logger    *zap.Logger
	metrics   *Metrics
}

// Option configures a Controller.
type Option func(*Controller)

// WithViewport sets the initial render size.
func WithViewport(vp backend.Viewport) Option {
	return func(c *Controller) { c.viewport = vp }
}

// WithCallbacks registers the host notification slots.
func WithCallbacks(cb Callbacks) Option {
	return func(c *Controller) { c.callbacks = cb }
}

// WithLogger sets the session logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// New builds a controller around an engine. The controller assumes
// exclusive ownership: no other code may call the engine once it is handed
// over.
func New(engine backend.Engine, opts ...Option) *Controller {
	c := &Controller{
		engine:   engine,
		views:    view.NewRegistry(),
		viewport: DefaultViewport,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch processes one command. Commands referencing a view that no
// longer exists are dropped silently: a view can legitimately close between
// the time a command was produced and the time it is processed. Only
// CreateView reports failure, when the engine cannot allocate a view.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) error {
	c.metrics.observeCommand(commandName(cmd))
	switch cmd := cmd.(type) {
	case CreateView:
		return c.createView(ctx, cmd.Source)
	case CloseView:
		c.closeView(cmd.View)
	case SelectView:
		c.views.SetCurrent(cmd.View)
	case Navigate:
		c.navigate(cmd.View, cmd.Source)
	case Reload:
		c.historyOp(cmd.View, c.engine.Reload)
	case GoBack:
		c.historyOp(cmd.View, c.engine.GoBack)
	case GoForward:
		c.historyOp(cmd.View, c.engine.GoForward)
	case KeyInput:
		c.keyInput(cmd.View, cmd.Event)
	case PointerInput:
		c.pointerInput(cmd.View, cmd.Event)
	case ScrollInput:
		c.scrollInput(cmd.View, cmd.Delta)
	case Resize:
		c.resize(cmd.Viewport)
	case Tick:
		c.tick()
	case ForceRepaint:
		c.forceRepaint(cmd.View)
	default:
		c.logger.Warn("unknown command dropped", zap.String("command", fmt.Sprintf("%T", cmd)))
	}
	return nil
}

func (c *Controller) createView(ctx context.Context, source *backend.PageSource) error {
	handle, err := c.engine.CreateView(ctx, c.viewport, source)
	if err != nil {
		c.logger.Error("view creation failed", zap.Error(err))
		return fmt.Errorf("create view: %w", err)
	}
	v := c.views.Insert(handle, c.viewport)
	c.logger.Info("view created",
		zap.Uint64("view_id", uint64(v.ID)),
		zap.Int("views", c.views.Len()),
	)
	c.metrics.observeViewOpened(c.views.Len())
	c.notifyCreated(v.ID)
	return nil
}

func (c *Controller) closeView(id view.ID) {
	// Detach before destroying: once removal begins the registry never
	// exposes the view again, even if engine teardown misbehaves.
	handle, ok := c.views.Remove(id)
	if !ok {
		return
	}
	c.engine.DestroyView(handle)
	c.logger.Info("view closed",
		zap.Uint64("view_id", uint64(id)),
		zap.Int("views", c.views.Len()),
	)
	c.metrics.observeViewClosed(c.views.Len())
	c.notifyClosed(id)
}

func (c *Controller) navigate(id view.ID, source backend.PageSource) {
	v, ok := c.views.Get(id)
	if !ok {
		return
	}
	c.engine.Navigate(v.Handle, source)
	v.NeedsRepaint = true
}

// historyOp runs a handle-taking engine call (reload, back, forward)
// against a view, dropping stale IDs.
func (c *Controller) historyOp(id view.ID, op func(backend.Handle)) {
	v, ok := c.views.Get(id)
	if !ok {
		return
	}
	op(v.Handle)
	v.NeedsRepaint = true
}

func (c *Controller) keyInput(id view.ID, ev input.KeyEvent) {
	v, ok := c.views.Get(id)
	if !ok {
		return
	}
	out, ok := input.TranslateKey(ev)
	if !ok {
		c.metrics.observeDroppedInput("key")
		return
	}
	c.engine.DeliverKey(v.Handle, out)
	v.NeedsRepaint = true
}

func (c *Controller) pointerInput(id view.ID, ev input.PointerEvent) {
	v, ok := c.views.Get(id)
	if !ok {
		return
	}
	res := input.TranslatePointer(ev)
	switch res.Op {
	case input.PointerDeliver:
		if res.Event.Type == backend.PointerMoved {
			v.PointerX, v.PointerY = res.Event.X, res.Event.Y
			v.HasPointer = true
		}
		c.engine.DeliverPointer(v.Handle, res.Event)
	case input.PointerHistoryBack:
		c.engine.GoBack(v.Handle)
	case input.PointerHistoryForward:
		c.engine.GoForward(v.Handle)
	case input.PointerFocus:
		c.engine.Focus()
	case input.PointerUnfocus:
		c.engine.Unfocus()
	default:
		c.metrics.observeDroppedInput("pointer")
		return
	}
	v.NeedsRepaint = true
}

func (c *Controller) scrollInput(id view.ID, delta input.ScrollDelta) {
	v, ok := c.views.Get(id)
	if !ok {
		return
	}
	c.engine.DeliverScroll(v.Handle, input.TranslateScroll(delta))
	v.NeedsRepaint = true
}

func (c *Controller) resize(vp backend.Viewport) {
	if vp == c.viewport {
		return
	}
	c.viewport = vp
	c.engine.Resize(vp)
	for _, v := range c.views.List() {
		v.NeedsRepaint = true
	}
	c.logger.Info("session resized",
		zap.Uint32("width", vp.Width),
		zap.Uint32("height", vp.Height),
	)
}

// Snapshot is the read-only pair a host needs to present a view: the last
// composed frame and the pointer icon to show over it.
type Snapshot struct {
	Frame  frame.Buffer
	Cursor backend.CursorKind
}

// Snapshot returns a copy of a view's presentation state. The frame is
// cloned so hosts can hold it across later ticks. Unknown IDs return false.
func (c *Controller) Snapshot(id view.ID) (Snapshot, bool) {
	v, ok := c.views.Get(id)
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Frame:  v.LastFrame.Clone(),
		Cursor: c.engine.CursorHint(v.Handle),
	}, true
}

// ViewInfo is the host-visible summary of one view, shaped for JSON
// transports.
type ViewInfo struct {
	ID      view.ID `json:"id"`
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Loading bool    `json:"loading"`
	Current bool    `json:"current"`
}

// Views lists live views in creation order with their last-observed
// metadata.
func (c *Controller) Views() []ViewInfo {
	currentID, hasCurrent := c.CurrentView()
	views := c.views.List()
	out := make([]ViewInfo, 0, len(views))
	for _, v := range views {
		out = append(out, ViewInfo{
			ID:      v.ID,
			URL:     v.CachedURL,
			Title:   v.CachedTitle,
			Loading: v.Loading,
			Current: hasCurrent && v.ID == currentID,
		})
	}
	return out
}

// CurrentView reports which view is current, if any.
func (c *Controller) CurrentView() (view.ID, bool) {
	v, ok := c.views.Current()
	if !ok {
		return 0, false
	}
	return v.ID, true
}

// ViewCount reports the number of live views.
func (c *Controller) ViewCount() int { return c.views.Len() }

// Viewport reports the current render size.
func (c *Controller) Viewport() backend.Viewport { return c.viewport }

func (c *Controller) notifyCreated(id view.ID) {
	c.metrics.observeNotification("view_created")
	if c.callbacks.ViewCreated != nil {
		c.callbacks.ViewCreated(id)
	}
}

func (c *Controller) notifyClosed(id view.ID) {
	c.metrics.observeNotification("view_closed")
	if c.callbacks.ViewClosed != nil {
		c.callbacks.ViewClosed(id)
	}
}

func (c *Controller) notifyURL(id view.ID, url string) {
	c.metrics.observeNotification("url_changed")
	if c.callbacks.URLChanged != nil {
		c.callbacks.URLChanged(id, url)
	}
}

func (c *Controller) notifyTitle(id view.ID, title string) {
	c.metrics.observeNotification("title_changed")
	if c.callbacks.TitleChanged != nil {
		c.callbacks.TitleChanged(id, title)
	}
}
