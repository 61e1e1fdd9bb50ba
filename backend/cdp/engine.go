// Package cdp renders views with a real Chrome or Chromium browser driven
// over the DevTools protocol.
//
// Each view is one browser tab. Protocol calls block on the browser
// process, so every tab runs a worker goroutine that drains a queue of
// operations; the engine methods themselves only enqueue work and return,
// which keeps Advance and Paint non-blocking the way the session requires.
// Frames arrive as PNG screenshots captured on a throttled cadence and are
// handed to the session exactly once each.
package cdp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/frame"
)

func init() {
	backend.Register(backend.EngineCDP, func() (backend.Engine, error) {
		return New()
	})
}

// Options configures the browser engine.
type Options struct {
	// ExecPath points at the Chrome binary; empty auto-detects.
	ExecPath string

	// Headless runs the browser without a window. On by default: the host
	// presents frames itself, a visible browser window would double them.
	Headless bool

	// CaptureInterval is the minimum time between screenshot captures per
	// tab. Screenshots are the expensive protocol call; the interval bounds
	// the background cost of an idle session.
	CaptureInterval time.Duration

	// StartupTimeout bounds how long view creation waits for the browser.
	StartupTimeout time.Duration

	Logger *zap.Logger
}

// DefaultOptions returns the settings used by the registry factory.
func DefaultOptions() Options {
	return Options{
		Headless:        true,
		CaptureInterval: 150 * time.Millisecond,
		StartupTimeout:  20 * time.Second,
	}
}

// Engine drives one browser process with one tab per view.
type Engine struct {
	opts    Options
	logger  *zap.Logger
	limiter *rate.Limiter

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	viewport    backend.Viewport
	tabs        map[backend.Handle]*tab
	closed      bool
}

// New builds an engine with default options.
func New() (*Engine, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions builds an engine. The browser process itself starts
// lazily with the first view, so construction cannot tell whether Chrome is
// even installed; that failure surfaces from CreateView.
func NewWithOptions(o Options) (*Engine, error) {
	if o.CaptureInterval <= 0 {
		o.CaptureInterval = DefaultOptions().CaptureInterval
	}
	if o.StartupTimeout <= 0 {
		o.StartupTimeout = DefaultOptions().StartupTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-service-autorun", true),
		chromedp.Flag("password-store", "basic"),
		chromedp.Flag("use-mock-keychain", true),
		chromedp.Flag("mute-audio", true),
		// Scrollbars belong to the host chrome, not the captured frame.
		chromedp.Flag("hide-scrollbars", true),
	}
	if o.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}
	if o.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(o.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	return &Engine{
		opts:        o,
		logger:      o.Logger,
		limiter:     rate.NewLimiter(rate.Limit(30), 8),
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		tabs:        make(map[backend.Handle]*tab),
	}, nil
}

// CreateView opens a tab sized to the viewport. The first view also boots
// the browser process, which is where a missing or broken Chrome install
// shows up.
func (e *Engine) CreateView(ctx context.Context, vp backend.Viewport, content *backend.PageSource) (backend.Handle, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return "", fmt.Errorf("create view: engine closed")
	}
	allocCtx := e.allocCtx
	e.viewport = vp
	e.mu.Unlock()

	h := backend.Handle("tab-" + uuid.NewString())
	t := newTab(h, allocCtx, e.logger.With(zap.String("handle", string(h))))

	startCtx, cancel := e.startupContext(ctx, t.ctx)
	defer cancel()
	if err := chromedp.Run(startCtx,
		chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height)),
	); err != nil {
		t.stop()
		return "", fmt.Errorf("allocate browser tab: %w", err)
	}

	e.mu.Lock()
	e.tabs[h] = t
	e.mu.Unlock()

	if content != nil {
		t.beginNavigate(*content)
	}
	return h, nil
}

// startupContext bounds tab startup by the caller's deadline when one is
// set, otherwise by the configured timeout.
func (e *Engine) startupContext(caller, tabCtx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := caller.Deadline(); ok {
		return context.WithDeadline(tabCtx, deadline)
	}
	return context.WithTimeout(tabCtx, e.opts.StartupTimeout)
}

// DestroyView closes the tab, abandoning any load in flight.
func (e *Engine) DestroyView(h backend.Handle) {
	e.mu.Lock()
	t, ok := e.tabs[h]
	if !ok {
		e.mu.Unlock()
		panic("cdp: unknown view handle " + string(h))
	}
	delete(e.tabs, h)
	e.mu.Unlock()
	t.stop()
}

// Navigate starts loading target in the tab.
func (e *Engine) Navigate(h backend.Handle, target backend.PageSource) {
	e.mustTab(h).beginNavigate(target)
}

// Resize re-emulates the viewport on every tab and discards captured
// frames taken at the old size.
func (e *Engine) Resize(vp backend.Viewport) {
	e.mu.Lock()
	e.viewport = vp
	tabs := e.tabList()
	e.mu.Unlock()
	for _, t := range tabs {
		t.applyViewport(vp)
	}
}

// Advance schedules screenshot captures for tabs whose cadence allows one.
// The captures themselves run on the tab workers; this call never blocks on
// the browser.
func (e *Engine) Advance() {
	e.mu.Lock()
	tabs := e.tabList()
	interval := e.opts.CaptureInterval
	e.mu.Unlock()
	for _, t := range tabs {
		t.maybeCapture(e.limiter, interval)
	}
}

// Paint hands out the most recently captured frame, once.
func (e *Engine) Paint(h backend.Handle) (frame.Buffer, bool) {
	t := e.mustTab(h)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pendingFrame == nil {
		return frame.Buffer{}, false
	}
	buf := *t.pendingFrame
	t.pendingFrame = nil
	return buf, true
}

// IsLoading reports whether the tab has a navigation in flight.
func (e *Engine) IsLoading(h backend.Handle) bool {
	t := e.mustTab(h)
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// URL returns the tab's last known location, empty before first navigation.
func (e *Engine) URL(h backend.Handle) string {
	t := e.mustTab(h)
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.url
}

// Title returns the tab's last known title, empty before first load.
func (e *Engine) Title(h backend.Handle) string {
	t := e.mustTab(h)
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.title
}

// CursorHint returns the CSS cursor probed under the pointer during the
// last capture.
func (e *Engine) CursorHint(h backend.Handle) backend.CursorKind {
	t := e.mustTab(h)
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor
}

// DeliverKey forwards a key event to the tab.
func (e *Engine) DeliverKey(h backend.Handle, ev backend.KeyEvent) {
	t := e.mustTab(h)
	t.dispatchKey(ev)
}

// DeliverPointer forwards a pointer event. Motion is coalesced: at most one
// move waits in the tab queue and it always carries the newest coordinates.
func (e *Engine) DeliverPointer(h backend.Handle, ev backend.PointerEvent) {
	t := e.mustTab(h)
	if ev.Type == backend.PointerMoved {
		t.queueMove(ev.X, ev.Y)
		return
	}
	t.dispatchPointer(ev)
}

// DeliverScroll forwards a scroll wheel event at the last pointer position.
func (e *Engine) DeliverScroll(h backend.Handle, ev backend.ScrollEvent) {
	e.mustTab(h).dispatchScroll(ev)
}

// GoBack steps the tab's history backwards; a no-op at the oldest entry.
func (e *Engine) GoBack(h backend.Handle) { e.mustTab(h).historyStep(-1) }

// GoForward steps the tab's history forwards; a no-op at the newest entry.
func (e *Engine) GoForward(h backend.Handle) { e.mustTab(h).historyStep(1) }

// Reload reloads the tab's current page.
func (e *Engine) Reload(h backend.Handle) { e.mustTab(h).beginReload() }

// Focus enables focus emulation everywhere: the session is one logical
// window, so focus is not a per-view affair.
func (e *Engine) Focus() { e.setFocus(true) }

// Unfocus disables focus emulation everywhere.
func (e *Engine) Unfocus() { e.setFocus(false) }

func (e *Engine) setFocus(focused bool) {
	e.mu.Lock()
	tabs := e.tabList()
	e.mu.Unlock()
	for _, t := range tabs {
		t.applyFocus(focused)
	}
}

// Close tears down every tab and the browser process. The engine cannot be
// used afterwards. Hosts reach this through io.Closer; the session itself
// never closes engines.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	tabs := e.tabList()
	e.tabs = make(map[backend.Handle]*tab)
	e.mu.Unlock()

	for _, t := range tabs {
		t.stop()
	}
	e.allocCancel()
	return nil
}

// tabList snapshots the tab set; callers hold e.mu.
func (e *Engine) tabList() []*tab {
	out := make([]*tab, 0, len(e.tabs))
	for _, t := range e.tabs {
		out = append(out, t)
	}
	return out
}

func (e *Engine) mustTab(h backend.Handle) *tab {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tabs[h]
	if !ok {
		panic("cdp: unknown view handle " + string(h))
	}
	return t
}
