package cdp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/frame"
)

// opQueueDepth bounds outstanding work per tab. A full queue sheds the
// newest op instead of blocking the session thread.
const opQueueDepth = 64

// tab is one browser tab and the goroutine that talks to it. All protocol
// calls run on the worker; everything else only enqueues and touches state
// under mu.
type tab struct {
	handle backend.Handle
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	ops    chan func(context.Context)
	done   chan struct{}

	mu           sync.Mutex
	stopped      bool
	loading      bool
	url          string
	title        string
	cursor       backend.CursorKind
	pendingFrame *frame.Buffer
	capturing    bool
	lastCapture  time.Time
	mainFrame    cdp.FrameID

	moveX, moveY int32
	hasMove      bool
	moveQueued   bool
}

func newTab(h backend.Handle, allocCtx context.Context, logger *zap.Logger) *tab {
	ctx, cancel := chromedp.NewContext(allocCtx)
	t := &tab{
		handle: h,
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
		ops:    make(chan func(context.Context), opQueueDepth),
		done:   make(chan struct{}),
	}
	chromedp.ListenTarget(ctx, t.handleEvent)
	go t.worker()
	return t
}

func (t *tab) worker() {
	defer close(t.done)
	for op := range t.ops {
		op(t.ctx)
	}
}

// enqueue hands work to the worker. It reports false when the tab is
// stopped or saturated; callers that flagged state for the op must unwind
// it on false.
func (t *tab) enqueue(op func(context.Context)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	select {
	case t.ops <- op:
		return true
	default:
		return false
	}
}

// stop shuts the tab down: no new ops, cancel whatever is mid-flight, wait
// for the worker to drain. Safe to call twice.
func (t *tab) stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.mu.Unlock()

	t.cancel()
	close(t.ops)
	<-t.done
}

// runOp enqueues a chromedp action sequence, logging failures that are not
// plain teardown.
func (t *tab) runOp(name string, actions ...chromedp.Action) bool {
	return t.enqueue(func(ctx context.Context) {
		if err := chromedp.Run(ctx, actions...); err != nil && !errors.Is(err, context.Canceled) {
			t.logger.Debug("browser operation failed",
				zap.String("op", name),
				zap.Error(err),
			)
		}
	})
}

// handleEvent tracks loading state and location from protocol events. It
// runs on the browser message goroutine and must not block, so heavier
// follow-ups are enqueued.
func (t *tab) handleEvent(ev interface{}) {
	switch ev := ev.(type) {
	case *page.EventFrameStartedLoading:
		if t.isMainFrame(ev.FrameID) {
			t.setLoading(true)
		}
	case *page.EventFrameStoppedLoading:
		if t.isMainFrame(ev.FrameID) {
			t.setLoading(false)
			t.refreshMetadata()
		}
	case *page.EventLoadEventFired:
		t.setLoading(false)
		t.refreshMetadata()
	case *page.EventFrameNavigated:
		if ev.Frame == nil || ev.Frame.ParentID != "" {
			return
		}
		t.mu.Lock()
		t.mainFrame = ev.Frame.ID
		t.url = ev.Frame.URL
		t.mu.Unlock()
	}
}

// isMainFrame filters subframe churn out of the loading signal. Before the
// first navigation the main frame is unknown and everything counts.
func (t *tab) isMainFrame(id cdp.FrameID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mainFrame == "" || id == t.mainFrame
}

func (t *tab) setLoading(loading bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loading == loading {
		return
	}
	t.loading = loading
	if loading {
		// Pixels from before the navigation must not surface after it.
		t.pendingFrame = nil
	} else {
		// Capture promptly now that the page settled.
		t.lastCapture = time.Time{}
	}
}

// refreshMetadata pulls location and title after a load settles, so hosts
// see them on the next tick instead of the next capture.
func (t *tab) refreshMetadata() {
	t.enqueue(func(ctx context.Context) {
		var loc, title string
		if err := chromedp.Run(ctx, chromedp.Location(&loc), chromedp.Title(&title)); err != nil {
			return
		}
		t.mu.Lock()
		t.url, t.title = loc, title
		t.mu.Unlock()
	})
}

func (t *tab) beginNavigate(target backend.PageSource) {
	t.mu.Lock()
	t.loading = true
	t.pendingFrame = nil
	t.mu.Unlock()

	ok := t.runOp("navigate", chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, errText, _, err := page.Navigate(navigationURL(target)).Do(ctx)
		if err != nil {
			return err
		}
		if errText != "" {
			return fmt.Errorf("navigation rejected: %s", errText)
		}
		return nil
	}))
	if !ok {
		t.setLoading(false)
	}
}

func (t *tab) beginReload() {
	t.mu.Lock()
	t.loading = true
	t.pendingFrame = nil
	t.mu.Unlock()

	ok := t.runOp("reload", chromedp.ActionFunc(func(ctx context.Context) error {
		return page.Reload().Do(ctx)
	}))
	if !ok {
		t.setLoading(false)
	}
}

// historyStep moves delta entries through the navigation history. Steps
// past either end find no entry and do nothing, matching engines where
// history edges are silent.
func (t *tab) historyStep(delta int64) {
	t.runOp("history", chromedp.ActionFunc(func(ctx context.Context) error {
		current, entries, err := page.GetNavigationHistory().Do(ctx)
		if err != nil {
			return err
		}
		idx := current + delta
		if idx < 0 || idx >= int64(len(entries)) {
			return nil
		}
		t.mu.Lock()
		t.loading = true
		t.pendingFrame = nil
		t.mu.Unlock()
		return page.NavigateToHistoryEntry(entries[idx].ID).Do(ctx)
	}))
}

func (t *tab) applyViewport(vp backend.Viewport) {
	t.mu.Lock()
	t.pendingFrame = nil
	t.lastCapture = time.Time{}
	t.mu.Unlock()
	t.runOp("resize", chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height)))
}

func (t *tab) applyFocus(focused bool) {
	t.runOp("focus", chromedp.ActionFunc(func(ctx context.Context) error {
		return emulation.SetFocusEmulationEnabled(focused).Do(ctx)
	}))
}

func (t *tab) dispatchKey(ev backend.KeyEvent) {
	params := keyParams(ev)
	t.runOp("key", chromedp.ActionFunc(func(ctx context.Context) error {
		return params.Do(ctx)
	}))
	t.expediteCapture()
}

func (t *tab) dispatchPointer(ev backend.PointerEvent) {
	params := pointerParams(ev)
	t.runOp("pointer", chromedp.ActionFunc(func(ctx context.Context) error {
		return params.Do(ctx)
	}))
	t.expediteCapture()
}

func (t *tab) dispatchScroll(ev backend.ScrollEvent) {
	t.mu.Lock()
	x, y := t.moveX, t.moveY
	t.mu.Unlock()
	params := scrollParams(ev, x, y)
	t.runOp("scroll", chromedp.ActionFunc(func(ctx context.Context) error {
		return params.Do(ctx)
	}))
	t.expediteCapture()
}

// queueMove coalesces pointer motion: the queue holds at most one move op
// and it reads the newest coordinates when it runs. Motion does not
// expedite capture; the session replays position every tick and treating
// that as activity would capture continuously.
func (t *tab) queueMove(x, y int32) {
	t.mu.Lock()
	t.moveX, t.moveY = x, y
	t.hasMove = true
	if t.moveQueued {
		t.mu.Unlock()
		return
	}
	t.moveQueued = true
	t.mu.Unlock()

	ok := t.enqueue(func(ctx context.Context) {
		t.mu.Lock()
		mx, my := t.moveX, t.moveY
		t.moveQueued = false
		t.mu.Unlock()
		params := moveParams(mx, my)
		if err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			return params.Do(ctx)
		})); err != nil && !errors.Is(err, context.Canceled) {
			t.logger.Debug("browser operation failed", zap.String("op", "move"), zap.Error(err))
		}
	})
	if !ok {
		t.mu.Lock()
		t.moveQueued = false
		t.mu.Unlock()
	}
}

// expediteCapture zeroes the capture clock so the next advance captures
// immediately; input effects should not wait out the idle interval.
func (t *tab) expediteCapture() {
	t.mu.Lock()
	t.lastCapture = time.Time{}
	t.mu.Unlock()
}

// maybeCapture schedules a screenshot when the tab is idle, its cadence
// allows one, and the global limiter has budget.
func (t *tab) maybeCapture(limiter *rate.Limiter, interval time.Duration) {
	t.mu.Lock()
	busy := t.stopped || t.capturing || t.loading || t.pendingFrame != nil
	if busy || time.Since(t.lastCapture) < interval {
		t.mu.Unlock()
		return
	}
	if !limiter.Allow() {
		t.mu.Unlock()
		return
	}
	t.capturing = true
	probe, px, py := t.hasMove, t.moveX, t.moveY
	t.mu.Unlock()

	ok := t.enqueue(func(ctx context.Context) {
		t.capture(ctx, probe, px, py)
	})
	if !ok {
		t.mu.Lock()
		t.capturing = false
		t.mu.Unlock()
	}
}

// capture takes the screenshot and refreshes metadata in one protocol
// round. The decoded frame waits in pendingFrame for the next paint.
func (t *tab) capture(ctx context.Context, probe bool, px, py int32) {
	var shot []byte
	var loc, title string
	err := chromedp.Run(ctx,
		chromedp.Location(&loc),
		chromedp.Title(&title),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var cerr error
			shot, cerr = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				Do(ctx)
			return cerr
		}),
	)

	cursor := backend.CursorDefault
	if err == nil && probe {
		cursor = t.probeCursor(ctx, px, py)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.capturing = false
	t.lastCapture = time.Now()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			t.logger.Debug("capture failed", zap.Error(err))
		}
		return
	}
	buf, err := decodePNG(shot)
	if err != nil {
		t.logger.Warn("screenshot decode failed", zap.Error(err))
		return
	}
	t.pendingFrame = &buf
	t.url, t.title = loc, title
	if probe {
		t.cursor = cursor
	}
}

// probeCursor asks the page which CSS cursor sits under the pointer.
func (t *tab) probeCursor(ctx context.Context, x, y int32) backend.CursorKind {
	var css string
	expr := fmt.Sprintf(
		`(() => { const el = document.elementFromPoint(%d, %d); return el ? getComputedStyle(el).cursor : "default"; })()`,
		x, y,
	)
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &css)); err != nil {
		return backend.CursorDefault
	}
	return parseCursor(css)
}
