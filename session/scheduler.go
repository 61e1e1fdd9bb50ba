package session

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/frame"
	"github.com/GriffinCanCode/WebPane/view"
)

// tick runs one scheduling pass: pump the engine, refresh every view's
// frame, then diff url/title once for all views. Metadata diffing happens
// per tick rather than per command to bound notification volume under
// command bursts.
func (c *Controller) tick() {
	c.engine.Advance()
	for _, v := range c.views.List() {
		c.renderView(v, false)
	}
	c.diffMetadata()
}

// renderView refreshes one view's frame.
//
// Loading views display a placeholder instead of a half-stale frame from
// before the navigation. Otherwise a paint is attempted; an engine with
// nothing new returns no frame and the previous one stays, which avoids
// flicker from transient not-ready states. The dirty flag clears only on a
// successful paint so staleness survives until real pixels arrive.
//
// force skips the loading gate entirely. Some engines have no reliable
// dirty signal right after creation, so hosts force the first paint rather
// than wait for the engine to self-report.
func (c *Controller) renderView(v *view.View, force bool) {
	loading := c.engine.IsLoading(v.Handle)
	if loading && !force {
		if !v.Loading {
			v.Loading = true
			v.LastFrame = frame.Placeholder(c.viewport.Width, c.viewport.Height)
		}
		c.metrics.observeSkippedPaint()
		return
	}
	v.Loading = loading

	// Re-assert the pointer position before painting. Engines may drop
	// hover state on viewport or content changes; the replay keeps the
	// rendered cursor affordances where the pointer actually is.
	if v.HasPointer {
		c.engine.DeliverPointer(v.Handle, backend.PointerEvent{
			Type: backend.PointerMoved,
			X:    v.PointerX,
			Y:    v.PointerY,
		})
	}

	start := time.Now()
	buf, ok := c.engine.Paint(v.Handle)
	if !ok {
		return
	}
	if err := buf.Validate(); err != nil {
		// A malformed frame is a bug in the engine adapter, not a runtime
		// condition this layer can recover from.
		panic(fmt.Sprintf("session: engine produced invalid frame for view %d: %v", v.ID, err))
	}
	v.LastFrame = buf
	v.NeedsRepaint = false
	c.metrics.observePaint(time.Since(start))
}

func (c *Controller) forceRepaint(id view.ID) {
	v, ok := c.views.Get(id)
	if !ok {
		return
	}
	c.renderView(v, true)
}

// diffMetadata compares each view's cached url/title against the engine's
// live values and notifies the host once per changed field.
func (c *Controller) diffMetadata() {
	for _, v := range c.views.List() {
		if url := c.engine.URL(v.Handle); url != v.CachedURL {
			v.CachedURL = url
			c.notifyURL(v.ID, url)
		}
		if title := c.engine.Title(v.Handle); title != v.CachedTitle {
			v.CachedTitle = title
			c.notifyTitle(v.ID, title)
		}
	}
}
