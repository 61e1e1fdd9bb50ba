package main

import (
	"bytes"
	"image/png"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/input"
	"github.com/GriffinCanCode/WebPane/session"
	"github.com/GriffinCanCode/WebPane/view"
)

// handlers contains all HTTP handlers. Every controller interaction runs
// through the session loop.
type handlers struct {
	loop   *sessionLoop
	logger *zap.Logger
}

func newHandlers(loop *sessionLoop, logger *zap.Logger) *handlers {
	return &handlers{loop: loop, logger: logger}
}

// Root handles the service banner.
func (h *handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "webpane",
		"status":  "online",
		"engines": backend.Names(),
	})
}

// Health handles detailed health check.
func (h *handlers) Health(c *gin.Context) {
	var views int
	var vp backend.Viewport
	h.loop.do(func(ctrl *session.Controller) {
		views = ctrl.ViewCount()
		vp = ctrl.Viewport()
	})
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"views":    views,
		"viewport": vp,
	})
}

// pageRequest carries content for view creation and navigation: a URL to
// fetch, or literal markup. URL wins when both are set.
type pageRequest struct {
	URL    string `json:"url"`
	Markup string `json:"markup"`
}

func (r pageRequest) source() *backend.PageSource {
	switch {
	case r.URL != "":
		src := backend.URLSource(r.URL)
		return &src
	case r.Markup != "":
		src := backend.MarkupSource(r.Markup)
		return &src
	default:
		return nil
	}
}

// CreateView opens a view, optionally loading initial content.
func (h *handlers) CreateView(c *gin.Context) {
	var req pageRequest
	if !h.parseBody(c, &req) {
		return
	}

	var (
		created view.ID
		err     error
	)
	h.loop.do(func(ctrl *session.Controller) {
		err = ctrl.Dispatch(c.Request.Context(), session.CreateView{Source: req.source()})
		if err == nil {
			// A new view always becomes current, so current is the one
			// just made.
			created, _ = ctrl.CurrentView()
		}
	})
	if err != nil {
		h.logger.Error("view creation failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": created})
}

// ListViews lists live views with their metadata.
func (h *handlers) ListViews(c *gin.Context) {
	var views []session.ViewInfo
	h.loop.do(func(ctrl *session.Controller) {
		views = ctrl.Views()
	})
	c.JSON(http.StatusOK, gin.H{"views": views, "count": len(views)})
}

// GetView returns one view's metadata.
func (h *handlers) GetView(c *gin.Context) {
	id, ok := h.viewID(c)
	if !ok {
		return
	}
	var (
		info  session.ViewInfo
		found bool
	)
	h.loop.do(func(ctrl *session.Controller) {
		for _, v := range ctrl.Views() {
			if v.ID == id {
				info, found = v, true
				return
			}
		}
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "view not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// CloseView destroys a view. Closing an unknown view succeeds: the command
// is a no-op by contract and the resource is gone either way.
func (h *handlers) CloseView(c *gin.Context) {
	h.dispatchFor(c, func(id view.ID) session.Command {
		return session.CloseView{View: id}
	})
}

// SelectView makes a view current.
func (h *handlers) SelectView(c *gin.Context) {
	h.dispatchFor(c, func(id view.ID) session.Command {
		return session.SelectView{View: id}
	})
}

// Navigate loads new content into a view.
func (h *handlers) Navigate(c *gin.Context) {
	id, ok := h.viewID(c)
	if !ok {
		return
	}
	var req pageRequest
	if !h.parseBody(c, &req) {
		return
	}
	src := req.source()
	if src == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url or markup required"})
		return
	}
	h.dispatch(c, session.Navigate{View: id, Source: *src})
}

// Reload reloads a view's current content.
func (h *handlers) Reload(c *gin.Context) {
	h.dispatchFor(c, func(id view.ID) session.Command {
		return session.Reload{View: id}
	})
}

// GoBack navigates a view's history backwards.
func (h *handlers) GoBack(c *gin.Context) {
	h.dispatchFor(c, func(id view.ID) session.Command {
		return session.GoBack{View: id}
	})
}

// GoForward navigates a view's history forwards.
func (h *handlers) GoForward(c *gin.Context) {
	h.dispatchFor(c, func(id view.ID) session.Command {
		return session.GoForward{View: id}
	})
}

// ForceRepaint paints a view immediately, ignoring dirty state.
func (h *handlers) ForceRepaint(c *gin.Context) {
	h.dispatchFor(c, func(id view.ID) session.Command {
		return session.ForceRepaint{View: id}
	})
}

// Resize changes the session viewport.
func (h *handlers) Resize(c *gin.Context) {
	var req backend.Viewport
	if !h.parseBody(c, &req) {
		return
	}
	if req.Width == 0 || req.Height == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be positive"})
		return
	}
	h.dispatch(c, session.Resize{Viewport: req})
}

// keyRequest describes one key tap. Key is either a single character or a
// transport name like "enter" or "f5". A press and a release are delivered
// for each tap, the same down/up pairing an interactive host produces.
type keyRequest struct {
	Key   string `json:"key"`
	Text  string `json:"text"`
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
}

// KeyInput delivers a keyboard tap to a view.
func (h *handlers) KeyInput(c *gin.Context) {
	id, ok := h.viewID(c)
	if !ok {
		return
	}
	var req keyRequest
	if !h.parseBody(c, &req) {
		return
	}
	key, ok := hostKey(req.Key)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown key"})
		return
	}
	text := req.Text
	if text == "" && key.Name == input.NamedNone {
		text = req.Key
	}
	mods := hostModifiers(req)

	h.loop.do(func(ctrl *session.Controller) {
		_ = ctrl.Dispatch(c.Request.Context(), session.KeyInput{View: id, Event: input.KeyEvent{
			Key:       key,
			Text:      text,
			Modifiers: mods,
			Pressed:   true,
		}})
		_ = ctrl.Dispatch(c.Request.Context(), session.KeyInput{View: id, Event: input.KeyEvent{
			Key:       key,
			Modifiers: mods,
			Pressed:   false,
		}})
	})
	c.JSON(http.StatusOK, gin.H{"delivered": true})
}

// pointerRequest describes one pointer event in viewport pixels.
type pointerRequest struct {
	Kind   string `json:"kind"`   // move | press | release | enter | leave
	Button string `json:"button"` // left | right | middle | back | forward
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
}

// PointerInput delivers a pointer event to a view.
func (h *handlers) PointerInput(c *gin.Context) {
	id, ok := h.viewID(c)
	if !ok {
		return
	}
	var req pointerRequest
	if !h.parseBody(c, &req) {
		return
	}
	kind, ok := pointerKinds[req.Kind]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pointer kind"})
		return
	}
	h.dispatch(c, session.PointerInput{View: id, Event: input.PointerEvent{
		Kind:   kind,
		Button: pointerButtons[req.Button],
		X:      req.X,
		Y:      req.Y,
	}})
}

// scrollRequest describes one scroll delta.
type scrollRequest struct {
	Unit string  `json:"unit"` // "lines" (default) or "pixels"
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ScrollInput delivers a scroll delta to a view.
func (h *handlers) ScrollInput(c *gin.Context) {
	id, ok := h.viewID(c)
	if !ok {
		return
	}
	var req scrollRequest
	if !h.parseBody(c, &req) {
		return
	}
	unit := input.UnitLines
	if req.Unit == "pixels" {
		unit = input.UnitPixels
	}
	h.dispatch(c, session.ScrollInput{View: id, Delta: input.ScrollDelta{
		Unit: unit,
		X:    req.X,
		Y:    req.Y,
	}})
}

// Snapshot serves a view's current frame as PNG. The cursor hint rides
// along in a header so one request covers the whole presentation pair.
func (h *handlers) Snapshot(c *gin.Context) {
	id, ok := h.viewID(c)
	if !ok {
		return
	}
	var (
		snap  session.Snapshot
		found bool
	)
	h.loop.do(func(ctrl *session.Controller) {
		snap, found = ctrl.Snapshot(id)
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "view not found"})
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, snap.Frame.ToImage()); err != nil {
		h.logger.Error("snapshot encode failed", zap.Uint64("view_id", uint64(id)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
		return
	}
	c.Header("X-Webpane-Cursor", snap.Cursor.String())
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// dispatchFor parses the view ID and dispatches the command built from it.
func (h *handlers) dispatchFor(c *gin.Context, build func(view.ID) session.Command) {
	id, ok := h.viewID(c)
	if !ok {
		return
	}
	h.dispatch(c, build(id))
}

// dispatch sends one command through the loop. Commands that can fail are
// handled by their own handlers; everything here is fire-and-report.
func (h *handlers) dispatch(c *gin.Context, cmd session.Command) {
	ctx := c.Request.Context()
	h.loop.do(func(ctrl *session.Controller) {
		_ = ctrl.Dispatch(ctx, cmd)
	})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// parseBody decodes a JSON request body, replying 400 on malformed input.
// An empty body decodes to the zero request.
func (h *handlers) parseBody(c *gin.Context, v any) bool {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return false
	}
	if len(data) == 0 {
		return true
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// viewID parses the :id path parameter.
func (h *handlers) viewID(c *gin.Context) (view.ID, bool) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid view id"})
		return 0, false
	}
	return view.ID(raw), true
}

// hostKey resolves a transport key string to a symbolic key.
func hostKey(raw string) (input.Key, bool) {
	if named, ok := input.ParseNamedKey(raw); ok {
		return input.NameKey(named), true
	}
	if utf8.RuneCountInString(raw) == 1 {
		return input.CharKey(raw), true
	}
	return input.Key{}, false
}

func hostModifiers(req keyRequest) backend.Modifiers {
	var mods backend.Modifiers
	if req.Ctrl {
		mods |= backend.ModCtrl
	}
	if req.Shift {
		mods |= backend.ModShift
	}
	if req.Alt {
		mods |= backend.ModAlt
	}
	return mods
}

var pointerKinds = map[string]input.PointerKind{
	"move":    input.PointerMove,
	"press":   input.PointerPress,
	"release": input.PointerRelease,
	"enter":   input.PointerEnter,
	"leave":   input.PointerLeave,
}

var pointerButtons = map[string]input.Button{
	"":        input.ButtonNone,
	"left":    input.ButtonLeft,
	"right":   input.ButtonRight,
	"middle":  input.ButtonMiddle,
	"back":    input.ButtonBack,
	"forward": input.ButtonForward,
}
