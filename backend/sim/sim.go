// Package sim provides a deterministic in-process rendering engine.
//
// Pages render as flat colors derived from their url and title, loads
// complete after a fixed number of advance calls, and history behaves like
// a real engine's back/forward stacks. No network, no subprocess, no
// timing: the same command sequence always produces the same frames, which
// makes sim the engine of choice for tests, demos, and host development.
package sim

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/internal/ident"
)

func init() {
	backend.Register(backend.EngineSim, func() (backend.Engine, error) {
		return New(), nil
	})
}

// DefaultLoadTicks is how many advance calls a page load takes to commit.
const DefaultLoadTicks = 2

// entry is one committed or in-flight navigation.
type entry struct {
	source backend.PageSource
	url    string
	title  string
}

// page is the engine-side state of one view.
type page struct {
	loading int // advance calls until the pending entry commits
	pending *entry
	current *entry
	back    []*entry
	forward []*entry

	dirty  bool
	cursor backend.CursorKind

	pointerX   int32
	pointerY   int32
	hasPointer bool
	scroll     int32 // document offset, grows scrolling down
	focused    bool
}

// Engine simulates a browser backend. It is driven sequentially by the
// session and holds no locks.
type Engine struct {
	ids       *ident.Generator
	viewport  backend.Viewport
	loadTicks int
	pages     map[backend.Handle]*page
}

// Option configures the engine.
type Option func(*Engine)

// WithLoadTicks sets how many advance calls a load takes. Zero or negative
// makes loads commit inside navigate, which removes the loading phase
// entirely.
func WithLoadTicks(n int) Option {
	return func(e *Engine) { e.loadTicks = n }
}

// New returns an empty simulated engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		ids:       ident.Default(),
		loadTicks: DefaultLoadTicks,
		pages:     make(map[backend.Handle]*page),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateView allocates a page sized to the viewport and optionally starts
// loading content.
func (e *Engine) CreateView(_ context.Context, vp backend.Viewport, content *backend.PageSource) (backend.Handle, error) {
	e.viewport = vp
	h := backend.Handle(e.ids.New("view"))
	p := &page{}
	e.pages[h] = p
	if content != nil {
		e.beginLoad(p, *content)
	}
	return h, nil
}

// DestroyView drops the page, aborting any load in flight.
func (e *Engine) DestroyView(h backend.Handle) {
	e.mustPage(h)
	delete(e.pages, h)
}

// Navigate starts loading target. History is rearranged only when the load
// commits, so an abandoned load leaves the stacks untouched.
func (e *Engine) Navigate(h backend.Handle, target backend.PageSource) {
	e.beginLoad(e.mustPage(h), target)
}

// Resize applies to every page.
func (e *Engine) Resize(vp backend.Viewport) {
	e.viewport = vp
	for _, p := range e.pages {
		p.dirty = true
	}
}

// Advance progresses in-flight loads by one step.
func (e *Engine) Advance() {
	for _, p := range e.pages {
		if p.loading == 0 {
			continue
		}
		p.loading--
		if p.loading == 0 {
			commit(p)
		}
	}
}

// IsLoading reports whether a load is in flight.
func (e *Engine) IsLoading(h backend.Handle) bool { return e.mustPage(h).loading > 0 }

// URL returns the committed page url, empty before the first commit.
func (e *Engine) URL(h backend.Handle) string {
	if cur := e.mustPage(h).current; cur != nil {
		return cur.url
	}
	return ""
}

// Title returns the committed page title, empty before the first commit.
func (e *Engine) Title(h backend.Handle) string {
	if cur := e.mustPage(h).current; cur != nil {
		return cur.title
	}
	return ""
}

// CursorHint returns the icon for the last observed pointer position.
func (e *Engine) CursorHint(h backend.Handle) backend.CursorKind { return e.mustPage(h).cursor }

// DeliverKey marks the page dirty; content does not change but a real
// engine would repaint carets and focus rings.
func (e *Engine) DeliverKey(h backend.Handle, _ backend.KeyEvent) {
	e.mustPage(h).dirty = true
}

// DeliverPointer tracks the pointer and recomputes the cursor hint. Motion
// alone never dirties the page: the session replays the pointer position
// before every paint, and a motion-dirties-page rule would turn that replay
// into a repaint per tick.
func (e *Engine) DeliverPointer(h backend.Handle, ev backend.PointerEvent) {
	p := e.mustPage(h)
	p.pointerX, p.pointerY = ev.X, ev.Y
	p.hasPointer = true
	p.cursor = e.cursorAt(p, ev.X, ev.Y)
	if ev.Type != backend.PointerMoved {
		p.dirty = true
	}
}

// DeliverScroll moves the document offset. Positive deltas point toward the
// document top.
func (e *Engine) DeliverScroll(h backend.Handle, ev backend.ScrollEvent) {
	p := e.mustPage(h)
	p.scroll -= ev.DeltaY
	if p.scroll < 0 {
		p.scroll = 0
	}
	p.dirty = true
}

// GoBack steps the history backwards; a no-op at the oldest entry. A
// pending load is abandoned first, like a browser stopping the spinner
// when the user bails out of a slow page.
func (e *Engine) GoBack(h backend.Handle) {
	p := e.mustPage(h)
	aborted := abortLoad(p)
	if len(p.back) == 0 {
		p.dirty = p.dirty || aborted
		return
	}
	if p.current != nil {
		p.forward = append(p.forward, p.current)
	}
	p.current = p.back[len(p.back)-1]
	p.back = p.back[:len(p.back)-1]
	p.dirty = true
}

// GoForward steps the history forwards; a no-op at the newest entry.
func (e *Engine) GoForward(h backend.Handle) {
	p := e.mustPage(h)
	aborted := abortLoad(p)
	if len(p.forward) == 0 {
		p.dirty = p.dirty || aborted
		return
	}
	if p.current != nil {
		p.back = append(p.back, p.current)
	}
	p.current = p.forward[len(p.forward)-1]
	p.forward = p.forward[:len(p.forward)-1]
	p.dirty = true
}

// Reload re-runs the current entry's load, spinner included. Pages that
// never committed anything have nothing to reload.
func (e *Engine) Reload(h backend.Handle) {
	p := e.mustPage(h)
	if p.pending != nil {
		p.loading = e.ticksFor()
		return
	}
	if p.current == nil {
		return
	}
	p.pending = p.current
	p.loading = e.ticksFor()
	if p.loading == 0 {
		commit(p)
	}
}

// Focus and Unfocus toggle the focus flag on every page: the session is
// one logical window.
func (e *Engine) Focus() { e.setFocus(true) }

// Unfocus clears the focus flag on every page.
func (e *Engine) Unfocus() { e.setFocus(false) }

func (e *Engine) setFocus(focused bool) {
	for _, p := range e.pages {
		if p.focused != focused {
			p.focused = focused
			p.dirty = true
		}
	}
}

// beginLoad stages a pending entry. With non-positive load ticks the commit
// happens immediately.
func (e *Engine) beginLoad(p *page, source backend.PageSource) {
	p.pending = resolve(source)
	p.loading = e.ticksFor()
	if p.loading == 0 {
		commit(p)
	}
}

func (e *Engine) ticksFor() int {
	if e.loadTicks < 0 {
		return 0
	}
	return e.loadTicks
}

// commit publishes the pending entry: the old page enters the back stack,
// the forward stack clears, metadata becomes visible, and the page needs a
// repaint. Reloads of the committed entry skip the history shuffle.
func commit(p *page) {
	next := p.pending
	p.pending = nil
	p.loading = 0
	if next == nil {
		return
	}
	if p.current != nil && p.current != next {
		p.back = append(p.back, p.current)
		p.forward = nil
	}
	p.current = next
	p.dirty = true
}

// abortLoad drops a pending entry, reporting whether one existed.
func abortLoad(p *page) bool {
	if p.pending == nil && p.loading == 0 {
		return false
	}
	p.pending = nil
	p.loading = 0
	return true
}

func (e *Engine) mustPage(h backend.Handle) *page {
	p, ok := e.pages[h]
	if !ok {
		panic("sim: unknown view handle " + string(h))
	}
	return p
}

// resolve computes the entry a source will commit as. URL pages title
// themselves with their host; markup pages get whatever <title> or first
// heading the document carries.
func resolve(source backend.PageSource) *entry {
	switch source.Kind {
	case backend.SourceMarkup:
		return &entry{
			source: source,
			url:    "about:blank",
			title:  markupTitle(source.Value),
		}
	default:
		return &entry{
			source: source,
			url:    source.Value,
			title:  urlTitle(source.Value),
		}
	}
}

func urlTitle(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

func markupTitle(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
