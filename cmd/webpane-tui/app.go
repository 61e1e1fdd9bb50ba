package main

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/input"
	"github.com/GriffinCanCode/WebPane/internal/config"
	"github.com/GriffinCanCode/WebPane/session"
	"github.com/GriffinCanCode/WebPane/view"
)

// Assumed pixel footprint of one terminal cell. The engine viewport is the
// cell grid scaled by these, so page layout roughly matches what a real
// window of the same proportions would show.
const (
	cellWidth  = 8
	cellHeight = 16
)

// wheelLines is how many scroll lines one wheel notch is worth.
const wheelLines = 3

const welcomePage = `<html><head><title>WebPane</title></head><body>
<h1>WebPane</h1>
<p>ctrl+l opens a page, ctrl+t opens a view, ctrl+q quits.</p>
</body></html>`

// statusLine carries transient notices from session callbacks to the status
// bar. Callbacks run synchronously inside Dispatch on the UI goroutine, so
// no locking is involved.
type statusLine struct {
	text string
}

func (s *statusLine) set(text string) { s.text = text }

type tickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	ctrl   *session.Controller
	cfg    *config.Config
	status *statusLine
	logger *zap.Logger

	width  int
	height int
	ready  bool

	urlBar textinput.Model
	typing bool
}

func newModel(ctrl *session.Controller, cfg *config.Config, status *statusLine, logger *zap.Logger) model {
	ti := textinput.New()
	ti.Prompt = "go: "
	ti.Placeholder = "https://example.com"
	ti.CharLimit = 2048
	return model{
		ctrl:   ctrl,
		cfg:    cfg,
		status: status,
		logger: logger,
		urlBar: ti,
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.cfg.Display.TickInterval)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.dispatch(session.Tick{})
		return m, tickCmd(m.cfg.Display.TickInterval)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		if m.typing {
			return m.updateURLBar(msg)
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.FocusMsg:
		m.forwardPointer(input.PointerEvent{Kind: input.PointerEnter})
		return m, nil
	case tea.BlurMsg:
		m.forwardPointer(input.PointerEvent{Kind: input.PointerLeave})
		return m, nil
	}
	return m, nil
}

// dispatch runs one session command, surfacing failures on the status bar.
func (m model) dispatch(cmd session.Command) {
	if err := m.ctrl.Dispatch(context.Background(), cmd); err != nil {
		m.status.set(err.Error())
		m.logger.Warn("command failed", zap.Error(err))
	}
}

// withCurrent runs fn against the current view, if there is one.
func (m model) withCurrent(fn func(view.ID)) {
	if id, ok := m.ctrl.CurrentView(); ok {
		fn(id)
	}
}

func (m model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.urlBar.Width = max(msg.Width-len(m.urlBar.Prompt)-2, 16)

	cols, rows := m.contentSize()
	m.dispatch(session.Resize{Viewport: backend.Viewport{
		Width:  uint32(cols * cellWidth),
		Height: uint32(rows * cellHeight),
	}})

	// The first size report means the terminal is usable; open the start
	// page at the right dimensions.
	if !m.ready {
		m.ready = true
		m.dispatch(session.CreateView{Source: m.startSource()})
	}
	return m, nil
}

// contentSize is the cell grid available to page content, leaving the last
// row for the status bar.
func (m model) contentSize() (cols, rows int) {
	return max(m.width, 1), max(m.height-1, 1)
}

func (m model) startSource() *backend.PageSource {
	if m.cfg.Engine.StartURL != "" {
		src := backend.URLSource(m.cfg.Engine.StartURL)
		return &src
	}
	src := backend.MarkupSource(welcomePage)
	return &src
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// alt+1..alt+9 select a view by position.
	if len(key) == 5 && strings.HasPrefix(key, "alt+") && key[4] >= '1' && key[4] <= '9' {
		m.selectIndex(int(key[4] - '1'))
		return m, nil
	}

	switch key {
	case "ctrl+q", "ctrl+c":
		return m, tea.Quit
	case "ctrl+t":
		m.dispatch(session.CreateView{Source: m.startSource()})
		return m, nil
	case "ctrl+w":
		m.withCurrent(func(id view.ID) { m.dispatch(session.CloseView{View: id}) })
		return m, nil
	case "ctrl+l":
		return m.openURLBar()
	case "ctrl+o":
		m.selectNext()
		return m, nil
	case "f5":
		m.withCurrent(func(id view.ID) { m.dispatch(session.Reload{View: id}) })
		return m, nil
	case "f2":
		m.withCurrent(func(id view.ID) { m.dispatch(session.ForceRepaint{View: id}) })
		return m, nil
	case "alt+left":
		m.withCurrent(func(id view.ID) { m.dispatch(session.GoBack{View: id}) })
		return m, nil
	case "alt+right":
		m.withCurrent(func(id view.ID) { m.dispatch(session.GoForward{View: id}) })
		return m, nil
	}

	m.forwardKey(msg)
	return m, nil
}

func (m model) selectNext() {
	views := m.ctrl.Views()
	if len(views) < 2 {
		return
	}
	for i, v := range views {
		if v.Current {
			next := views[(i+1)%len(views)].ID
			m.dispatch(session.SelectView{View: next})
			return
		}
	}
}

func (m model) selectIndex(i int) {
	views := m.ctrl.Views()
	if i >= len(views) {
		return
	}
	m.dispatch(session.SelectView{View: views[i].ID})
}

func (m model) openURLBar() (tea.Model, tea.Cmd) {
	m.typing = true
	m.urlBar.SetValue(m.currentURL())
	m.urlBar.CursorEnd()
	return m, m.urlBar.Focus()
}

func (m model) currentURL() string {
	for _, v := range m.ctrl.Views() {
		if v.Current {
			return v.URL
		}
	}
	return ""
}

func (m model) updateURLBar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.typing = false
		m.urlBar.Blur()
		return m, nil
	case tea.KeyEnter:
		target := strings.TrimSpace(m.urlBar.Value())
		m.typing = false
		m.urlBar.Blur()
		if target == "" {
			return m, nil
		}
		src := backend.URLSource(normalizeURL(target))
		if id, ok := m.ctrl.CurrentView(); ok {
			m.dispatch(session.Navigate{View: id, Source: src})
		} else {
			m.dispatch(session.CreateView{Source: &src})
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.urlBar, cmd = m.urlBar.Update(msg)
	return m, cmd
}

// normalizeURL fills in the scheme people never type.
func normalizeURL(raw string) string {
	if strings.Contains(raw, "://") || strings.HasPrefix(raw, "data:") || strings.HasPrefix(raw, "about:") {
		return raw
	}
	return "https://" + raw
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	id, ok := m.ctrl.CurrentView()
	if !ok {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.dispatch(session.ScrollInput{View: id, Delta: input.ScrollDelta{Unit: input.UnitLines, Y: wheelLines}})
		return m, nil
	case tea.MouseButtonWheelDown:
		m.dispatch(session.ScrollInput{View: id, Delta: input.ScrollDelta{Unit: input.UnitLines, Y: -wheelLines}})
		return m, nil
	case tea.MouseButtonWheelLeft:
		m.dispatch(session.ScrollInput{View: id, Delta: input.ScrollDelta{Unit: input.UnitLines, X: wheelLines}})
		return m, nil
	case tea.MouseButtonWheelRight:
		m.dispatch(session.ScrollInput{View: id, Delta: input.ScrollDelta{Unit: input.UnitLines, X: -wheelLines}})
		return m, nil
	}

	x, y, inside := m.pagePixel(msg.X, msg.Y)
	if !inside {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.dispatch(session.PointerInput{View: id, Event: input.PointerEvent{
			Kind: input.PointerMove, X: x, Y: y,
		}})
	case tea.MouseActionPress:
		if button, ok := pointerButton(msg.Button); ok {
			m.dispatch(session.PointerInput{View: id, Event: input.PointerEvent{
				Kind: input.PointerPress, Button: button, X: x, Y: y,
			}})
		}
	case tea.MouseActionRelease:
		if button, ok := pointerButton(msg.Button); ok {
			m.dispatch(session.PointerInput{View: id, Event: input.PointerEvent{
				Kind: input.PointerRelease, Button: button, X: x, Y: y,
			}})
		}
	}
	return m, nil
}

// pagePixel maps a terminal cell to the center of its span in viewport
// pixels. Cells on the status bar are outside the page.
func (m model) pagePixel(cx, cy int) (int32, int32, bool) {
	cols, rows := m.contentSize()
	if cx < 0 || cy < 0 || cx >= cols || cy >= rows {
		return 0, 0, false
	}
	vp := m.ctrl.Viewport()
	x := (2*cx + 1) * int(vp.Width) / (2 * cols)
	y := (2*cy + 1) * int(vp.Height) / (2 * rows)
	return int32(x), int32(y), true
}

func pointerButton(b tea.MouseButton) (input.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return input.ButtonLeft, true
	case tea.MouseButtonRight:
		return input.ButtonRight, true
	case tea.MouseButtonMiddle:
		return input.ButtonMiddle, true
	case tea.MouseButtonBackward:
		return input.ButtonBack, true
	case tea.MouseButtonForward:
		return input.ButtonForward, true
	default:
		return input.ButtonNone, false
	}
}

func (m model) forwardPointer(ev input.PointerEvent) {
	m.withCurrent(func(id view.ID) {
		m.dispatch(session.PointerInput{View: id, Event: ev})
	})
}
