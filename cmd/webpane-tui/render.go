package main

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"

	"github.com/GriffinCanCode/WebPane/frame"
	"github.com/GriffinCanCode/WebPane/session"
)

// halfBlock shows two pixel rows per terminal cell: foreground paints the
// top half, background the bottom.
const halfBlock = "▀"

// Catppuccin Mocha accents for the chrome around the page.
const (
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext  lipgloss.Color = "#a6adc8"
	colorSurface  lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
	colorCrust    lipgloss.Color = "#11111b"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorLavender lipgloss.Color = "#b4befe"
)

var (
	barStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Background(colorSurface).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorCrust).
			Background(colorBlue).
			Bold(true).
			Padding(0, 1)

	urlStyle = lipgloss.NewStyle().
			Foreground(colorLavender).
			Background(colorMantle).
			Padding(0, 1)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorMantle).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorMantle).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Background(colorMantle).
			Padding(0, 1)

	splashStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)
)

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}
	cols, rows := m.contentSize()
	body, cursor := m.renderContent(cols, rows)
	return body + "\n" + m.renderStatus(cols, cursor)
}

func (m model) renderContent(cols, rows int) (string, string) {
	id, ok := m.ctrl.CurrentView()
	if !ok {
		return m.splash(cols, rows), ""
	}
	snap, ok := m.ctrl.Snapshot(id)
	if !ok || snap.Frame.Empty() {
		return m.splash(cols, rows), ""
	}
	return renderFrame(snap.Frame, cols, rows), snap.Cursor.String()
}

func (m model) splash(cols, rows int) string {
	help := "ctrl+t new view   ctrl+l open url   ctrl+q quit"
	return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, splashStyle.Render(help))
}

// renderFrame downsamples a page frame to the cell grid, two pixel rows per
// cell. Styles are emitted per same-color run, not per cell; page frames
// have long single-color stretches and the difference is what keeps redraw
// off the profile.
func renderFrame(buf frame.Buffer, cols, rows int) string {
	src := buf.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	var b strings.Builder
	b.Grow(rows * cols * 8)
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		runFg, runBg := "", ""
		runLen := 0
		flush := func() {
			if runLen == 0 {
				return
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(runFg)).
				Background(lipgloss.Color(runBg))
			b.WriteString(style.Render(strings.Repeat(halfBlock, runLen)))
			runLen = 0
		}
		for x := 0; x < cols; x++ {
			fg := hexColor(dst.RGBAAt(x, 2*y))
			bg := hexColor(dst.RGBAAt(x, 2*y+1))
			if runLen > 0 && (fg != runFg || bg != runBg) {
				flush()
			}
			runFg, runBg = fg, bg
			runLen++
		}
		flush()
	}
	return b.String()
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (m model) renderStatus(cols int, cursor string) string {
	if m.typing {
		return barStyle.Width(cols).Render(m.urlBar.View())
	}

	left := m.renderTabs()
	right := m.renderPageInfo(cursor)
	gap := cols - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return barStyle.MaxWidth(cols).Render(left + right)
	}
	return left + barStyle.Render(strings.Repeat(" ", gap)) + right
}

func (m model) renderTabs() string {
	views := m.ctrl.Views()
	if len(views) == 0 {
		return tabStyle.Render("no views")
	}
	parts := make([]string, 0, len(views))
	for i, v := range views {
		label := fmt.Sprintf("%d %s", i+1, tabTitle(v))
		if v.Current {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return strings.Join(parts, "")
}

func tabTitle(v session.ViewInfo) string {
	title := v.Title
	if title == "" {
		title = v.URL
	}
	if title == "" {
		title = "blank"
	}
	return truncate(title, 14)
}

func (m model) renderPageInfo(cursor string) string {
	var parts []string
	if notice := m.status.text; notice != "" {
		parts = append(parts, noticeStyle.Render(truncate(notice, 40)))
	}
	for _, v := range m.ctrl.Views() {
		if !v.Current {
			continue
		}
		if v.Loading {
			parts = append(parts, loadingStyle.Render("loading"))
		}
		if v.URL != "" {
			parts = append(parts, urlStyle.Render(truncate(v.URL, 48)))
		}
		break
	}
	if cursor != "" && cursor != "default" {
		parts = append(parts, cursorStyle.Render(cursor))
	}
	return strings.Join(parts, "")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
