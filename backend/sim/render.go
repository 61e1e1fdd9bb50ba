package sim

import (
	"crypto/sha256"
	"fmt"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/frame"
)

// Paint renders the page if anything changed since the last paint.
func (e *Engine) Paint(h backend.Handle) (frame.Buffer, bool) {
	p := e.mustPage(h)
	if !p.dirty {
		return frame.Buffer{}, false
	}
	p.dirty = false
	return e.render(p), true
}

// render composes the page image. Pixels are produced in BGRA order and
// canonicalized on the way out, the same path a native engine's surface
// takes.
func (e *Engine) render(p *page) frame.Buffer {
	w, h := e.viewport.Width, e.viewport.Height
	pixels := make([]byte, int(w)*int(h)*4)

	base := [3]byte{0xEE, 0xEE, 0xEE} // blank page before the first commit
	if p.current != nil {
		base = pageColor(p.current.url, p.current.title)
	}
	band := lighten(base)
	bandTop, bandHeight := e.bandRange(p)

	for y := int32(0); y < int32(h); y++ {
		c := base
		if y >= bandTop && y < bandTop+bandHeight {
			c = band
		}
		row := int(y) * int(w) * 4
		for x := 0; x < int(w); x++ {
			i := row + x*4
			pixels[i] = c[2]
			pixels[i+1] = c[1]
			pixels[i+2] = c[0]
			pixels[i+3] = 0xFF
		}
	}

	e.drawPointer(pixels, p)

	buf, err := frame.New(pixels, frame.BGRA, w, h)
	if err != nil {
		panic(fmt.Sprintf("sim: render produced invalid frame: %v", err))
	}
	return buf
}

// pageColor derives a stable, non-placeholder color from page identity.
func pageColor(url, title string) [3]byte {
	sum := sha256.Sum256([]byte(url + "|" + title))
	return [3]byte{sum[0]&^0x80 | 0x20, sum[1]&^0x80 | 0x20, sum[2]&^0x80 | 0x20}
}

func lighten(c [3]byte) [3]byte {
	return [3]byte{c[0] | 0x60, c[1] | 0x60, c[2] | 0x60}
}

// bandRange places the page's lighter "link" band. The band scrolls with
// the document, wrapping around the viewport, so scroll input visibly moves
// page content.
func (e *Engine) bandRange(p *page) (top, height int32) {
	vh := int32(e.viewport.Height)
	if vh == 0 {
		return 0, 0
	}
	height = vh / 8
	if height == 0 {
		height = 1
	}
	top = (vh/4 - p.scroll) % vh
	if top < 0 {
		top += vh
	}
	return top, height
}

// cursorAt reports the pointer icon for a position: the link band wants a
// pointer hand, everything else the default arrow.
func (e *Engine) cursorAt(p *page, x, y int32) backend.CursorKind {
	if x < 0 || y < 0 || x >= int32(e.viewport.Width) || y >= int32(e.viewport.Height) {
		return backend.CursorDefault
	}
	top, height := e.bandRange(p)
	if y >= top && y < top+height {
		return backend.CursorPointer
	}
	return backend.CursorDefault
}

// drawPointer darkens a small square at the last pointer position so hover
// state is visible in painted output.
func (e *Engine) drawPointer(pixels []byte, p *page) {
	if !p.hasPointer {
		return
	}
	w, h := int32(e.viewport.Width), int32(e.viewport.Height)
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			x, y := p.pointerX+dx, p.pointerY+dy
			if x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			i := (int(y)*int(w) + int(x)) * 4
			pixels[i] >>= 2
			pixels[i+1] >>= 2
			pixels[i+2] >>= 2
		}
	}
}
