// Package frame provides the canonical pixel buffer exchanged between
// rendering backends and hosts.
//
// Backends produce pixels in whatever byte order their surface uses;
// constructors here normalize everything to RGBA so hosts only ever see
// one layout.
package frame

import (
	"fmt"
	"image"
	"image/color"
)

// bytesPerPixel is the size of one canonical RGBA pixel.
const bytesPerPixel = 4

// Format identifies the byte ordering of source pixel data.
type Format int

const (
	// RGBA is the canonical layout: one byte each of red, green, blue, alpha.
	RGBA Format = iota
	// BGRA is the layout most native surfaces produce; constructors swap
	// the red and blue channels to canonicalize it.
	BGRA
)

// Buffer is a normalized RGBA snapshot of a view's appearance.
//
// Invariant: len(Pixels) == Width*Height*4. Constructors enforce it;
// buffers arriving from outside this package can be checked with Validate.
type Buffer struct {
	Pixels []byte
	Width  uint32
	Height uint32
}

// New builds a canonical buffer from raw pixel data in the given format.
// The source slice is copied, never retained or modified. Data whose byte
// length does not match the dimensions is rejected, not truncated or padded.
func New(pixels []byte, format Format, width, height uint32) (Buffer, error) {
	if got, want := len(pixels), int(width)*int(height)*bytesPerPixel; got != want {
		return Buffer{}, fmt.Errorf("frame: %dx%d needs %d bytes, got %d", width, height, want, got)
	}
	out := make([]byte, len(pixels))
	switch format {
	case BGRA:
		for i := 0; i+bytesPerPixel <= len(pixels); i += bytesPerPixel {
			out[i] = pixels[i+2]
			out[i+1] = pixels[i+1]
			out[i+2] = pixels[i]
			out[i+3] = pixels[i+3]
		}
	default:
		copy(out, pixels)
	}
	return Buffer{Pixels: out, Width: width, Height: height}, nil
}

// Placeholder returns a solid opaque white buffer of the given size: what
// hosts see for a view that has not produced pixels yet.
func Placeholder(width, height uint32) Buffer {
	return Solid(width, height, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
}

// Solid returns a buffer filled with a single color.
func Solid(width, height uint32, c color.RGBA) Buffer {
	px := make([]byte, int(width)*int(height)*bytesPerPixel)
	for i := 0; i < len(px); i += bytesPerPixel {
		px[i] = c.R
		px[i+1] = c.G
		px[i+2] = c.B
		px[i+3] = c.A
	}
	return Buffer{Pixels: px, Width: width, Height: height}
}

// FromImage converts a decoded image into a canonical buffer.
func FromImage(img image.Image) Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == w*bytesPerPixel {
		px := make([]byte, len(rgba.Pix))
		copy(px, rgba.Pix)
		return Buffer{Pixels: px, Width: uint32(w), Height: uint32(h)}
	}
	px := make([]byte, w*h*bytesPerPixel)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			px[i] = byte(r >> 8)
			px[i+1] = byte(g >> 8)
			px[i+2] = byte(b >> 8)
			px[i+3] = byte(a >> 8)
			i += bytesPerPixel
		}
	}
	return Buffer{Pixels: px, Width: uint32(w), Height: uint32(h)}
}

// ToImage copies the buffer into an image.RGBA for host-side encoding.
func (b Buffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(b.Width), int(b.Height)))
	copy(img.Pix, b.Pixels)
	return img
}

// Clone returns an independent copy of the buffer.
func (b Buffer) Clone() Buffer {
	px := make([]byte, len(b.Pixels))
	copy(px, b.Pixels)
	return Buffer{Pixels: px, Width: b.Width, Height: b.Height}
}

// Validate reports whether the buffer satisfies the size invariant.
func (b Buffer) Validate() error {
	if got, want := len(b.Pixels), int(b.Width)*int(b.Height)*bytesPerPixel; got != want {
		return fmt.Errorf("frame: %dx%d needs %d bytes, got %d", b.Width, b.Height, want, got)
	}
	return nil
}

// Empty reports whether the buffer holds no pixels.
func (b Buffer) Empty() bool {
	return len(b.Pixels) == 0 || b.Width == 0 || b.Height == 0
}
