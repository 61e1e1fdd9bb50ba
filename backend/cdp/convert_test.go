package cdp

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chromedp/cdproto/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebPane/backend"
)

func TestNavigationURL(t *testing.T) {
	assert.Equal(t,
		"https://example.test/a?b=c",
		navigationURL(backend.URLSource("https://example.test/a?b=c")),
	)

	got := navigationURL(backend.MarkupSource("<h1>hi there</h1>"))
	assert.Equal(t, "data:text/html;charset=utf-8,%3Ch1%3Ehi%20there%3C%2Fh1%3E", got)
}

func TestKeyParamsCharacter(t *testing.T) {
	params := keyParams(backend.KeyEvent{
		Type:           backend.KeyChar,
		Text:           "a",
		UnmodifiedText: "a",
		VirtualKey:     backend.VKA,
	})

	assert.Equal(t, input.KeyChar, params.Type)
	assert.Equal(t, "a", params.Text)
	assert.Equal(t, "a", params.UnmodifiedText)
	assert.Equal(t, int64(backend.VKA), params.WindowsVirtualKeyCode)
	assert.Equal(t, input.ModifierNone, params.Modifiers)
}

func TestKeyParamsRawDownCarriesNoText(t *testing.T) {
	params := keyParams(backend.KeyEvent{
		Type:       backend.KeyRawDown,
		VirtualKey: backend.VKReturn,
		Modifiers:  backend.ModCtrl | backend.ModShift,
	})

	assert.Equal(t, input.KeyRawDown, params.Type)
	assert.Empty(t, params.Text)
	assert.Equal(t, input.ModifierCtrl|input.ModifierShift, params.Modifiers)
}

func TestKeyParamsRelease(t *testing.T) {
	params := keyParams(backend.KeyEvent{Type: backend.KeyUp, VirtualKey: backend.VKA})
	assert.Equal(t, input.KeyUp, params.Type)
}

func TestCdpModifiers(t *testing.T) {
	assert.Equal(t, input.ModifierNone, cdpModifiers(0))
	assert.Equal(t, input.ModifierAlt, cdpModifiers(backend.ModAlt))
	assert.Equal(t,
		input.ModifierCtrl|input.ModifierMeta,
		cdpModifiers(backend.ModCtrl|backend.ModMeta),
	)
}

func TestPointerParams(t *testing.T) {
	press := pointerParams(backend.PointerEvent{
		Type: backend.PointerDown, Button: backend.ButtonLeft, X: 10, Y: 20,
	})
	assert.Equal(t, input.MousePressed, press.Type)
	assert.Equal(t, input.Left, press.Button)
	assert.Equal(t, float64(10), press.X)
	assert.Equal(t, float64(20), press.Y)
	assert.Equal(t, int64(1), press.ClickCount)

	release := pointerParams(backend.PointerEvent{
		Type: backend.PointerUp, Button: backend.ButtonRight, X: 10, Y: 20,
	})
	assert.Equal(t, input.MouseReleased, release.Type)
	assert.Equal(t, input.Right, release.Button)
}

func TestMoveParams(t *testing.T) {
	params := moveParams(7, 9)
	assert.Equal(t, input.MouseMoved, params.Type)
	assert.Equal(t, input.None, params.Button)
	assert.Equal(t, float64(7), params.X)
	assert.Equal(t, float64(9), params.Y)
}

func TestScrollParamsFlipSigns(t *testing.T) {
	// Toward-top deltas become downward-negative wheel deltas.
	params := scrollParams(backend.ScrollEvent{DeltaX: 100, DeltaY: 300}, 5, 6)
	assert.Equal(t, input.MouseWheel, params.Type)
	assert.Equal(t, float64(-100), params.DeltaX)
	assert.Equal(t, float64(-300), params.DeltaY)
	assert.Equal(t, float64(5), params.X)
	assert.Equal(t, float64(6), params.Y)
}

func TestDecodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xFF})
	img.SetRGBA(2, 1, color.RGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xFF})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	got, err := decodePNG(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, got.Validate())
	assert.EqualValues(t, 3, got.Width)
	assert.EqualValues(t, 2, got.Height)
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0xFF}, got.Pixels[:4])
	last := (2*3 + 2) * 4
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xFF}, got.Pixels[last:last+4])
}

func TestDecodePNGRejectsGarbage(t *testing.T) {
	_, err := decodePNG([]byte("not a png"))
	assert.Error(t, err)
}

func TestParseCursor(t *testing.T) {
	assert.Equal(t, backend.CursorPointer, parseCursor("pointer"))
	assert.Equal(t, backend.CursorText, parseCursor("text"))
	assert.Equal(t, backend.CursorProgress, parseCursor("wait"))
	assert.Equal(t, backend.CursorResizeEW, parseCursor("col-resize"))
	assert.Equal(t, backend.CursorDefault, parseCursor("auto"))
	assert.Equal(t, backend.CursorDefault, parseCursor("some-new-keyword"))
}
