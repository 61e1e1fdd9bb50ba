package cdp

import (
	"bytes"
	"fmt"
	"image/png"
	"net/url"

	"github.com/chromedp/cdproto/input"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/frame"
)

// navigationURL renders a page source as something the Navigate call
// accepts. Literal markup travels as a data URL.
func navigationURL(s backend.PageSource) string {
	if s.Kind == backend.SourceMarkup {
		return "data:text/html;charset=utf-8," + url.PathEscape(s.Value)
	}
	return s.Value
}

// keyParams translates a key event to its protocol dispatch.
func keyParams(ev backend.KeyEvent) *input.DispatchKeyEventParams {
	params := input.DispatchKeyEvent(keyType(ev.Type)).
		WithWindowsVirtualKeyCode(int64(ev.VirtualKey)).
		WithNativeVirtualKeyCode(int64(ev.VirtualKey)).
		WithModifiers(cdpModifiers(ev.Modifiers))
	if ev.Text != "" {
		params = params.WithText(ev.Text).WithUnmodifiedText(ev.UnmodifiedText)
	}
	return params
}

func keyType(t backend.KeyType) input.KeyType {
	switch t {
	case backend.KeyChar:
		return input.KeyChar
	case backend.KeyUp:
		return input.KeyUp
	default:
		return input.KeyRawDown
	}
}

func cdpModifiers(m backend.Modifiers) input.Modifier {
	var out input.Modifier
	if m.Has(backend.ModAlt) {
		out |= input.ModifierAlt
	}
	if m.Has(backend.ModCtrl) {
		out |= input.ModifierCtrl
	}
	if m.Has(backend.ModMeta) {
		out |= input.ModifierMeta
	}
	if m.Has(backend.ModShift) {
		out |= input.ModifierShift
	}
	return out
}

// pointerParams translates a button press or release.
func pointerParams(ev backend.PointerEvent) *input.DispatchMouseEventParams {
	mouseType := input.MousePressed
	if ev.Type == backend.PointerUp {
		mouseType = input.MouseReleased
	}
	return input.DispatchMouseEvent(mouseType, float64(ev.X), float64(ev.Y)).
		WithButton(cdpButton(ev.Button)).
		WithClickCount(1)
}

// moveParams translates pointer motion.
func moveParams(x, y int32) *input.DispatchMouseEventParams {
	return input.DispatchMouseEvent(input.MouseMoved, float64(x), float64(y)).
		WithButton(input.None)
}

// scrollParams translates a scroll delta into a wheel event at the last
// pointer position. The session's deltas point toward the document top and
// left when positive; wheel deltas grow toward the bottom and right, hence
// the sign flips.
func scrollParams(ev backend.ScrollEvent, x, y int32) *input.DispatchMouseEventParams {
	return input.DispatchMouseEvent(input.MouseWheel, float64(x), float64(y)).
		WithButton(input.None).
		WithDeltaX(float64(-ev.DeltaX)).
		WithDeltaY(float64(-ev.DeltaY))
}

func cdpButton(b backend.PointerButton) input.MouseButton {
	switch b {
	case backend.ButtonLeft:
		return input.Left
	case backend.ButtonMiddle:
		return input.Middle
	case backend.ButtonRight:
		return input.Right
	default:
		return input.None
	}
}

// decodePNG turns a screenshot into a canonical frame.
func decodePNG(data []byte) (frame.Buffer, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return frame.Buffer{}, fmt.Errorf("decode screenshot: %w", err)
	}
	return frame.FromImage(img), nil
}

// parseCursor maps a computed CSS cursor value to the host vocabulary.
// Unknown styles fall back to the default arrow rather than erroring: new
// cursor keywords appear across browser versions.
func parseCursor(css string) backend.CursorKind {
	switch css {
	case "pointer":
		return backend.CursorPointer
	case "text", "vertical-text":
		return backend.CursorText
	case "grab":
		return backend.CursorGrab
	case "grabbing":
		return backend.CursorGrabbing
	case "crosshair":
		return backend.CursorCrosshair
	case "progress", "wait":
		return backend.CursorProgress
	case "not-allowed", "no-drop":
		return backend.CursorNotAllowed
	case "zoom-in":
		return backend.CursorZoomIn
	case "ns-resize", "row-resize", "n-resize", "s-resize":
		return backend.CursorResizeNS
	case "ew-resize", "col-resize", "e-resize", "w-resize":
		return backend.CursorResizeEW
	default:
		return backend.CursorDefault
	}
}
