// Package input translates host input events into the native vocabulary
// rendering backends consume.
//
// Translation is stateless: every function is a pure mapping from one host
// event to at most one native outcome. Events with no native representation
// are dropped, never surfaced as errors — unmapped keys are expected across
// platforms and must not break input delivery.
package input

import "github.com/GriffinCanCode/WebPane/backend"

// NamedKey identifies keys that carry no layout-produced character.
type NamedKey int

const (
	NamedNone NamedKey = iota
	NamedSpace
	NamedEnter
	NamedTab
	NamedBackspace
	NamedDelete
	NamedInsert
	NamedEscape
	NamedHome
	NamedEnd
	NamedPageUp
	NamedPageDown
	NamedArrowLeft
	NamedArrowRight
	NamedArrowUp
	NamedArrowDown
	NamedShift
	NamedControl
	NamedAlt
	NamedF1
	NamedF2
	NamedF3
	NamedF4
	NamedF5
	NamedF6
	NamedF7
	NamedF8
	NamedF9
	NamedF10
	NamedF11
	NamedF12
)

// Key is the symbolic identity of a key: either a named key or the
// character it produces under the active layout. The zero Key is
// unidentified and translates to nothing.
type Key struct {
	Name NamedKey
	Char string
}

// CharKey returns a Key for a layout-produced character.
func CharKey(char string) Key { return Key{Char: char} }

// NameKey returns a Key for a named key.
func NameKey(name NamedKey) Key { return Key{Name: name} }

// KeyEvent is a host keyboard event, already normalized by the host
// toolkit: symbolic key, optional literal text, modifier set, press state.
type KeyEvent struct {
	Key       Key
	Text      string
	Modifiers backend.Modifiers
	Pressed   bool
}

// TranslateKey maps a host keyboard event into the native vocabulary. The
// second return is false when the event has no mapping and must be dropped.
//
// Character text comes from the event's literal-text field, never
// reconstructed from the symbolic key; named keys use the fixed text of the
// static table. A held control modifier forces RawKeyDown even when literal
// text exists: Ctrl+key is a command, not character input.
func TranslateKey(ev KeyEvent) (backend.KeyEvent, bool) {
	text, vk, ok := resolveKey(ev)
	if !ok {
		return backend.KeyEvent{}, false
	}
	out := backend.KeyEvent{
		Type:       classifyKey(ev, text),
		VirtualKey: vk,
		Modifiers:  ev.Modifiers,
	}
	if out.Type == backend.KeyChar {
		out.Text = text
		out.UnmodifiedText = text
	}
	return out, true
}

// resolveKey finds the text payload and virtual-key code for the event.
func resolveKey(ev KeyEvent) (string, backend.VirtualKey, bool) {
	if ev.Key.Name != NamedNone {
		mapping, ok := namedKeys[ev.Key.Name]
		if !ok {
			return "", 0, false
		}
		return mapping.text, mapping.vk, true
	}
	if ev.Key.Char == "" {
		return "", 0, false
	}
	vk, ok := charVirtualKey(ev.Key.Char)
	if !ok {
		return "", 0, false
	}
	return ev.Text, vk, true
}

func classifyKey(ev KeyEvent, text string) backend.KeyType {
	switch {
	case ev.Modifiers.Has(backend.ModCtrl):
		return backend.KeyRawDown
	case text != "" && isASCII(text) && ev.Pressed:
		return backend.KeyChar
	case ev.Pressed:
		return backend.KeyRawDown
	default:
		return backend.KeyUp
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// PointerKind discriminates host pointer events.
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerPress
	PointerRelease
	// PointerEnter and PointerLeave report the pointer crossing into or out
	// of the session surface.
	PointerEnter
	PointerLeave
)

// Button identifies a host pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
	ButtonBack
	ButtonForward
)

// PointerEvent is a host pointer event in viewport coordinates.
type PointerEvent struct {
	Kind   PointerKind
	Button Button
	X      int32
	Y      int32
}

// PointerOp says what the session should do with a translated pointer event.
type PointerOp int

const (
	// PointerDrop means the event has no native effect.
	PointerDrop PointerOp = iota
	// PointerDeliver forwards Event to the engine.
	PointerDeliver
	// PointerHistoryBack navigates the view's history backwards.
	PointerHistoryBack
	// PointerHistoryForward navigates the view's history forwards.
	PointerHistoryForward
	// PointerFocus and PointerUnfocus toggle engine focus.
	PointerFocus
	PointerUnfocus
)

// PointerResult is the outcome of translating one host pointer event.
type PointerResult struct {
	Op    PointerOp
	Event backend.PointerEvent
}

// TranslatePointer maps a host pointer event to its native outcome. The
// back/forward buttons become history navigation on release (never generic
// pointer events); enter/leave become focus hints; unknown buttons drop.
func TranslatePointer(ev PointerEvent) PointerResult {
	switch ev.Kind {
	case PointerMove:
		return PointerResult{
			Op:    PointerDeliver,
			Event: backend.PointerEvent{Type: backend.PointerMoved, X: ev.X, Y: ev.Y},
		}
	case PointerEnter:
		return PointerResult{Op: PointerFocus}
	case PointerLeave:
		return PointerResult{Op: PointerUnfocus}
	case PointerPress, PointerRelease:
		return translateButton(ev)
	default:
		return PointerResult{Op: PointerDrop}
	}
}

func translateButton(ev PointerEvent) PointerResult {
	switch ev.Button {
	case ButtonBack:
		if ev.Kind == PointerRelease {
			return PointerResult{Op: PointerHistoryBack}
		}
		return PointerResult{Op: PointerDrop}
	case ButtonForward:
		if ev.Kind == PointerRelease {
			return PointerResult{Op: PointerHistoryForward}
		}
		return PointerResult{Op: PointerDrop}
	}
	button, ok := nativeButton(ev.Button)
	if !ok {
		return PointerResult{Op: PointerDrop}
	}
	eventType := backend.PointerDown
	if ev.Kind == PointerRelease {
		eventType = backend.PointerUp
	}
	return PointerResult{
		Op:    PointerDeliver,
		Event: backend.PointerEvent{Type: eventType, Button: button, X: ev.X, Y: ev.Y},
	}
}

func nativeButton(b Button) (backend.PointerButton, bool) {
	switch b {
	case ButtonLeft:
		return backend.ButtonLeft, true
	case ButtonRight:
		return backend.ButtonRight, true
	case ButtonMiddle:
		return backend.ButtonMiddle, true
	default:
		return backend.ButtonNone, false
	}
}

// ScrollUnit distinguishes line- from pixel-denominated deltas.
type ScrollUnit int

const (
	UnitLines ScrollUnit = iota
	UnitPixels
)

// LineScrollPixels approximates one scroll line in pixels. Backends only
// understand pixel deltas.
const LineScrollPixels = 100

// ScrollDelta is a host scroll event. Positive Y scrolls toward the top of
// the document.
type ScrollDelta struct {
	Unit ScrollUnit
	X    float64
	Y    float64
}

// TranslateScroll converts a host scroll delta to native pixels.
func TranslateScroll(d ScrollDelta) backend.ScrollEvent {
	x, y := d.X, d.Y
	if d.Unit == UnitLines {
		x *= LineScrollPixels
		y *= LineScrollPixels
	}
	return backend.ScrollEvent{DeltaX: int32(x), DeltaY: int32(y)}
}
