package backend

// KeyType is the key-event vocabulary the backends natively speak: the
// RawKeyDown/Char/KeyUp triple of WebKit-derived engines.
type KeyType int

const (
	// KeyRawDown announces a physical key press with no character payload.
	KeyRawDown KeyType = iota
	// KeyChar carries the text a press produced.
	KeyChar
	// KeyUp announces a release.
	KeyUp
)

// String names the key type.
func (t KeyType) String() string {
	switch t {
	case KeyChar:
		return "char"
	case KeyUp:
		return "key_up"
	default:
		return "raw_key_down"
	}
}

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every bit in mod is held.
func (m Modifiers) Has(mod Modifiers) bool { return m&mod == mod }

// VirtualKey is the canonical virtual-key numbering (the Windows-style
// codes the rendering backends share).
type VirtualKey int

const (
	VKBack      VirtualKey = 0x08
	VKTab       VirtualKey = 0x09
	VKReturn    VirtualKey = 0x0D
	VKShift     VirtualKey = 0x10
	VKControl   VirtualKey = 0x11
	VKMenu      VirtualKey = 0x12
	VKEscape    VirtualKey = 0x1B
	VKSpace     VirtualKey = 0x20
	VKPrior     VirtualKey = 0x21
	VKNext      VirtualKey = 0x22
	VKEnd       VirtualKey = 0x23
	VKHome      VirtualKey = 0x24
	VKLeft      VirtualKey = 0x25
	VKUp        VirtualKey = 0x26
	VKRight     VirtualKey = 0x27
	VKDown      VirtualKey = 0x28
	VKInsert    VirtualKey = 0x2D
	VKDelete    VirtualKey = 0x2E
	VK0         VirtualKey = 0x30 // '0'..'9' are VK0+n
	VKA         VirtualKey = 0x41 // 'a'..'z' are VKA+n
	VKF1        VirtualKey = 0x70 // F1..F12 are VKF1+n
	VKOEM1      VirtualKey = 0xBA // ;:
	VKOEMPlus   VirtualKey = 0xBB
	VKOEMComma  VirtualKey = 0xBC
	VKOEMMinus  VirtualKey = 0xBD
	VKOEMPeriod VirtualKey = 0xBE
	VKOEM2      VirtualKey = 0xBF // /?
	VKOEM3      VirtualKey = 0xC0 // `~
	VKOEM4      VirtualKey = 0xDB // [{
	VKOEM5      VirtualKey = 0xDC // \|
	VKOEM6      VirtualKey = 0xDD // ]}
	VKOEM7      VirtualKey = 0xDE // '"
)

// KeyEvent is the translated keyboard event an engine consumes. Text is
// populated only for KeyChar events.
type KeyEvent struct {
	Type           KeyType
	Text           string
	UnmodifiedText string
	VirtualKey     VirtualKey
	Modifiers      Modifiers
}

// PointerType discriminates native pointer events.
type PointerType int

const (
	PointerMoved PointerType = iota
	PointerDown
	PointerUp
)

// PointerButton identifies a pointer button in the native vocabulary.
// Host-side back/forward buttons never reach an engine; the session turns
// them into history navigation first.
type PointerButton int

const (
	ButtonNone PointerButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// PointerEvent is the translated pointer event an engine consumes.
// Coordinates are viewport pixels.
type PointerEvent struct {
	Type   PointerType
	Button PointerButton
	X      int32
	Y      int32
}

// ScrollEvent is a pixel-denominated scroll delta. Positive Y scrolls
// toward the top of the document.
type ScrollEvent struct {
	DeltaX int32
	DeltaY int32
}
