package input

import "github.com/GriffinCanCode/WebPane/backend"

// keyMapping is the static translation entry for one named key: the literal
// text it produces (empty for non-printing keys) and its virtual-key code.
type keyMapping struct {
	text string
	vk   backend.VirtualKey
}

var namedKeys = map[NamedKey]keyMapping{
	NamedSpace:      {" ", backend.VKSpace},
	NamedEnter:      {"", backend.VKReturn},
	NamedTab:        {"", backend.VKTab},
	NamedBackspace:  {"", backend.VKBack},
	NamedDelete:     {"", backend.VKDelete},
	NamedInsert:     {"", backend.VKInsert},
	NamedEscape:     {"", backend.VKEscape},
	NamedHome:       {"", backend.VKHome},
	NamedEnd:        {"", backend.VKEnd},
	NamedPageUp:     {"", backend.VKPrior},
	NamedPageDown:   {"", backend.VKNext},
	NamedArrowLeft:  {"", backend.VKLeft},
	NamedArrowRight: {"", backend.VKRight},
	NamedArrowUp:    {"", backend.VKUp},
	NamedArrowDown:  {"", backend.VKDown},
	NamedShift:      {"", backend.VKShift},
	NamedControl:    {"", backend.VKControl},
	NamedAlt:        {"", backend.VKMenu},
	NamedF1:         {"", backend.VKF1},
	NamedF2:         {"", backend.VKF1 + 1},
	NamedF3:         {"", backend.VKF1 + 2},
	NamedF4:         {"", backend.VKF1 + 3},
	NamedF5:         {"", backend.VKF1 + 4},
	NamedF6:         {"", backend.VKF1 + 5},
	NamedF7:         {"", backend.VKF1 + 6},
	NamedF8:         {"", backend.VKF1 + 7},
	NamedF9:         {"", backend.VKF1 + 8},
	NamedF10:        {"", backend.VKF1 + 9},
	NamedF11:        {"", backend.VKF1 + 10},
	NamedF12:        {"", backend.VKF1 + 11},
}

// charVirtualKey maps a layout character to its virtual-key code. Letters
// collapse to the uppercase code regardless of case; shifted punctuation
// shares the code of its base key.
func charVirtualKey(char string) (backend.VirtualKey, bool) {
	if len(char) == 1 {
		c := char[0]
		switch {
		case c >= 'a' && c <= 'z':
			return backend.VKA + backend.VirtualKey(c-'a'), true
		case c >= 'A' && c <= 'Z':
			return backend.VKA + backend.VirtualKey(c-'A'), true
		case c >= '0' && c <= '9':
			return backend.VK0 + backend.VirtualKey(c-'0'), true
		}
	}
	vk, ok := punctVirtualKeys[char]
	return vk, ok
}

// punctVirtualKeys covers the US-layout punctuation keys, shifted and
// unshifted variants sharing the base key's code.
var punctVirtualKeys = map[string]backend.VirtualKey{
	";":  backend.VKOEM1,
	":":  backend.VKOEM1,
	"=":  backend.VKOEMPlus,
	"+":  backend.VKOEMPlus,
	",":  backend.VKOEMComma,
	"<":  backend.VKOEMComma,
	"-":  backend.VKOEMMinus,
	"_":  backend.VKOEMMinus,
	".":  backend.VKOEMPeriod,
	">":  backend.VKOEMPeriod,
	"/":  backend.VKOEM2,
	"?":  backend.VKOEM2,
	"`":  backend.VKOEM3,
	"~":  backend.VKOEM3,
	"[":  backend.VKOEM4,
	"{":  backend.VKOEM4,
	"\\": backend.VKOEM5,
	"|":  backend.VKOEM5,
	"]":  backend.VKOEM6,
	"}":  backend.VKOEM6,
	"'":  backend.VKOEM7,
	"\"": backend.VKOEM7,
	"!":  backend.VK0 + 1,
	"@":  backend.VK0 + 2,
	"#":  backend.VK0 + 3,
	"$":  backend.VK0 + 4,
	"%":  backend.VK0 + 5,
	"^":  backend.VK0 + 6,
	"&":  backend.VK0 + 7,
	"*":  backend.VK0 + 8,
	"(":  backend.VK0 + 9,
	")":  backend.VK0,
}

// namedKeyNames maps transport-friendly names to named keys for hosts that
// receive keys as strings.
var namedKeyNames = map[string]NamedKey{
	"space":     NamedSpace,
	"enter":     NamedEnter,
	"return":    NamedEnter,
	"tab":       NamedTab,
	"backspace": NamedBackspace,
	"delete":    NamedDelete,
	"insert":    NamedInsert,
	"escape":    NamedEscape,
	"esc":       NamedEscape,
	"home":      NamedHome,
	"end":       NamedEnd,
	"pageup":    NamedPageUp,
	"pgup":      NamedPageUp,
	"pagedown":  NamedPageDown,
	"pgdown":    NamedPageDown,
	"left":      NamedArrowLeft,
	"right":     NamedArrowRight,
	"up":        NamedArrowUp,
	"down":      NamedArrowDown,
	"shift":     NamedShift,
	"ctrl":      NamedControl,
	"alt":       NamedAlt,
	"f1":        NamedF1,
	"f2":        NamedF2,
	"f3":        NamedF3,
	"f4":        NamedF4,
	"f5":        NamedF5,
	"f6":        NamedF6,
	"f7":        NamedF7,
	"f8":        NamedF8,
	"f9":        NamedF9,
	"f10":       NamedF10,
	"f11":       NamedF11,
	"f12":       NamedF12,
}

// ParseNamedKey resolves a transport key name ("enter", "f5") to its named
// key. Returns false for unknown names.
func ParseNamedKey(name string) (NamedKey, bool) {
	k, ok := namedKeyNames[name]
	return k, ok
}
