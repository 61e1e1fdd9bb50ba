package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebPane/backend"
)

func TestTranslateKeyCharacter(t *testing.T) {
	out, ok := TranslateKey(KeyEvent{Key: CharKey("a"), Text: "a", Pressed: true})
	require.True(t, ok)
	assert.Equal(t, backend.KeyChar, out.Type)
	assert.Equal(t, "a", out.Text)
	assert.Equal(t, "a", out.UnmodifiedText)
	assert.Equal(t, backend.VKA, out.VirtualKey)
	assert.Equal(t, backend.Modifiers(0), out.Modifiers)
}

func TestTranslateKeyControlChord(t *testing.T) {
	// Ctrl plus a character key is a command, not text insertion.
	out, ok := TranslateKey(KeyEvent{
		Key:       CharKey("a"),
		Text:      "a",
		Modifiers: backend.ModCtrl,
		Pressed:   true,
	})
	require.True(t, ok)
	assert.Equal(t, backend.KeyRawDown, out.Type)
	assert.Empty(t, out.Text)
	assert.Equal(t, backend.VKA, out.VirtualKey)
	assert.True(t, out.Modifiers.Has(backend.ModCtrl))
}

func TestTranslateKeyRelease(t *testing.T) {
	out, ok := TranslateKey(KeyEvent{Key: CharKey("a"), Text: "a", Pressed: false})
	require.True(t, ok)
	assert.Equal(t, backend.KeyUp, out.Type)
	assert.Empty(t, out.Text)
}

func TestTranslateKeySpaceProducesText(t *testing.T) {
	out, ok := TranslateKey(KeyEvent{Key: NameKey(NamedSpace), Pressed: true})
	require.True(t, ok)
	assert.Equal(t, backend.KeyChar, out.Type)
	assert.Equal(t, " ", out.Text)
	assert.Equal(t, backend.VKSpace, out.VirtualKey)
}

func TestTranslateKeyNamedNonPrinting(t *testing.T) {
	out, ok := TranslateKey(KeyEvent{Key: NameKey(NamedEnter), Pressed: true})
	require.True(t, ok)
	assert.Equal(t, backend.KeyRawDown, out.Type)
	assert.Empty(t, out.Text)
	assert.Equal(t, backend.VKReturn, out.VirtualKey)
}

func TestTranslateKeyUppercaseSharesCode(t *testing.T) {
	lower, ok := TranslateKey(KeyEvent{Key: CharKey("g"), Text: "g", Pressed: true})
	require.True(t, ok)
	upper, ok := TranslateKey(KeyEvent{
		Key:       CharKey("G"),
		Text:      "G",
		Modifiers: backend.ModShift,
		Pressed:   true,
	})
	require.True(t, ok)
	assert.Equal(t, lower.VirtualKey, upper.VirtualKey)
	assert.Equal(t, "G", upper.Text)
}

func TestTranslateKeyShiftedPunctuation(t *testing.T) {
	out, ok := TranslateKey(KeyEvent{
		Key:       CharKey("?"),
		Text:      "?",
		Modifiers: backend.ModShift,
		Pressed:   true,
	})
	require.True(t, ok)
	assert.Equal(t, backend.VKOEM2, out.VirtualKey)
	assert.Equal(t, "?", out.Text)
}

func TestTranslateKeyUnmappedDropped(t *testing.T) {
	_, ok := TranslateKey(KeyEvent{Key: CharKey("é"), Text: "é", Pressed: true})
	assert.False(t, ok)

	_, ok = TranslateKey(KeyEvent{Pressed: true})
	assert.False(t, ok, "zero key has no identity")
}

func TestTranslateKeyNonASCIITextFallsBack(t *testing.T) {
	// Mapped key, non-ASCII composed text: deliverable as a raw key press
	// but not as character input.
	out, ok := TranslateKey(KeyEvent{Key: CharKey("e"), Text: "é", Pressed: true})
	require.True(t, ok)
	assert.Equal(t, backend.KeyRawDown, out.Type)
	assert.Empty(t, out.Text)
}

func TestTranslatePointerMove(t *testing.T) {
	res := TranslatePointer(PointerEvent{Kind: PointerMove, X: 14, Y: 99})
	assert.Equal(t, PointerDeliver, res.Op)
	assert.Equal(t, backend.PointerMoved, res.Event.Type)
	assert.Equal(t, int32(14), res.Event.X)
	assert.Equal(t, int32(99), res.Event.Y)
}

func TestTranslatePointerButtons(t *testing.T) {
	press := TranslatePointer(PointerEvent{Kind: PointerPress, Button: ButtonLeft, X: 5, Y: 6})
	assert.Equal(t, PointerDeliver, press.Op)
	assert.Equal(t, backend.PointerDown, press.Event.Type)
	assert.Equal(t, backend.ButtonLeft, press.Event.Button)

	release := TranslatePointer(PointerEvent{Kind: PointerRelease, Button: ButtonRight, X: 5, Y: 6})
	assert.Equal(t, PointerDeliver, release.Op)
	assert.Equal(t, backend.PointerUp, release.Event.Type)
	assert.Equal(t, backend.ButtonRight, release.Event.Button)
}

func TestTranslatePointerHistoryButtons(t *testing.T) {
	back := TranslatePointer(PointerEvent{Kind: PointerRelease, Button: ButtonBack})
	assert.Equal(t, PointerHistoryBack, back.Op)

	forward := TranslatePointer(PointerEvent{Kind: PointerRelease, Button: ButtonForward})
	assert.Equal(t, PointerHistoryForward, forward.Op)

	// Only the release triggers navigation; the press must not double-fire.
	press := TranslatePointer(PointerEvent{Kind: PointerPress, Button: ButtonBack})
	assert.Equal(t, PointerDrop, press.Op)
}

func TestTranslatePointerCrossing(t *testing.T) {
	assert.Equal(t, PointerFocus, TranslatePointer(PointerEvent{Kind: PointerEnter}).Op)
	assert.Equal(t, PointerUnfocus, TranslatePointer(PointerEvent{Kind: PointerLeave}).Op)
}

func TestTranslatePointerUnknownButtonDropped(t *testing.T) {
	res := TranslatePointer(PointerEvent{Kind: PointerPress, Button: Button(42)})
	assert.Equal(t, PointerDrop, res.Op)
}

func TestTranslateScrollLines(t *testing.T) {
	out := TranslateScroll(ScrollDelta{Unit: UnitLines, Y: 3})
	assert.Equal(t, int32(300), out.DeltaY)
	assert.Equal(t, int32(0), out.DeltaX)

	out = TranslateScroll(ScrollDelta{Unit: UnitLines, X: -1, Y: -2})
	assert.Equal(t, int32(-100), out.DeltaX)
	assert.Equal(t, int32(-200), out.DeltaY)
}

func TestTranslateScrollPixelsPassThrough(t *testing.T) {
	out := TranslateScroll(ScrollDelta{Unit: UnitPixels, X: 7, Y: -42})
	assert.Equal(t, int32(7), out.DeltaX)
	assert.Equal(t, int32(-42), out.DeltaY)
}

func TestParseNamedKey(t *testing.T) {
	k, ok := ParseNamedKey("enter")
	require.True(t, ok)
	assert.Equal(t, NamedEnter, k)

	_, ok = ParseNamedKey("hyperspace")
	assert.False(t, ok)
}
