package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/input"
	"github.com/GriffinCanCode/WebPane/session"
)

// namedFromType maps terminal key types to their page-native named keys.
var namedFromType = map[tea.KeyType]input.NamedKey{
	tea.KeyEnter:     input.NamedEnter,
	tea.KeyTab:       input.NamedTab,
	tea.KeySpace:     input.NamedSpace,
	tea.KeyBackspace: input.NamedBackspace,
	tea.KeyDelete:    input.NamedDelete,
	tea.KeyInsert:    input.NamedInsert,
	tea.KeyEsc:       input.NamedEscape,
	tea.KeyUp:        input.NamedArrowUp,
	tea.KeyDown:      input.NamedArrowDown,
	tea.KeyLeft:      input.NamedArrowLeft,
	tea.KeyRight:     input.NamedArrowRight,
	tea.KeyHome:      input.NamedHome,
	tea.KeyEnd:       input.NamedEnd,
	tea.KeyPgUp:      input.NamedPageUp,
	tea.KeyPgDown:    input.NamedPageDown,
	tea.KeyF1:        input.NamedF1,
	tea.KeyF2:        input.NamedF2,
	tea.KeyF3:        input.NamedF3,
	tea.KeyF4:        input.NamedF4,
	tea.KeyF5:        input.NamedF5,
	tea.KeyF6:        input.NamedF6,
	tea.KeyF7:        input.NamedF7,
	tea.KeyF8:        input.NamedF8,
	tea.KeyF9:        input.NamedF9,
	tea.KeyF10:       input.NamedF10,
	tea.KeyF11:       input.NamedF11,
	tea.KeyF12:       input.NamedF12,
}

// forwardKey sends a terminal key to the current view as page input.
func (m model) forwardKey(msg tea.KeyMsg) {
	id, ok := m.ctrl.CurrentView()
	if !ok {
		return
	}
	for _, ev := range pageKeyEvents(msg) {
		m.dispatch(session.KeyInput{View: id, Event: ev})
	}
}

// pageKeyEvents maps one terminal key message to host key events. Terminals
// report presses only, so a release is synthesized after each press to give
// pages complete down/up pairs.
func pageKeyEvents(msg tea.KeyMsg) []input.KeyEvent {
	var mods backend.Modifiers
	if msg.Alt {
		mods |= backend.ModAlt
	}

	if msg.Type == tea.KeyShiftTab {
		return pressRelease(input.NameKey(input.NamedTab), "", mods|backend.ModShift)
	}

	if named, ok := namedFromType[msg.Type]; ok {
		return pressRelease(input.NameKey(named), "", mods)
	}

	if msg.Type == tea.KeyRunes {
		events := make([]input.KeyEvent, 0, 2*len(msg.Runes))
		for _, r := range msg.Runes {
			s := string(r)
			events = append(events, pressRelease(input.CharKey(s), s, mods)...)
		}
		return events
	}

	// Control chords arrive as dedicated key types; recover the key from
	// the string form ("ctrl+a").
	if key := msg.String(); strings.HasPrefix(key, "ctrl+") {
		rest := strings.TrimPrefix(key, "ctrl+")
		mods |= backend.ModCtrl
		if len(rest) == 1 {
			return pressRelease(input.CharKey(rest), "", mods)
		}
		if named, ok := input.ParseNamedKey(rest); ok {
			return pressRelease(input.NameKey(named), "", mods)
		}
	}
	return nil
}

func pressRelease(key input.Key, text string, mods backend.Modifiers) []input.KeyEvent {
	return []input.KeyEvent{
		{Key: key, Text: text, Modifiers: mods, Pressed: true},
		{Key: key, Modifiers: mods, Pressed: false},
	}
}
