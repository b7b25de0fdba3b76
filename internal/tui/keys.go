package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typeflow/internal/typing"
)

type keyMap struct {
	Reset key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Reset: key.NewBinding(
			key.WithKeys("tab", "ctrl+r"),
			key.WithHelp("tab", "restart"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// keyEvents translates a terminal key press into session key events. Pasted
// text arrives as several runes and yields one event per rune.
func keyEvents(msg tea.KeyMsg) []typing.KeyEvent {
	switch msg.Type {
	case tea.KeyRunes:
		out := make([]typing.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			ev := typing.Rune(r)
			ev.Meta = msg.Alt
			out = append(out, ev)
		}
		return out
	case tea.KeySpace:
		ev := typing.Space()
		ev.Meta = msg.Alt
		return []typing.KeyEvent{ev}
	case tea.KeyBackspace, tea.KeyCtrlH:
		return []typing.KeyEvent{typing.Backspace()}
	}
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		return []typing.KeyEvent{{
			Key:  string(rune('a' + int(msg.Type-tea.KeyCtrlA))),
			Ctrl: true,
			Meta: msg.Alt,
		}}
	}
	return nil
}
