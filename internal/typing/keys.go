package typing

import (
	"unicode"
	"unicode/utf8"
)

// Named keys understood by the interpreter.
const (
	KeyBackspace = "Backspace"
	KeySpace     = " "
)

// KeyEvent is a raw key press. Key is either a single character or a key
// name such as "Backspace". Only the modifiers that change interpretation
// are carried.
type KeyEvent struct {
	Key  string
	Ctrl bool
	Meta bool
}

// Rune returns a key event for a single character.
func Rune(r rune) KeyEvent {
	return KeyEvent{Key: string(r)}
}

// Backspace returns a backspace key event.
func Backspace() KeyEvent {
	return KeyEvent{Key: KeyBackspace}
}

// Space returns a space key event.
func Space() KeyEvent {
	return KeyEvent{Key: KeySpace}
}

func (k KeyEvent) bare() bool {
	return !k.Ctrl && !k.Meta
}

// char returns the key's rune when it is a single printable character.
func (k KeyEvent) char() (rune, bool) {
	r, size := utf8.DecodeRuneInString(k.Key)
	if r == utf8.RuneError || size != len(k.Key) {
		return 0, false
	}
	if !unicode.IsPrint(r) {
		return 0, false
	}
	return r, true
}

// startsSession reports whether the key may move an idle session to running.
func (k KeyEvent) startsSession() bool {
	if !k.bare() {
		return false
	}
	r, ok := k.char()
	if !ok {
		return false
	}
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
