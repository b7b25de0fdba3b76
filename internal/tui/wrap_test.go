package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/typeflow/internal/typing"
)

func TestBuildActiveWordCursor(t *testing.T) {
	runes := buildActiveWord([]rune("ab"), []rune("a"))
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildActiveWordKeepsTargetOnMistype(t *testing.T) {
	runes := buildActiveWord([]rune("ab"), []rune("ax"))
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style on the target rune")
	}
}

func TestBuildActiveWordShowsOverflow(t *testing.T) {
	runes := buildActiveWord([]rune("ab"), []rune("abcd"))
	if len(runes) != 4 {
		t.Fatalf("expected 4 runes, got %d", len(runes))
	}
	if runes[3].s != incorrectStyle.Render("d") {
		t.Fatalf("expected overflow rune in incorrect style")
	}
}

func TestBuildActiveWordUntyped(t *testing.T) {
	runes := buildActiveWord([]rune("go"), nil)
	if runes[0].s != cursorStyle.Render("g") {
		t.Fatalf("expected cursor on first rune")
	}
	if runes[1].s != currentWordStyle.Render("o") {
		t.Fatalf("expected current word style after cursor")
	}
}

func TestBuildWindowBounds(t *testing.T) {
	snap := typing.Snapshot{
		Words:            []string{"aa", "bb", "cc", "dd", "ee", "ff", "gg"},
		CurrentWordIndex: 2,
	}
	got := stripped(buildWindow(snap))
	if got != "bb cc dd ee ff" {
		t.Fatalf("unexpected window %q", got)
	}

	snap.CurrentWordIndex = 0
	if got := stripped(buildWindow(snap)); got != "aa bb cc dd" {
		t.Fatalf("unexpected window at start %q", got)
	}

	snap.CurrentWordIndex = 6
	if got := stripped(buildWindow(snap)); got != "ff gg" {
		t.Fatalf("unexpected window at end %q", got)
	}
}

func TestBuildWindowStylesRoles(t *testing.T) {
	snap := typing.Snapshot{
		Words:            []string{"aa", "bb", "cc"},
		CurrentWordIndex: 1,
		CurrentInput:     "b",
	}
	runes := buildWindow(snap)
	if runes[0].s != doneStyle.Render("a") {
		t.Fatalf("expected done style for previous word")
	}
	if runes[3].s != correctStyle.Render("b") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[6].s != pendingStyle.Render("c") {
		t.Fatalf("expected pending style for upcoming word")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := plainRunes("abc", func(s ...string) string { return strings.Join(s, "") })
	runes = append(runes, styledRune{s: " ", width: 1, isSpace: true})
	runes = append(runes, plainRunes("def", func(s ...string) string { return strings.Join(s, "") })...)

	if got := wrapStyledRunes(runes, 5); got != "abc\ndef" {
		t.Fatalf("unexpected wrap %q", got)
	}
	if got := wrapStyledRunes(runes, 0); got != "abc def" {
		t.Fatalf("unexpected unwrapped output %q", got)
	}
}

func stripped(runes []styledRune) string {
	return ansi.Strip(renderStyledRunes(runes))
}
