// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typeflow/internal/typing"
)

const (
	windowBehind = 1
	windowAhead  = 3
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildActiveWord styles the word under the cursor. Typed runes are checked
// against the target; runes typed past its end are shown as they were typed.
func buildActiveWord(target, input []rune) []styledRune {
	n := len(target)
	if len(input) > n {
		n = len(input)
	}
	out := make([]styledRune, 0, n)
	for i := 0; i < n; i++ {
		var displayed rune
		style := currentWordStyle
		switch {
		case i < len(input) && i < len(target):
			displayed = target[i]
			if input[i] == target[i] {
				style = correctStyle
			} else {
				style = incorrectStyle
			}
		case i < len(input):
			displayed = input[i]
			style = incorrectStyle
		default:
			displayed = target[i]
			if i == len(input) {
				style = cursorStyle
			}
		}
		out = append(out, styledRune{
			s:     style.Render(string(displayed)),
			width: runewidth.RuneWidth(displayed),
		})
	}
	return out
}

// buildWindow renders the words around the cursor: one behind, the active
// word and three ahead.
func buildWindow(snap typing.Snapshot) []styledRune {
	cur := snap.CurrentWordIndex
	from := cur - windowBehind
	if from < 0 {
		from = 0
	}
	to := cur + windowAhead
	if to >= len(snap.Words) {
		to = len(snap.Words) - 1
	}

	var out []styledRune
	for i := from; i <= to; i++ {
		if len(out) > 0 {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		word := snap.Words[i]
		switch {
		case i == cur:
			out = append(out, buildActiveWord([]rune(word), []rune(snap.CurrentInput))...)
		case i < cur:
			out = append(out, plainRunes(word, doneStyle.Render)...)
		default:
			out = append(out, plainRunes(word, pendingStyle.Render)...)
		}
	}
	return out
}

func plainRunes(word string, render func(...string) string) []styledRune {
	out := make([]styledRune, 0, len(word))
	for _, r := range word {
		out = append(out, styledRune{s: render(string(r)), width: runewidth.RuneWidth(r)})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
