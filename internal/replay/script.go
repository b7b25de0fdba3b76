// Package replay plays keystroke scripts through a session on a synthetic clock.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/typeflow/internal/typing"
)

// ErrSyntax is wrapped by every script parse error.
var ErrSyntax = errors.New("invalid replay script")

// Step is one scripted key press at an offset from the start of the script.
type Step struct {
	At  time.Duration
	Key typing.KeyEvent
}

// Load reads a script file.
func Load(path string) ([]Step, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay script: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads one "<offset> <key>" pair per line. Offsets are Go durations
// and must not decrease. Blank lines and lines starting with # are skipped.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	var last time.Duration
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: want \"<offset> <key>\", got %q", ErrSyntax, lineNo, line)
		}
		at, err := time.ParseDuration(fields[0])
		if err != nil || at < 0 {
			return nil, fmt.Errorf("%w: line %d: bad offset %q", ErrSyntax, lineNo, fields[0])
		}
		if at < last {
			return nil, fmt.Errorf("%w: line %d: offset %s before %s", ErrSyntax, lineNo, at, last)
		}
		key, err := ParseKey(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNo, err)
		}
		steps = append(steps, Step{At: at, Key: key})
		last = at
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read replay script: %w", err)
	}
	return steps, nil
}

// ParseKey turns a key token into an event. Accepted forms are a single
// character, "space", "backspace", and "ctrl+" or "alt+" followed by either.
func ParseKey(token string) (typing.KeyEvent, error) {
	var ev typing.KeyEvent
	for {
		lower := strings.ToLower(token)
		switch {
		case strings.HasPrefix(lower, "ctrl+") && len(token) > len("ctrl+"):
			ev.Ctrl = true
			token = token[len("ctrl+"):]
			continue
		case strings.HasPrefix(lower, "alt+") && len(token) > len("alt+"):
			ev.Meta = true
			token = token[len("alt+"):]
			continue
		}
		break
	}

	switch strings.ToLower(token) {
	case "space":
		ev.Key = typing.KeySpace
		return ev, nil
	case "backspace", "bs":
		ev.Key = typing.KeyBackspace
		return ev, nil
	}
	if utf8.RuneCountInString(token) != 1 {
		return typing.KeyEvent{}, fmt.Errorf("unknown key %q", token)
	}
	ev.Key = token
	return ev, nil
}
