package wordlist

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed words.txt
var referenceWords string

var (
	referenceOnce sync.Once
	reference     []string
)

// Reference returns a copy of the built-in vocabulary.
func Reference() []string {
	referenceOnce.Do(func() {
		words, err := ReadWords(strings.NewReader(referenceWords))
		if err != nil {
			panic("wordlist: embedded vocabulary is invalid: " + err.Error())
		}
		reference = words
	})
	out := make([]string, len(reference))
	copy(out, reference)
	return out
}

// Resolve returns the words from path, or the built-in vocabulary when path is empty.
func Resolve(path string) ([]string, error) {
	if path == "" {
		return Reference(), nil
	}
	return LoadWords(path)
}
