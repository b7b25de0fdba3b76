// Package wordlist provides word list filtering helpers.
package wordlist

import "unicode"

// Typeable returns true when every rune of word can be entered as a single
// printable key and the word holds no separator.
func Typeable(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
