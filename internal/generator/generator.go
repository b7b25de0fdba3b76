// Package generator builds the typing word stream.
package generator

import (
	"errors"
	"math/rand"
	"time"
)

var (
	// ErrEmptyVocabulary is returned when a generator is built without words.
	ErrEmptyVocabulary = errors.New("vocabulary is empty")
	// ErrEmptyWord is returned when the vocabulary holds an empty string.
	ErrEmptyWord = errors.New("vocabulary contains an empty word")
)

// Generator produces an unbounded stream of words drawn uniformly, with
// replacement, from a fixed vocabulary.
type Generator struct {
	rnd   *rand.Rand
	words []string
}

// New returns a Generator over words seeded with the current time.
func New(words []string) (*Generator, error) {
	return NewWithSource(words, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(words []string, seed int64) (*Generator, error) {
	return NewWithSource(words, rand.NewSource(seed))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(words []string, src rand.Source) (*Generator, error) {
	if len(words) == 0 {
		return nil, ErrEmptyVocabulary
	}
	vocab := make([]string, len(words))
	for i, w := range words {
		if w == "" {
			return nil, ErrEmptyWord
		}
		vocab[i] = w
	}
	return &Generator{rnd: rand.New(src), words: vocab}, nil
}

// Vocabulary returns a copy of the words the generator draws from.
func (g *Generator) Vocabulary() []string {
	out := make([]string, len(g.words))
	copy(out, g.words)
	return out
}

// Initialize returns a fresh buffer of size random words.
func (g *Generator) Initialize(size int) []string {
	if size < 0 {
		size = 0
	}
	return g.appendRandom(make([]string, 0, size), size)
}

// EnsureLookahead appends batch words when fewer than minLookahead words
// remain ahead of cursor. Existing entries are never touched, so indices
// held by readers stay valid.
func (g *Generator) EnsureLookahead(words []string, cursor, minLookahead, batch int) []string {
	if len(words)-cursor >= minLookahead || batch <= 0 {
		return words
	}
	return g.appendRandom(words, batch)
}

func (g *Generator) appendRandom(words []string, count int) []string {
	for i := 0; i < count; i++ {
		words = append(words, g.words[g.rnd.Intn(len(g.words))])
	}
	return words
}
