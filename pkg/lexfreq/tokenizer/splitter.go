package tokenizer

import (
	"strings"
	"unicode"
)

// Splitter is the default tokenizer for languages that can be segmented
// with character classes alone (not Chinese or Japanese). It splits on
// maximal runs of non-word-forming runes and digits.
type Splitter struct {
	noSplit string // runes treated as word-forming despite not being so
}

// NewSplitter creates a Splitter. noSplit lists runes that must not act as
// separators, e.g. the apostrophe for English.
func NewSplitter(noSplit string) *Splitter {
	return &Splitter{noSplit: noSplit}
}

// Tokenize splits text into tokens. Digits always separate, so "ff1" yields
// "ff"; separator runs of any length collapse.
func (s *Splitter) Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		if unicode.IsDigit(r) {
			return true
		}
		return !isWordRune(r) && !runeIn(r, s.noSplit)
	})
}
