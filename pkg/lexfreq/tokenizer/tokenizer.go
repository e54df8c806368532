// Package tokenizer defines the tokenization contract used by the document
// stream, the default regex-style splitter, word-acceptance predicates, and
// pre-tokenization line filters. Language-specific morphological backends
// live in subpackages.
package tokenizer

import "unicode"

// Tokenizer is the interface for text tokenization
type Tokenizer interface {
	// Tokenize splits text into tokens
	Tokenize(text string) []string
}

// Predicate decides whether a raw token is counted as a word.
// A nil Predicate means "accept all non-empty tokens".
type Predicate func(token string) bool

// LineFilter transforms a cleaned line before tokenization
// (e.g. apostrophe normalization for English).
type LineFilter func(line string) string

// Characters that commonly need special handling around CJK text.
const (
	WaveDash = '〜' // 〜 may look like fullwidth tilde ～
	EnDash   = '–' // – may look like hyphen -

	fullwidthTilde = '～'
)

// NormalizeFullwidthTilde replaces the fullwidth tilde (a common typo) with
// the wave dash before Japanese tokenization.
func NormalizeFullwidthTilde(line string) string {
	out := make([]rune, 0, len(line))
	for _, r := range line {
		if r == fullwidthTilde {
			r = WaveDash
		}
		out = append(out, r)
	}
	return string(out)
}

// isWordRune reports whether r is word-forming: a letter, decimal digit,
// underscore or combining mark. This mirrors the Unicode word class used for
// segmentation, so it covers accented characters, CJK, kana etc.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc)
}

func runeIn(r rune, set string) bool {
	for _, s := range set {
		if r == s {
			return true
		}
	}
	return false
}
