package tokenizer

import (
	"strings"
	"unicode"
)

// Word returns the strict acceptance predicate: the token must be non-empty,
// contain no decimal digit at any position, and start and end with a
// word-forming rune.
//
// allowStartEnd lists extra runes permitted as the first or last character,
// such as the apostrophe (English) or the wave dash (Japanese). allowEnd
// lists extra runes permitted as the last character of a multi-rune token.
// Neither can be used to allow digits. Interior runes may be anything
// non-digit, so tokens like "A/B" or "bla-bla" pass.
func Word(allowStartEnd, allowEnd string) Predicate {
	return func(token string) bool {
		runes := []rune(token)
		if len(runes) == 0 {
			return false
		}
		for _, r := range runes {
			if unicode.IsDigit(r) {
				return false
			}
		}
		first := runes[0]
		if !isWordRune(first) && !runeIn(first, allowStartEnd) {
			return false
		}
		if len(runes) == 1 {
			return true
		}
		last := runes[len(runes)-1]
		return isWordRune(last) || runeIn(last, allowEnd) || runeIn(last, allowStartEnd)
	}
}

// WordRelaxed returns the relaxed predicate: no digits anywhere, at least
// one word-forming rune at any position.
func WordRelaxed() Predicate {
	return func(token string) bool {
		hasWord := false
		for _, r := range token {
			if unicode.IsDigit(r) {
				return false
			}
			if isWordRune(r) {
				hasWord = true
			}
		}
		return hasWord
	}
}

// NonEmpty accepts every non-empty token. It is the fallback when no
// language-specific predicate is configured.
func NonEmpty() Predicate {
	return func(token string) bool { return token != "" }
}

// WithStopwords wraps p so that tokens on the stopword list are rejected.
// Comparison is case-insensitive, matching how the list is loaded.
func WithStopwords(p Predicate, stopwords []string) Predicate {
	if len(stopwords) == 0 {
		return p
	}
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return func(token string) bool {
		if _, ok := stops[strings.ToLower(token)]; ok {
			return false
		}
		return p == nil || p(token)
	}
}
