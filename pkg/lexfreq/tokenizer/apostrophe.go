package tokenizer

const (
	leftSingleQuote  = '‘' // ‘
	rightSingleQuote = '’' // ’
	prime            = '′' // ′
)

// NormalizeApostrophes converts "smart" apostrophes (right single quote ’
// and prime ′) to the plain apostrophe ' before English tokenization, while
// preserving legitimately paired ‘...’ quotes.
//
// Within a paired ‘...’ span, a right single quote surrounded by word runes
// on both sides is treated as an apostrophe (‘It’s A’ stays quoted, the
// inner ’ becomes '). A prime is converted only when it follows at least two
// ASCII letters or precedes an "s"; measurement marks like "a′" are kept.
func NormalizeApostrophes(line string) string {
	runes := []rune(line)
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case leftSingleQuote:
			if close := matchQuotedSpan(runes, i); close >= 0 {
				out = append(out, leftSingleQuote)
				for j := i + 1; j < close; j++ {
					if runes[j] == rightSingleQuote {
						out = append(out, '\'')
					} else {
						out = append(out, runes[j])
					}
				}
				out = append(out, rightSingleQuote)
				i = close
			} else {
				out = append(out, r)
			}
		case rightSingleQuote:
			out = append(out, '\'')
		case prime:
			if primeIsApostrophe(runes, i) {
				out = append(out, '\'')
			} else {
				out = append(out, r)
			}
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// matchQuotedSpan looks for the close of a paired single-quote span opened
// at runes[open]. Interior right single quotes are allowed only when
// surrounded by word runes (apostrophes); the span closes at the quote after
// the longest such run, backing off to an earlier close when the later one
// would swallow a possessive ("’s"). Returns the index of the closing quote,
// or -1 if the span is not a proper pair.
func matchQuotedSpan(runes []rune, open int) int {
	var quotes []int
	for j := open + 1; j < len(runes); j++ {
		if runes[j] == leftSingleQuote {
			break // close must precede any nested open
		}
		if runes[j] == rightSingleQuote {
			quotes = append(quotes, j)
		}
	}
	if len(quotes) == 0 {
		return -1
	}

	// Length of the leading run of apostrophe-like (word-surrounded) quotes.
	interior := 0
	for _, q := range quotes {
		if isWordRune(runes[q-1]) && q+1 < len(runes) && isWordRune(runes[q+1]) {
			interior++
		} else {
			break
		}
	}
	if interior == len(quotes) {
		interior-- // the last one has to serve as the close
	}
	for ; interior >= 0; interior-- {
		close := quotes[interior]
		if close+1 < len(runes) && runes[close+1] == 's' {
			continue // ‘...’s: would swallow a possessive
		}
		return close
	}
	return -1
}

func primeIsApostrophe(runes []rune, i int) bool {
	if i+1 < len(runes) && runes[i+1] == 's' {
		return true
	}
	return i >= 2 && isASCIILetter(runes[i-1]) && isASCIILetter(runes[i-2])
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
