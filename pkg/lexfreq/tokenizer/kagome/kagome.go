// Package kagome adapts the kagome morphological analyzer as the Japanese
// tokenizer backend.
package kagome

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	lextok "github.com/cognicore/lexfreq/pkg/lexfreq/tokenizer"
)

// Tokenizer segments Japanese text into surface forms (wakati style).
type Tokenizer struct {
	t *tokenizer.Tokenizer
}

// New creates a Japanese tokenizer backed by the bundled IPA dictionary.
func New() (*Tokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("init kagome: %w", err)
	}
	return &Tokenizer{t: t}, nil
}

// Tokenize splits text into tokens. The fullwidth-tilde typo is normalized
// to the wave dash before segmentation.
func (t *Tokenizer) Tokenize(text string) []string {
	return t.t.Wakati(lextok.NormalizeFullwidthTilde(text))
}
