// Package gse adapts the gse segmenter as the Chinese tokenizer backend.
package gse

import (
	"fmt"

	"github.com/go-ego/gse"
)

// Tokenizer segments Chinese text using the embedded dictionary.
type Tokenizer struct {
	seg gse.Segmenter
}

// New creates a Chinese tokenizer.
func New() (*Tokenizer, error) {
	t := &Tokenizer{}
	t.seg.AlphaNum = true
	if err := t.seg.LoadDictEmbed("zh"); err != nil {
		return nil, fmt.Errorf("load gse dictionary: %w", err)
	}
	return t, nil
}

// Tokenize splits text into tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	return t.seg.Cut(text, true)
}
