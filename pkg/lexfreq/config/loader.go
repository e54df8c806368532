package config

import (
	"fmt"

	"github.com/cognicore/lexfreq/pkg/lexfreq/tokenizer"
	"github.com/cognicore/lexfreq/pkg/lexfreq/tokenizer/gse"
	"github.com/cognicore/lexfreq/pkg/lexfreq/tokenizer/kagome"
)

// Components holds the language-dependent pipeline pieces built from a
// Config: the tokenizer backend, the word-acceptance predicate and the
// optional pre-tokenization line filter.
type Components struct {
	Tokenizer tokenizer.Tokenizer
	Accept    tokenizer.Predicate
	Filter    tokenizer.LineFilter
}

// Components constructs the pipeline components for the configured
// language. Loading a morphological backend can be slow; call once per
// worker.
func (c *Config) Components() (*Components, error) {
	comp := &Components{}

	switch c.Language {
	case LangJapanese:
		t, err := kagome.New()
		if err != nil {
			return nil, fmt.Errorf("japanese tokenizer: %w", err)
		}
		comp.Tokenizer = t
		comp.Accept = tokenizer.Word(string(tokenizer.WaveDash), "")
	case LangChinese:
		t, err := gse.New()
		if err != nil {
			return nil, fmt.Errorf("chinese tokenizer: %w", err)
		}
		comp.Tokenizer = t
		comp.Accept = tokenizer.Word("", "")
	case LangEnglish:
		// Keep apostrophes inside tokens; normalize smart apostrophes
		// first unless disabled.
		comp.Tokenizer = tokenizer.NewSplitter("'")
		comp.Accept = tokenizer.WordRelaxed()
		if c.SmartApostrophe == nil || *c.SmartApostrophe {
			comp.Filter = tokenizer.NormalizeApostrophes
		}
	default:
		comp.Tokenizer = tokenizer.NewSplitter("")
		// Only empty tokens are filtered out.
		comp.Accept = nil
	}

	if c.Relaxed {
		comp.Accept = tokenizer.WordRelaxed()
	}
	if len(c.Stopwords) > 0 {
		comp.Accept = tokenizer.WithStopwords(comp.Accept, c.Stopwords)
	}
	return comp, nil
}
