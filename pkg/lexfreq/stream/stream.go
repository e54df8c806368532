// Package stream consumes the extractor's line stream, recognizes document
// boundaries, drives the markup filters per line, and feeds accepted tokens
// into a counter group.
package stream

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cognicore/lexfreq/pkg/lexfreq/freq"
	"github.com/cognicore/lexfreq/pkg/lexfreq/markup"
	"github.com/cognicore/lexfreq/pkg/lexfreq/tokenizer"
)

// Document boundary markers in the extractor's output.
const (
	docOpenPrefix  = "<doc "
	docClosePrefix = "</doc>"
)

// maxLineSize bounds a single extractor line; article paragraphs arrive as
// one line each.
const maxLineSize = 4 << 20

// Config wires a DocumentStream.
type Config struct {
	// Tokenizer produces tokens from a cleaned line.
	Tokenizer tokenizer.Tokenizer
	// Accept filters raw tokens before counting; nil accepts all
	// non-empty tokens.
	Accept tokenizer.Predicate
	// Filter, if set, transforms the cleaned line before tokenization
	// (e.g. apostrophe normalization for English).
	Filter tokenizer.LineFilter
	// ChannelID tags every added token's channel; leave empty unless the
	// counter group tracks channels.
	ChannelID string
	// Logger receives data-quality diagnostics. nil uses slog.Default.
	Logger *slog.Logger
}

// DocumentStream feeds one extractor stream into a counter group. It is not
// safe for concurrent use; each worker owns its own stream.
type DocumentStream struct {
	cfg    Config
	group  *freq.Group
	score  markup.ScoreBlockFilter
	meta   string // metadata of the open document, for diagnostics
	inDoc  bool
	logger *slog.Logger
}

// New creates a DocumentStream accumulating into group.
func New(cfg Config, group *freq.Group) *DocumentStream {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentStream{cfg: cfg, group: group, logger: logger}
}

// Run consumes r line by line until EOF. Lines must arrive in document
// order; boundary detection is sequential by contract.
func (s *DocumentStream) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	for sc.Scan() {
		if err := s.ProcessLine(sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read extractor stream: %w", err)
	}
	return nil
}

// ProcessLine handles a single raw line.
func (s *DocumentStream) ProcessLine(line string) error {
	if strings.HasPrefix(line, "<") {
		if strings.HasPrefix(line, docOpenPrefix) {
			if s.inDoc {
				// Malformed boundary: close the current document so a
				// bad one cannot corrupt its neighbors' counts.
				s.logger.Warn("document opened without closing the previous one",
					"open", s.meta)
				if err := s.closeDoc(); err != nil {
					return err
				}
			}
			s.meta = strings.TrimSpace(line)
			s.inDoc = true
			return nil
		}
		if strings.HasPrefix(line, docClosePrefix) {
			return s.closeDoc()
		}
		// Any other tag is ordinary content.
	}
	text, ok := s.score.Feed(line)
	if !ok {
		return nil
	}
	return s.countLine(text)
}

// closeDoc finishes the open document: resolves dangling score-block state,
// then closes the counters.
func (s *DocumentStream) closeDoc() error {
	recovered, unclosed := s.score.Close()
	if unclosed {
		if recovered != nil {
			// The heuristic opener was not a real score block; count
			// the buffered lines as ordinary content.
			s.logger.Warn("possible score without <score>...</score> tags",
				"doc", s.meta, "first_line", recovered[0])
			for _, line := range recovered {
				if err := s.countLine(line); err != nil {
					return err
				}
			}
		} else {
			s.logger.Warn("missing </score> tag, lines ignored up to end of document",
				"doc", s.meta)
		}
	}
	if err := s.group.CloseDoc(); err != nil {
		return err
	}
	s.inDoc = false
	s.meta = ""
	return nil
}

// countLine strips markup, tokenizes and counts one line of content.
func (s *DocumentStream) countLine(line string) error {
	text := markup.Strip(line)
	if s.cfg.Filter != nil {
		text = s.cfg.Filter(text)
	}
	tokens := s.cfg.Tokenizer.Tokenize(text)
	words := tokens[:0:0]
	for _, tok := range tokens {
		if s.cfg.Accept != nil {
			if !s.cfg.Accept(tok) {
				continue
			}
		} else if tok == "" {
			continue
		}
		words = append(words, tok)
	}
	if len(words) == 0 {
		return nil
	}
	return s.group.Add(words, s.cfg.ChannelID)
}
