// Package config loads the run configuration and constructs the
// language-dependent pipeline components from it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/lexfreq/pkg/lexfreq/internalerr"
)

// Supported tokenization languages.
const (
	LangDefault  = "default"
	LangJapanese = "ja"
	LangChinese  = "zh"
	LangEnglish  = "en"
)

// DefaultMinDocs is the default document-reach threshold below which a word
// is dropped from the output.
const DefaultMinDocs = 3

// DefaultWarningsTopN is how many of the most frequent words are checked
// against the markup-artifact list after a run.
const DefaultWarningsTopN = 1000

// DefaultMarkupTokens are tokens known to be markup leftovers that the
// upstream extractor occasionally lets through. Their appearance among the
// most frequent words indicates a filtering regression.
var DefaultMarkupTokens = []string{
	"height=",
	"name=",
	"zoom=",
	"longitude=",
	"type=",
	"text=",
	"|birth_date",
	"/includeonly",
	"/div",
	"/ref",
	"//www.youtube.com/watch",
}

// Config is the run configuration. Zero values select the documented
// defaults; command-line flags may override individual fields.
type Config struct {
	// Language selects the tokenizer backend: "default", "ja", "zh", "en".
	Language string `yaml:"language"`
	// Relaxed switches English counting to the relaxed word predicate.
	Relaxed bool `yaml:"relaxed"`
	// SmartApostrophe enables apostrophe normalization before English
	// tokenization. Defaults to true for English.
	SmartApostrophe *bool `yaml:"smart_apostrophe"`

	MinDocs     int64 `yaml:"min_docs"`
	MinChannels int64 `yaml:"min_channels"`

	// Stopwords are dropped by the acceptance predicate. Empty by
	// default: the pipeline counts everything.
	Stopwords []string `yaml:"stopwords"`

	// MarkupTokens overrides DefaultMarkupTokens for the post-run
	// diagnostic; WarningsTopN bounds how many frequent words it checks.
	MarkupTokens []string `yaml:"markup_tokens"`
	WarningsTopN int      `yaml:"warnings_top_n"`

	// Compression names the output codec: plain, gzip, bzip2, xz.
	Compression string `yaml:"compression"`

	Extractor ExtractorConfig `yaml:"extractor"`
}

// ExtractorConfig describes the external document-extraction process.
type ExtractorConfig struct {
	// Command is the extractor binary; its stdout is the line stream.
	Command string `yaml:"command"`
	// Version pins the extractor release the pipeline was tested with;
	// a mismatch is reported but not fatal.
	Version string `yaml:"version"`
	// Processes is passed to the extractor's own worker flag.
	Processes int `yaml:"processes"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Language:     LangDefault,
		MinDocs:      DefaultMinDocs,
		WarningsTopN: DefaultWarningsTopN,
		MarkupTokens: DefaultMarkupTokens,
		Extractor: ExtractorConfig{
			Command: "wikiextractor",
			Version: "3.0.6",
		},
	}
}

// Load reads a YAML configuration file and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that cannot be checked at use sites.
func (c *Config) Validate() error {
	switch c.Language {
	case LangDefault, LangJapanese, LangChinese, LangEnglish:
	default:
		return fmt.Errorf("%w: unknown language %q", internalerr.ErrInvalidConfig, c.Language)
	}
	if c.MinDocs < 0 || c.MinChannels < 0 {
		return fmt.Errorf("%w: thresholds must be non-negative", internalerr.ErrInvalidConfig)
	}
	return nil
}
