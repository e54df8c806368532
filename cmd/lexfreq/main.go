// Command lexfreq counts word frequencies from text-dump corpora. Each dump
// file is fed through the external extractor; the cleaned token stream is
// accumulated per normalization variant and written as one table per
// variant.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cognicore/lexfreq/internal/extract"
	"github.com/cognicore/lexfreq/internal/worker"
	"github.com/cognicore/lexfreq/pkg/lexfreq/config"
	"github.com/cognicore/lexfreq/pkg/lexfreq/freq"
	"github.com/cognicore/lexfreq/pkg/lexfreq/storage"
	sqlitesink "github.com/cognicore/lexfreq/pkg/lexfreq/store/sqlite"
	"github.com/cognicore/lexfreq/pkg/lexfreq/stream"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML run configuration")
		processes  = flag.Int("processes", runtime.NumCPU()-1, "Number of processes to use (including the extractor)")
		maxWorkers = flag.Int("workers", 0, "Limit the number of memory-hungry worker processes (0: no limit)")

		zh  = flag.Bool("zh", false, "Chinese tokenization")
		ja  = flag.Bool("ja", false, "Japanese tokenization")
		en  = flag.Bool("en", false, "English tokenization")
		def = flag.Bool("default", false, "Default tokenization (character classes)")

		relaxed = flag.Bool("relaxed", false, "Count tokens containing at least one word character")
		noApos  = flag.Bool("no-smart-apostrophe", false, "Do not normalize smart apostrophes before English tokenization")

		minDocs = flag.Int64("min-docs", -1, "Minimum documents for a word to be counted (-1: config default)")

		deflate = flag.Bool("deflate", false, "Store output deflated (.gz)")
		bz      = flag.Bool("bzip2", false, "Store output using bzip2 (.bz2)")
		lz      = flag.Bool("lzma", false, "Store output using LZMA (.xz)")

		output = flag.String("output", "", "Output path for frequency tables; a \"%\" placeholder "+
			"is replaced with each normalization suffix, otherwise only unnormalized data is written (required)")
		sqlitePath = flag.String("sqlite", "", "Also write the tables into a SQLite database at this path")
		htmlInput  = flag.Bool("html", false, "Treat the input files as HTML documents instead of extractor dumps")
	)
	flag.Parse()

	if *output == "" {
		log.Fatal("--output required")
	}
	dumps := flag.Args()
	if len(dumps) == 0 {
		log.Fatal("no dump files given")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	applyFlags(cfg, *zh, *ja, *en, *def, *relaxed, *noApos, *minDocs)

	codec, err := storage.FromFlags(*deflate, *bz, *lz)
	if err != nil {
		log.Fatal(err)
	}
	if codec == storage.Plain && cfg.Compression != "" {
		if codec, err = storage.FromName(cfg.Compression); err != nil {
			log.Fatal(err)
		}
	}
	if suffix := codec.Suffix(); suffix != "" && !strings.HasSuffix(*output, suffix) {
		fmt.Fprintf(os.Stderr, "Warning: output path %q does not end with the expected suffix %q.\n",
			*output, suffix)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	extractor := &extract.Extractor{Command: cfg.Extractor.Command}
	if cfg.Extractor.Version != "" && !*htmlInput {
		if got, ok, err := extractor.CheckVersion(ctx, cfg.Extractor.Version); err != nil {
			log.Fatalf("extractor check: %v", err)
		} else if !ok {
			fmt.Fprintf(os.Stderr,
				"Warning: %s is not version %s (reported %q); this pipeline was tested only with %s.\n",
				cfg.Extractor.Command, cfg.Extractor.Version, got, cfg.Extractor.Version)
		}
	}

	normalize := strings.Contains(*output, freq.PathPlaceholder)

	counters, err := process(ctx, cfg, extractor, dumps, *processes, *maxWorkers, normalize, *htmlInput, logger)
	if err != nil {
		log.Fatalf("process dumps: %v", err)
	}

	if cfg.MinDocs > 0 {
		counters.RemoveLessThanMinDocs(cfg.MinDocs)
	}

	err = counters.Dump(*output, freq.DumpOptions{
		Codec:   codec,
		Columns: []string{"word", "count", "documents"},
	})
	if err != nil {
		log.Fatalf("dump tables: %v", err)
	}

	for _, w := range counters.MarkupWarnings(cfg.WarningsTopN, cfg.MarkupTokens) {
		fmt.Fprintf(os.Stderr, "Warning: possible markup %q (count %d) in frequent words%s\n",
			w.Word, w.Count, variantLabel(w.Suffix))
	}

	if *sqlitePath != "" {
		sink, err := sqlitesink.Open(ctx, *sqlitePath)
		if err != nil {
			log.Fatalf("open sqlite sink: %v", err)
		}
		defer sink.Close()
		if err := sink.WriteGroup(ctx, counters, 0); err != nil {
			log.Fatalf("write sqlite sink: %v", err)
		}
	}
}

func applyFlags(cfg *config.Config, zh, ja, en, def, relaxed, noApos bool, minDocs int64) {
	n := 0
	for _, set := range []bool{zh, ja, en, def} {
		if set {
			n++
		}
	}
	if n > 1 {
		log.Fatal("language flags are mutually exclusive")
	}
	switch {
	case zh:
		cfg.Language = config.LangChinese
	case ja:
		cfg.Language = config.LangJapanese
	case en:
		cfg.Language = config.LangEnglish
	case def:
		cfg.Language = config.LangDefault
	}
	if relaxed {
		cfg.Relaxed = true
	}
	if noApos {
		off := false
		cfg.SmartApostrophe = &off
	}
	if minDocs >= 0 {
		cfg.MinDocs = minDocs
	}
}

// process accumulates all dumps into one counter group, in parallel when
// the worker plan allows it.
func process(
	ctx context.Context,
	cfg *config.Config,
	extractor *extract.Extractor,
	dumps []string,
	processes, maxWorkers int,
	normalize, htmlInput bool,
	logger *slog.Logger,
) (*freq.Group, error) {
	workers, dumpsPerWorker, procsPerWorker := worker.Plan(len(dumps), processes, maxWorkers)
	extractorProcs := procsPerWorker
	if workers == 0 {
		extractorProcs = processes
	}

	fn := func(ctx context.Context, runID string, part []string) (*freq.Group, error) {
		comp, err := cfg.Components()
		if err != nil {
			return nil, err
		}
		group := freq.NewGroup(normalize, false)
		ext := &extract.Extractor{Command: extractor.Command, Processes: extractorProcs - 1}
		for _, dump := range part {
			ds := stream.New(stream.Config{
				Tokenizer: comp.Tokenizer,
				Accept:    comp.Accept,
				Filter:    comp.Filter,
				Logger:    logger.With("run_id", runID, "dump", dump),
			}, group)
			if htmlInput {
				if err := runHTMLFile(dump, ds); err != nil {
					return nil, err
				}
				continue
			}
			if err := ext.Run(ctx, dump, func(r io.Reader) error {
				return ds.Run(r)
			}); err != nil {
				return nil, err
			}
		}
		if err := group.Compact(); err != nil {
			return nil, err
		}
		return group, nil
	}

	if workers == 0 {
		// Not enough dumps or processes for fan-out: run inline.
		return fn(ctx, "inline", dumps)
	}

	fmt.Fprintf(os.Stderr,
		"Processing dump files in parallel with %d workers:\n"+
			" - %d dump files per worker,\n"+
			" - %d processes per worker (including the extractor).\n\n",
		workers, dumpsPerWorker, procsPerWorker)

	parts := worker.Partition(dumps, dumpsPerWorker)
	return worker.Run(ctx, parts, workers, fn, logger)
}

// runHTMLFile frames one HTML file into extractor-style document lines and
// feeds them through ds.
func runHTMLFile(path string, ds *stream.DocumentStream) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open html input: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(extract.HTMLToLines(f, pw, docIDForPath(path)))
	}()
	return ds.Run(pr)
}

func docIDForPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func variantLabel(suffix string) string {
	if suffix == "" {
		return ""
	}
	return fmt.Sprintf(" (variant %s)", suffix)
}
