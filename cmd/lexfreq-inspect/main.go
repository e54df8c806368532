// Command lexfreq-inspect summarizes a dumped frequency table: row counts,
// the most frequent words, and any known markup artifacts among them.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/cognicore/lexfreq/pkg/lexfreq/config"
	"github.com/cognicore/lexfreq/pkg/lexfreq/freq"
	"github.com/cognicore/lexfreq/pkg/lexfreq/storage"
)

func main() {
	var (
		topN = flag.Int("top", 20, "Number of most frequent words to show")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: lexfreq-inspect [flags] <table file>")
	}
	path := flag.Arg(0)

	codec := codecForPath(path)
	r, err := codec.Open(path)
	if err != nil {
		log.Fatalf("open table: %v", err)
	}
	defer r.Close()

	artifacts := make(map[string]struct{}, len(config.DefaultMarkupTokens))
	for _, m := range config.DefaultMarkupTokens {
		artifacts[m] = struct{}{}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4<<20)

	if !sc.Scan() {
		log.Fatal("empty table")
	}
	header := strings.Split(sc.Text(), "\t")
	fmt.Printf("columns: %s\n", strings.Join(header, ", "))

	var rows int64
	var totals []string
	for sc.Scan() {
		fields := strings.Split(sc.Text(), "\t")
		if fields[0] == freq.TotalLabel {
			totals = fields[1:]
			continue
		}
		rows++
		if rows <= int64(*topN) {
			fmt.Println(sc.Text())
		}
		if _, ok := artifacts[fields[0]]; ok && rows <= int64(*topN) {
			count, _ := strconv.ParseInt(fields[1], 10, 64)
			fmt.Printf("Warning: possible markup %q (count %d)\n", fields[0], count)
		}
	}
	if err := sc.Err(); err != nil {
		log.Fatalf("read table: %v", err)
	}
	if totals == nil {
		log.Fatalf("table has no %s row", freq.TotalLabel)
	}

	fmt.Printf("words: %d\n", rows)
	fmt.Printf("totals: %s\n", strings.Join(totals, ", "))
}

func codecForPath(path string) storage.Codec {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return storage.Deflate
	case strings.HasSuffix(path, ".bz2"):
		return storage.Bzip2
	case strings.HasSuffix(path, ".xz"):
		return storage.LZMA
	}
	return storage.Plain
}
