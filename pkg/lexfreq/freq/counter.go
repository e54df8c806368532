// Package freq implements the frequency-aggregation engine: per-variant word
// counters with document and channel reach, compaction, associative merge,
// and table output. A counter group is the unit of parallel work; groups
// built by independent workers are folded into one by Reduce.
package freq

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/cognicore/lexfreq/pkg/lexfreq/internalerr"
)

// TotalLabel is the sentinel label of the trailing totals row. The word
// predicates never accept bracket-wrapped tokens, so it cannot collide with
// a real word.
const TotalLabel = "[TOTAL]"

// Counter accumulates occurrence counts and document reach for a single
// normalization variant. It has a two-phase lifecycle: while open, document
// reach is tracked as per-word sets of document ids; Compact irreversibly
// replaces the sets with their cardinalities, after which the counter can be
// merged and dumped but no longer accepts tokens.
type Counter struct {
	counts    map[string]int64
	docSets   map[string]map[int64]struct{} // until compaction
	docCounts map[string]int64              // after compaction
	chanSets  map[string]map[string]struct{}
	docWords  map[string]struct{} // words seen in the open document
	docID     int64
	compacted bool
}

// NewCounter creates an empty counter. channels enables per-word
// channel-reach tracking; whether a counter tracks channels is fixed for its
// lifetime and must agree between merge operands.
func NewCounter(channels bool) *Counter {
	c := &Counter{
		counts:   make(map[string]int64),
		docSets:  make(map[string]map[int64]struct{}),
		docWords: make(map[string]struct{}),
	}
	if channels {
		c.chanSets = make(map[string]map[string]struct{})
	}
	return c
}

// Channels reports whether the counter tracks channel reach.
func (c *Counter) Channels() bool { return c.chanSets != nil }

// Compacted reports whether Compact has been called.
func (c *Counter) Compacted() bool { return c.compacted }

// Add counts the given tokens as part of the current document, opening one
// if none is open. channelID must be non-empty exactly when the counter
// tracks channels.
func (c *Counter) Add(words []string, channelID string) error {
	if c.compacted {
		return internalerr.ErrCompacted
	}
	if (channelID != "") != (c.chanSets != nil) {
		return internalerr.ErrChannelMode
	}
	for _, w := range words {
		c.counts[w]++
		c.docWords[w] = struct{}{}
		if c.chanSets != nil {
			set := c.chanSets[w]
			if set == nil {
				set = make(map[string]struct{})
				c.chanSets[w] = set
			}
			set[channelID] = struct{}{}
		}
	}
	return nil
}

// CloseDoc folds the open document's word set into the per-word document
// reach and clears it. Closing with no intervening Add is a no-op.
func (c *Counter) CloseDoc() error {
	if c.compacted {
		return internalerr.ErrCompacted
	}
	for w := range c.docWords {
		set := c.docSets[w]
		if set == nil {
			set = make(map[int64]struct{})
			c.docSets[w] = set
		}
		set[c.docID] = struct{}{}
	}
	if len(c.docWords) > 0 {
		clear(c.docWords)
	}
	c.docID++
	return nil
}

// Compact replaces the per-word document-id sets with plain counts, freeing
// the sets. It is idempotent and required before Merge. Compacting with an
// open document is a usage error.
func (c *Counter) Compact() error {
	if len(c.docWords) > 0 {
		return internalerr.ErrOpenDocument
	}
	if c.compacted {
		return nil
	}
	c.docCounts = make(map[string]int64, len(c.docSets))
	for w, set := range c.docSets {
		c.docCounts[w] = int64(len(set))
	}
	c.docSets = nil
	c.compacted = true
	return nil
}

// reach returns the document reach of w in either lifecycle phase.
func (c *Counter) reach(w string) int64 {
	if c.compacted {
		return c.docCounts[w]
	}
	return int64(len(c.docSets[w]))
}

// Count returns the occurrence count of w.
func (c *Counter) Count(w string) int64 { return c.counts[w] }

// DocCount returns the document reach of w.
func (c *Counter) DocCount(w string) int64 { return c.reach(w) }

// Merge folds other into c and leaves other in an unspecified state. Both
// operands must have no open document and matching channel-tracking modes;
// both are compacted if they are not already. Document reach is summed, not
// unioned: workers process disjoint document partitions, so a document
// counted by one operand cannot be counted by the other.
func (c *Counter) Merge(other *Counter) error {
	if (c.chanSets == nil) != (other.chanSets == nil) {
		return internalerr.ErrChannelMode
	}
	if len(c.docWords) > 0 || len(other.docWords) > 0 {
		return internalerr.ErrOpenDocument
	}
	if err := c.Compact(); err != nil {
		return err
	}
	if err := other.Compact(); err != nil {
		return err
	}
	for w, n := range other.counts {
		c.counts[w] += n
	}
	for w, n := range other.docCounts {
		c.docCounts[w] += n
	}
	if c.chanSets != nil {
		for w, set := range other.chanSets {
			dst := c.chanSets[w]
			if dst == nil {
				c.chanSets[w] = set
				continue
			}
			for ch := range set {
				dst[ch] = struct{}{}
			}
		}
	}
	return nil
}

// RemoveLessThanMinDocs deletes every word whose document reach is below
// minDocs from the counts. Reach and channel maps are left as is: output
// iterates the counts, so stale entries there are a memory-only concern.
func (c *Counter) RemoveLessThanMinDocs(minDocs int64) {
	for w := range c.counts {
		if c.reach(w) < minDocs {
			delete(c.counts, w)
		}
	}
}

// RemoveLessThanMinChannels deletes every word whose channel reach is below
// minChannels from the counts. Requires channel tracking.
func (c *Counter) RemoveLessThanMinChannels(minChannels int64) error {
	if c.chanSets == nil {
		return internalerr.ErrChannelMode
	}
	for w := range c.counts {
		if int64(len(c.chanSets[w])) < minChannels {
			delete(c.counts, w)
		}
	}
	return nil
}

// Row is one output line of a frequency table.
type Row struct {
	Word     string
	Count    int64
	Docs     int64
	Channels int64 // 0 when channel tracking is disabled
}

// Rows returns the table rows sorted by descending count; ties are broken
// by lexicographic word order so output is deterministic.
func (c *Counter) Rows() []Row {
	rows := make([]Row, 0, len(c.counts))
	for w, n := range c.counts {
		r := Row{Word: w, Count: n, Docs: c.reach(w)}
		if c.chanSets != nil {
			r.Channels = int64(len(c.chanSets[w]))
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Word < rows[j].Word
	})
	return rows
}

// Dump writes the table: a header of column names, one row per word, and a
// trailing TotalLabel row with the caller-supplied totals. cols must have
// one name per numeric field plus one for the word column, and totals one
// value per numeric field (2, or 3 with channel tracking).
func (c *Counter) Dump(w io.Writer, cols []string, totals []int64) error {
	numeric := 2
	if c.chanSets != nil {
		numeric = 3
	}
	if len(cols) != 1+len(totals) || len(totals) != numeric {
		return fmt.Errorf("%w: %d columns, %d totals, %d numeric fields",
			internalerr.ErrDumpArity, len(cols), len(totals), numeric)
	}

	bw := bufio.NewWriter(w)
	for i, col := range cols {
		if i > 0 {
			bw.WriteByte('\t')
		}
		bw.WriteString(col)
	}
	bw.WriteByte('\n')

	for _, r := range c.Rows() {
		if c.chanSets != nil {
			fmt.Fprintf(bw, "%s\t%d\t%d\t%d\n", r.Word, r.Count, r.Docs, r.Channels)
		} else {
			fmt.Fprintf(bw, "%s\t%d\t%d\n", r.Word, r.Count, r.Docs)
		}
	}

	bw.WriteString(TotalLabel)
	for _, n := range totals {
		fmt.Fprintf(bw, "\t%d", n)
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// TopCounts returns up to topN (word, count) pairs ordered like Rows.
func (c *Counter) TopCounts(topN int) []Row {
	rows := c.Rows()
	if len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}

// MarkupWarnings intersects the topN most frequent words with the known
// markup-artifact list and returns the offenders with their counts. It
// never mutates the counter.
func (c *Counter) MarkupWarnings(topN int, markup []string) []Row {
	artifacts := make(map[string]struct{}, len(markup))
	for _, m := range markup {
		artifacts[m] = struct{}{}
	}
	var out []Row
	for _, r := range c.TopCounts(topN) {
		if _, ok := artifacts[r.Word]; ok {
			out = append(out, r)
		}
	}
	return out
}
