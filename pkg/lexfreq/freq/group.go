package freq

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/lexfreq/pkg/lexfreq/storage"
)

// PathPlaceholder in an output path pattern is replaced with each variant's
// suffix. A pattern without it restricts output to the identity variant.
const PathPlaceholder = "%"

// Variant is one token normalization applied before counting.
type Variant struct {
	Suffix     string
	Normalized bool
	// Transform maps a token to its normalized form; nil is identity.
	Transform func(string) string
}

// Variants is the fixed list of normalization variants. A group created
// with normalize=false holds only the identity variant.
var Variants = []Variant{
	{Suffix: "", Normalized: false, Transform: nil},
	{Suffix: "-lower", Normalized: true, Transform: strings.ToLower},
	{Suffix: "-nfkc", Normalized: true, Transform: norm.NFKC.String},
	{Suffix: "-nfkc-lower", Normalized: true, Transform: func(w string) string {
		return strings.ToLower(norm.NFKC.String(w))
	}},
}

// Group holds one Counter per normalization variant plus group-wide totals.
// NWords counts raw tokens added before any variant-level filtering; NDocs
// counts closed documents.
type Group struct {
	counters map[string]*Counter
	NWords   int64
	NDocs    int64
}

// NewGroup creates a counter group. With normalize=false only the identity
// variant is tracked.
func NewGroup(normalize, channels bool) *Group {
	g := &Group{counters: make(map[string]*Counter)}
	for _, v := range Variants {
		if normalize || !v.Normalized {
			g.counters[v.Suffix] = NewCounter(channels)
		}
	}
	return g
}

// Counter returns the counter for a variant suffix, or nil.
func (g *Group) Counter(suffix string) *Counter { return g.counters[suffix] }

// Suffixes returns the suffixes of the variants the group tracks, in
// Variants order.
func (g *Group) Suffixes() []string {
	out := make([]string, 0, len(g.counters))
	for _, v := range Variants {
		if _, ok := g.counters[v.Suffix]; ok {
			out = append(out, v.Suffix)
		}
	}
	return out
}

// Add feeds words to every variant counter, applying each variant's
// transform, and counts them toward the group total.
func (g *Group) Add(words []string, channelID string) error {
	for _, v := range Variants {
		c := g.counters[v.Suffix]
		if c == nil {
			continue
		}
		transformed := words
		if v.Transform != nil {
			transformed = make([]string, len(words))
			for i, w := range words {
				transformed[i] = v.Transform(w)
			}
		}
		if err := c.Add(transformed, channelID); err != nil {
			return fmt.Errorf("variant %q: %w", v.Suffix, err)
		}
	}
	g.NWords += int64(len(words))
	return nil
}

// CloseDoc closes the current document in every variant counter and counts
// it toward the group total.
func (g *Group) CloseDoc() error {
	for suffix, c := range g.counters {
		if err := c.CloseDoc(); err != nil {
			return fmt.Errorf("variant %q: %w", suffix, err)
		}
	}
	g.NDocs++
	return nil
}

// Compact compacts every variant counter.
func (g *Group) Compact() error {
	for suffix, c := range g.counters {
		if err := c.Compact(); err != nil {
			return fmt.Errorf("variant %q: %w", suffix, err)
		}
	}
	return nil
}

// RemoveLessThanMinDocs filters every variant counter. Group totals are not
// touched: they reflect pre-filter volumes.
func (g *Group) RemoveLessThanMinDocs(minDocs int64) {
	for _, c := range g.counters {
		c.RemoveLessThanMinDocs(minDocs)
	}
}

// RemoveLessThanMinChannels filters every variant counter by channel reach.
func (g *Group) RemoveLessThanMinChannels(minChannels int64) error {
	for suffix, c := range g.counters {
		if err := c.RemoveLessThanMinChannels(minChannels); err != nil {
			return fmt.Errorf("variant %q: %w", suffix, err)
		}
	}
	return nil
}

// Merge folds other into g. Both groups must track the same variants.
func (g *Group) Merge(other *Group) error {
	if len(g.counters) != len(other.counters) {
		return fmt.Errorf("variant sets differ: %d vs %d", len(g.counters), len(other.counters))
	}
	for suffix, c := range g.counters {
		oc := other.counters[suffix]
		if oc == nil {
			return fmt.Errorf("variant %q missing in merge operand", suffix)
		}
		if err := c.Merge(oc); err != nil {
			return fmt.Errorf("variant %q: %w", suffix, err)
		}
	}
	g.NWords += other.NWords
	g.NDocs += other.NDocs
	return nil
}

// MarkupWarning is a possible markup artifact among a variant's most
// frequent words.
type MarkupWarning struct {
	Suffix string
	Word   string
	Count  int64
}

// MarkupWarnings collects markup-artifact diagnostics from every variant.
func (g *Group) MarkupWarnings(topN int, markup []string) []MarkupWarning {
	var out []MarkupWarning
	for _, suffix := range g.Suffixes() {
		for _, r := range g.counters[suffix].MarkupWarnings(topN, markup) {
			out = append(out, MarkupWarning{Suffix: suffix, Word: r.Word, Count: r.Count})
		}
	}
	return out
}

// DumpOptions configures Group.Dump.
type DumpOptions struct {
	Codec   storage.Codec
	Columns []string
	// ChannelTotal is the number of distinct channels in the collection;
	// used only when the counters track channels.
	ChannelTotal int64
}

// Dump writes one table file per variant, substituting each variant's
// suffix for the PathPlaceholder in pathPattern. Without a placeholder only
// the identity variant is written.
func (g *Group) Dump(pathPattern string, opts DumpOptions) error {
	suffixes := g.Suffixes()
	if !strings.Contains(pathPattern, PathPlaceholder) {
		suffixes = []string{""}
	}
	for _, suffix := range suffixes {
		c := g.counters[suffix]
		if c == nil {
			continue
		}
		totals := []int64{g.NWords, g.NDocs}
		if c.Channels() {
			totals = append(totals, opts.ChannelTotal)
		}
		path := strings.ReplaceAll(pathPattern, PathPlaceholder, suffix)
		if err := dumpFile(c, path, opts.Codec, opts.Columns, totals); err != nil {
			return err
		}
	}
	return nil
}

func dumpFile(c *Counter, path string, codec storage.Codec, cols []string, totals []int64) error {
	w, err := codec.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.Dump(w, cols, totals); err != nil {
		w.Close()
		return fmt.Errorf("dump %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
