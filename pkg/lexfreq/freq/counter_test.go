package freq

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/lexfreq/pkg/lexfreq/internalerr"
)

func addDoc(t *testing.T, c *Counter, words ...string) {
	t.Helper()
	if err := c.Add(words, ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := c.CloseDoc(); err != nil {
		t.Fatalf("CloseDoc: %v", err)
	}
}

func TestCounterCounts(t *testing.T) {
	c := NewCounter(false)
	addDoc(t, c, "a", "b", "a")
	addDoc(t, c, "a", "c")

	if got := c.Count("a"); got != 3 {
		t.Errorf("count(a) = %d, want 3", got)
	}
	if got := c.DocCount("a"); got != 2 {
		t.Errorf("docs(a) = %d, want 2", got)
	}
	if got := c.DocCount("b"); got != 1 {
		t.Errorf("docs(b) = %d, want 1", got)
	}
}

func TestCloseDocIdempotent(t *testing.T) {
	c := NewCounter(false)
	if err := c.Add([]string{"x", "y"}, ""); err != nil {
		t.Fatal(err)
	}
	if err := c.CloseDoc(); err != nil {
		t.Fatal(err)
	}
	if err := c.CloseDoc(); err != nil {
		t.Fatal(err)
	}
	if got := c.DocCount("x"); got != 1 {
		t.Errorf("docs(x) = %d after double close, want 1", got)
	}
}

func TestCompactIdempotent(t *testing.T) {
	c := NewCounter(false)
	addDoc(t, c, "a")
	addDoc(t, c, "a", "b")

	if err := c.Compact(); err != nil {
		t.Fatal(err)
	}
	if err := c.Compact(); err != nil {
		t.Fatal(err)
	}
	if got := c.DocCount("a"); got != 2 {
		t.Errorf("docs(a) = %d after double compact, want 2", got)
	}
}

func TestCompactRejectsOpenDocument(t *testing.T) {
	c := NewCounter(false)
	if err := c.Add([]string{"a"}, ""); err != nil {
		t.Fatal(err)
	}
	if err := c.Compact(); !errors.Is(err, internalerr.ErrOpenDocument) {
		t.Errorf("Compact with open doc: %v", err)
	}
}

func TestAddAfterCompactFails(t *testing.T) {
	c := NewCounter(false)
	addDoc(t, c, "a")
	if err := c.Compact(); err != nil {
		t.Fatal(err)
	}
	if err := c.Add([]string{"b"}, ""); !errors.Is(err, internalerr.ErrCompacted) {
		t.Errorf("Add after compact: %v", err)
	}
	if err := c.CloseDoc(); !errors.Is(err, internalerr.ErrCompacted) {
		t.Errorf("CloseDoc after compact: %v", err)
	}
}

func TestChannelModeMismatch(t *testing.T) {
	c := NewCounter(false)
	if err := c.Add([]string{"a"}, "ch1"); !errors.Is(err, internalerr.ErrChannelMode) {
		t.Errorf("channel id without tracking: %v", err)
	}
	cc := NewCounter(true)
	if err := cc.Add([]string{"a"}, ""); !errors.Is(err, internalerr.ErrChannelMode) {
		t.Errorf("missing channel id with tracking: %v", err)
	}
	if err := cc.Merge(c); !errors.Is(err, internalerr.ErrChannelMode) {
		t.Errorf("merge across modes: %v", err)
	}
}

func TestMergeRejectsOpenDocument(t *testing.T) {
	a := NewCounter(false)
	b := NewCounter(false)
	if err := b.Add([]string{"w"}, ""); err != nil {
		t.Fatal(err)
	}
	if err := a.Merge(b); !errors.Is(err, internalerr.ErrOpenDocument) {
		t.Errorf("merge with open operand: %v", err)
	}
}

func TestMergeEquivalentToUnion(t *testing.T) {
	// Partitioned counting must equal direct counting of the union.
	docs := [][]string{
		{"a", "b", "a"},
		{"a", "c"},
		{"b", "b", "d"},
		{"d"},
	}

	direct := NewCounter(false)
	for _, d := range docs {
		addDoc(t, direct, d...)
	}
	if err := direct.Compact(); err != nil {
		t.Fatal(err)
	}

	left, right := NewCounter(false), NewCounter(false)
	for _, d := range docs[:2] {
		addDoc(t, left, d...)
	}
	for _, d := range docs[2:] {
		addDoc(t, right, d...)
	}
	if err := left.Merge(right); err != nil {
		t.Fatal(err)
	}

	for _, w := range []string{"a", "b", "c", "d"} {
		if left.Count(w) != direct.Count(w) {
			t.Errorf("count(%s): merged %d, direct %d", w, left.Count(w), direct.Count(w))
		}
		if left.DocCount(w) != direct.DocCount(w) {
			t.Errorf("docs(%s): merged %d, direct %d", w, left.DocCount(w), direct.DocCount(w))
		}
	}
}

func TestMergeUnionsChannels(t *testing.T) {
	a := NewCounter(true)
	if err := a.Add([]string{"w"}, "ch1"); err != nil {
		t.Fatal(err)
	}
	if err := a.CloseDoc(); err != nil {
		t.Fatal(err)
	}
	b := NewCounter(true)
	for _, ch := range []string{"ch1", "ch2"} {
		if err := b.Add([]string{"w"}, ch); err != nil {
			t.Fatal(err)
		}
		if err := b.CloseDoc(); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.Merge(b); err != nil {
		t.Fatal(err)
	}
	rows := a.Rows()
	if len(rows) != 1 || rows[0].Channels != 2 {
		t.Fatalf("rows = %+v, want single row with 2 channels", rows)
	}
}

func TestRemoveLessThanMinDocs(t *testing.T) {
	c := NewCounter(false)
	addDoc(t, c, "common", "rare")
	addDoc(t, c, "common")
	addDoc(t, c, "common")
	if err := c.Compact(); err != nil {
		t.Fatal(err)
	}

	c.RemoveLessThanMinDocs(2)
	if c.Count("rare") != 0 {
		t.Error("rare should be removed")
	}
	if c.Count("common") != 3 {
		t.Error("common should survive")
	}
}

func TestRemoveLessThanMinChannels(t *testing.T) {
	c := NewCounter(true)
	for _, ch := range []string{"ch1", "ch2"} {
		if err := c.Add([]string{"wide"}, ch); err != nil {
			t.Fatal(err)
		}
		if err := c.CloseDoc(); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Add([]string{"narrow"}, "ch1"); err != nil {
		t.Fatal(err)
	}
	if err := c.CloseDoc(); err != nil {
		t.Fatal(err)
	}

	if err := c.RemoveLessThanMinChannels(2); err != nil {
		t.Fatal(err)
	}
	if c.Count("narrow") != 0 {
		t.Error("narrow should be removed")
	}
	if c.Count("wide") != 2 {
		t.Error("wide should survive")
	}

	plain := NewCounter(false)
	if err := plain.RemoveLessThanMinChannels(1); !errors.Is(err, internalerr.ErrChannelMode) {
		t.Errorf("min-channels without tracking: %v", err)
	}
}

func TestDumpFormat(t *testing.T) {
	c := NewCounter(false)
	addDoc(t, c, "a", "b", "a")
	addDoc(t, c, "a", "c")
	if err := c.Compact(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := c.Dump(&buf, []string{"word", "count", "documents"}, []int64{5, 2}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"word\tcount\tdocuments",
		"a\t3\t2",
		"b\t1\t1", // ties broken lexicographically
		"c\t1\t1",
		"[TOTAL]\t5\t2",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("dump:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestDumpArity(t *testing.T) {
	c := NewCounter(false)
	var buf bytes.Buffer
	err := c.Dump(&buf, []string{"word", "count"}, []int64{1, 2})
	if !errors.Is(err, internalerr.ErrDumpArity) {
		t.Errorf("short columns: %v", err)
	}
	err = c.Dump(&buf, []string{"word", "count", "docs", "chans"}, []int64{1, 2, 3})
	if !errors.Is(err, internalerr.ErrDumpArity) {
		t.Errorf("channel totals without tracking: %v", err)
	}
}

func TestMarkupWarnings(t *testing.T) {
	c := NewCounter(false)
	addDoc(t, c, "name=", "name=", "name=", "legit", "legit", "other")

	warnings := c.MarkupWarnings(2, []string{"name=", "/ref"})
	if len(warnings) != 1 || warnings[0].Word != "name=" || warnings[0].Count != 3 {
		t.Fatalf("warnings = %+v", warnings)
	}
	// Artifacts outside the top N are not reported.
	if got := c.MarkupWarnings(0, []string{"name="}); got != nil {
		t.Errorf("topN=0 should report nothing, got %+v", got)
	}
}
