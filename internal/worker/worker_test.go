package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"github.com/cognicore/lexfreq/pkg/lexfreq/freq"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		dumps, procs, maxWorkers      int
		workers, dumpsPerW, procsPerW int
	}{
		{1, 10, 0, 0, 0, 0}, // a single dump: run inline
		{10, 3, 0, 0, 0, 0}, // too few processes
		{10, 4, 0, 2, 5, 2},
		{2, 4, 0, 2, 1, 2},
		{2, 7, 0, 2, 1, 3},
		{10, 8, 2, 2, 5, 4}, // capped by maxWorkers
	}
	for _, tt := range tests {
		w, d, p := Plan(tt.dumps, tt.procs, tt.maxWorkers)
		if w != tt.workers || d != tt.dumpsPerW || p != tt.procsPerW {
			t.Errorf("Plan(%d, %d, %d) = (%d, %d, %d), want (%d, %d, %d)",
				tt.dumps, tt.procs, tt.maxWorkers, w, d, p,
				tt.workers, tt.dumpsPerW, tt.procsPerW)
		}
	}
}

func TestPartition(t *testing.T) {
	dumps := []string{"a", "b", "c", "d", "e"}
	got := Partition(dumps, 2)
	want := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Partition = %v, want %v", got, want)
	}
}

func countWords(words ...string) Func {
	return func(ctx context.Context, runID string, dumps []string) (*freq.Group, error) {
		g := freq.NewGroup(false, false)
		for range dumps {
			if err := g.Add(words, ""); err != nil {
				return nil, err
			}
			if err := g.CloseDoc(); err != nil {
				return nil, err
			}
		}
		if err := g.Compact(); err != nil {
			return nil, err
		}
		return g, nil
	}
}

func TestRunMatchesInline(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parts := [][]string{{"d1", "d2"}, {"d3"}, {"d4", "d5"}}

	got, err := Run(context.Background(), parts, 2, countWords("w"), logger)
	if err != nil {
		t.Fatal(err)
	}

	// One document per dump, each containing "w" once.
	if got.NDocs != 5 {
		t.Errorf("NDocs = %d, want 5", got.NDocs)
	}
	c := got.Counter("")
	if c.Count("w") != 5 || c.DocCount("w") != 5 {
		t.Errorf("w: count=%d docs=%d", c.Count("w"), c.DocCount("w"))
	}
}

func TestRunAssignsDistinctRunIDs(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var mu sync.Mutex
	seen := map[string]int{}
	fn := func(ctx context.Context, runID string, dumps []string) (*freq.Group, error) {
		mu.Lock()
		seen[runID]++
		mu.Unlock()
		return countWords("w")(ctx, runID, dumps)
	}

	if _, err := Run(context.Background(), [][]string{{"d1"}, {"d2"}, {"d3"}}, 3, fn, logger); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 {
		t.Fatalf("run ids = %v, want 3 distinct", seen)
	}
	for id := range seen {
		if id == "" {
			t.Fatal("empty run id passed to worker")
		}
	}
}

func TestRunPropagatesWorkerError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	boom := errors.New("extractor crashed")
	fail := func(ctx context.Context, runID string, dumps []string) (*freq.Group, error) {
		if dumps[0] == "bad" {
			return nil, boom
		}
		return countWords("w")(ctx, runID, dumps)
	}

	_, err := Run(context.Background(), [][]string{{"ok"}, {"bad"}}, 2, fail, logger)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want worker failure", err)
	}
}
