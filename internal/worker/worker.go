// Package worker runs the per-partition accumulation in parallel and folds
// the partial results into a single counter group. Workers share nothing;
// the reduction after they finish is the pipeline's only synchronization
// point.
package worker

import (
	"context"
	"crypto/rand"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/lexfreq/pkg/lexfreq/freq"
)

// Plan computes the worker layout for nDumps dump files and a process
// budget. Each worker gets the same (maximum) number of dump files and the
// same number of processes, a deliberately simple allocation. A zero result
// means multiprocessing is not worth it: run inline.
func Plan(nDumps, processes, maxWorkers int) (workers, dumpsPerWorker, procsPerWorker int) {
	workers = min(nDumps, processes/2)
	if maxWorkers > 0 && workers > maxWorkers {
		workers = maxWorkers
	}
	if workers <= 1 {
		return 0, 0, 0
	}

	dumpsPerWorker = ceilDiv(nDumps, workers)
	workers = ceilDiv(nDumps, dumpsPerWorker) // actual workers may be less
	procsPerWorker = processes / workers
	return workers, dumpsPerWorker, procsPerWorker
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// Partition splits dumps into chunks of size dumpsPerWorker.
func Partition(dumps []string, dumpsPerWorker int) [][]string {
	var parts [][]string
	for i := 0; i < len(dumps); i += dumpsPerWorker {
		end := min(i+dumpsPerWorker, len(dumps))
		parts = append(parts, dumps[i:end])
	}
	return parts
}

// Func builds one worker's counter group from its dump partition. It must
// return an error rather than a partial group when extraction fails.
type Func func(ctx context.Context, runID string, dumps []string) (*freq.Group, error)

// Run executes fn over every partition, up to parallel at a time, and
// reduces the results. Any worker error cancels the remaining workers and
// fails the whole run: a failed partition must never be silently merged.
func Run(ctx context.Context, parts [][]string, parallel int, fn Func, logger *slog.Logger) (*freq.Group, error) {
	if logger == nil {
		logger = slog.Default()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	results := make(chan *freq.Group, len(parts))

	for _, dumps := range parts {
		dumps := dumps
		g.Go(func() error {
			runID := ulid.MustNew(ulid.Now(), rand.Reader).String()
			logger.Info("worker started", "run_id", runID, "dumps", len(dumps))
			group, err := fn(ctx, runID, dumps)
			if err != nil {
				logger.Error("worker failed", "run_id", runID, "err", err)
				return err
			}
			results <- group
			logger.Info("worker finished", "run_id", runID)
			return nil
		})
	}

	err := g.Wait()
	close(results)
	if err != nil {
		return nil, err
	}
	return freq.ReduceChan(results)
}
