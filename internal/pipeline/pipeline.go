// internal/pipeline/pipeline.go

// Package pipeline drives the record source through mate pairing and
// merging, fans classification out over a worker pool, and funnels
// verdicts into a single sink channel. Classifications reach the sink
// in completion order: a permutation of input order, never guaranteed
// to equal it.
package pipeline

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"

	"primerscan-core/engine"
	"primerscan-core/fastq"
	"primerscan-core/merge"
	"primerscan-core/primer"
)

// Config controls the classification pipeline.
type Config struct {
	Threads         int // worker goroutines (0 = all CPUs)
	BatchSize       int // records accumulated before fan-out (0 = 1000)
	MinOverlap      int
	MaxMismatchRate float64
}

// Run streams reads from r1 (and r2 for paired-end runs), merges
// mates, classifies every produced record on the worker pool, and
// sends each Classification to sink. The caller owns sink and closes
// it after Run returns.
//
// Recoverable per-record problems (format violations, mate-id
// mismatches) are reported through warn and skipped; truncation at
// end-of-stream stops that stream; I/O errors abort the run.
// Run returns the number of records handed to the workers.
func Run(
	ctx context.Context,
	cfg Config,
	r1, r2 *fastq.Reader,
	table primer.Table,
	eng *engine.Engine,
	sink chan<- engine.Classification,
	warn func(format string, args ...any),
) (int, error) {
	if cfg.Threads < 1 {
		cfg.Threads = runtime.NumCPU()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1000
	}
	if warn == nil {
		warn = func(string, ...any) {}
	}

	jobs := make(chan *fastq.Read, cfg.Threads*2)
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for rec := range jobs {
				c := eng.Classify(rec, table)
				select {
				case sink <- c:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// next skips format errors and treats truncation as end-of-stream.
	// Any other error is fatal.
	next := func(r *fastq.Reader, name string) (*fastq.Read, error) {
		for {
			rec, err := r.Next()
			if err == nil {
				return rec, nil
			}
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			var fe *fastq.FormatError
			if errors.As(err, &fe) {
				warn("%s: %v (record skipped)", name, fe)
				continue
			}
			var te *fastq.TruncatedRecordError
			if errors.As(err, &te) {
				warn("%s: %v (stream ends here)", name, te)
				return nil, nil
			}
			return nil, err
		}
	}

	var (
		count int
		ferr  error
	)
	batch := make([]*fastq.Read, 0, cfg.BatchSize)
	flush := func() bool {
		for _, rec := range batch {
			select {
			case jobs <- rec:
			case <-ctx.Done():
				return false
			}
		}
		batch = batch[:0]
		return true
	}

feed:
	for {
		rec1, err := next(r1, "R1")
		if err != nil {
			ferr = err
			break
		}
		if rec1 == nil {
			break
		}

		rec := rec1
		if r2 != nil {
			rec2, err := next(r2, "R2")
			if err != nil {
				ferr = err
				break
			}
			if rec2 == nil {
				warn("R2 ended before R1; remaining R1 records dropped")
				break
			}
			if merge.PairID(rec1.ID) != merge.PairID(rec2.ID) {
				warn("mate id mismatch: %s vs %s (pair skipped)", rec1.ID, rec2.ID)
				continue
			}
			if m := merge.Merge(rec1, rec2, cfg.MinOverlap, cfg.MaxMismatchRate); m != nil {
				rec = m
			}
		}

		count++
		batch = append(batch, rec)
		if len(batch) >= cfg.BatchSize {
			if !flush() {
				break feed
			}
		}
	}
	if ferr == nil {
		flush()
	}

	close(jobs)
	wg.Wait()

	if ferr == nil && ctx.Err() != nil {
		ferr = ctx.Err()
	}
	return count, ferr
}
