// internal/writers/result.go
package writers

import (
	"fmt"
	"io"

	"primerscan-core/engine"
	"primerscan/internal/output"
	"primerscan/internal/stats"
)

// SinkConfig controls the result sink.
type SinkConfig struct {
	MaxOutput  int    // rows written before switching to stats-only (0 = unlimited)
	Alignments bool   // append diagnostic alignment columns
	Header     bool   // write the header line
	OnEach     func() // called per classification, for progress reporting
	BufSize    int    // channel capacity; this is the pipeline's backpressure bound
}

// ResultSink is the single consumer of the classification channel: it
// updates statistics for every classification and writes result rows
// up to the configured cap. Rows arrive in completion order, which is
// a permutation of input order, not input order itself.
type ResultSink struct {
	in    chan engine.Classification
	done  chan struct{}
	err   error
	stats *stats.Run
}

// StartResultSink spins up the sink goroutine writing rows to w.
func StartResultSink(w io.Writer, cfg SinkConfig) *ResultSink {
	if cfg.BufSize <= 0 {
		cfg.BufSize = 64
	}
	s := &ResultSink{
		in:    make(chan engine.Classification, cfg.BufSize),
		done:  make(chan struct{}),
		stats: stats.NewRun(),
	}

	go func() {
		defer close(s.done)
		if cfg.Header {
			hdr := output.Header
			if cfg.Alignments {
				hdr = output.HeaderAligned
			}
			if _, err := fmt.Fprintln(w, hdr); err != nil && s.err == nil {
				s.err = err
			}
		}
		written := 0
		for c := range s.in {
			s.stats.Add(c)
			if cfg.OnEach != nil {
				cfg.OnEach()
			}
			// Past the cap (or after a write error) the sink keeps
			// draining so statistics stay complete.
			if s.err != nil || (cfg.MaxOutput > 0 && written >= cfg.MaxOutput) {
				continue
			}
			if _, err := fmt.Fprintln(w, output.FormatRow(c, cfg.Alignments)); err != nil {
				s.err = err
				continue
			}
			written++
		}
	}()
	return s
}

// In returns the channel producers send classifications on. Close it
// to finish the run, then call Wait.
func (s *ResultSink) In() chan<- engine.Classification { return s.in }

// Close closes the input channel.
func (s *ResultSink) Close() { close(s.in) }

// Wait blocks until the sink has drained and returns the first write
// error, if any.
func (s *ResultSink) Wait() error {
	<-s.done
	return s.err
}

// Stats exposes the accumulator. Only valid after Wait returns.
func (s *ResultSink) Stats() *stats.Run { return s.stats }
