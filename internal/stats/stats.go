// internal/stats/stats.go
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"primerscan-core/engine"
)

type pairKey struct {
	f, r string
}

// Run accumulates run-level statistics. It is owned by the single sink
// goroutine and must not be shared while the run is in flight.
type Run struct {
	Total     int
	BothFound int
	Plus      int
	Minus     int
	Unknown   int
	Dimers    int

	pairs   map[pairKey]int
	lengths []float64
}

func NewRun() *Run {
	return &Run{pairs: make(map[pairKey]int)}
}

// Add folds one classification into the counters. Every classification
// is counted exactly once, whether or not its row was written.
func (r *Run) Add(c engine.Classification) {
	r.Total++
	if c.FMatch.Found && c.RMatch.Found {
		r.BothFound++
	}
	switch c.Strand {
	case '+':
		r.Plus++
	case '-':
		r.Minus++
	default:
		r.Unknown++
	}
	if c.IsDimer {
		r.Dimers++
	}
	r.pairs[pairKey{c.FPrimer, c.RPrimer}]++
	r.lengths = append(r.lengths, float64(c.Length))
}

// PairCount is one row of the primer-pair usage histogram.
type PairCount struct {
	ForwardPrimer string  `json:"forward_primer"`
	ReversePrimer string  `json:"reverse_primer"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
}

// Snapshot is the JSON statistics sidecar schema.
type Snapshot struct {
	SampleName       string      `json:"sample_name"`
	TotalReads       int         `json:"total_reads"`
	BothPrimersFound int         `json:"both_primers_found"`
	SuccessRate      float64     `json:"success_rate"`
	PlusStrand       int         `json:"plus_strand"`
	MinusStrand      int         `json:"minus_strand"`
	UnknownStrand    int         `json:"unknown_strand"`
	DimerCount       int         `json:"dimer_count"`
	DimerRate        float64     `json:"dimer_rate"`
	MeanReadLength   float64     `json:"mean_read_length"`
	ReadLengthStddev float64     `json:"read_length_stddev"`
	PrimerPairs      []PairCount `json:"primer_pairs"`
}

// Snapshot computes the final statistics. Percentages are against
// total reads and 0 when no reads were seen.
func (r *Run) Snapshot(sample string) Snapshot {
	s := Snapshot{
		SampleName:       sample,
		TotalReads:       r.Total,
		BothPrimersFound: r.BothFound,
		PlusStrand:       r.Plus,
		MinusStrand:      r.Minus,
		UnknownStrand:    r.Unknown,
		DimerCount:       r.Dimers,
		PrimerPairs:      []PairCount{},
	}
	if r.Total > 0 {
		s.SuccessRate = float64(r.BothFound) / float64(r.Total) * 100
		s.DimerRate = float64(r.Dimers) / float64(r.Total) * 100
		s.MeanReadLength = stat.Mean(r.lengths, nil)
	}
	if len(r.lengths) > 1 {
		s.ReadLengthStddev = stat.StdDev(r.lengths, nil)
	}

	for k, n := range r.pairs {
		s.PrimerPairs = append(s.PrimerPairs, PairCount{
			ForwardPrimer: k.f,
			ReversePrimer: k.r,
			Count:         n,
			Percentage:    float64(n) / float64(r.Total) * 100,
		})
	}
	sort.Slice(s.PrimerPairs, func(i, j int) bool {
		a, b := s.PrimerPairs[i], s.PrimerPairs[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.ForwardPrimer != b.ForwardPrimer {
			return a.ForwardPrimer < b.ForwardPrimer
		}
		return a.ReversePrimer < b.ReversePrimer
	})
	return s
}
