// core/engine/engine.go
package engine

import (
	"primerscan-core/align"
	"primerscan-core/fastq"
	"primerscan-core/primer"
)

// Config holds classification parameters.
type Config struct {
	MaxErrors        int  // edit-distance bound per primer
	MinDimerDistance int  // inter-primer distances below this flag a dimer
	Alignments       bool // render diagnostic alignment text on matches
}

// Engine classifies reads against a primer table. It is stateless and
// safe for concurrent use; DP scratch is owned per call.
type Engine struct {
	cfg Config
}

// New creates a new Engine.
func New(c Config) *Engine { return &Engine{cfg: c} }

// Match describes one primer's placement in a read. Pos and Errors are
// meaningful only when Found; Alignment is filled only when diagnostic
// rendering is enabled.
type Match struct {
	Found     bool
	Pos       int
	Errors    int
	Alignment string
}

// Classification is the per-read verdict. Strand is '+', '-' or '?'.
// Distance is valid only when HasDistance.
type Classification struct {
	ReadID      string
	Length      int
	Strand      byte
	FPrimer     string
	RPrimer     string
	FMatch      Match
	RMatch      Match
	Distance    int
	HasDistance bool
	IsDimer     bool
}

type hypothesis struct {
	fName, rName string
	fSeq, rSeq   []byte
	strand       byte
	f, r         align.Hit
}

// Classify finds the best-matching primer pair for one read. It never
// fails: with no acceptable hypothesis the verdict has strand '?' and
// placeholder primer names.
//
// All unordered pairs of distinct entries are tested on both strand
// hypotheses in the table's sorted order; a hypothesis needs both
// primers found with the forward strictly left of the reverse. The
// lowest summed edit distance wins, first-found on ties, which favors
// lexicographically smaller primer names.
func (e *Engine) Classify(read *fastq.Read, table primer.Table) Classification {
	var (
		s     align.Scratch
		best  hypothesis
		found bool
		score = int(^uint(0) >> 1)
	)

	try := func(fName, rName string, fSeq, rSeq []byte, strand byte) {
		f, ok := align.Align(fSeq, read.Seq, e.cfg.MaxErrors, &s)
		if !ok {
			return
		}
		r, ok := align.Align(rSeq, read.Seq, e.cfg.MaxErrors, &s)
		if !ok {
			return
		}
		if f.Start >= r.Start {
			return
		}
		if sc := f.Distance + r.Distance; sc < score {
			score = sc
			best = hypothesis{fName: fName, rName: rName, fSeq: fSeq, rSeq: rSeq, strand: strand, f: f, r: r}
			found = true
		}
	}

	for i := 0; i < len(table); i++ {
		for j := i + 1; j < len(table); j++ {
			a, b := table[i], table[j]
			try(a.Name, b.Name, a.Forward, b.RevComp, '+')
			try(b.Name, a.Name, b.Forward, a.RevComp, '-')
		}
	}

	c := Classification{
		ReadID:  read.ID,
		Length:  len(read.Seq),
		Strand:  '?',
		FPrimer: "-",
		RPrimer: "-",
	}
	if !found {
		return c
	}

	c.Strand = best.strand
	c.FPrimer = best.fName
	c.RPrimer = best.rName
	c.FMatch = Match{Found: true, Pos: best.f.Start, Errors: best.f.Distance}
	c.RMatch = Match{Found: true, Pos: best.r.Start, Errors: best.r.Distance}
	c.Distance = best.r.Start - best.f.Start
	c.HasDistance = true
	c.IsDimer = c.Distance < e.cfg.MinDimerDistance

	if e.cfg.Alignments {
		c.FMatch.Alignment = renderAlignment(best.fSeq, read.Seq, e.cfg.MaxErrors)
		c.RMatch.Alignment = renderAlignment(best.rSeq, read.Seq, e.cfg.MaxErrors)
	}
	return c
}
