package engine

import (
	"strings"
	"testing"

	"primerscan-core/fastq"
	"primerscan-core/primer"
)

func table(t *testing.T, rows string) primer.Table {
	t.Helper()
	tab, err := primer.Parse(strings.NewReader(rows), nil)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	return tab
}

// The canonical plus-strand scenario: forward primer at 0, reverse
// complement of the other primer at 50.
func TestClassifyPlusStrandDimer(t *testing.T) {
	tab := table(t, "F\tACGTACGT\nR\tTTTTCCCC\n")

	seq := "ACGTACGT" + strings.Repeat("T", 42) + "GGGGAAAA" + strings.Repeat("C", 6)
	read := &fastq.Read{ID: "r1", Seq: []byte(seq), Qual: []byte(strings.Repeat("I", len(seq)))}

	e := New(Config{MaxErrors: 3, MinDimerDistance: 100})
	c := e.Classify(read, tab)

	if c.Strand != '+' {
		t.Fatalf("strand = %c, want +", c.Strand)
	}
	if c.FPrimer != "F" || c.RPrimer != "R" {
		t.Errorf("pair = %s/%s, want F/R", c.FPrimer, c.RPrimer)
	}
	if !c.FMatch.Found || c.FMatch.Pos != 0 || c.FMatch.Errors != 0 {
		t.Errorf("forward match = %+v", c.FMatch)
	}
	if !c.RMatch.Found || c.RMatch.Pos != 50 || c.RMatch.Errors != 0 {
		t.Errorf("reverse match = %+v", c.RMatch)
	}
	if !c.HasDistance || c.Distance != 50 {
		t.Errorf("distance = %d (has=%v), want 50", c.Distance, c.HasDistance)
	}
	if !c.IsDimer {
		t.Error("distance 50 < 100 must flag a dimer")
	}
	if c.Length != len(seq) {
		t.Errorf("length = %d, want %d", c.Length, len(seq))
	}
}

func TestClassifyMinusStrand(t *testing.T) {
	tab := table(t, "F\tAACCGGTT\nR\tGGGGTTTT\n")

	// Minus-strand layout: R.forward first, then revcomp(F).
	seq := "GGGGTTTT" + strings.Repeat("C", 120) + string(primer.RevComp([]byte("AACCGGTT")))
	read := &fastq.Read{ID: "r2", Seq: []byte(seq), Qual: []byte(strings.Repeat("I", len(seq)))}

	e := New(Config{MaxErrors: 3, MinDimerDistance: 100})
	c := e.Classify(read, tab)

	if c.Strand != '-' {
		t.Fatalf("strand = %c, want -", c.Strand)
	}
	if c.FPrimer != "R" || c.RPrimer != "F" {
		t.Errorf("pair = %s/%s, want R/F", c.FPrimer, c.RPrimer)
	}
	if !c.HasDistance || c.Distance != 128 {
		t.Errorf("distance = %d, want 128", c.Distance)
	}
	if c.IsDimer {
		t.Error("distance 128 must not be a dimer")
	}
	if c.FMatch.Pos >= c.RMatch.Pos {
		t.Errorf("forward %d must precede reverse %d", c.FMatch.Pos, c.RMatch.Pos)
	}
}

func TestClassifyNoMatchIsUnknown(t *testing.T) {
	tab := table(t, "F\tACGTACGT\nR\tTTTTCCCC\n")
	read := &fastq.Read{ID: "r3", Seq: []byte(strings.Repeat("G", 60)), Qual: []byte(strings.Repeat("I", 60))}

	e := New(Config{MaxErrors: 1, MinDimerDistance: 100})
	c := e.Classify(read, tab)

	if c.Strand != '?' {
		t.Errorf("strand = %c, want ?", c.Strand)
	}
	if c.FPrimer != "-" || c.RPrimer != "-" {
		t.Errorf("placeholders = %s/%s", c.FPrimer, c.RPrimer)
	}
	if c.FMatch.Found || c.RMatch.Found {
		t.Error("no match expected")
	}
	if c.HasDistance || c.IsDimer {
		t.Error("no distance or dimer without a hypothesis")
	}
}

func TestClassifyOrientationRequired(t *testing.T) {
	// Both primers present but reverse precedes forward: no hypothesis.
	tab := table(t, "F\tAACCGGTT\nR\tGGGGTTTT\n")
	seq := string(primer.RevComp([]byte("GGGGTTTT"))) + strings.Repeat("C", 40) + "AACCGGTT"
	read := &fastq.Read{ID: "r4", Seq: []byte(seq), Qual: []byte(strings.Repeat("I", len(seq)))}

	e := New(Config{MaxErrors: 0, MinDimerDistance: 100})
	c := e.Classify(read, tab)
	if c.Strand != '?' {
		t.Errorf("strand = %c, want ? when ordering violated", c.Strand)
	}
}

func TestClassifyTieKeepsFirstPair(t *testing.T) {
	// Two pairs match with equal score; the lexicographically first
	// enumeration must win deterministically.
	tab := table(t, "A\tAAAACCCC\nB\tAAAACCCC\nZ\tACACACAC\n")
	seq := "AAAACCCC" + strings.Repeat("T", 110) + string(primer.RevComp([]byte("ACACACAC")))
	read := &fastq.Read{ID: "r5", Seq: []byte(seq), Qual: []byte(strings.Repeat("I", len(seq)))}

	e := New(Config{MaxErrors: 0, MinDimerDistance: 100})
	c := e.Classify(read, tab)
	if c.Strand != '+' {
		t.Fatalf("strand = %c", c.Strand)
	}
	if c.FPrimer != "A" || c.RPrimer != "Z" {
		t.Errorf("pair = %s/%s, want A/Z (first-found tie)", c.FPrimer, c.RPrimer)
	}
}

func TestClassifyWithErrors(t *testing.T) {
	tab := table(t, "F\tACGTACGTAC\nR\tTTTTCCCCTT\n")
	fwd := []byte("ACGTACGTAC")
	fwd[4] = 'G' // one substitution
	rev := primer.RevComp([]byte("TTTTCCCCTT"))
	seq := string(fwd) + strings.Repeat("A", 100) + string(rev)
	read := &fastq.Read{ID: "r6", Seq: []byte(seq), Qual: []byte(strings.Repeat("I", len(seq)))}

	e := New(Config{MaxErrors: 2, MinDimerDistance: 50})
	c := e.Classify(read, tab)
	if c.Strand != '+' {
		t.Fatalf("strand = %c", c.Strand)
	}
	if c.FMatch.Errors == 0 {
		t.Error("forward match should carry at least one error")
	}
	if c.IsDimer {
		t.Error("distance 110 with min 50 is not a dimer")
	}
}

func TestClassifyAlignmentText(t *testing.T) {
	tab := table(t, "F\tACGTACGT\nR\tTTTTCCCC\n")
	seq := "ACGTACGT" + strings.Repeat("T", 42) + "GGGGAAAA"
	read := &fastq.Read{ID: "r7", Seq: []byte(seq), Qual: []byte(strings.Repeat("I", len(seq)))}

	e := New(Config{MaxErrors: 3, MinDimerDistance: 100, Alignments: true})
	c := e.Classify(read, tab)
	if c.FMatch.Alignment == "" || c.FMatch.Alignment == "-" {
		t.Fatalf("alignment text missing: %q", c.FMatch.Alignment)
	}
	parts := strings.Split(c.FMatch.Alignment, "|")
	if len(parts) < 3 {
		t.Fatalf("alignment = %q, want three |-joined lines", c.FMatch.Alignment)
	}
}
