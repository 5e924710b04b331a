// core/align/align.go
package align

// Bounded edit-distance infix alignment: the query (a primer) may match
// anywhere inside the target (a read); target bases before the start
// and after the end of the match are free. Equivalent to the classic
// "HW" semi-global mode.

// Hit is one optimal infix alignment of query against target.
// Start/End are target offsets, End exclusive.
type Hit struct {
	Distance int
	Start    int
	End      int
}

// Scratch holds reusable DP rows so repeated Align calls on one
// goroutine do not allocate. Never share a Scratch between goroutines.
type Scratch struct {
	dprev, dcur []int // edit distance rows
	sprev, scur []int // start-position rows
}

func (s *Scratch) grow(n int) {
	if cap(s.dprev) < n {
		s.dprev = make([]int, n)
		s.dcur = make([]int, n)
		s.sprev = make([]int, n)
		s.scur = make([]int, n)
	}
	s.dprev = s.dprev[:n]
	s.dcur = s.dcur[:n]
	s.sprev = s.sprev[:n]
	s.scur = s.scur[:n]
}

// Align reports the best infix alignment of query within target with at
// most k edits. Among equal-distance alignments the one with the
// smallest end is chosen (and the smallest start propagated to it), so
// results are deterministic and the leftmost optimal occurrence wins.
// ok is false when no alignment with distance <= k exists.
//
// s may be nil; passing one avoids per-call allocation.
func Align(query, target []byte, k int, s *Scratch) (Hit, bool) {
	m, n := len(query), len(target)
	if m == 0 {
		return Hit{}, false
	}
	if s == nil {
		s = &Scratch{}
	}
	s.grow(n + 1)

	dprev, dcur := s.dprev, s.dcur
	sprev, scur := s.sprev, s.scur

	// Row 0: an alignment may start at any target position for free.
	for j := 0; j <= n; j++ {
		dprev[j] = 0
		sprev[j] = j
	}

	for i := 1; i <= m; i++ {
		dcur[0] = i
		scur[0] = 0
		rowMin := dcur[0]
		qc := query[i-1]
		for j := 1; j <= n; j++ {
			cost := 1
			if qc == target[j-1] {
				cost = 0
			}
			d := dprev[j-1] + cost // diagonal
			st := sprev[j-1]
			if up := dprev[j] + 1; up < d || (up == d && sprev[j] < st) {
				d = up
				st = sprev[j]
			}
			if left := dcur[j-1] + 1; left < d || (left == d && scur[j-1] < st) {
				d = left
				st = scur[j-1]
			}
			dcur[j] = d
			scur[j] = st
			if d < rowMin {
				rowMin = d
			}
		}
		if rowMin > k {
			return Hit{}, false
		}
		dprev, dcur = dcur, dprev
		sprev, scur = scur, sprev
	}

	best, end := dprev[0], 0
	for j := 1; j <= n; j++ {
		if dprev[j] < best {
			best, end = dprev[j], j
		}
	}
	if best > k {
		return Hit{}, false
	}
	return Hit{Distance: best, Start: sprev[end], End: end}, true
}
