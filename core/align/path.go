// core/align/path.go
package align

// Op is one step of an alignment path, query and target 5'->3'.
type Op byte

const (
	OpMatch    Op = '='
	OpMismatch Op = 'X'
	OpDelete   Op = 'D' // base in query, gap in target
	OpInsert   Op = 'I' // gap in query, base in target
)

// AlignPath is Align plus the operation path of the chosen alignment,
// for diagnostic rendering. It keeps the full DP matrix, so it is meant
// for occasional use on winners, not for the inner search loop.
func AlignPath(query, target []byte, k int) (Hit, []Op, bool) {
	m, n := len(query), len(target)
	if m == 0 {
		return Hit{}, nil, false
	}
	w := n + 1
	d := make([]int, (m+1)*w)
	for j := 0; j <= n; j++ {
		d[j] = 0
	}
	for i := 1; i <= m; i++ {
		d[i*w] = i
		qc := query[i-1]
		for j := 1; j <= n; j++ {
			cost := 1
			if qc == target[j-1] {
				cost = 0
			}
			v := d[(i-1)*w+j-1] + cost
			if up := d[(i-1)*w+j] + 1; up < v {
				v = up
			}
			if left := d[i*w+j-1] + 1; left < v {
				v = left
			}
			d[i*w+j] = v
		}
	}

	best, end := d[m*w], 0
	for j := 1; j <= n; j++ {
		if d[m*w+j] < best {
			best, end = d[m*w+j], j
		}
	}
	if best > k {
		return Hit{}, nil, false
	}

	// Traceback; prefer diagonal, then query-gap, then target-gap.
	var rev []Op
	i, j := m, end
	for i > 0 {
		cost := 1
		if j > 0 && query[i-1] == target[j-1] {
			cost = 0
		}
		switch {
		case j > 0 && d[i*w+j] == d[(i-1)*w+j-1]+cost:
			if cost == 0 {
				rev = append(rev, OpMatch)
			} else {
				rev = append(rev, OpMismatch)
			}
			i--
			j--
		case d[i*w+j] == d[(i-1)*w+j]+1:
			rev = append(rev, OpDelete)
			i--
		default:
			rev = append(rev, OpInsert)
			j--
		}
	}
	ops := make([]Op, len(rev))
	for x := range rev {
		ops[x] = rev[len(rev)-1-x]
	}
	return Hit{Distance: best, Start: j, End: end}, ops, true
}
