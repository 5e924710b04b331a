// core/engine/render.go
package engine

import (
	"strings"

	"primerscan-core/align"
)

// renderAlignment builds the three-line symbolic alignment: aligned
// query, a middle line of '|' for match, ' ' for gap, '*' for
// mismatch, and the aligned target region, joined with '|' so the
// whole block fits in one TSV field.
func renderAlignment(query, target []byte, k int) string {
	h, ops, ok := align.AlignPath(query, target, k)
	if !ok {
		return "-"
	}

	var q, mid, t strings.Builder
	qi, ti := 0, h.Start
	for _, op := range ops {
		switch op {
		case align.OpMatch:
			q.WriteByte(query[qi])
			mid.WriteByte('|')
			t.WriteByte(target[ti])
			qi++
			ti++
		case align.OpMismatch:
			q.WriteByte(query[qi])
			mid.WriteByte('*')
			t.WriteByte(target[ti])
			qi++
			ti++
		case align.OpDelete:
			q.WriteByte(query[qi])
			mid.WriteByte(' ')
			t.WriteByte('-')
			qi++
		case align.OpInsert:
			q.WriteByte('-')
			mid.WriteByte(' ')
			t.WriteByte(target[ti])
			ti++
		}
	}
	return q.String() + "|" + mid.String() + "|" + t.String()
}
