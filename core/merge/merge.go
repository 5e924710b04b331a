// core/merge/merge.go
package merge

import (
	"fmt"
	"strings"

	"primerscan-core/fastq"
	"primerscan-core/primer"
)

// PairID returns the shared mate-pair identifier: the first
// whitespace-delimited token with a trailing /1 or /2 stripped.
func PairID(id string) string {
	if i := strings.IndexAny(id, " \t"); i >= 0 {
		id = id[:i]
	}
	id = strings.TrimSuffix(id, "/1")
	id = strings.TrimSuffix(id, "/2")
	return id
}

// Merge reconciles two mates into one consensus read. R2 is
// reverse-complemented (its quality reversed) so both mates read the
// same strand, then candidate overlap lengths are scanned longest
// first; the first length whose mismatch rate is within
// maxMismatchRate wins. Overlap positions take the base with the
// higher quality, ties to R1. Without an acceptable overlap the mates
// are concatenated untrimmed.
//
// Merge returns nil when either sequence is empty or the merged
// sequence/quality lengths disagree.
func Merge(r1, r2 *fastq.Read, minOverlap int, maxMismatchRate float64) *fastq.Read {
	if r1 == nil || r2 == nil || len(r1.Seq) == 0 || len(r2.Seq) == 0 {
		return nil
	}

	r2rc := primer.RevComp(r2.Seq)
	r2q := make([]byte, len(r2.Qual))
	for i := range r2.Qual {
		r2q[i] = r2.Qual[len(r2.Qual)-1-i]
	}

	maxOverlap := len(r1.Seq)
	if len(r2rc) < maxOverlap {
		maxOverlap = len(r2rc)
	}

	overlap := 0
	if maxOverlap >= minOverlap {
		for l := maxOverlap; l >= minOverlap; l-- {
			tail := r1.Seq[len(r1.Seq)-l:]
			head := r2rc[:l]
			mm := 0
			for i := 0; i < l; i++ {
				if tail[i] != head[i] {
					mm++
				}
			}
			if float64(mm)/float64(l) <= maxMismatchRate {
				overlap = l
				break
			}
		}
	}

	var id string
	var seq, qual []byte
	if overlap > 0 {
		seq = make([]byte, 0, len(r1.Seq)+len(r2rc)-overlap)
		qual = make([]byte, 0, len(r1.Qual)+len(r2q)-overlap)

		cut := len(r1.Seq) - overlap
		seq = append(seq, r1.Seq[:cut]...)
		qual = append(qual, r1.Qual[:cut]...)

		for i := 0; i < overlap; i++ {
			if r1.Qual[cut+i] >= r2q[i] {
				seq = append(seq, r1.Seq[cut+i])
				qual = append(qual, r1.Qual[cut+i])
			} else {
				seq = append(seq, r2rc[i])
				qual = append(qual, r2q[i])
			}
		}

		seq = append(seq, r2rc[overlap:]...)
		qual = append(qual, r2q[overlap:]...)
		id = fmt.Sprintf("%s_merged_overlap_%d", PairID(r1.ID), overlap)
	} else {
		seq = append(append([]byte(nil), r1.Seq...), r2rc...)
		qual = append(append([]byte(nil), r1.Qual...), r2q...)
		id = PairID(r1.ID) + "_merged_concat"
	}

	if len(seq) == 0 || len(seq) != len(qual) {
		return nil
	}
	return &fastq.Read{ID: id, Seq: seq, Qual: qual}
}
