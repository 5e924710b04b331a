// internal/output/rows.go
package output

import (
	"fmt"
	"strconv"
	"strings"

	"primerscan-core/engine"
)

// Header is the 13 base result columns.
const Header = "Read_ID\tLength\tStrand\tF_Primer\tR_Primer\t" +
	"F_Found\tF_Pos\tF_Errors\tR_Found\tR_Pos\tR_Errors\tDistance\tIs_Dimer"

// HeaderAligned appends the diagnostic alignment columns.
const HeaderAligned = Header + "\tF_Alignment\tR_Alignment"

func optInt(v int, present bool) string {
	if !present {
		return "-"
	}
	return strconv.Itoa(v)
}

func alignmentField(s string) string {
	if s == "" {
		return "-"
	}
	// Alignment text is |-joined already; flatten any stray newlines.
	return strings.ReplaceAll(s, "\n", "|")
}

// FormatRow renders one classification as a TSV row (no newline).
// Absent numeric fields render as '-'.
func FormatRow(c engine.Classification, alignments bool) string {
	row := fmt.Sprintf("%s\t%d\t%c\t%s\t%s\t%t\t%s\t%s\t%t\t%s\t%s\t%s\t%t",
		c.ReadID, c.Length, c.Strand,
		c.FPrimer, c.RPrimer,
		c.FMatch.Found,
		optInt(c.FMatch.Pos, c.FMatch.Found),
		optInt(c.FMatch.Errors, c.FMatch.Found),
		c.RMatch.Found,
		optInt(c.RMatch.Pos, c.RMatch.Found),
		optInt(c.RMatch.Errors, c.RMatch.Found),
		optInt(c.Distance, c.HasDistance),
		c.IsDimer,
	)
	if alignments {
		row += "\t" + alignmentField(c.FMatch.Alignment) +
			"\t" + alignmentField(c.RMatch.Alignment)
	}
	return row
}
