// core/fastq/errors.go
package fastq

import "fmt"

// FormatError reports a structural violation inside a record. The stream
// is still usable: the offending lines have been consumed, so calling
// Next again resumes at the following line boundary.
type FormatError struct {
	Line   int    // 1-based line number of the offending line
	Text   string // the offending line, as read
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("fastq: line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// TruncatedRecordError reports end-of-stream in the middle of a record.
// It is terminal: after returning it once, Next returns io.EOF.
type TruncatedRecordError struct {
	Line    int    // line number where input ran out
	Missing string // which record line was expected
}

func (e *TruncatedRecordError) Error() string {
	return fmt.Sprintf("fastq: truncated record at line %d: missing %s", e.Line, e.Missing)
}
