// core/fastq/reader.go
package fastq

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// Reader parses 4-line FASTQ records from a byte stream. It is a
// forward-only, single-pass source: Next yields one Read per call and
// io.EOF at a clean record boundary.
//
// Error policy: a *FormatError leaves the Reader positioned at the next
// line, so callers may skip the record and call Next again; every such
// call consumes at least one line, so a skip-and-retry loop always
// terminates. A *TruncatedRecordError (stream ended mid-record) is
// terminal: all later calls return io.EOF.
type Reader struct {
	br   *bufio.Reader
	line int
	done bool
}

// NewReader wraps r; the stream is buffered internally.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 1<<20)}
}

// readLine returns the next line without its terminator. A final line
// without a trailing newline still counts as a line. ok=false means the
// stream is exhausted.
func (r *Reader) readLine() (line []byte, ok bool, err error) {
	b, err := r.br.ReadBytes('\n')
	if len(b) == 0 {
		if err == io.EOF {
			return nil, false, nil
		}
		return nil, false, err
	}
	r.line++
	b = bytes.TrimRight(b, "\r\n")
	if err == io.EOF {
		err = nil
	}
	return b, true, err
}

// Next returns the next Read, io.EOF at end of input, or one of the
// typed errors above.
func (r *Reader) Next() (*Read, error) {
	if r.done {
		return nil, io.EOF
	}

	// Identifier line.
	hdr, ok, err := r.readLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		r.done = true
		return nil, io.EOF
	}
	if len(hdr) == 0 || hdr[0] != '@' {
		return nil, &FormatError{Line: r.line, Text: string(hdr), Reason: "identifier line must start with '@'"}
	}
	id := string(hdr[1:])
	if i := strings.IndexAny(id, " \t"); i >= 0 {
		id = id[:i]
	}

	// Sequence line.
	seq, ok, err := r.readLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		r.done = true
		return nil, &TruncatedRecordError{Line: r.line + 1, Missing: "sequence line"}
	}
	if len(seq) == 0 {
		return nil, &FormatError{Line: r.line, Text: "", Reason: "empty sequence line"}
	}

	// Separator line.
	sep, ok, err := r.readLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		r.done = true
		return nil, &TruncatedRecordError{Line: r.line + 1, Missing: "separator line"}
	}
	if len(sep) == 0 || sep[0] != '+' {
		return nil, &FormatError{Line: r.line, Text: string(sep), Reason: "separator line must start with '+'"}
	}

	// Quality line.
	qual, ok, err := r.readLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		r.done = true
		return nil, &TruncatedRecordError{Line: r.line + 1, Missing: "quality line"}
	}
	if len(qual) == 0 {
		return nil, &FormatError{Line: r.line, Text: "", Reason: "empty quality line"}
	}
	if len(qual) != len(seq) {
		return nil, &FormatError{Line: r.line, Text: string(qual), Reason: "quality length differs from sequence length"}
	}

	return &Read{
		ID:   id,
		Seq:  append([]byte(nil), seq...),
		Qual: append([]byte(nil), qual...),
	}, nil
}
