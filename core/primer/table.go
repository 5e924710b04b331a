// core/primer/table.go
package primer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Entry is one primer: its name, forward sequence (uppercased), and
// precomputed reverse complement.
type Entry struct {
	Name    string
	Forward []byte
	RevComp []byte
}

// Table is the immutable, name-sorted primer catalog. It is built once
// at startup and may be shared by any number of goroutines without
// locking.
type Table []Entry

// ErrEmptyTable is returned when no valid primer rows remain.
var ErrEmptyTable = errors.New("primer table: no valid entries")

func validSeq(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n':
		default:
			return false
		}
	}
	return true
}

// Parse reads a two-column tab-separated catalog: name<TAB>sequence.
// Blank lines and '#' comments are skipped. Rows with a bad field count
// or with characters outside {A,C,G,T,N} are reported through warn and
// dropped. A later row with a duplicate name replaces the earlier one.
func Parse(r io.Reader, warn func(string)) (Table, error) {
	if warn == nil {
		warn = func(string) {}
	}
	var list Table
	index := make(map[string]int)

	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := sc.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			warn(fmt.Sprintf("line %d: expected name<TAB>sequence, skipping: %q", ln, line))
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(parts[0], "\ufeff"))
		seq := strings.TrimSpace(parts[1])
		if name == "" || seq == "" {
			warn(fmt.Sprintf("line %d: empty name or sequence, skipping", ln))
			continue
		}
		if !validSeq(seq) {
			warn(fmt.Sprintf("line %d: sequence with characters outside ACGTN, skipping: %s %s", ln, name, seq))
			continue
		}
		fwd := []byte(strings.ToUpper(seq))
		e := Entry{Name: name, Forward: fwd, RevComp: RevComp(fwd)}
		if i, dup := index[name]; dup {
			list[i] = e
			continue
		}
		index[name] = len(list)
		list = append(list, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrEmptyTable
	}

	// Deterministic order regardless of file order: pair enumeration and
	// tie-breaking depend on it.
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Load opens path and parses it with Parse.
func Load(path string, warn func(string)) (Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return Parse(fh, warn)
}
