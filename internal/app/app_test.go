package app

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"primerscan/internal/stats"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func plusRead(id string) string {
	seq := "ACGTACGT" + strings.Repeat("T", 42) + "GGGGAAAA"
	return fmt.Sprintf("@%s\n%s\n+\n%s\n", id, seq, strings.Repeat("I", len(seq)))
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	primers := writeFile(t, dir, "primers.tsv", "F\tACGTACGT\nR\tTTTTCCCC\n")
	input := writeFile(t, dir, "reads.fastq", plusRead("r1")+plusRead("r2")+plusRead("r3"))
	outdir := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := Run([]string{
		"--input", input,
		"--primers", primers,
		"--outdir", outdir,
		"--sample", "s1",
		"--threads", "2",
		"--quiet",
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}

	// Result rows: gzip TSV with header + 3 rows.
	rf, err := os.Open(filepath.Join(outdir, "s1_primer_analysis.txt.gz"))
	if err != nil {
		t.Fatalf("result file: %v", err)
	}
	defer func() { _ = rf.Close() }()
	zr, err := gzip.NewReader(rf)
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	var lines []string
	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if len(lines) != 4 {
		t.Fatalf("result lines = %d, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Read_ID\t") {
		t.Errorf("header = %q", lines[0])
	}
	for _, l := range lines[1:] {
		if !strings.Contains(l, "\t+\tF\tR\t") {
			t.Errorf("row = %q", l)
		}
	}

	// Statistics sidecar.
	sb, err := os.ReadFile(filepath.Join(outdir, "s1_statistics.json"))
	if err != nil {
		t.Fatalf("stats file: %v", err)
	}
	var snap stats.Snapshot
	if err := json.Unmarshal(sb, &snap); err != nil {
		t.Fatalf("stats json: %v", err)
	}
	if snap.TotalReads != 3 || snap.BothPrimersFound != 3 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.PlusStrand != 3 || snap.DimerCount != 3 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.SuccessRate != 100 {
		t.Errorf("success_rate = %v", snap.SuccessRate)
	}

	if !strings.Contains(stdout.String(), "Total reads: 3") {
		t.Errorf("summary missing: %q", stdout.String())
	}
}

func TestRunMaxOutputCapsRowsNotStats(t *testing.T) {
	dir := t.TempDir()
	primers := writeFile(t, dir, "primers.tsv", "F\tACGTACGT\nR\tTTTTCCCC\n")
	var in strings.Builder
	for i := 0; i < 5; i++ {
		in.WriteString(plusRead(fmt.Sprintf("r%d", i)))
	}
	input := writeFile(t, dir, "reads.fastq", in.String())
	outdir := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := Run([]string{
		"--input", input, "--primers", primers,
		"--outdir", outdir, "--sample", "s2",
		"--max-output", "2", "--quiet",
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}

	rf, _ := os.Open(filepath.Join(outdir, "s2_primer_analysis.txt.gz"))
	defer func() { _ = rf.Close() }()
	zr, err := gzip.NewReader(rf)
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	n := 0
	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		n++
	}
	if n != 3 { // header + 2 capped rows
		t.Errorf("lines = %d, want 3", n)
	}

	sb, _ := os.ReadFile(filepath.Join(outdir, "s2_statistics.json"))
	var snap stats.Snapshot
	if err := json.Unmarshal(sb, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.TotalReads != 5 {
		t.Errorf("stats must count all reads: %+v", snap)
	}
}

func TestRunUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"--input", "x.fq"}, &stdout, &stderr); code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
}

func TestRunMissingPrimerFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "reads.fastq", plusRead("r1"))
	var stdout, stderr bytes.Buffer
	code := Run([]string{
		"--input", input,
		"--primers", filepath.Join(dir, "nope.tsv"),
		"--sample", "s", "--outdir", filepath.Join(dir, "out"), "--quiet",
	}, &stdout, &stderr)
	if code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"--version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stdout.String(), "primerscan version") {
		t.Errorf("stdout = %q", stdout.String())
	}
}
