// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"primerscan/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	Input      string // R1, or the only file for single-end runs
	Input2     string // R2 (optional)
	PrimerFile string

	// Output
	OutDir    string
	Sample    string
	MaxOutput int

	// Classification parameters
	MaxErrors   int
	MinDistance int

	// Pairing parameters
	MinOverlap      int
	MaxMismatchRate float64

	// Performance / reporting
	Threads    int
	Alignments bool
	Quiet      bool

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: primer-pair classification of sequencing reads

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.Input, "input", "", "FASTQ file, R1 for paired-end (.gz/.zst ok, '-' = stdin) [*]")
	fs.StringVar(&opt.Input2, "input2", "", "R2 FASTQ file for paired-end runs []")
	fs.StringVar(&opt.PrimerFile, "primers", "", "TSV primer catalog: name<TAB>sequence [*]")

	fs.StringVar(&opt.OutDir, "outdir", "output", "output directory [output]")
	fs.StringVar(&opt.Sample, "sample", "", "sample name used in output file names [*]")
	fs.IntVar(&opt.MaxOutput, "max-output", 10000, "max result rows written (0 = unlimited) [10000]")

	fs.IntVar(&opt.MaxErrors, "max-errors", 3, "max edit distance per primer [3]")
	fs.IntVar(&opt.MinDistance, "min-distance", 100, "inter-primer distance below which a read is a dimer [100]")

	fs.IntVar(&opt.MinOverlap, "min-overlap", 10, "minimum mate overlap when merging pairs [10]")
	fs.Float64Var(&opt.MaxMismatchRate, "max-mismatch-rate", 0.1, "max mismatch rate in the mate overlap [0.1]")

	fs.IntVar(&opt.Threads, "threads", 0, "number of worker threads (0 = all CPUs) [0]")
	fs.BoolVar(&opt.Alignments, "alignments", false, "append diagnostic alignment columns [false]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress progress and warnings [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	// Validation
	switch {
	case opt.Input == "":
		return opt, errors.New("--input is required")
	case opt.PrimerFile == "":
		return opt, errors.New("--primers is required")
	case opt.Sample == "":
		return opt, errors.New("--sample is required")
	}
	if opt.MaxErrors < 0 {
		return opt, errors.New("--max-errors must be ≥ 0")
	}
	if opt.MinDistance < 0 {
		return opt, errors.New("--min-distance must be ≥ 0")
	}
	if opt.MaxOutput < 0 {
		return opt, errors.New("--max-output must be ≥ 0")
	}
	if opt.MinOverlap < 1 {
		return opt, errors.New("--min-overlap must be ≥ 1")
	}
	if opt.MaxMismatchRate < 0 || opt.MaxMismatchRate > 1 {
		return opt, errors.New("--max-mismatch-rate must be in [0,1]")
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be ≥ 0")
	}
	return opt, nil
}
