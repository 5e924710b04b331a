// internal/app/app.go
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"primerscan-core/engine"
	"primerscan-core/fastq"
	"primerscan-core/primer"
	"primerscan/internal/cli"
	"primerscan/internal/jsonutil"
	"primerscan/internal/pipeline"
	"primerscan/internal/stats"
	"primerscan/internal/version"
	"primerscan/internal/writers"
)

// RunContext executes one classification run. Exit codes: 0 success,
// 2 usage/configuration errors, 3 runtime failures, 130 canceled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("primerscan")
	fs.SetOutput(stderr)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.Version {
		fmt.Fprintf(stdout, "primerscan version %s\n", version.Version)
		return 0
	}

	warnf := func(format string, args ...any) {
		if !opts.Quiet {
			fmt.Fprintf(stderr, "warning: "+format+"\n", args...)
		}
	}

	table, err := primer.Load(opts.PrimerFile, func(m string) { warnf("primers: %s", m) })
	if err != nil {
		fmt.Fprintf(stderr, "error: loading primers: %v\n", err)
		return 2
	}
	if !opts.Quiet {
		fmt.Fprintf(stderr, "loaded %d primers\n", len(table))
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	in1, err := fastq.Open(opts.Input)
	if err != nil {
		fmt.Fprintf(stderr, "error: opening %s: %v\n", opts.Input, err)
		return 2
	}
	defer func() { _ = in1.Close() }()
	rd1 := fastq.NewReader(in1)

	var rd2 *fastq.Reader
	if opts.Input2 != "" {
		in2, err := fastq.Open(opts.Input2)
		if err != nil {
			fmt.Fprintf(stderr, "error: opening %s: %v\n", opts.Input2, err)
			return 2
		}
		defer func() { _ = in2.Close() }()
		rd2 = fastq.NewReader(in2)
	}

	resultPath := filepath.Join(opts.OutDir, opts.Sample+"_primer_analysis.txt.gz")
	statsPath := filepath.Join(opts.OutDir, opts.Sample+"_statistics.json")

	out, err := writers.Create(resultPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 3
	}

	thr := opts.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}

	var (
		progress *mpb.Progress
		bar      *mpb.Bar
		onEach   func()
	)
	if !opts.Quiet {
		progress = mpb.New(mpb.WithWidth(40), mpb.WithOutput(stderr))
		bar = progress.AddSpinner(-1,
			mpb.PrependDecorators(decor.Name("reads ")),
			mpb.AppendDecorators(decor.CurrentNoUnit("%d")),
		)
		onEach = bar.Increment
	}

	sink := writers.StartResultSink(out, writers.SinkConfig{
		MaxOutput:  opts.MaxOutput,
		Alignments: opts.Alignments,
		Header:     true,
		OnEach:     onEach,
		BufSize:    thr * 4,
	})

	eng := engine.New(engine.Config{
		MaxErrors:        opts.MaxErrors,
		MinDimerDistance: opts.MinDistance,
		Alignments:       opts.Alignments,
	})

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	total, perr := pipeline.Run(ctx, pipeline.Config{
		Threads:         thr,
		MinOverlap:      opts.MinOverlap,
		MaxMismatchRate: opts.MaxMismatchRate,
	}, rd1, rd2, table, eng, sink.In(), warnf)

	sink.Close()
	werr := sink.Wait()

	if bar != nil {
		bar.SetTotal(-1, true)
		progress.Wait()
	}

	if cerr := out.Close(); cerr != nil && werr == nil {
		werr = cerr
	}
	if werr != nil && !writers.IsBrokenPipe(werr) {
		fmt.Fprintln(stderr, werr)
		return 3
	}
	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		fmt.Fprintln(stderr, perr)
		return 3
	}

	// Statistics are always persisted, even when the result file was
	// capped by --max-output.
	snap := sink.Stats().Snapshot(opts.Sample)
	sf, err := os.Create(statsPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 3
	}
	if err := jsonutil.EncodePretty(sf, snap); err != nil {
		_ = sf.Close()
		fmt.Fprintf(stderr, "error: writing statistics: %v\n", err)
		return 3
	}
	if err := sf.Close(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 3
	}

	if !opts.Quiet {
		fmt.Fprintf(stderr, "processed %d reads\n", total)
	}
	printSummary(stdout, snap)
	return 0
}

func printSummary(w io.Writer, s stats.Snapshot) {
	fmt.Fprintf(w, "Sample: %s\n", s.SampleName)
	fmt.Fprintf(w, "Total reads: %d\n", s.TotalReads)
	fmt.Fprintf(w, "Both primers found: %d (%.2f%%)\n", s.BothPrimersFound, s.SuccessRate)
	fmt.Fprintf(w, "Plus strand: %d\n", s.PlusStrand)
	fmt.Fprintf(w, "Minus strand: %d\n", s.MinusStrand)
	fmt.Fprintf(w, "Dimers: %d (%.2f%%)\n", s.DimerCount, s.DimerRate)
	if len(s.PrimerPairs) > 0 {
		fmt.Fprintln(w, "\nPrimer pair usage:")
		for _, p := range s.PrimerPairs {
			fmt.Fprintf(w, "%s - %s: %d (%.2f%%)\n", p.ForwardPrimer, p.ReversePrimer, p.Count, p.Percentage)
		}
	}
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
