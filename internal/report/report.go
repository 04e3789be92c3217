// Package report is the default consumer of the aggregator's ordered result
// stream: a minimal, writer-based pretty-printer. SPEC_FULL.md calls for a
// non-fancy formatter rather than the teacher's own colourised terminal UI
// libraries (none of which appear anywhere in the example pack either), so
// this stays close to _examples/original_source/aoc-cli/src/output.rs:
// one line per result, plus a summary line once the stream is drained.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/joeycumines/aocrunner/internal/model"
)

// Printer formats SolverResult values as they arrive from the aggregator.
type Printer struct {
	Out       io.Writer
	ErrOut    io.Writer
	Quiet     bool
	Log       *zerolog.Logger // nil-safe, see logger()
	startedAt time.Time
}

// NewPrinter builds a Printer writing to out/errOut, starting its elapsed
// wall-clock clock immediately.
func NewPrinter(out, errOut io.Writer, quiet bool) *Printer {
	return &Printer{Out: out, ErrOut: errOut, Quiet: quiet, startedAt: time.Now()}
}

func (p *Printer) logger() *zerolog.Logger {
	if p.Log != nil {
		return p.Log
	}
	nop := zerolog.Nop()
	return &nop
}

// PrintResult formats one result, in quiet mode (answer or error only) or
// full mode (year/day/part prefix, timing, submission outcome).
func (p *Printer) PrintResult(r model.SolverResult) {
	if p.Quiet {
		p.printQuiet(r)
		return
	}
	p.printFull(r)
}

func (p *Printer) printQuiet(r model.SolverResult) {
	if r.Err != nil {
		fmt.Fprintf(p.ErrOut, "Error: %v\n", r.Err)
		return
	}
	fmt.Fprintln(p.Out, r.Answer)
}

func (p *Printer) printFull(r model.SolverResult) {
	prefix := fmt.Sprintf("%d/%02d Part %d", r.Key.Year, r.Key.Day, r.Key.Part)
	if r.Err != nil {
		fmt.Fprintf(p.ErrOut, "%s: Error - %v\n", prefix, r.Err)
		return
	}

	var parseTiming string
	if r.ParseDuration != nil {
		parseTiming = fmt.Sprintf("parse: %s, ", formatDuration(*r.ParseDuration))
	}
	solveTiming := formatDuration(r.SolveDuration)

	var submissionInfo string
	if r.Submission != nil {
		var timeStr string
		if r.SubmittedAt != nil {
			timeStr = r.SubmittedAt.Format("15:04:05")
		}
		submissionInfo = fmt.Sprintf(", submitted %s: %s", timeStr, formatOutcome(*r.Submission))
	}

	fmt.Fprintf(p.Out, "%s: %s (%ssolve: %s%s)\n", prefix, r.Answer, parseTiming, solveTiming, submissionInfo)
}

// PrintSummary prints the post-run totals: solved/failed counts, aggregate
// parse/solve time, wall-clock elapsed time and the resulting speedup
// factor. A no-op in quiet mode.
func (p *Printer) PrintSummary(results []model.SolverResult) {
	if p.Quiet {
		return
	}

	total := len(results)
	var successes int
	var totalParse, totalSolve time.Duration
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		successes++
		if r.ParseDuration != nil {
			totalParse += *r.ParseDuration
		}
		totalSolve += r.SolveDuration
	}
	failures := total - successes
	elapsed := time.Since(p.startedAt)

	fmt.Fprintln(p.Out)
	fmt.Fprintln(p.Out, "--- Summary ---")
	fmt.Fprintf(p.Out, "Solvers: %d solved, %d failed\n", successes, failures)
	fmt.Fprintf(p.Out, "Total parse time: %s\n", formatDuration(totalParse))
	fmt.Fprintf(p.Out, "Total solve time: %s\n", formatDuration(totalSolve))
	fmt.Fprintf(p.Out, "Elapsed wall-clock time: %s\n", formatDuration(elapsed))
	if elapsed > 0 {
		speedup := float64(totalParse+totalSolve) / float64(elapsed)
		fmt.Fprintf(p.Out, "Speedup factor: %.2fx\n", speedup)
	}

	p.logger().Info().
		Int("solved", successes).
		Int("failed", failures).
		Dur("elapsed", elapsed).
		Msg("run complete")
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		return "-" + formatDuration(-d)
	}
	micros := d.Microseconds()
	switch {
	case micros < 1000:
		return fmt.Sprintf("%dµs", micros)
	case micros < 1_000_000:
		return fmt.Sprintf("%.2fms", float64(micros)/1000.0)
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

func formatOutcome(o model.SubmissionOutcome) string {
	switch o.Kind {
	case model.SubmissionCorrect:
		return "Correct"
	case model.SubmissionIncorrect:
		return "Incorrect"
	case model.SubmissionAlreadyCompleted:
		return "Already completed"
	case model.SubmissionThrottled:
		if o.Wait > 0 {
			return fmt.Sprintf("Throttled (wait %s)", formatDuration(o.Wait))
		}
		return "Throttled"
	case model.SubmissionError:
		return fmt.Sprintf("Error: %s", o.Err)
	default:
		return o.Kind.String()
	}
}
