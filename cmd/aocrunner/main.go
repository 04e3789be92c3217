// Command aocrunner is the CLI entry point: it wires config, the solver
// registry, the session resolver, the execution engine, the aggregator and
// the report printer together, matching
// _examples/original_source/aoc-cli/src/main.rs's run/run_executor shape.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/joeycumines/aocrunner/internal/aggregator"
	"github.com/joeycumines/aocrunner/internal/aocerr"
	"github.com/joeycumines/aocrunner/internal/config"
	"github.com/joeycumines/aocrunner/internal/engine"
	"github.com/joeycumines/aocrunner/internal/httpclient"
	"github.com/joeycumines/aocrunner/internal/inputcache"
	"github.com/joeycumines/aocrunner/internal/model"
	"github.com/joeycumines/aocrunner/internal/report"
	"github.com/joeycumines/aocrunner/internal/session"
	"github.com/joeycumines/aocrunner/internal/solvers"

	// Blank-imported for their init() side effect: self-registration into
	// the solvers hub. A real deployment's solver crate lives here.
	_ "github.com/joeycumines/aocrunner/internal/solvers/year2015day1"
	_ "github.com/joeycumines/aocrunner/internal/solvers/year2015day2"
)

const defaultBaseURL = "https://adventofcode.com"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", strings.ReplaceAll(err.Error(), "\n", " "))
		os.Exit(1)
	}
}

func run(argv []string) error {
	cfg, err := config.Parse(argv)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Quiet)

	reg, err := solvers.BuildAll().Build(cfg.Tags)
	if err != nil {
		return err
	}

	e := &engine.Engine{
		Registry:    reg,
		Parallelism: cfg.ParallelizeBy,
		Concurrency: cfg.ThreadCount,
		YearFilter:  cfg.YearFilter,
		DayFilter:   cfg.DayFilter,
		PartFilter:  cfg.PartFilter,
		Submit:      cfg.Submit,
		AutoRetry:   cfg.AutoRetry,
		Log:         &logger,
	}

	items := e.CollectWorkItems()
	if len(items) == 0 {
		fmt.Println("No solvers found matching the specified filters.")
		return nil
	}

	client := httpclient.NewCollaborator(defaultBaseURL)
	e.Client = client

	// A user id is needed purely for cache directory layout even on
	// cache-only runs, so resolve session/user-id unconditionally - §4.6
	// rule: a run with every input already cached still needs *a* user id
	// to know which cache subdirectory to read, but never needs a session.
	resolved, err := session.Resolve(context.Background(), client, cfg.EnvSessionToken, cfg.UserID, cfg.Submit, session.NewTerminalPrompter())
	if err != nil {
		return err
	}
	defer resolved.Session.Zero()

	cache := inputcache.New(cfg.CacheDir, resolved.UserID)
	e.Cache = cache
	e.Session = resolved.Session.Expose()

	if cfg.Submit && resolved.Session.Empty() {
		return fmt.Errorf("aocrunner: -submit requires a session token")
	}

	missing := missingInputs(items, cache)
	if len(missing) > 0 {
		fmt.Printf("Missing %d input file(s):\n", len(missing))
		for _, k := range missing {
			fmt.Printf("  - %d/day%02d\n", k.Year, k.Day)
		}
		if resolved.Session.Empty() {
			return fmt.Errorf("aocrunner: session token is required to fetch missing inputs from %s", defaultBaseURL)
		}
	}

	return runExecutor(e, cfg.Quiet, items)
}

type dayKey struct {
	Year uint16
	Day  uint8
}

func missingInputs(items []model.WorkItem, cache *inputcache.Cache) []dayKey {
	seen := make(map[dayKey]struct{})
	var out []dayKey
	for _, w := range items {
		k := dayKey{Year: w.Year, Day: w.Day}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		if !cache.Contains(w.Year, w.Day) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Day < out[j].Day
	})
	return out
}

// runExecutor drives the engine in the background, reordering and printing
// results as they arrive via the aggregator, then prints the final summary.
func runExecutor(e *engine.Engine, quiet bool, items []model.WorkItem) error {
	fmt.Printf("Running %d solver(s)...\n", countParts(items))

	var expectedKeys []model.ResultKey
	for _, w := range items {
		for _, part := range w.Parts() {
			expectedKeys = append(expectedKeys, model.ResultKey{Year: w.Year, Day: w.Day, Part: part})
		}
	}

	results := make(chan model.SolverResult)
	done := make(chan *aocerr.Aggregate, 1)
	go func() {
		agg := e.Execute(context.Background(), results)
		close(results)
		done <- agg
	}()

	printer := report.NewPrinter(os.Stdout, os.Stderr, quiet)
	printer.Log = e.Log
	agg := aggregator.New(expectedKeys)
	var printed []model.SolverResult

	for r := range results {
		for _, ready := range agg.Add(r) {
			printer.PrintResult(ready)
			printed = append(printed, ready)
		}
	}
	for _, ready := range agg.Drain() {
		printer.PrintResult(ready)
		printed = append(printed, ready)
	}
	if !agg.IsComplete() {
		fmt.Fprintln(os.Stderr, "Warning: not all expected results were received")
	}

	printer.PrintSummary(printed)

	if execAgg := <-done; execAgg != nil {
		return execAgg
	}
	return nil
}

// newLogger builds the per-run logger: a console writer when attached to a
// TTY and not quiet, the bare JSON writer otherwise, both tagged with a
// fresh run_id so concurrently interleaved worker output (by-day/by-part
// modes genuinely interleave) can be correlated back to this invocation.
func newLogger(quiet bool) zerolog.Logger {
	var w io.Writer = os.Stderr
	if !quiet && term.IsTerminal(int(os.Stderr.Fd())) {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	logger := zerolog.New(w).With().Timestamp().Str("run_id", uuid.NewString()).Logger()
	if quiet {
		logger = logger.Level(zerolog.Disabled)
	}
	return logger
}

func countParts(items []model.WorkItem) int {
	n := 0
	for _, w := range items {
		n += len(w.Parts())
	}
	return n
}
