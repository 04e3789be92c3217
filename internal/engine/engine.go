// Package engine implements the parallel execution engine of §4.4: it
// enumerates work items from a solver registry, resolves their input
// (cache-or-fetch), solves them under one of four parallelism granularities,
// optionally submits answers with throttle-aware retry, and streams results
// out over a channel for the aggregator to reorder.
//
// Grounded on _examples/original_source/aoc-cli/src/executor.rs, translated
// from rayon's work-stealing thread pool onto golang.org/x/sync/errgroup
// bounded by a buffered-channel-style semaphore - the same dispatch idiom
// SeleniaProject-Orizon's package manager uses to bound concurrent fetches -
// and from a channel-based submission retry loop onto golang.org/x/time/rate
// for pacing, in the spirit of Outblock-flowindex's request limiter.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/joeycumines/aocrunner/internal/aocerr"
	"github.com/joeycumines/aocrunner/internal/config"
	"github.com/joeycumines/aocrunner/internal/httpclient"
	"github.com/joeycumines/aocrunner/internal/inputcache"
	"github.com/joeycumines/aocrunner/internal/model"
	"github.com/joeycumines/aocrunner/internal/registry"
	"github.com/joeycumines/aocrunner/internal/solver"
)

// Engine runs every applicable solver in the registry and streams results.
type Engine struct {
	Registry    *registry.Registry
	Cache       *inputcache.Cache
	Client      httpclient.Client // nil if neither submitting nor holding a session
	Session     string
	Submit      bool
	AutoRetry   bool
	Parallelism config.ParallelizeBy
	Concurrency int // bounds concurrent work-item dispatch; <=0 means unbounded
	YearFilter  *uint16
	DayFilter   *uint8
	PartFilter  *uint8
	// Limiter paces submission attempts (§5: "submission sub-protocol is
	// rate-limited"). Defaults to 1 request/second if nil.
	Limiter *rate.Limiter
	// Log receives warnings (e.g. cache write failures). A nil Log is
	// replaced with a disabled logger, so a zero-value Engine never panics
	// on the zero-value zerolog.Logger's absent writer.
	Log *zerolog.Logger

	limiterOnce sync.Once
}

func (e *Engine) limiter() *rate.Limiter {
	e.limiterOnce.Do(func() {
		if e.Limiter == nil {
			e.Limiter = rate.NewLimiter(rate.Limit(1), 1)
		}
	})
	return e.Limiter
}

func (e *Engine) logger() *zerolog.Logger {
	if e.Log != nil {
		return e.Log
	}
	nop := zerolog.Nop()
	return &nop
}

// CollectWorkItems enumerates WorkItems per §4.4: filtered by YearFilter and
// DayFilter, with parts narrowed by PartFilter (or dropped entirely if
// PartFilter exceeds the solver's declared part count).
func (e *Engine) CollectWorkItems() []model.WorkItem {
	var items []model.WorkItem
	for _, info := range e.Registry.IterInfo() {
		if e.YearFilter != nil && info.Year != *e.YearFilter {
			continue
		}
		if e.DayFilter != nil && info.Day != *e.DayFilter {
			continue
		}
		w := model.WorkItem{Year: info.Year, Day: info.Day, PartStart: 1, PartEnd: info.Parts}
		if e.PartFilter != nil {
			if *e.PartFilter > info.Parts {
				w.PartStart, w.PartEnd = 1, 0 // empty range, filtered below
			} else {
				w.PartStart, w.PartEnd = *e.PartFilter, *e.PartFilter
			}
		}
		if !w.Empty() {
			items = append(items, w)
		}
	}
	return items
}

// Execute dispatches every collected work item according to e.Parallelism,
// streaming each model.SolverResult to results as it completes. It returns
// an *aocerr.Aggregate (nil if nothing failed) combining every work item's
// failure, matching the §4.4 "errors are collected, not short-circuited"
// invariant - one item failing never prevents the others from running.
func (e *Engine) Execute(ctx context.Context, results chan<- model.SolverResult) *aocerr.Aggregate {
	items := e.CollectWorkItems()

	switch e.Parallelism {
	case config.ParallelizeSequential:
		var agg *aocerr.Aggregate
		for _, w := range items {
			agg = aocerr.Combine(agg, e.runWorkItem(ctx, w, results, false))
		}
		return agg

	case config.ParallelizeYear:
		groups := groupByYear(items)
		g, gctx := errgroup.WithContext(ctx)
		if e.Concurrency > 0 {
			g.SetLimit(e.Concurrency)
		}
		errs := make([]*aocerr.Aggregate, len(groups))
		for i, group := range groups {
			i, group := i, group
			g.Go(func() error {
				var agg *aocerr.Aggregate
				for _, w := range group {
					agg = aocerr.Combine(agg, e.runWorkItem(gctx, w, results, false))
				}
				errs[i] = agg
				return nil
			})
		}
		_ = g.Wait()
		var agg *aocerr.Aggregate
		for _, a := range errs {
			agg = aocerr.Combine(agg, a)
		}
		return agg

	default: // ParallelizeDay, ParallelizePart
		partsParallel := e.Parallelism == config.ParallelizePart
		g, gctx := errgroup.WithContext(ctx)
		if e.Concurrency > 0 {
			g.SetLimit(e.Concurrency)
		}
		errs := make([]*aocerr.Aggregate, len(items))
		for i, w := range items {
			i, w := i, w
			g.Go(func() error {
				errs[i] = e.runWorkItem(gctx, w, results, partsParallel)
				return nil
			})
		}
		_ = g.Wait()
		var agg *aocerr.Aggregate
		for _, a := range errs {
			agg = aocerr.Combine(agg, a)
		}
		return agg
	}
}

func groupByYear(items []model.WorkItem) [][]model.WorkItem {
	var groups [][]model.WorkItem
	var current []model.WorkItem
	for _, w := range items {
		if len(current) > 0 && current[0].Year != w.Year {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, w)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// runWorkItem resolves input for w, solves its parts (in parallel if
// partsParallel, else sequentially in ascending part order), optionally
// submits each answer, and streams results to out.
func (e *Engine) runWorkItem(ctx context.Context, w model.WorkItem, out chan<- model.SolverResult, partsParallel bool) *aocerr.Aggregate {
	input, err := e.getInput(ctx, w.Year, w.Day)
	if err != nil {
		agg := aocerr.NewInputFetch(w.Year, w.Day, err)
		for _, part := range w.Parts() {
			agg = aocerr.Combine(agg, sendResult(ctx, out, model.SolverResult{
				Key: model.ResultKey{Year: w.Year, Day: w.Day, Part: part},
				Err: &solver.ParseError{Message: err.Error()},
			}))
		}
		return agg
	}

	if partsParallel {
		return e.runPartsParallel(ctx, w, input, out)
	}
	return e.runPartsSequential(ctx, w, input, out)
}

// sendResult delivers r to out, returning a non-nil *aocerr.Aggregate if ctx
// is canceled before the send completes - §7's "channel send failure
// (consumer gone)" fatal case, rather than blocking forever on an abandoned
// results channel.
func sendResult(ctx context.Context, out chan<- model.SolverResult, r model.SolverResult) *aocerr.Aggregate {
	select {
	case out <- r:
		return nil
	case <-ctx.Done():
		return aocerr.NewChannelSend()
	}
}

func (e *Engine) runPartsSequential(ctx context.Context, w model.WorkItem, input string, out chan<- model.SolverResult) *aocerr.Aggregate {
	parseStart := time.Now()
	instance, err := e.Registry.CreateSolver(w.Year, w.Day, input)
	parseDuration := time.Since(parseStart)
	if err != nil {
		agg := aocerr.NewSolver(err)
		for _, part := range w.Parts() {
			agg = aocerr.Combine(agg, sendResult(ctx, out, model.SolverResult{Key: model.ResultKey{Year: w.Year, Day: w.Day, Part: part}, Err: err, ParseDuration: &parseDuration}))
		}
		return agg
	}
	var agg *aocerr.Aggregate
	for _, part := range w.Parts() {
		result := e.solvePart(w.Year, w.Day, part, instance, parseDuration)
		e.maybeSubmit(ctx, &result)
		agg = aocerr.Combine(agg, sendResult(ctx, out, result))
	}
	return agg
}

func (e *Engine) runPartsParallel(ctx context.Context, w model.WorkItem, input string, out chan<- model.SolverResult) *aocerr.Aggregate {
	parts := w.Parts()
	results := make([]model.SolverResult, len(parts))
	constructErrs := make([]error, len(parts))
	g, _ := errgroup.WithContext(ctx)
	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			parseStart := time.Now()
			instance, err := e.Registry.CreateSolver(w.Year, w.Day, input)
			parseDuration := time.Since(parseStart)
			if err != nil {
				constructErrs[i] = err
				results[i] = model.SolverResult{Key: model.ResultKey{Year: w.Year, Day: w.Day, Part: part}, Err: err, ParseDuration: &parseDuration}
				return nil
			}
			results[i] = e.solvePart(w.Year, w.Day, part, instance, parseDuration)
			return nil
		})
	}
	_ = g.Wait()

	var agg *aocerr.Aggregate
	for i := range results {
		if constructErrs[i] != nil {
			agg = aocerr.Combine(agg, aocerr.NewSolver(constructErrs[i]))
		}
		e.maybeSubmit(ctx, &results[i])
		agg = aocerr.Combine(agg, sendResult(ctx, out, results[i]))
	}
	// Per-part solve errors are carried in each SolverResult, not
	// aggregated here - only input-fetch and solver-construction failures
	// (handled above, and in runWorkItem) surface through the aggregate.
	return agg
}

func (e *Engine) solvePart(year uint16, day uint8, part uint8, instance solver.Instance, parseDuration time.Duration) model.SolverResult {
	start := time.Now()
	answer, err := instance.Solve(part)
	return model.SolverResult{
		Key:           model.ResultKey{Year: year, Day: day, Part: part},
		Answer:        answer,
		Err:           err,
		SolveDuration: time.Since(start),
		ParseDuration: &parseDuration,
	}
}

// getInput resolves input for (year, day) from the cache, falling back to
// the HTTP collaborator and caching the result (§4.3). A cache write
// failure is logged as a warning and does not fail the operation.
func (e *Engine) getInput(ctx context.Context, year uint16, day uint8) (string, error) {
	if e.Cache != nil {
		if input, ok, err := e.Cache.Get(year, day); err != nil {
			return "", err
		} else if ok {
			return input, nil
		}
	}
	if e.Client == nil {
		return "", aocerr.ErrNoHTTPClient
	}
	input, err := e.Client.GetInput(ctx, year, day, e.Session)
	if err != nil {
		return "", err
	}
	if e.Cache != nil {
		if err := e.Cache.Put(year, day, input); err != nil {
			e.logger().Warn().Err(aocerr.NewCacheWrite(year, day, err)).Msg("failed to write input cache")
		}
	}
	return input, nil
}

// maybeSubmit runs the submission sub-protocol for result if e.Submit is set
// and the solve succeeded, mutating result in place to record the outcome.
func (e *Engine) maybeSubmit(ctx context.Context, result *model.SolverResult) {
	if !e.Submit || !result.OK() {
		return
	}
	outcome, wait := e.submitWithRetry(ctx, result.Key, result.Answer)
	now := time.Now()
	result.SubmittedAt = &now
	result.Submission = outcome
	result.SubmissionWait = wait
}

// submitWithRetry implements §4.4's submission retry loop: on Throttled with
// AutoRetry set and a known wait, sleep and retry; otherwise return the
// terminal outcome.
func (e *Engine) submitWithRetry(ctx context.Context, key model.ResultKey, answer string) (*model.SubmissionOutcome, time.Duration) {
	if e.Client == nil {
		return &model.SubmissionOutcome{Kind: model.SubmissionError, Err: aocerr.ErrNoHTTPClient.Error()}, 0
	}

	var totalWait time.Duration
	for {
		if err := e.limiter().Wait(ctx); err != nil {
			return &model.SubmissionOutcome{Kind: model.SubmissionError, Err: err.Error()}, totalWait
		}
		outcome, err := e.Client.SubmitAnswer(ctx, key.Year, key.Day, key.Part, answer, e.Session)
		if err != nil {
			return &model.SubmissionOutcome{Kind: model.SubmissionError, Err: err.Error()}, totalWait
		}
		switch outcome.Kind {
		case httpclient.OutcomeCorrect:
			return &model.SubmissionOutcome{Kind: model.SubmissionCorrect}, totalWait
		case httpclient.OutcomeIncorrect:
			return &model.SubmissionOutcome{Kind: model.SubmissionIncorrect}, totalWait
		case httpclient.OutcomeAlreadyCompleted:
			return &model.SubmissionOutcome{Kind: model.SubmissionAlreadyCompleted}, totalWait
		case httpclient.OutcomeThrottled:
			if e.AutoRetry && outcome.Wait > 0 {
				select {
				case <-time.After(outcome.Wait):
				case <-ctx.Done():
					return &model.SubmissionOutcome{Kind: model.SubmissionError, Err: ctx.Err().Error()}, totalWait
				}
				totalWait += outcome.Wait
				continue
			}
			return &model.SubmissionOutcome{Kind: model.SubmissionThrottled, Wait: outcome.Wait}, totalWait
		default:
			return &model.SubmissionOutcome{Kind: model.SubmissionError, Err: fmt.Sprintf("unexpected outcome kind %d", outcome.Kind)}, totalWait
		}
	}
}
