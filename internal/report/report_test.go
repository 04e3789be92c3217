package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/joeycumines/aocrunner/internal/model"
)

func TestPrintResult_QuietSuccess(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, true)
	p.PrintResult(model.SolverResult{Key: model.ResultKey{Year: 2015, Day: 1, Part: 1}, Answer: "42"})
	assert.Equal(t, "42\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestPrintResult_QuietError(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, true)
	p.PrintResult(model.SolverResult{Key: model.ResultKey{Year: 2015, Day: 1, Part: 1}, Err: errors.New("boom")})
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "boom")
}

func TestPrintResult_FullSuccess(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)
	p.PrintResult(model.SolverResult{
		Key:           model.ResultKey{Year: 2015, Day: 1, Part: 1},
		Answer:        "42",
		SolveDuration: 500 * time.Microsecond,
	})
	assert.Contains(t, out.String(), "2015/01 Part 1: 42")
	assert.Contains(t, out.String(), "solve: 500")
}

func TestPrintResult_FullWithSubmission(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)
	at := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	p.PrintResult(model.SolverResult{
		Key:         model.ResultKey{Year: 2015, Day: 1, Part: 1},
		Answer:      "42",
		Submission:  &model.SubmissionOutcome{Kind: model.SubmissionCorrect},
		SubmittedAt: &at,
	})
	assert.Contains(t, out.String(), "submitted 10:30:00: Correct")
}

func TestPrintResult_FullError(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)
	p.PrintResult(model.SolverResult{Key: model.ResultKey{Year: 2015, Day: 1, Part: 1}, Err: errors.New("boom")})
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error - boom")
}

func TestPrintSummary_CountsSolvedAndFailed(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)
	results := []model.SolverResult{
		{Key: model.ResultKey{Year: 2015, Day: 1, Part: 1}, Answer: "1", SolveDuration: time.Millisecond},
		{Key: model.ResultKey{Year: 2015, Day: 1, Part: 2}, Err: errors.New("nope")},
	}
	p.PrintSummary(results)
	assert.Contains(t, out.String(), "1 solved, 1 failed")
}

func TestPrintSummary_QuietIsNoOp(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, true)
	p.PrintSummary([]model.SolverResult{{Answer: "1"}})
	assert.Empty(t, out.String())
}

func TestFormatDuration_Buckets(t *testing.T) {
	assert.Equal(t, "500µs", formatDuration(500*time.Microsecond))
	assert.Equal(t, "1.50ms", formatDuration(1500*time.Microsecond))
	assert.Equal(t, "2.00s", formatDuration(2*time.Second))
}
