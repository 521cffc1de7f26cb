package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	stdsync "sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.opentelemetry.io/otel/codes"
)

type StepStatus string

const (
	StepOk      StepStatus = "ok"
	StepWarning StepStatus = "warning"
	StepError   StepStatus = "error"
)

// StepResult is the outcome of one pipeline step. Processed and Failed
// count whatever unit the step works in (deputies, initiatives,
// meetings).
type StepResult struct {
	Name      string
	Status    StepStatus
	Critical  bool
	Processed int
	Failed    int
	Duration  time.Duration
	Err       error
}

// RunResult collects step outcomes from concurrently running steps.
type RunResult struct {
	mu    stdsync.Mutex
	steps []StepResult
}

func (r *RunResult) add(s StepResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, s)
}

func (r *RunResult) Steps() []StepResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StepResult(nil), r.steps...)
}

// ExitCode is 1 when a required step errored. Warnings and degraded
// optional steps leave it at 0, a run that limps through still counts
// as a success.
func (r *RunResult) ExitCode() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.steps {
		if s.Status == StepError && s.Critical {
			return 1
		}
	}
	return 0
}

// stepCounts is what a transformer hands back: how many rows went
// through, how many did not, and a few samples of what went wrong.
type stepCounts struct {
	processed int
	failed    int
	samples   []error
}

// runStep executes one pipeline step and records its outcome. Step
// status follows the row counts: everything worked is ok, some rows
// failed is a warning, every row failed (or the step itself threw) is
// an error. Only a critical step with error status propagates, so the
// caller can stop dependent phases; anything milder logs and moves on.
func (r *RunResult) runStep(ctx context.Context, name string, critical bool, fn func(ctx context.Context) (stepCounts, error)) error {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	counts, err := fn(ctx)
	result := StepResult{
		Name:      name,
		Status:    StepOk,
		Critical:  critical,
		Processed: counts.processed,
		Failed:    counts.failed,
		Duration:  time.Since(start),
		Err:       err,
	}

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if critical {
			result.Status = StepError
			slog.ErrorContext(ctx, "step failed", "step", name, "err", err)
		} else {
			result.Status = StepWarning
			slog.WarnContext(ctx, "step degraded", "step", name, "err", err)
		}
	case counts.failed > 0 && counts.processed == 0:
		result.Status = StepError
		result.Err = fmt.Errorf("%s: every row failed, first: %v", name, counts.samples)
		span.SetStatus(codes.Error, result.Err.Error())
		slog.ErrorContext(ctx, "step failed", "step", name, "failed", counts.failed)
	case counts.failed > 0:
		result.Status = StepWarning
		result.Err = fmt.Errorf("%s: %d rows failed, first: %v", name, counts.failed, counts.samples)
		slog.WarnContext(ctx, "step finished with failed rows",
			"step", name, "processed", counts.processed, "failed", counts.failed)
	default:
		slog.InfoContext(ctx, "step done",
			"step", name, "processed", counts.processed, "took", result.Duration)
	}

	r.add(result)
	if critical && result.Status == StepError {
		return result.Err
	}
	return nil
}

// Summary renders the per-step outcome table shown at the end of a run.
func (r *RunResult) Summary() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Step", "Status", "Processed", "Failed", "Duration", "Error"})
	for _, s := range r.Steps() {
		errText := ""
		if s.Err != nil {
			errText = s.Err.Error()
		}
		t.AppendRow(table.Row{
			s.Name, string(s.Status), s.Processed, s.Failed,
			s.Duration.Round(time.Millisecond), errText,
		})
	}
	return t.Render()
}

// rowErrors tallies per-row failures inside a step. The step keeps
// going past bad rows; the tally surfaces in the step counts with the
// first few samples kept for the summary.
type rowErrors struct {
	count   int
	samples []error
}

const maxErrorSamples = 5

func (e *rowErrors) addError(err error) {
	e.count++
	if len(e.samples) < maxErrorSamples {
		e.samples = append(e.samples, err)
	}
}

func (e *rowErrors) addf(format string, args ...any) {
	e.addError(fmt.Errorf(format, args...))
}

func (e *rowErrors) counts(processed int) stepCounts {
	return stepCounts{processed: processed, failed: e.count, samples: e.samples}
}

// isAuthError spots database credential failures. Unlike a bad row,
// these fail every row the same way, so steps give up immediately
// instead of counting hundreds of identical errors.
func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "auth") || strings.Contains(msg, "unauthorized")
}
