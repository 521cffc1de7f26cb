package sync

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunStep(t *testing.T) {
	ctx := context.Background()
	result := &RunResult{}

	err := result.runStep(ctx, "ok step", true, func(ctx context.Context) (stepCounts, error) {
		return stepCounts{processed: 42}, nil
	})
	require.NoError(t, err)

	// optional steps swallow a whole-step error but record a warning
	err = result.runStep(ctx, "degraded step", false, func(ctx context.Context) (stepCounts, error) {
		return stepCounts{}, fmt.Errorf("scrape failed")
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.ExitCode())

	// required steps propagate a whole-step error and flip the exit code
	err = result.runStep(ctx, "broken step", true, func(ctx context.Context) (stepCounts, error) {
		return stepCounts{}, fmt.Errorf("db gone")
	})
	require.Error(t, err)
	require.Equal(t, 1, result.ExitCode())

	steps := result.Steps()
	require.Len(t, steps, 3)
	require.Equal(t, StepOk, steps[0].Status)
	require.Equal(t, 42, steps[0].Processed)
	require.Equal(t, StepWarning, steps[1].Status)
	require.Equal(t, StepError, steps[2].Status)

	summary := result.Summary()
	require.Contains(t, summary, "degraded step")
	require.Contains(t, summary, "db gone")
}

func TestRunStepPartialFailures(t *testing.T) {
	ctx := context.Background()
	result := &RunResult{}

	// some rows failing leaves even a required step at warning and
	// never aborts the run
	err := result.runStep(ctx, "partly broken", true, func(ctx context.Context) (stepCounts, error) {
		var tally rowErrors
		tally.addf("row 7 broke")
		return tally.counts(9), nil
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.ExitCode())

	steps := result.Steps()
	require.Equal(t, StepWarning, steps[0].Status)
	require.Equal(t, 9, steps[0].Processed)
	require.Equal(t, 1, steps[0].Failed)
	require.ErrorContains(t, steps[0].Err, "1 rows failed")

	// every row failing is an error; required, so the exit code flips
	err = result.runStep(ctx, "all broken", true, func(ctx context.Context) (stepCounts, error) {
		var tally rowErrors
		tally.addf("row 1 broke")
		tally.addf("row 2 broke")
		return tally.counts(0), nil
	})
	require.Error(t, err)
	require.Equal(t, StepError, result.Steps()[1].Status)
	require.Equal(t, 1, result.ExitCode())
}

func TestRunStepOptionalTotalFailure(t *testing.T) {
	ctx := context.Background()
	result := &RunResult{}

	// an optional step whose rows all failed reports error without
	// failing the run
	err := result.runStep(ctx, "all broken", false, func(ctx context.Context) (stepCounts, error) {
		var tally rowErrors
		tally.addf("row broke")
		return tally.counts(0), nil
	})
	require.NoError(t, err)
	require.Equal(t, StepError, result.Steps()[0].Status)
	require.Equal(t, 0, result.ExitCode())
}

func TestRowErrors(t *testing.T) {
	var tally rowErrors
	require.Zero(t, tally.counts(3).failed)

	for i := 0; i < 10; i++ {
		tally.addf("row %d broke", i)
	}
	counts := tally.counts(5)
	require.Equal(t, 5, counts.processed)
	require.Equal(t, 10, counts.failed)
	// only the first few samples survive
	require.Len(t, counts.samples, maxErrorSamples)
	require.Contains(t, counts.samples[0].Error(), "row 0 broke")
}

func TestIsAuthError(t *testing.T) {
	require.True(t, isAuthError(fmt.Errorf("libsql: authentication failed")))
	require.True(t, isAuthError(fmt.Errorf("http 401 Unauthorized")))
	require.False(t, isAuthError(fmt.Errorf("UNIQUE constraint failed")))
	require.False(t, isAuthError(nil))
}
