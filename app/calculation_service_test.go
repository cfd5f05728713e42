package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aryastastic/adapters/calculators"
	"aryastastic/domain/core"
	"aryastastic/domain/study"
	"aryastastic/internal/config"
	"aryastastic/internal/errors"
	"aryastastic/internal/testkit"
)

func newTestService(maxPoints int) *CalculationService {
	return NewCalculationService(calculators.NewRegistry(), config.SweepConfig{Concurrency: 3, MaxPoints: maxPoints}, nil)
}

var twoProportions = testkit.BaseInput(study.DesignTwoProportions)

func TestCalculate_TagsResult(t *testing.T) {
	svc := newTestService(10)

	calc, err := svc.Calculate(context.Background(), study.DesignTwoProportions, twoProportions)
	require.NoError(t, err)

	assert.False(t, core.ID(calc.ID).IsEmpty())
	assert.Equal(t, study.DesignTwoProportions, calc.Design)
	require.NotNil(t, calc.Result.SampleSize)
	assert.Equal(t, 93, *calc.Result.SampleSize)
	assert.False(t, calc.CreatedAt.IsZero())
	assert.Equal(t, core.ComputeTraceHash("two-proportions", calc.Result.Calculations), calc.Fingerprint)
}

func TestCalculate_SameInputSameFingerprint(t *testing.T) {
	svc := newTestService(10)
	a, err := svc.Calculate(context.Background(), study.DesignTwoProportions, twoProportions)
	require.NoError(t, err)
	b, err := svc.Calculate(context.Background(), study.DesignTwoProportions, twoProportions)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
}

func TestCalculate_Errors(t *testing.T) {
	svc := newTestService(10)

	_, err := svc.Calculate(context.Background(), "anova", twoProportions)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	bad := twoProportions
	bad.P1 = study.FloatPtr(-0.1)
	_, err = svc.Calculate(context.Background(), study.DesignTwoProportions, bad)
	assert.True(t, errors.IsInvalidParameter(err))
	assert.Equal(t, "p1", errors.GetField(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Calculate(ctx, study.DesignTwoProportions, twoProportions)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweep_PowerKeepsOrderAndSummarizes(t *testing.T) {
	svc := newTestService(10)

	sweep, err := svc.Sweep(context.Background(), SweepRequest{
		Design:    study.DesignTwoProportions,
		Base:      twoProportions,
		Parameter: "power",
		Values:    []float64{0.9, 0.8, 0.85, 0.95},
	})
	require.NoError(t, err)
	require.Len(t, sweep.Points, 4)

	for i, v := range []float64{0.9, 0.8, 0.85, 0.95} {
		assert.Equal(t, v, sweep.Points[i].Value)
		require.True(t, sweep.Points[i].OK())
	}
	assert.Equal(t, 93, *sweep.Points[1].Result.SampleSize)
	assert.Greater(t, *sweep.Points[2].Result.SampleSize, *sweep.Points[1].Result.SampleSize)
	assert.Less(t, *sweep.Points[0].Result.SampleSize, *sweep.Points[3].Result.SampleSize)

	require.NotNil(t, sweep.Summary)
	assert.Equal(t, study.MetricSampleSize, sweep.Summary.Metric)
	assert.Equal(t, 4, sweep.Summary.Count)
	assert.Equal(t, 93.0, sweep.Summary.Min)
	assert.Equal(t, float64(*sweep.Points[3].Result.SampleSize), sweep.Summary.Max)
	assert.False(t, core.ID(sweep.ID).IsEmpty())
	assert.Zero(t, sweep.Failed())
}

func TestSweep_UncuratedPowerPointNamesTheDefault(t *testing.T) {
	svc := newTestService(10)

	sweep, err := svc.Sweep(context.Background(), SweepRequest{
		Design:    study.DesignTwoProportions,
		Base:      twoProportions,
		Parameter: "power",
		Values:    []float64{0.95, 0.97, 0.99},
	})
	require.NoError(t, err)
	require.Len(t, sweep.Points, 3)

	for i, n := range []int{153, 93, 216} {
		require.True(t, sweep.Points[i].OK())
		assert.Equal(t, n, *sweep.Points[i].Result.SampleSize)
	}
	fallback := sweep.Points[1].Result
	assert.Contains(t, fallback.Calculations, "Zβ (97% power not curated, using the 80% default) = 0.840")
	assert.Contains(t, fallback.Interpretation, "with 80% power (97% is not curated)")
	assert.Contains(t, sweep.Points[0].Result.Interpretation, "with 95% power at")
}

func TestSweep_InvalidPointsReportedPerPoint(t *testing.T) {
	svc := newTestService(10)

	sweep, err := svc.Sweep(context.Background(), SweepRequest{
		Design:    study.DesignTwoProportions,
		Base:      twoProportions,
		Parameter: "p1",
		Values:    []float64{0.2, -0.1, 0.5},
	})
	require.NoError(t, err)

	assert.True(t, sweep.Points[0].OK())
	assert.False(t, sweep.Points[1].OK())
	assert.Equal(t, errors.CodeInvalidParameter, sweep.Points[1].Code)
	assert.False(t, sweep.Points[2].OK())
	assert.Equal(t, errors.CodeInvalidParameter, sweep.Points[2].Code)
	assert.Contains(t, sweep.Points[2].Error, "p2")
	assert.Equal(t, 2, sweep.Failed())
	require.NotNil(t, sweep.Summary)
	assert.Equal(t, 1, sweep.Summary.Count)
}

func TestSweep_PowerDesignSummarizesPower(t *testing.T) {
	svc := newTestService(10)

	sweep, err := svc.Sweep(context.Background(), SweepRequest{
		Design:    study.DesignTwoMeansPower,
		Base:      testkit.BaseInput(study.DesignTwoMeansPower),
		Parameter: "sampleSize",
		Values:    []float64{50, 63},
	})
	require.NoError(t, err)
	require.NotNil(t, sweep.Summary)
	assert.Equal(t, study.MetricPower, sweep.Summary.Metric)
	assert.InDelta(t, 0.7054, sweep.Summary.Min, 1e-3)
	assert.InDelta(t, 0.8013, sweep.Summary.Max, 1e-3)
}

func TestSweep_RequestErrors(t *testing.T) {
	svc := newTestService(3)
	ctx := context.Background()

	_, err := svc.Sweep(ctx, SweepRequest{Design: "anova", Parameter: "power", Values: []float64{0.8}})
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = svc.Sweep(ctx, SweepRequest{Design: study.DesignTwoMeans, Parameter: "beta", Values: []float64{0.8}})
	assert.Equal(t, "parameter", errors.GetField(err))

	_, err = svc.Sweep(ctx, SweepRequest{Design: study.DesignTwoMeans, Parameter: "power"})
	assert.Equal(t, "values", errors.GetField(err))

	_, err = svc.Sweep(ctx, SweepRequest{Design: study.DesignTwoMeans, Parameter: "power", Values: []float64{0.7, 0.8, 0.9, 0.95}})
	assert.True(t, errors.IsInvalidParameter(err))
}

func TestDesigns_ListsRegistry(t *testing.T) {
	svc := newTestService(10)
	designs := svc.Designs()
	require.Len(t, designs, 13)
	assert.Equal(t, study.DesignTwoProportions, designs[0].Design)
	for _, d := range designs {
		assert.NotEmpty(t, d.Description)
	}
}

func TestBatch_PerScenarioOutcomes(t *testing.T) {
	svc := newTestService(10)

	outcomes, err := svc.Batch(context.Background(), []study.Scenario{
		{Label: "a", Design: study.DesignTwoProportions, Input: twoProportions},
		{Label: "b", Design: "anova", Input: twoProportions},
		{Label: "c", Design: study.DesignTwoMeans, Input: testkit.BaseInput(study.DesignTwoMeans)},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, 93, *outcomes[0].Result.SampleSize)
	assert.Nil(t, outcomes[1].Result)
	assert.Equal(t, errors.CodeNotFound, outcomes[1].Code)
	assert.Equal(t, "c", outcomes[2].Scenario.Label)
	assert.Equal(t, 63, *outcomes[2].Result.SampleSize)
}

func TestSweep_CancelledContext(t *testing.T) {
	svc := newTestService(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Sweep(ctx, SweepRequest{
		Design:    study.DesignTwoProportions,
		Base:      twoProportions,
		Parameter: "power",
		Values:    []float64{0.8, 0.9},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
