package study

import (
	"errors"
	"testing"

	"aryastastic/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputSet_KnownParameters(t *testing.T) {
	var in Input
	require.NoError(t, in.Set("p1", 0.3))
	require.NoError(t, in.Set("sampleSize", 63))
	require.NoError(t, in.Set("oneSided", 1))

	require.NotNil(t, in.P1)
	assert.Equal(t, 0.3, *in.P1)
	assert.Equal(t, 63.0, in.SampleSize)
	assert.True(t, in.OneSided)
	assert.Nil(t, in.P2, "unset parameters stay absent")
}

func TestInputSet_ZeroIsSupplied(t *testing.T) {
	var in Input
	require.NoError(t, in.Set("mean1", 0))
	require.NoError(t, in.Set("difference", 0))

	require.NotNil(t, in.Mean1)
	require.NotNil(t, in.Difference)
	assert.Equal(t, 0.0, *in.Mean1)
	assert.Equal(t, 0.0, *in.Difference)
}

func TestInputSet_UnknownParameter(t *testing.T) {
	var in Input
	err := in.Set("sample_size", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidParameter))
}

func TestInputWith_LeavesOriginalUntouched(t *testing.T) {
	base := Input{Power: 0.8, Alpha: 0.05}
	next, err := base.With("power", 0.9)
	require.NoError(t, err)

	assert.Equal(t, 0.8, base.Power)
	assert.Equal(t, 0.9, next.Power)
	assert.Equal(t, 0.05, next.Alpha)
}

func TestInputWith_DoesNotShareReplacedValues(t *testing.T) {
	base := Input{P1: FloatPtr(0.3)}
	next, err := base.With("p1", 0.4)
	require.NoError(t, err)

	assert.Equal(t, 0.3, *base.P1)
	assert.Equal(t, 0.4, *next.P1)
}

func TestParamNames_SortedAndKnown(t *testing.T) {
	names := ParamNames()
	assert.IsIncreasing(t, names)
	for _, n := range names {
		assert.True(t, IsParam(n), n)
	}
	assert.Contains(t, names, "confidenceLevel")
}

func TestPrimaryMetric_Precedence(t *testing.T) {
	r := &ExtendedCalculatorResult{}
	_, _, ok := r.PrimaryMetric()
	assert.False(t, ok)

	r.SetEffectSize(0.5)
	m, v, ok := r.PrimaryMetric()
	require.True(t, ok)
	assert.Equal(t, MetricEffectSize, m)
	assert.Equal(t, 0.5, v)

	r.SetGroups(40, 80)
	m, v, _ = r.PrimaryMetric()
	assert.Equal(t, MetricSampleSize, m)
	assert.Equal(t, 80.0, v)

	r.SetPower(0.8)
	m, _, _ = r.PrimaryMetric()
	assert.Equal(t, MetricPower, m)
}

func TestSweepFailed(t *testing.T) {
	s := &Sweep{Points: []SweepPoint{
		{Value: 0.8, Result: validResult()},
		{Value: 1.2, Error: "power: must be strictly between 0 and 1"},
	}}
	assert.Equal(t, 1, s.Failed())
	assert.True(t, s.Points[0].OK())
}
