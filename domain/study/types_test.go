package study

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aryastastic/domain/core"
)

func validResult() *ExtendedCalculatorResult {
	return &ExtendedCalculatorResult{
		CalculatorResult: CalculatorResult{
			Interpretation: "You need 10 participants.",
			Calculations:   []string{"n = 10"},
		},
	}
}

func TestSetGroups_DerivesTotals(t *testing.T) {
	r := validResult()
	r.SetGroups(40, 80)

	require.NotNil(t, r.SampleSize)
	assert.Equal(t, 80, *r.SampleSize)
	assert.Equal(t, 40, *r.N1)
	assert.Equal(t, 80, *r.N2)
	assert.Equal(t, 120, *r.TotalN)
	assert.NoError(t, r.Validate())
}

func TestSetGroups_EqualAllocation(t *testing.T) {
	r := validResult()
	r.SetGroups(93, 93)

	assert.Equal(t, 93, *r.SampleSize)
	assert.Equal(t, 186, *r.TotalN)
	assert.NoError(t, r.Validate())
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *ExtendedCalculatorResult)
	}{
		{"empty interpretation", func(r *ExtendedCalculatorResult) { r.Interpretation = "" }},
		{"empty trace", func(r *ExtendedCalculatorResult) { r.Calculations = nil }},
		{"zero sample size", func(r *ExtendedCalculatorResult) { r.SetSampleSize(0) }},
		{"power above one", func(r *ExtendedCalculatorResult) { r.SetPower(1.2) }},
		{"lonely n1", func(r *ExtendedCalculatorResult) { r.N1 = IntPtr(3) }},
		{"wrong total", func(r *ExtendedCalculatorResult) {
			r.SetGroups(10, 20)
			r.TotalN = IntPtr(31)
		}},
		{"sample size not max", func(r *ExtendedCalculatorResult) {
			r.SetGroups(10, 20)
			r.SampleSize = IntPtr(10)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validResult()
			tt.mutate(r)
			err := r.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidResult))
		})
	}
}

func TestAllocationRatio_DefaultsToOne(t *testing.T) {
	assert.Equal(t, 1.0, Input{}.AllocationRatio())
	assert.Equal(t, 2.0, Input{Ratio: 2}.AllocationRatio())
}

func TestTrace_LinesIsACopy(t *testing.T) {
	var tr Trace
	tr.Stepf("a = %d", 1)
	tr.Stepf("b = %.2f", 2.5)

	lines := tr.Lines()
	assert.Equal(t, []string{"a = 1", "b = 2.50"}, lines)

	lines[0] = "changed"
	assert.Equal(t, "a = 1", tr.Lines()[0])
	assert.Equal(t, 2, tr.Len())
}
