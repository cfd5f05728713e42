package calculators

import (
	"fmt"
	"math"

	"aryastastic/domain/study"
)

// Correlation sizes a test that a Pearson correlation differs from zero,
// using the Fisher z transformation. Reads Correlation, Alpha, Power, OneSided.
type Correlation struct{}

// NewCorrelation creates the correlation calculator
func NewCorrelation() *Correlation { return &Correlation{} }

func (c *Correlation) Design() study.Design { return study.DesignCorrelation }

func (c *Correlation) Description() string {
	return "Sample size to detect a non-zero correlation coefficient"
}

// Compute solves for the number of participants.
func (c *Correlation) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	if err := check("correlation", in.Correlation, "gt=-1,lt=1,ne=0", "must be non-zero and strictly between -1 and 1"); err != nil {
		return nil, err
	}
	if err := requireAlpha(in.Alpha); err != nil {
		return nil, err
	}
	if err := requirePower(in.Power); err != nil {
		return nil, err
	}

	var tr study.Trace
	tr.Stepf("Expected correlation r = %s", num(in.Correlation))
	za := alphaCritical(&tr, in.Alpha, in.OneSided)
	zb := powerCritical(&tr, in.Power)

	r := math.Abs(in.Correlation)
	fisher := 0.5 * math.Log((1+r)/(1-r))
	raw := math.Pow((za.z+zb.z)/fisher, 2) + 3
	tr.Stepf("Fisher transform C = ½ · ln((1 + |r|) / (1 - |r|)) = %s", f4(fisher))
	tr.Stepf("n = ((Zα + Zβ) / C)² + 3 = (%s / %s)² + 3 = %s", f4(za.z+zb.z), f4(fisher), f4(raw))

	n, err := roundUp("sampleSize", raw)
	if err != nil {
		return nil, err
	}
	tr.Stepf("Rounded up: n = %d", n)

	res := newResult(&tr, fmt.Sprintf(
		"To detect a correlation of %s with %s at %s, you need %d participants.",
		num(in.Correlation), zb.level, za.level, n))
	res.SetSampleSize(n)
	res.SetEffectSize(in.Correlation)
	return res, nil
}
