package calculators

import (
	"fmt"
	"math"

	"aryastastic/domain/study"
	"aryastastic/internal/errors"
	"aryastastic/internal/zvalue"
)

// TwoMeans sizes a superiority comparison of two independent means with a
// common standard deviation. Reads Mean1, Mean2, SD, Alpha, Power, Ratio,
// OneSided.
type TwoMeans struct{}

// NewTwoMeans creates the two-mean calculator
func NewTwoMeans() *TwoMeans { return &TwoMeans{} }

func (c *TwoMeans) Design() study.Design { return study.DesignTwoMeans }

func (c *TwoMeans) Description() string {
	return "Sample size per group to detect a difference between two independent means"
}

// Compute solves for the per-group sample size.
func (c *TwoMeans) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	m1, m2, err := validateMeansTest(in)
	if err != nil {
		return nil, err
	}
	if err := requireRatio(in.Ratio); err != nil {
		return nil, err
	}
	diff := math.Abs(m1 - m2)
	if diff == 0 {
		return nil, errors.InvalidParameter("mean2", "must differ from mean1 (a zero difference needs an infinite sample)")
	}

	k := in.AllocationRatio()
	var tr study.Trace
	tr.Stepf("Group 1 mean μ1 = %s, group 2 mean μ2 = %s, standard deviation σ = %s", num(m1), num(m2), num(in.SD))
	tr.Stepf("Allocation ratio k = n2/n1 = %s", num(k))
	za := alphaCritical(&tr, in.Alpha, in.OneSided)
	zb := powerCritical(&tr, in.Power)

	d := diff / in.SD
	tr.Stepf("Difference |μ1 - μ2| = %s, standardized effect d = %s", f4(diff), f4(d))

	raw := math.Pow(za.z+zb.z, 2) * in.SD * in.SD * (1 + 1/k) / (diff * diff)
	tr.Stepf("n1 = (Zα + Zβ)² · σ² · (1 + 1/k) / (μ1 - μ2)²")
	tr.Stepf("n1 = %s² × %s × %s / %s = %s", f4(za.z+zb.z), f4(in.SD*in.SD), f4(1+1/k), f4(diff*diff), f4(raw))

	n1, n2, err := groupSizes(raw, k)
	if err != nil {
		return nil, err
	}
	tr.Stepf("Rounded up: n1 = %d, n2 = %d, total N = %d", n1, n2, n1+n2)

	res := newResult(&tr, fmt.Sprintf(
		"To detect a difference of %s between means (d = %s) with %s at %s, you need %s.",
		f4(diff), f4(d), zb.level, za.level, groupPhrase(n1, n2)))
	res.SetGroups(n1, n2)
	res.SetEffectSize(d)
	return res, nil
}

func validateMeansTest(in study.Input) (float64, float64, error) {
	m1, m2, err := meanPair(in)
	if err != nil {
		return 0, 0, err
	}
	if err := requirePositive("sd", in.SD); err != nil {
		return 0, 0, err
	}
	if err := requireAlpha(in.Alpha); err != nil {
		return 0, 0, err
	}
	return m1, m2, requirePower(in.Power)
}

// SingleMean sizes a study that estimates one mean to a given margin of
// error. Reads SD, MarginOfError, ConfidenceLevel (or Alpha), Population.
type SingleMean struct{}

// NewSingleMean creates the single-mean precision calculator
func NewSingleMean() *SingleMean { return &SingleMean{} }

func (c *SingleMean) Design() study.Design { return study.DesignSingleMean }

func (c *SingleMean) Description() string {
	return "Sample size to estimate a single mean within a margin of error"
}

// Compute solves for the sample size that estimates the mean within the margin of error.
func (c *SingleMean) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	if err := requirePositive("sd", in.SD); err != nil {
		return nil, err
	}
	if err := requirePositive("marginOfError", in.MarginOfError); err != nil {
		return nil, err
	}
	level, err := confidenceLevel(in)
	if err != nil {
		return nil, err
	}
	if err := requirePopulation(in.Population); err != nil {
		return nil, err
	}

	var tr study.Trace
	tr.Stepf("Standard deviation σ = %s, margin of error E = %s", num(in.SD), num(in.MarginOfError))
	z := confidenceCritical(&tr, level)

	raw := math.Pow(z.z*in.SD/in.MarginOfError, 2)
	tr.Stepf("n₀ = (Z · σ / E)²")
	tr.Stepf("n₀ = (%s × %s / %s)² = %s", z3(z.z), num(in.SD), num(in.MarginOfError), f4(raw))
	raw = finitePopulation(&tr, raw, in.Population)

	n, err := roundUp("sampleSize", raw)
	if err != nil {
		return nil, err
	}
	tr.Stepf("Rounded up: n = %d", n)

	res := newResult(&tr, fmt.Sprintf(
		"To estimate a mean within ±%s (σ = %s) at %s, you need a sample of %d.",
		num(in.MarginOfError), num(in.SD), z.level, n))
	res.SetSampleSize(n)
	return res, nil
}

// OneSampleMean sizes a one-sample (or paired-difference) test of a mean
// against a reference value. Mean1 is the expected mean, Mean2 the reference.
// Reads Mean1, Mean2, SD, Alpha, Power, OneSided.
type OneSampleMean struct{}

// NewOneSampleMean creates the one-sample mean test calculator
func NewOneSampleMean() *OneSampleMean { return &OneSampleMean{} }

func (c *OneSampleMean) Design() study.Design { return study.DesignOneSampleMean }

func (c *OneSampleMean) Description() string {
	return "Sample size to test one mean (or paired differences) against a reference value"
}

// Compute solves for the number of participants.
func (c *OneSampleMean) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	m1, m2, err := validateMeansTest(in)
	if err != nil {
		return nil, err
	}
	diff := math.Abs(m1 - m2)
	if diff == 0 {
		return nil, errors.InvalidParameter("mean2", "must differ from mean1 (a zero difference needs an infinite sample)")
	}

	var tr study.Trace
	tr.Stepf("Expected mean μ = %s, reference μ₀ = %s, standard deviation σ = %s", num(m1), num(m2), num(in.SD))
	za := alphaCritical(&tr, in.Alpha, in.OneSided)
	zb := powerCritical(&tr, in.Power)

	d := diff / in.SD
	raw := math.Pow((za.z+zb.z)/d, 2)
	tr.Stepf("Standardized effect d = |μ - μ₀| / σ = %s", f4(d))
	tr.Stepf("n = ((Zα + Zβ) / d)² = (%s / %s)² = %s", f4(za.z+zb.z), f4(d), f4(raw))

	n, err := roundUp("sampleSize", raw)
	if err != nil {
		return nil, err
	}
	tr.Stepf("Rounded up: n = %d", n)

	res := newResult(&tr, fmt.Sprintf(
		"To detect a shift of %s from the reference mean (d = %s) with %s at %s, you need %d participants.",
		f4(diff), f4(d), zb.level, za.level, n))
	res.SetSampleSize(n)
	res.SetEffectSize(d)
	return res, nil
}

// TwoMeansPower computes the power achieved by a given per-group size when
// comparing two means. Reads Mean1, Mean2, SD, SampleSize, Alpha, Ratio,
// OneSided.
type TwoMeansPower struct{}

// NewTwoMeansPower creates the two-mean power calculator
func NewTwoMeansPower() *TwoMeansPower { return &TwoMeansPower{} }

func (c *TwoMeansPower) Design() study.Design { return study.DesignTwoMeansPower }

func (c *TwoMeansPower) Description() string {
	return "Power achieved by a given sample size when comparing two means"
}

// Compute solves for the power the supplied per-group size achieves.
func (c *TwoMeansPower) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	m1, m2, err := meanPair(in)
	if err != nil {
		return nil, err
	}
	if err := requirePositive("sd", in.SD); err != nil {
		return nil, err
	}
	if err := requireAlpha(in.Alpha); err != nil {
		return nil, err
	}
	n1, n2, err := inputGroups(in)
	if err != nil {
		return nil, err
	}

	var tr study.Trace
	tr.Stepf("Group 1 mean μ1 = %s, group 2 mean μ2 = %s, standard deviation σ = %s", num(m1), num(m2), num(in.SD))
	tr.Stepf("Group sizes n1 = %s, n2 = %s", num(n1), num(n2))
	za := alphaCritical(&tr, in.Alpha, in.OneSided)

	diff := math.Abs(m1 - m2)
	se := in.SD * math.Sqrt(1/n1+1/n2)
	zb := diff/se - za.z
	power := zvalue.CDF(zb)
	tr.Stepf("Standard error SE = σ · √(1/n1 + 1/n2) = %s", f4(se))
	tr.Stepf("Zβ = |μ1 - μ2| / SE - Zα = %s / %s - %s = %s", f4(diff), f4(se), z3(za.z), f4(zb))
	tr.Stepf("Power = Φ(Zβ) = %s", f4(power))

	res := newResult(&tr, fmt.Sprintf(
		"With group sizes of %s and %s, the study has %s power to detect a difference of %s between means at %s.",
		num(n1), num(n2), pct(power), f4(diff), za.level))
	res.SetPower(power)
	return res, nil
}

// TwoMeansMDE computes the smallest difference between two means detectable
// with a given per-group size. Reads SD, SampleSize, Alpha, Power, Ratio,
// OneSided.
type TwoMeansMDE struct{}

// NewTwoMeansMDE creates the minimum detectable effect calculator
func NewTwoMeansMDE() *TwoMeansMDE { return &TwoMeansMDE{} }

func (c *TwoMeansMDE) Design() study.Design { return study.DesignTwoMeansMDE }

func (c *TwoMeansMDE) Description() string {
	return "Smallest difference between two means detectable with a given sample size"
}

// Compute solves for the minimum detectable difference.
func (c *TwoMeansMDE) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	if err := requirePositive("sd", in.SD); err != nil {
		return nil, err
	}
	if err := requireAlpha(in.Alpha); err != nil {
		return nil, err
	}
	if err := requirePower(in.Power); err != nil {
		return nil, err
	}
	n1, n2, err := inputGroups(in)
	if err != nil {
		return nil, err
	}

	var tr study.Trace
	tr.Stepf("Standard deviation σ = %s, group sizes n1 = %s, n2 = %s", num(in.SD), num(n1), num(n2))
	za := alphaCritical(&tr, in.Alpha, in.OneSided)
	zb := powerCritical(&tr, in.Power)

	mde := (za.z + zb.z) * in.SD * math.Sqrt(1/n1+1/n2)
	d := mde / in.SD
	tr.Stepf("δ = (Zα + Zβ) · σ · √(1/n1 + 1/n2) = %s × %s × %s = %s", f4(za.z+zb.z), num(in.SD), f4(math.Sqrt(1/n1+1/n2)), f4(mde))
	tr.Stepf("Standardized effect d = δ / σ = %s", f4(d))

	res := newResult(&tr, fmt.Sprintf(
		"With group sizes of %s and %s, the smallest difference detectable with %s at %s is %s (d = %s).",
		num(n1), num(n2), zb.level, za.level, f4(mde), f4(d)))
	res.SetEffectSize(mde)
	return res, nil
}

// inputGroups derives n1 and n2 = ceil(ratio * n1) from a supplied per-group size.
func inputGroups(in study.Input) (float64, float64, error) {
	if err := requireRatio(in.Ratio); err != nil {
		return 0, 0, err
	}
	if err := requireWholeCount("sampleSize", in.SampleSize); err != nil {
		return 0, 0, err
	}
	n1 := in.SampleSize
	n2 := math.Ceil(n1*in.AllocationRatio() - 1e-9)
	if n2 < 1 {
		return 0, 0, errors.InvalidParameter("ratio", "leaves group 2 empty")
	}
	return n1, n2, nil
}
