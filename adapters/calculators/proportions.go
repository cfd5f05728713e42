package calculators

import (
	"fmt"
	"math"

	"aryastastic/domain/study"
	"aryastastic/internal/errors"
	"aryastastic/internal/zvalue"
)

// TwoProportions sizes a superiority comparison of two independent
// proportions. Reads P1, P2, Alpha, Power, Ratio, OneSided.
type TwoProportions struct{}

// NewTwoProportions creates the two-proportion calculator
func NewTwoProportions() *TwoProportions { return &TwoProportions{} }

func (c *TwoProportions) Design() study.Design { return study.DesignTwoProportions }

func (c *TwoProportions) Description() string {
	return "Sample size per group to detect a difference between two independent proportions"
}

// Compute solves for the per-group sample size.
func (c *TwoProportions) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	p1, p2, err := validateTwoProportions(in)
	if err != nil {
		return nil, err
	}
	if p1 == p2 {
		return nil, errors.InvalidParameter("p2", "must differ from p1 (a zero difference needs an infinite sample)")
	}

	k := in.AllocationRatio()
	var tr study.Trace
	tr.Stepf("Group 1 proportion p1 = %s, group 2 proportion p2 = %s", num(p1), num(p2))
	tr.Stepf("Allocation ratio k = n2/n1 = %s", num(k))
	za := alphaCritical(&tr, in.Alpha, in.OneSided)
	zb := powerCritical(&tr, in.Power)

	pBar := (p1 + k*p2) / (1 + k)
	diff := math.Abs(p1 - p2)
	tr.Stepf("Pooled proportion p̄ = (p1 + k·p2) / (1 + k) = %s", f4(pBar))
	tr.Stepf("Absolute difference |p1 - p2| = %s", f4(diff))

	nullSD := math.Sqrt(pBar * (1 - pBar) * (1 + 1/k))
	altSD := math.Sqrt(p1*(1-p1) + p2*(1-p2)/k)
	raw := math.Pow(za.z*nullSD+zb.z*altSD, 2) / (diff * diff)
	tr.Stepf("n1 = [Zα·√(p̄(1 - p̄)(1 + 1/k)) + Zβ·√(p1(1 - p1) + p2(1 - p2)/k)]² / (p1 - p2)²")
	tr.Stepf("n1 = [%s × %s + %s × %s]² / %s = %s", z3(za.z), f4(nullSD), z3(zb.z), f4(altSD), f4(diff*diff), f4(raw))

	n1, n2, err := groupSizes(raw, k)
	if err != nil {
		return nil, err
	}
	tr.Stepf("Rounded up: n1 = %d, n2 = %d, total N = %d", n1, n2, n1+n2)

	res := newResult(&tr, fmt.Sprintf(
		"To detect a difference between proportions of %s and %s with %s at %s, you need %s.",
		num(p1), num(p2), zb.level, za.level, groupPhrase(n1, n2)))
	res.SetGroups(n1, n2)
	return res, nil
}

func validateTwoProportions(in study.Input) (float64, float64, error) {
	p1, p2, err := proportionPair(in)
	if err != nil {
		return 0, 0, err
	}
	if err := requireAlpha(in.Alpha); err != nil {
		return 0, 0, err
	}
	if err := requirePower(in.Power); err != nil {
		return 0, 0, err
	}
	return p1, p2, requireRatio(in.Ratio)
}

// SingleProportion sizes a survey that estimates one proportion to a given
// margin of error. Reads P, MarginOfError, ConfidenceLevel (or Alpha),
// Population.
type SingleProportion struct{}

// NewSingleProportion creates the single-proportion precision calculator
func NewSingleProportion() *SingleProportion { return &SingleProportion{} }

func (c *SingleProportion) Design() study.Design { return study.DesignSingleProportion }

func (c *SingleProportion) Description() string {
	return "Sample size to estimate a single proportion within a margin of error"
}

// Compute solves for the sample size that estimates p within the margin of error.
func (c *SingleProportion) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	p, err := requireValue("p", in.P)
	if err != nil {
		return nil, err
	}
	if err := requireOpenProportion("p", p); err != nil {
		return nil, err
	}
	if err := requireOpenProportion("marginOfError", in.MarginOfError); err != nil {
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
	tr.Stepf("Expected proportion p = %s, margin of error E = %s", num(p), num(in.MarginOfError))
	z := confidenceCritical(&tr, level)

	raw := z.z * z.z * p * (1 - p) / (in.MarginOfError * in.MarginOfError)
	tr.Stepf("n₀ = Z² · p(1 - p) / E²")
	tr.Stepf("n₀ = %s² × %s / %s = %s", z3(z.z), f4(p*(1-p)), f4(in.MarginOfError*in.MarginOfError), f4(raw))
	raw = finitePopulation(&tr, raw, in.Population)

	n, err := roundUp("sampleSize", raw)
	if err != nil {
		return nil, err
	}
	tr.Stepf("Rounded up: n = %d", n)

	res := newResult(&tr, fmt.Sprintf(
		"To estimate a proportion near %s within ±%s at %s, you need a sample of %d.",
		num(p), num(in.MarginOfError), z.level, n))
	res.SetSampleSize(n)
	return res, nil
}

// finitePopulation applies n = n₀ / (1 + (n₀ - 1) / N) when a population size is set.
func finitePopulation(tr *study.Trace, raw, population float64) float64 {
	if population == 0 {
		return raw
	}
	adjusted := raw / (1 + (raw-1)/population)
	tr.Stepf("Finite population correction: n = n₀ / (1 + (n₀ - 1) / N) = %s / (1 + %s / %s) = %s",
		f4(raw), f4(raw-1), num(population), f4(adjusted))
	return adjusted
}

// TwoProportionsPower computes the power achieved by a given per-group size
// when comparing two proportions. Reads P1, P2, SampleSize, Alpha, Ratio,
// OneSided.
type TwoProportionsPower struct{}

// NewTwoProportionsPower creates the two-proportion power calculator
func NewTwoProportionsPower() *TwoProportionsPower { return &TwoProportionsPower{} }

func (c *TwoProportionsPower) Design() study.Design { return study.DesignTwoProportionsPower }

func (c *TwoProportionsPower) Description() string {
	return "Power achieved by a given sample size when comparing two proportions"
}

// Compute solves for the power the supplied per-group size achieves.
func (c *TwoProportionsPower) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	p1, p2, err := proportionPair(in)
	if err != nil {
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
	tr.Stepf("Group 1 proportion p1 = %s, group 2 proportion p2 = %s", num(p1), num(p2))
	tr.Stepf("Group sizes n1 = %s, n2 = %s", num(n1), num(n2))
	za := alphaCritical(&tr, in.Alpha, in.OneSided)

	pBar := (p1*n1 + p2*n2) / (n1 + n2)
	nullSE := math.Sqrt(pBar * (1 - pBar) * (1/n1 + 1/n2))
	altSE := math.Sqrt(p1*(1-p1)/n1 + p2*(1-p2)/n2)
	if altSE == 0 {
		return nil, errors.InvalidParameter("p1", "p1 and p2 both at 0 or 1 give zero variance")
	}
	diff := math.Abs(p1 - p2)
	tr.Stepf("Pooled proportion p̄ = %s, |p1 - p2| = %s", f4(pBar), f4(diff))

	zb := (diff - za.z*nullSE) / altSE
	power := zvalue.CDF(zb)
	tr.Stepf("Zβ = (|p1 - p2| - Zα·√(p̄(1 - p̄)(1/n1 + 1/n2))) / √(p1(1 - p1)/n1 + p2(1 - p2)/n2)")
	tr.Stepf("Zβ = (%s - %s × %s) / %s = %s", f4(diff), z3(za.z), f4(nullSE), f4(altSE), f4(zb))
	tr.Stepf("Power = Φ(Zβ) = %s", f4(power))

	res := newResult(&tr, fmt.Sprintf(
		"With group sizes of %s and %s, the study has %s power to detect proportions of %s versus %s at %s.",
		num(n1), num(n2), pct(power), num(p1), num(p2), za.level))
	res.SetPower(power)
	return res, nil
}
