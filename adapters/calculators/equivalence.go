package calculators

import (
	"fmt"
	"math"
	"strings"

	"aryastastic/domain/study"
	"aryastastic/internal/errors"
	"aryastastic/internal/zvalue"
)

// Margin designs compare a test arm (group 2) with a reference arm (group 1)
// against a pre-specified margin. Equivalence designs use the two-sided
// equivalence table, non-inferiority designs the one-sided one.
type marginHypothesis int

const (
	hypothesisEquivalence marginHypothesis = iota
	hypothesisNonInferiority
)

func (h marginHypothesis) String() string {
	if h == hypothesisEquivalence {
		return "equivalence"
	}
	return "non-inferiority"
}

// marginProblem is the design-specific part of a margin calculation.
type marginProblem struct {
	hypothesis marginHypothesis
	alpha      float64
	power      float64
	margin     float64
	diff       float64 // expected test minus reference
	variance   float64 // per-unit variance term for n1, already scaled for k
	ratio      float64
	varianceLn string // trace line describing variance
	subject    string // "means" or "proportions"
}

func validateMargin(margin, upper float64) error {
	if math.IsNaN(margin) || math.IsInf(margin, 0) {
		return errors.InvalidParameter("margin", "must be a finite number")
	}
	if margin == 0 {
		return errors.Unsupported("a margin of zero cannot be tested: equivalence and non-inferiority designs need a positive margin")
	}
	if upper > 0 {
		return check("margin", margin, fmt.Sprintf("gt=0,lte=%s", num(upper)), "must be positive and at most "+num(upper))
	}
	return check("margin", margin, "gt=0", "must be positive")
}

func solveMargin(p marginProblem) (*study.ExtendedCalculatorResult, error) {
	if p.variance <= 0 {
		return nil, errors.InvalidParameter("sd", "parameters give zero variance")
	}

	var tr study.Trace
	tr.Stepf("%s margin δ = %s, expected difference Δ (test - reference) = %s", capitalize(p.hypothesis.String()), num(p.margin), f4(p.diff))
	tr.Stepf("Allocation ratio k = n2/n1 = %s", num(p.ratio))

	var gap float64
	za := marginCritical(&tr, p.hypothesis, p.alpha)
	switch p.hypothesis {
	case hypothesisEquivalence:
		gap = p.margin - math.Abs(p.diff)
		if gap <= 0 {
			return nil, errors.Unsupportedf("expected difference |Δ| = %s is not inside the equivalence margin %s", f4(math.Abs(p.diff)), num(p.margin))
		}
		tr.Stepf("Distance to margin δ - |Δ| = %s", f4(gap))
	default:
		gap = p.diff + p.margin
		if gap <= 0 {
			return nil, errors.Unsupportedf("expected difference Δ = %s already exceeds the non-inferiority margin %s", f4(p.diff), num(p.margin))
		}
		tr.Stepf("Distance to margin Δ + δ = %s", f4(gap))
	}
	zb := powerCritical(&tr, p.power)

	tr.Stepf("%s", p.varianceLn)
	raw := math.Pow(za.z+zb.z, 2) * p.variance / (gap * gap)
	tr.Stepf("n1 = (Zα + Zβ)² · V / gap² = %s² × %s / %s = %s", f4(za.z+zb.z), f4(p.variance), f4(gap*gap), f4(raw))

	n1, n2, err := groupSizes(raw, p.ratio)
	if err != nil {
		return nil, err
	}
	tr.Stepf("Rounded up: n1 = %d, n2 = %d, total N = %d", n1, n2, n1+n2)

	res := newResult(&tr, fmt.Sprintf(
		"To demonstrate %s of %s within a margin of %s with %s at %s, you need %s.",
		p.hypothesis, p.subject, num(p.margin), zb.level, za.level, groupPhrase(n1, n2)))
	res.SetGroups(n1, n2)
	return res, nil
}

// marginCritical resolves z from the equivalence table for the hypothesis:
// two-sided for equivalence, one-sided for non-inferiority.
func marginCritical(tr *study.Trace, h marginHypothesis, alpha float64) critical {
	lookup, table := zvalue.LookupEquivalenceTwoSided, "two-sided"
	if h == hypothesisNonInferiority {
		lookup, table = zvalue.LookupEquivalenceOneSided, "one-sided"
	}
	c := lookup(alpha)
	if c.Curated {
		tr.Stepf("Zα (%s, %s table, α = %s) = %s", h, table, num(alpha), z3(c.Z))
		return critical{z: c.Z, level: "α = " + num(alpha)}
	}
	tr.Stepf("Zα (%s, %s table, α = %s not curated, using the α = %s default) = %s", h, table, num(alpha), c.Used, z3(c.Z))
	return critical{z: c.Z, level: fmt.Sprintf("α = %s (α = %s is not curated)", c.Used, num(alpha))}
}

func validateMarginCommon(in study.Input) error {
	if err := requireAlpha(in.Alpha); err != nil {
		return err
	}
	if err := requirePower(in.Power); err != nil {
		return err
	}
	return requireRatio(in.Ratio)
}

func meansProblem(h marginHypothesis, in study.Input) (marginProblem, error) {
	if err := requirePositive("sd", in.SD); err != nil {
		return marginProblem{}, err
	}
	diff, err := requireValue("difference", in.Difference)
	if err != nil {
		return marginProblem{}, err
	}
	if err := requireFinite("difference", diff); err != nil {
		return marginProblem{}, err
	}
	if err := validateMarginCommon(in); err != nil {
		return marginProblem{}, err
	}
	if err := validateMargin(in.Margin, 0); err != nil {
		return marginProblem{}, err
	}
	k := in.AllocationRatio()
	v := in.SD * in.SD * (1 + 1/k)
	return marginProblem{
		hypothesis: h,
		alpha:      in.Alpha,
		power:      in.Power,
		margin:     in.Margin,
		diff:       diff,
		variance:   v,
		ratio:      k,
		varianceLn: fmt.Sprintf("V = σ² · (1 + 1/k) = %s² × %s = %s", num(in.SD), f4(1+1/k), f4(v)),
		subject:    "means",
	}, nil
}

func proportionsProblem(h marginHypothesis, in study.Input) (marginProblem, error) {
	p1, p2, err := proportionPair(in)
	if err != nil {
		return marginProblem{}, err
	}
	if err := validateMarginCommon(in); err != nil {
		return marginProblem{}, err
	}
	if err := validateMargin(in.Margin, 1); err != nil {
		return marginProblem{}, err
	}
	k := in.AllocationRatio()
	v := p1*(1-p1) + p2*(1-p2)/k
	if v <= 0 {
		return marginProblem{}, errors.InvalidParameter("p1", "p1 and p2 both at 0 or 1 give zero variance")
	}
	return marginProblem{
		hypothesis: h,
		alpha:      in.Alpha,
		power:      in.Power,
		margin:     in.Margin,
		diff:       p2 - p1,
		variance:   v,
		ratio:      k,
		varianceLn: fmt.Sprintf("V = p1(1 - p1) + p2(1 - p2)/k = %s", f4(v)),
		subject:    "proportions",
	}, nil
}

// EquivalenceMeans sizes a two one-sided tests (TOST) equivalence study of
// two means. Reads SD, Difference, Margin, Alpha, Power, Ratio.
type EquivalenceMeans struct{}

// NewEquivalenceMeans creates the equivalence-of-means calculator
func NewEquivalenceMeans() *EquivalenceMeans { return &EquivalenceMeans{} }

func (c *EquivalenceMeans) Design() study.Design { return study.DesignEquivalenceMeans }

func (c *EquivalenceMeans) Description() string {
	return "Sample size per group to show two means are equivalent within a margin"
}

// Compute solves for the per-group sample size.
func (c *EquivalenceMeans) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	p, err := meansProblem(hypothesisEquivalence, in)
	if err != nil {
		return nil, err
	}
	return solveMargin(p)
}

// EquivalenceProportions sizes an equivalence study of two proportions.
// P1 is the reference arm. Reads P1, P2, Margin, Alpha, Power, Ratio.
type EquivalenceProportions struct{}

// NewEquivalenceProportions creates the equivalence-of-proportions calculator
func NewEquivalenceProportions() *EquivalenceProportions { return &EquivalenceProportions{} }

func (c *EquivalenceProportions) Design() study.Design { return study.DesignEquivalenceProportions }

func (c *EquivalenceProportions) Description() string {
	return "Sample size per group to show two proportions are equivalent within a margin"
}

// Compute solves for the per-group sample size.
func (c *EquivalenceProportions) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	p, err := proportionsProblem(hypothesisEquivalence, in)
	if err != nil {
		return nil, err
	}
	return solveMargin(p)
}

// NonInferiorityMeans sizes a non-inferiority study of two means where
// larger is better. Reads SD, Difference, Margin, Alpha, Power, Ratio.
type NonInferiorityMeans struct{}

// NewNonInferiorityMeans creates the non-inferiority-of-means calculator
func NewNonInferiorityMeans() *NonInferiorityMeans { return &NonInferiorityMeans{} }

func (c *NonInferiorityMeans) Design() study.Design { return study.DesignNonInferiorityMeans }

func (c *NonInferiorityMeans) Description() string {
	return "Sample size per group to show a test mean is not worse than a reference by more than a margin"
}

// Compute solves for the per-group sample size.
func (c *NonInferiorityMeans) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	p, err := meansProblem(hypothesisNonInferiority, in)
	if err != nil {
		return nil, err
	}
	return solveMargin(p)
}

// NonInferiorityProportions sizes a non-inferiority study of two
// proportions where larger is better. P1 is the reference arm. Reads P1, P2,
// Margin, Alpha, Power, Ratio.
type NonInferiorityProportions struct{}

// NewNonInferiorityProportions creates the non-inferiority-of-proportions calculator
func NewNonInferiorityProportions() *NonInferiorityProportions { return &NonInferiorityProportions{} }

func (c *NonInferiorityProportions) Design() study.Design { return study.DesignNonInferiorityProportions }

func (c *NonInferiorityProportions) Description() string {
	return "Sample size per group to show a test proportion is not worse than a reference by more than a margin"
}

// Compute solves for the per-group sample size.
func (c *NonInferiorityProportions) Compute(in study.Input) (*study.ExtendedCalculatorResult, error) {
	p, err := proportionsProblem(hypothesisNonInferiority, in)
	if err != nil {
		return nil, err
	}
	return solveMargin(p)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
