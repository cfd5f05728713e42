package study

import (
	"fmt"
	"math"

	"aryastastic/domain/core"
)

// Design identifies a study-design family. Calculators are dispatched by it.
type Design string

const (
	DesignTwoProportions            Design = "two-proportions"
	DesignTwoMeans                  Design = "two-means"
	DesignSingleProportion          Design = "single-proportion"
	DesignSingleMean                Design = "single-mean"
	DesignOneSampleMean             Design = "one-sample-mean"
	DesignCorrelation               Design = "correlation"
	DesignEquivalenceMeans          Design = "equivalence-means"
	DesignEquivalenceProportions    Design = "equivalence-proportions"
	DesignNonInferiorityMeans       Design = "noninferiority-means"
	DesignNonInferiorityProportions Design = "noninferiority-proportions"
	DesignTwoMeansPower             Design = "two-means-power"
	DesignTwoProportionsPower       Design = "two-proportions-power"
	DesignTwoMeansMDE               Design = "two-means-mde"
)

func (d Design) String() string { return string(d) }

// Input is the parameter set handed to a calculator. It is one flat record so a
// decoded form or JSON body can be dispatched to any design; each calculator
// documents and validates only the fields it reads.
//
// Proportions, means and the expected difference are pointers because zero is
// a legal value for them: nil means "not supplied" and a calculator that reads
// one rejects it as required. For the remaining fields zero means "not
// supplied" and selects the documented default.
type Input struct {
	// Proportions
	P1 *float64 `json:"p1,omitempty" form:"p1"`
	P2 *float64 `json:"p2,omitempty" form:"p2"`
	P  *float64 `json:"p,omitempty" form:"p"`

	// Means
	Mean1 *float64 `json:"mean1,omitempty" form:"mean1"`
	Mean2 *float64 `json:"mean2,omitempty" form:"mean2"`
	SD    float64  `json:"sd,omitempty" form:"sd"`

	// Margin designs: expected true difference (treatment minus control) and margin.
	Difference *float64 `json:"difference,omitempty" form:"difference"`
	Margin     float64  `json:"margin,omitempty" form:"margin"`

	Alpha           float64 `json:"alpha,omitempty" form:"alpha"`
	Power           float64 `json:"power,omitempty" form:"power"`
	ConfidenceLevel float64 `json:"confidenceLevel,omitempty" form:"confidenceLevel"` // percent, e.g. 95
	MarginOfError   float64 `json:"marginOfError,omitempty" form:"marginOfError"`

	// Ratio is the allocation n2/n1. Zero means 1:1.
	Ratio float64 `json:"ratio,omitempty" form:"ratio"`
	// Population is a finite population size. Zero means infinite.
	Population float64 `json:"population,omitempty" form:"population"`
	// SampleSize is the per-group size for power and detectable-effect queries.
	SampleSize float64 `json:"sampleSize,omitempty" form:"sampleSize"`

	Correlation float64 `json:"correlation,omitempty" form:"correlation"`
	OneSided    bool    `json:"oneSided,omitempty" form:"oneSided"`
}

// AllocationRatio returns Ratio, defaulting to 1 when unset.
func (in Input) AllocationRatio() float64 {
	if in.Ratio == 0 {
		return 1
	}
	return in.Ratio
}

// CalculatorResult is the shared output contract. Nil fields were not computed
// for this query and must not be rendered as zero.
type CalculatorResult struct {
	SampleSize     *int     `json:"sampleSize"`
	Power          *float64 `json:"power"`
	EffectSize     *float64 `json:"effectSize"`
	Interpretation string   `json:"interpretation"`
	Calculations   []string `json:"calculations"`
}

// ExtendedCalculatorResult adds per-group sizes for two-arm designs.
//
// Convention: when N1 and N2 are set, TotalN = N1 + N2 and SampleSize =
// max(N1, N2), which is the common per-arm size under 1:1 allocation. Use
// SetGroups rather than assigning the fields directly.
type ExtendedCalculatorResult struct {
	CalculatorResult
	N1     *int `json:"n1,omitempty"`
	N2     *int `json:"n2,omitempty"`
	TotalN *int `json:"totalN,omitempty"`
}

// SetSampleSize records a single-group sample size.
func (r *ExtendedCalculatorResult) SetSampleSize(n int) {
	r.SampleSize = IntPtr(n)
}

// SetGroups records per-group sizes and derives SampleSize and TotalN.
func (r *ExtendedCalculatorResult) SetGroups(n1, n2 int) {
	r.N1 = IntPtr(n1)
	r.N2 = IntPtr(n2)
	r.TotalN = IntPtr(n1 + n2)
	r.SampleSize = IntPtr(max(n1, n2))
}

// SetPower records an achieved power.
func (r *ExtendedCalculatorResult) SetPower(p float64) {
	r.Power = FloatPtr(p)
}

// SetEffectSize records a detectable or assumed effect size.
func (r *ExtendedCalculatorResult) SetEffectSize(e float64) {
	r.EffectSize = FloatPtr(e)
}

// Validate checks the result model invariants.
func (r *ExtendedCalculatorResult) Validate() error {
	if r.Interpretation == "" {
		return fmt.Errorf("%w: empty interpretation", core.ErrInvalidResult)
	}
	if len(r.Calculations) == 0 {
		return fmt.Errorf("%w: empty calculation trace", core.ErrInvalidResult)
	}
	if r.SampleSize != nil && *r.SampleSize <= 0 {
		return fmt.Errorf("%w: sample size %d is not positive", core.ErrInvalidResult, *r.SampleSize)
	}
	if r.Power != nil {
		p := *r.Power
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: power %v outside [0,1]", core.ErrInvalidResult, p)
		}
	}
	if r.EffectSize != nil {
		e := *r.EffectSize
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return fmt.Errorf("%w: effect size is not finite", core.ErrInvalidResult)
		}
	}
	if (r.N1 == nil) != (r.N2 == nil) {
		return fmt.Errorf("%w: n1 and n2 must be set together", core.ErrInvalidResult)
	}
	if r.N1 != nil {
		n1, n2 := *r.N1, *r.N2
		if r.TotalN == nil || *r.TotalN != n1+n2 {
			return fmt.Errorf("%w: totalN must equal n1 + n2", core.ErrInvalidResult)
		}
		if r.SampleSize != nil && *r.SampleSize != max(n1, n2) {
			return fmt.Errorf("%w: sampleSize must equal max(n1, n2)", core.ErrInvalidResult)
		}
	}
	return nil
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 { return &f }
