package study

import (
	"aryastastic/domain/core"
)

// Metric names the quantity a result reports.
type Metric string

const (
	MetricSampleSize Metric = "sampleSize"
	MetricPower      Metric = "power"
	MetricEffectSize Metric = "effectSize"
)

// PrimaryMetric returns the quantity the calculator solved for and its value.
// Power takes precedence over sample size, which takes precedence over the
// effect size, because several designs report an assumed effect alongside the
// solved sample size.
func (r *ExtendedCalculatorResult) PrimaryMetric() (Metric, float64, bool) {
	switch {
	case r.Power != nil:
		return MetricPower, *r.Power, true
	case r.SampleSize != nil:
		return MetricSampleSize, float64(*r.SampleSize), true
	case r.EffectSize != nil:
		return MetricEffectSize, *r.EffectSize, true
	}
	return "", 0, false
}

// SweepPoint is one evaluated value of a sweep. Exactly one of Result and
// Error is set.
type SweepPoint struct {
	Value  float64                   `json:"value"`
	Result *ExtendedCalculatorResult `json:"result,omitempty"`
	Code   string                    `json:"code,omitempty"`
	Error  string                    `json:"error,omitempty"`
}

// OK reports whether the point produced a result.
func (p SweepPoint) OK() bool { return p.Result != nil }

// SweepSummary describes the spread of the primary metric over the
// successful points of a sweep.
type SweepSummary struct {
	Metric Metric  `json:"metric"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
}

// Sweep is a design evaluated over a list of values for one parameter with
// every other parameter held fixed. Points keep the order of the requested
// values.
type Sweep struct {
	ID        core.SweepID   `json:"id"`
	Design    Design         `json:"design"`
	Parameter string         `json:"parameter"`
	Base      Input          `json:"base"`
	Points    []SweepPoint   `json:"points"`
	Summary   *SweepSummary  `json:"summary,omitempty"`
	CreatedAt core.Timestamp `json:"createdAt"`
}

// Failed counts the points that returned an error.
func (s *Sweep) Failed() int {
	n := 0
	for _, p := range s.Points {
		if !p.OK() {
			n++
		}
	}
	return n
}
