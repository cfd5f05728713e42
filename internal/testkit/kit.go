// Package testkit provides shared fixtures for calculator, service and
// transport tests.
package testkit

import (
	"aryastastic/domain/study"
)

var ptr = study.FloatPtr

var baseInputs = map[study.Design]study.Input{
	study.DesignTwoProportions:            {P1: ptr(0.3), P2: ptr(0.5), Alpha: 0.05, Power: 0.8},
	study.DesignTwoMeans:                  {Mean1: ptr(10), Mean2: ptr(12), SD: 4, Alpha: 0.05, Power: 0.8},
	study.DesignSingleProportion:          {P: ptr(0.5), MarginOfError: 0.05, ConfidenceLevel: 95},
	study.DesignSingleMean:                {SD: 10, MarginOfError: 2, ConfidenceLevel: 95},
	study.DesignOneSampleMean:             {Mean1: ptr(105), Mean2: ptr(100), SD: 15, Alpha: 0.05, Power: 0.8},
	study.DesignCorrelation:               {Correlation: 0.3, Alpha: 0.05, Power: 0.8},
	study.DesignEquivalenceMeans:          {SD: 10, Difference: ptr(0), Margin: 5, Alpha: 0.05, Power: 0.8},
	study.DesignEquivalenceProportions:    {P1: ptr(0.7), P2: ptr(0.7), Margin: 0.1, Alpha: 0.05, Power: 0.8},
	study.DesignNonInferiorityMeans:       {SD: 10, Difference: ptr(0), Margin: 5, Alpha: 0.05, Power: 0.8},
	study.DesignNonInferiorityProportions: {P1: ptr(0.8), P2: ptr(0.8), Margin: 0.1, Alpha: 0.05, Power: 0.8},
	study.DesignTwoMeansPower:             {Mean1: ptr(10), Mean2: ptr(12), SD: 4, SampleSize: 63, Alpha: 0.05},
	study.DesignTwoProportionsPower:       {P1: ptr(0.3), P2: ptr(0.5), SampleSize: 93, Alpha: 0.05},
	study.DesignTwoMeansMDE:               {SD: 4, SampleSize: 63, Alpha: 0.05, Power: 0.8},
}

// BaseInputs returns one valid input per built-in design. The map is a
// fresh copy on every call; the pointed-to values are shared and must be
// replaced, not written through.
func BaseInputs() map[study.Design]study.Input {
	out := make(map[study.Design]study.Input, len(baseInputs))
	for d, in := range baseInputs {
		out[d] = in
	}
	return out
}

// BaseInput returns the fixture input for design.
func BaseInput(design study.Design) study.Input {
	return baseInputs[design]
}

// Golden is a pinned calculation outcome.
type Golden struct {
	Name   string
	Design study.Design
	Input  study.Input
	N1     int // per-group or single-sample size
	N2     int // zero for single-sample designs
}

// GoldenSampleSizes lists hand-checked sample sizes.
func GoldenSampleSizes() []Golden {
	return []Golden{
		{"two proportions", study.DesignTwoProportions, study.Input{P1: ptr(0.3), P2: ptr(0.5), Alpha: 0.05, Power: 0.8}, 93, 93},
		{"two proportions 2:1", study.DesignTwoProportions, study.Input{P1: ptr(0.3), P2: ptr(0.5), Alpha: 0.05, Power: 0.8, Ratio: 2}, 71, 141},
		{"two proportions one-sided", study.DesignTwoProportions, study.Input{P1: ptr(0.3), P2: ptr(0.5), Alpha: 0.05, Power: 0.8, OneSided: true}, 73, 73},
		{"two means", study.DesignTwoMeans, study.Input{Mean1: ptr(10), Mean2: ptr(12), SD: 4, Alpha: 0.05, Power: 0.8}, 63, 63},
		{"two means 2:1", study.DesignTwoMeans, study.Input{Mean1: ptr(10), Mean2: ptr(12), SD: 4, Alpha: 0.05, Power: 0.8, Ratio: 2}, 48, 95},
		{"single proportion", study.DesignSingleProportion, study.Input{P: ptr(0.5), MarginOfError: 0.05, ConfidenceLevel: 95}, 385, 0},
		{"single proportion from alpha", study.DesignSingleProportion, study.Input{P: ptr(0.5), MarginOfError: 0.05, Alpha: 0.05}, 385, 0},
		{"single proportion finite population", study.DesignSingleProportion, study.Input{P: ptr(0.5), MarginOfError: 0.05, ConfidenceLevel: 95, Population: 1000}, 278, 0},
		{"single mean", study.DesignSingleMean, study.Input{SD: 10, MarginOfError: 2, ConfidenceLevel: 95}, 97, 0},
		{"one-sample mean", study.DesignOneSampleMean, study.Input{Mean1: ptr(105), Mean2: ptr(100), SD: 15, Alpha: 0.05, Power: 0.8}, 71, 0},
		{"correlation", study.DesignCorrelation, study.Input{Correlation: 0.3, Alpha: 0.05, Power: 0.8}, 85, 0},
		{"equivalence means", study.DesignEquivalenceMeans, study.Input{SD: 10, Difference: ptr(0), Margin: 5, Alpha: 0.05, Power: 0.8}, 63, 63},
		{"equivalence means offset", study.DesignEquivalenceMeans, study.Input{SD: 10, Difference: ptr(1), Margin: 5, Alpha: 0.05, Power: 0.8}, 98, 98},
		{"equivalence proportions", study.DesignEquivalenceProportions, study.Input{P1: ptr(0.7), P2: ptr(0.7), Margin: 0.1, Alpha: 0.05, Power: 0.8}, 330, 330},
		{"non-inferiority means", study.DesignNonInferiorityMeans, study.Input{SD: 10, Difference: ptr(0), Margin: 5, Alpha: 0.05, Power: 0.8}, 50, 50},
		{"non-inferiority proportions", study.DesignNonInferiorityProportions, study.Input{P1: ptr(0.8), P2: ptr(0.8), Margin: 0.1, Alpha: 0.05, Power: 0.8}, 197, 197},
	}
}
