// Package calculators implements the sample-size, power and detectable-effect
// calculators, one per study-design family. Every calculator is a pure
// function of its input: identical input yields an identical result,
// including the wording and order of the calculation trace.
package calculators

import (
	"aryastastic/domain/study"
	"aryastastic/internal/errors"
	"aryastastic/ports"
)

var _ ports.CalculatorPort = (*Registry)(nil)

// Calculator computes one study design's missing quantity.
type Calculator interface {
	Design() study.Design
	Description() string
	Compute(in study.Input) (*study.ExtendedCalculatorResult, error)
}

// Registry dispatches calculations by design identifier.
type Registry struct {
	calculators map[study.Design]Calculator
	order       []study.Design
}

// NewRegistry creates a registry holding every built-in calculator.
func NewRegistry() *Registry {
	return NewRegistryWith(
		NewTwoProportions(),
		NewTwoMeans(),
		NewSingleProportion(),
		NewSingleMean(),
		NewOneSampleMean(),
		NewCorrelation(),
		NewEquivalenceMeans(),
		NewEquivalenceProportions(),
		NewNonInferiorityMeans(),
		NewNonInferiorityProportions(),
		NewTwoMeansPower(),
		NewTwoProportionsPower(),
		NewTwoMeansMDE(),
	)
}

// NewRegistryWith creates a registry from the given calculators. A later
// calculator replaces an earlier one with the same design.
func NewRegistryWith(calcs ...Calculator) *Registry {
	r := &Registry{calculators: make(map[study.Design]Calculator, len(calcs))}
	for _, c := range calcs {
		if _, exists := r.calculators[c.Design()]; !exists {
			r.order = append(r.order, c.Design())
		}
		r.calculators[c.Design()] = c
	}
	return r
}

// Get returns the calculator registered for design.
func (r *Registry) Get(design study.Design) (Calculator, bool) {
	c, ok := r.calculators[design]
	return c, ok
}

// Calculators returns the registered calculators in registration order.
func (r *Registry) Calculators() []Calculator {
	out := make([]Calculator, 0, len(r.order))
	for _, d := range r.order {
		out = append(out, r.calculators[d])
	}
	return out
}

// Compute runs the calculator for design and checks the result contract.
func (r *Registry) Compute(design study.Design, in study.Input) (*study.ExtendedCalculatorResult, error) {
	c, ok := r.Get(design)
	if !ok {
		return nil, errors.NotFound("study design " + string(design))
	}
	res, err := c.Compute(in)
	if err != nil {
		return nil, err
	}
	if err := res.Validate(); err != nil {
		return nil, errors.Wrapf(err, "%s produced an invalid result", design)
	}
	return res, nil
}

// Designs lists the registered designs with their descriptions.
func (r *Registry) Designs() []ports.DesignInfo {
	out := make([]ports.DesignInfo, 0, len(r.order))
	for _, c := range r.Calculators() {
		out = append(out, ports.DesignInfo{Design: c.Design(), Description: c.Description()})
	}
	return out
}
