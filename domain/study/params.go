package study

import (
	"fmt"
	"sort"

	"aryastastic/domain/core"
)

type paramSetter func(in *Input, v float64)

var params = map[string]paramSetter{
	"p1":              func(in *Input, v float64) { in.P1 = &v },
	"p2":              func(in *Input, v float64) { in.P2 = &v },
	"p":               func(in *Input, v float64) { in.P = &v },
	"mean1":           func(in *Input, v float64) { in.Mean1 = &v },
	"mean2":           func(in *Input, v float64) { in.Mean2 = &v },
	"sd":              func(in *Input, v float64) { in.SD = v },
	"difference":      func(in *Input, v float64) { in.Difference = &v },
	"margin":          func(in *Input, v float64) { in.Margin = v },
	"alpha":           func(in *Input, v float64) { in.Alpha = v },
	"power":           func(in *Input, v float64) { in.Power = v },
	"confidenceLevel": func(in *Input, v float64) { in.ConfidenceLevel = v },
	"marginOfError":   func(in *Input, v float64) { in.MarginOfError = v },
	"ratio":           func(in *Input, v float64) { in.Ratio = v },
	"population":      func(in *Input, v float64) { in.Population = v },
	"sampleSize":      func(in *Input, v float64) { in.SampleSize = v },
	"correlation":     func(in *Input, v float64) { in.Correlation = v },
	"oneSided":        func(in *Input, v float64) { in.OneSided = v != 0 },
}

// Set assigns value to the parameter named by its JSON name. oneSided is
// true for any non-zero value.
func (in *Input) Set(name string, value float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", core.ErrInvalidParameter, name)
	}
	set(in, value)
	return nil
}

// With returns a copy of in with one parameter replaced.
func (in Input) With(name string, value float64) (Input, error) {
	err := in.Set(name, value)
	return in, err
}

// ParamNames lists the settable parameter names in sorted order.
func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsParam reports whether name is a settable parameter.
func IsParam(name string) bool {
	_, ok := params[name]
	return ok
}
