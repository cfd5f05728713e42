package calculators

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"

	"aryastastic/domain/study"
	"aryastastic/internal/errors"
	"aryastastic/internal/zvalue"
)

// maxSampleSize caps results so an almost-zero effect cannot overflow int.
const maxSampleSize = 1e9

var validate = validator.New()

// check validates one numeric field against a validator tag and converts a
// failure into an InvalidParameter error naming the field.
func check(field string, value float64, tag, message string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.InvalidParameter(field, "must be a finite number")
	}
	if err := validate.Var(value, tag); err != nil {
		return errors.InvalidParameterf(field, "%s, got %s", message, num(value))
	}
	return nil
}

// requireValue reads a field that has no default. Zero is a legal value for
// these fields, so only a nil pointer counts as missing.
func requireValue(field string, v *float64) (float64, error) {
	if v == nil {
		return 0, errors.InvalidParameter(field, "is required")
	}
	return *v, nil
}

// proportionPair reads the required p1 and p2, each within [0, 1].
func proportionPair(in study.Input) (float64, float64, error) {
	p1, err := requireValue("p1", in.P1)
	if err != nil {
		return 0, 0, err
	}
	p2, err := requireValue("p2", in.P2)
	if err != nil {
		return 0, 0, err
	}
	if err := requireProportion("p1", p1); err != nil {
		return 0, 0, err
	}
	if err := requireProportion("p2", p2); err != nil {
		return 0, 0, err
	}
	return p1, p2, nil
}

// meanPair reads the required mean1 and mean2.
func meanPair(in study.Input) (float64, float64, error) {
	m1, err := requireValue("mean1", in.Mean1)
	if err != nil {
		return 0, 0, err
	}
	m2, err := requireValue("mean2", in.Mean2)
	if err != nil {
		return 0, 0, err
	}
	if err := requireFinite("mean1", m1); err != nil {
		return 0, 0, err
	}
	if err := requireFinite("mean2", m2); err != nil {
		return 0, 0, err
	}
	return m1, m2, nil
}

func requireProportion(field string, v float64) error {
	return check(field, v, "gte=0,lte=1", "must be between 0 and 1")
}

func requireOpenProportion(field string, v float64) error {
	return check(field, v, "gt=0,lt=1", "must be strictly between 0 and 1")
}

func requireAlpha(v float64) error {
	return check("alpha", v, "gt=0,lt=1", "must be strictly between 0 and 1")
}

func requirePower(v float64) error {
	return check("power", v, "gt=0,lt=1", "must be strictly between 0 and 1")
}

func requirePositive(field string, v float64) error {
	return check(field, v, "gt=0", "must be greater than 0")
}

func requireFinite(field string, v float64) error {
	return check(field, v, "", "")
}

// requireRatio validates the allocation ratio; zero means 1:1.
func requireRatio(v float64) error {
	return check("ratio", v, "gte=0", "must be positive (0 means 1:1)")
}

// requireWholeCount validates a per-group size used as an input.
func requireWholeCount(field string, v float64) error {
	if err := check(field, v, "gte=2", "must be at least 2"); err != nil {
		return err
	}
	if v != math.Trunc(v) {
		return errors.InvalidParameterf(field, "must be a whole number, got %s", num(v))
	}
	if v > maxSampleSize {
		return errors.InvalidParameterf(field, "must not exceed %s", num(maxSampleSize))
	}
	return nil
}

// requirePopulation validates an optional finite population size.
func requirePopulation(v float64) error {
	if v == 0 {
		return nil
	}
	if err := check("population", v, "gte=1", "must be at least 1 (0 means infinite)"); err != nil {
		return err
	}
	if v != math.Trunc(v) {
		return errors.InvalidParameterf("population", "must be a whole number, got %s", num(v))
	}
	return nil
}

// roundUp converts a raw sample size into a whole count, always rounding up.
// Float noise within 1e-9 of an integer is snapped first so 63.0000000001
// does not become 64.
func roundUp(field string, raw float64) (int, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw <= 0 {
		return 0, errors.InvalidParameter(field, "parameters yield an undefined sample size")
	}
	if raw > maxSampleSize {
		return 0, errors.InvalidParameterf(field, "effect is too small: required sample size exceeds %s", num(maxSampleSize))
	}
	n := int(math.Ceil(raw - 1e-9))
	if n < 1 {
		n = 1
	}
	return n, nil
}

// critical is a resolved z value and the level it belongs to, worded for
// interpretations. On a table miss the level names the default that was used.
type critical struct {
	z     float64
	level string
}

// alphaCritical resolves z for alpha, two-sided through the confidence table
// and one-sided through the alpha table.
func alphaCritical(tr *study.Trace, alpha float64, oneSided bool) critical {
	if oneSided {
		c := zvalue.LookupOneTailedAlpha(alpha)
		if c.Curated {
			tr.Stepf("Zα (one-sided, α = %s) = %s", num(alpha), z3(c.Z))
		} else {
			tr.Stepf("Zα (one-sided, α = %s not curated, using the α = %s default) = %s", num(alpha), num(zvalue.FallbackAlpha), z3(c.Z))
		}
		return critical{z: c.Z, level: alphaLevel(alpha, "one-sided", c.Curated)}
	}
	c := zvalue.LookupTwoTailed((1 - alpha) * 100)
	if c.Curated {
		tr.Stepf("Zα/2 (two-sided, α = %s, %s confidence) = %s", num(alpha), c.Requested, z3(c.Z))
	} else {
		tr.Stepf("Zα/2 (two-sided, α = %s, %s confidence not curated, using the %s default) = %s", num(alpha), c.Requested, c.Used, z3(c.Z))
	}
	return critical{z: c.Z, level: alphaLevel(alpha, "two-sided", c.Curated)}
}

// alphaLevel renders "α = 0.05 (two-sided)".
func alphaLevel(alpha float64, side string, curated bool) string {
	if curated {
		return fmt.Sprintf("α = %s (%s)", num(alpha), side)
	}
	return fmt.Sprintf("α = %s (%s; α = %s is not curated)", num(zvalue.FallbackAlpha), side, num(alpha))
}

func powerCritical(tr *study.Trace, power float64) critical {
	c := zvalue.LookupOneTailedPower(power)
	if c.Curated {
		tr.Stepf("Zβ (%s power) = %s", c.Requested, z3(c.Z))
		return critical{z: c.Z, level: c.Requested + " power"}
	}
	tr.Stepf("Zβ (%s power not curated, using the %s default) = %s", c.Requested, c.Used, z3(c.Z))
	return critical{z: c.Z, level: fmt.Sprintf("%s power (%s is not curated)", c.Used, c.Requested)}
}

func confidenceCritical(tr *study.Trace, level float64) critical {
	c := zvalue.LookupTwoTailed(level)
	if c.Curated {
		tr.Stepf("Z (%s confidence) = %s", c.Requested, z3(c.Z))
		return critical{z: c.Z, level: c.Requested + " confidence"}
	}
	tr.Stepf("Z (%s confidence not curated, using the %s default) = %s", c.Requested, c.Used, z3(c.Z))
	return critical{z: c.Z, level: fmt.Sprintf("%s confidence (%s is not curated)", c.Used, c.Requested)}
}

// confidenceLevel returns the confidence level in percent, derived from alpha
// when only alpha was supplied.
func confidenceLevel(in study.Input) (float64, error) {
	if in.ConfidenceLevel != 0 {
		if err := check("confidenceLevel", in.ConfidenceLevel, "gt=0,lt=100", "must be a percentage strictly between 0 and 100"); err != nil {
			return 0, err
		}
		return in.ConfidenceLevel, nil
	}
	if in.Alpha != 0 {
		if err := requireAlpha(in.Alpha); err != nil {
			return 0, err
		}
		return (1 - in.Alpha) * 100, nil
	}
	return 0, errors.InvalidParameter("confidenceLevel", "is required (or supply alpha)")
}

// num renders an input value in its shortest exact form.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// z3 renders a critical value.
func z3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// f4 renders an intermediate quantity.
func f4(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// pct renders a probability as a percentage with one decimal.
func pct(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 1, 64) + "%"
}

// groupSizes rounds n1 and n2 = ratio*n1 up independently.
func groupSizes(raw, ratio float64) (int, int, error) {
	n1, err := roundUp("sampleSize", raw)
	if err != nil {
		return 0, 0, err
	}
	n2, err := roundUp("sampleSize", raw*ratio)
	if err != nil {
		return 0, 0, err
	}
	return n1, n2, nil
}

// groupPhrase describes per-group sizes for interpretations.
func groupPhrase(n1, n2 int) string {
	if n1 == n2 {
		return strconv.Itoa(n1) + " participants per group (" + strconv.Itoa(n1+n2) + " in total)"
	}
	return strconv.Itoa(n1) + " participants in group 1 and " + strconv.Itoa(n2) + " in group 2 (" + strconv.Itoa(n1+n2) + " in total)"
}

func newResult(tr *study.Trace, interpretation string) *study.ExtendedCalculatorResult {
	return &study.ExtendedCalculatorResult{
		CalculatorResult: study.CalculatorResult{
			Interpretation: interpretation,
			Calculations:   tr.Lines(),
		},
	}
}
