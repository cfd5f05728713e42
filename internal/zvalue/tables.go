package zvalue

import "fmt"

// Fallback critical values returned when a requested label is not curated.
const (
	DefaultTwoTailed           = 1.96 // 95% confidence
	DefaultOneTailedPower      = 0.84 // 80% power
	DefaultOneTailedAlpha      = 1.64 // alpha = 0.05
	DefaultEquivalenceTwoSided = 1.96 // alpha = 0.05
	DefaultEquivalenceOneSided = 1.64 // alpha = 0.05
)

// FallbackAlpha is the significance level every alpha-keyed fallback belongs to.
const FallbackAlpha = 0.05

// Table is an immutable label -> z mapping with a fallback value. Tables are
// built once at package init and expose no mutation path.
type Table struct {
	name          string
	labels        []string
	entries       map[string]float64
	fallback      float64
	fallbackLabel string
}

type entry struct {
	label string
	z     float64
}

func newTable(name, fallbackLabel string, fallback float64, rows ...entry) *Table {
	t := &Table{
		name:          name,
		labels:        make([]string, 0, len(rows)),
		entries:       make(map[string]float64, len(rows)),
		fallback:      fallback,
		fallbackLabel: fallbackLabel,
	}
	for _, r := range rows {
		if _, dup := t.entries[r.label]; dup {
			panic(fmt.Sprintf("zvalue: duplicate label %q in table %s", r.label, name))
		}
		t.labels = append(t.labels, r.label)
		t.entries[r.label] = r.z
	}
	if z, ok := t.entries[fallbackLabel]; !ok || z != fallback {
		panic(fmt.Sprintf("zvalue: fallback %q of table %s is not a curated entry", fallbackLabel, name))
	}
	return t
}

// Name identifies the table's statistical convention.
func (t *Table) Name() string { return t.name }

// Fallback is the value Resolve returns on a miss.
func (t *Table) Fallback() float64 { return t.fallback }

// FallbackLabel is the curated label whose value Fallback returns.
func (t *Table) FallbackLabel() string { return t.fallbackLabel }

// Lookup returns the curated value for label and whether it exists.
func (t *Table) Lookup(label string) (float64, bool) {
	z, ok := t.entries[label]
	return z, ok
}

// Resolve returns the curated value for label, or the fallback.
func (t *Table) Resolve(label string) float64 {
	if z, ok := t.entries[label]; ok {
		return z
	}
	return t.fallback
}

// Labels returns the curated labels in ascending order.
func (t *Table) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

var (
	// ConfidenceTable holds two-tailed z values keyed by confidence level.
	ConfidenceTable = newTable("two-tailed confidence", "95%", DefaultTwoTailed,
		entry{"80%", 1.282},
		entry{"85%", 1.44},
		entry{"90%", 1.645},
		entry{"95%", 1.96},
		entry{"97%", 2.17},
		entry{"99%", 2.576},
		entry{"99.5%", 2.807},
		entry{"99.9%", 3.291},
	)

	// PowerTable holds one-tailed z values keyed by power.
	PowerTable = newTable("one-tailed power", "80%", DefaultOneTailedPower,
		entry{"80%", 0.84},
		entry{"85%", 1.04},
		entry{"90%", 1.28},
		entry{"95%", 1.64},
		entry{"99%", 2.33},
	)

	// AlphaTable holds one-tailed z values keyed by alpha.
	AlphaTable = newTable("one-tailed alpha", "5%", DefaultOneTailedAlpha,
		entry{"1%", 2.33},
		entry{"2.5%", 1.96},
		entry{"5%", 1.64},
		entry{"10%", 1.28},
	)

	// EquivalenceTwoSidedTable is keyed by EquivalenceAlpha labels.
	EquivalenceTwoSidedTable = newTable("equivalence two-sided", "0.05", DefaultEquivalenceTwoSided,
		entry{Alpha01.Label(), 2.57},
		entry{Alpha05.Label(), 1.96},
		entry{Alpha10.Label(), 1.64},
	)

	// EquivalenceOneSidedTable is keyed by EquivalenceAlpha labels.
	EquivalenceOneSidedTable = newTable("equivalence one-sided", "0.05", DefaultEquivalenceOneSided,
		entry{Alpha01.Label(), 2.33},
		entry{Alpha05.Label(), 1.64},
		entry{Alpha10.Label(), 1.28},
	)
)

// EquivalenceAlpha enumerates the significance levels curated for
// equivalence and non-inferiority designs.
type EquivalenceAlpha int

const (
	Alpha01 EquivalenceAlpha = iota + 1
	Alpha05
	Alpha10
)

var equivalenceAlphas = []EquivalenceAlpha{Alpha01, Alpha05, Alpha10}

// Value returns the alpha fraction.
func (a EquivalenceAlpha) Value() float64 {
	switch a {
	case Alpha01:
		return 0.01
	case Alpha05:
		return 0.05
	case Alpha10:
		return 0.10
	default:
		return 0
	}
}

// Label is the table key, always two decimal digits.
func (a EquivalenceAlpha) Label() string {
	switch a {
	case Alpha01:
		return "0.01"
	case Alpha05:
		return "0.05"
	case Alpha10:
		return "0.10"
	default:
		return ""
	}
}

// ParseEquivalenceAlpha maps a raw alpha fraction onto the enumeration.
// Values within 1e-9 of a curated level match it.
func ParseEquivalenceAlpha(alpha float64) (EquivalenceAlpha, bool) {
	for _, a := range equivalenceAlphas {
		if d := alpha - a.Value(); d < 1e-9 && d > -1e-9 {
			return a, true
		}
	}
	return 0, false
}
