// Package zvalue maps confidence, power and alpha levels onto standard normal
// critical values using curated lookup tables.
//
// Every lookup is total: a level missing from its table resolves to the
// table's documented fallback and a data-quality note is logged. Tables are
// read-only, so resolvers are safe for concurrent use.
package zvalue

import (
	"math"
	"strconv"

	"go.uber.org/zap"

	"aryastastic/internal"
)

// Resolver performs table lookups and reports misses to its logger.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a resolver that logs fallback notes to logger.
// A nil logger discards notes.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger.Named("zvalue")}
}

var defaultResolver = NewResolver(internal.DefaultLogger.Zap())

// Critical is a resolved critical value together with where it came from.
type Critical struct {
	Z float64
	// Requested is the label that was asked for.
	Requested string
	// Used is the label Z belongs to. It differs from Requested on a fallback.
	Used string
	// Curated is false when Requested was missing and the fallback was used.
	Curated bool
}

// TwoTailed returns z for a two-tailed confidence level given in percent (95 for 95%).
func TwoTailed(confidenceLevelPercent float64) float64 {
	return defaultResolver.TwoTailed(confidenceLevelPercent)
}

// OneTailedPower returns z for a power given as a fraction (0.8 for 80%).
func OneTailedPower(power float64) float64 {
	return defaultResolver.OneTailedPower(power)
}

// OneTailedAlpha returns z for a one-sided alpha given as a fraction.
func OneTailedAlpha(alpha float64) float64 {
	return defaultResolver.OneTailedAlpha(alpha)
}

// EquivalenceTwoSided returns the two-sided equivalence z for alpha.
func EquivalenceTwoSided(alpha float64) float64 {
	return defaultResolver.EquivalenceTwoSided(alpha)
}

// EquivalenceOneSided returns the one-sided equivalence z for alpha.
func EquivalenceOneSided(alpha float64) float64 {
	return defaultResolver.EquivalenceOneSided(alpha)
}

// LookupTwoTailed is TwoTailed with provenance.
func LookupTwoTailed(confidenceLevelPercent float64) Critical {
	return defaultResolver.LookupTwoTailed(confidenceLevelPercent)
}

// LookupOneTailedPower is OneTailedPower with provenance.
func LookupOneTailedPower(power float64) Critical {
	return defaultResolver.LookupOneTailedPower(power)
}

// LookupOneTailedAlpha is OneTailedAlpha with provenance.
func LookupOneTailedAlpha(alpha float64) Critical {
	return defaultResolver.LookupOneTailedAlpha(alpha)
}

// LookupEquivalenceTwoSided is EquivalenceTwoSided with provenance.
func LookupEquivalenceTwoSided(alpha float64) Critical {
	return defaultResolver.LookupEquivalenceTwoSided(alpha)
}

// LookupEquivalenceOneSided is EquivalenceOneSided with provenance.
func LookupEquivalenceOneSided(alpha float64) Critical {
	return defaultResolver.LookupEquivalenceOneSided(alpha)
}

// TwoTailed returns the two-tailed z for a confidence level in percent.
// Levels outside ConfidenceTable resolve to DefaultTwoTailed.
func (r *Resolver) TwoTailed(confidenceLevelPercent float64) float64 {
	return r.LookupTwoTailed(confidenceLevelPercent).Z
}

// OneTailedPower returns the one-tailed z for a power fraction.
// Powers outside PowerTable resolve to DefaultOneTailedPower.
func (r *Resolver) OneTailedPower(power float64) float64 {
	return r.LookupOneTailedPower(power).Z
}

// OneTailedAlpha returns the one-tailed z for a significance level.
// Levels outside AlphaTable resolve to DefaultOneTailedAlpha.
func (r *Resolver) OneTailedAlpha(alpha float64) float64 {
	return r.LookupOneTailedAlpha(alpha).Z
}

// EquivalenceTwoSided returns z for an equivalence design at alpha. Only the
// EquivalenceAlpha levels are curated; anything else resolves to
// DefaultEquivalenceTwoSided.
func (r *Resolver) EquivalenceTwoSided(alpha float64) float64 {
	return r.LookupEquivalenceTwoSided(alpha).Z
}

// EquivalenceOneSided returns z for a non-inferiority design at alpha. Only
// the EquivalenceAlpha levels are curated; anything else resolves to
// DefaultEquivalenceOneSided.
func (r *Resolver) EquivalenceOneSided(alpha float64) float64 {
	return r.LookupEquivalenceOneSided(alpha).Z
}

// LookupTwoTailed resolves a confidence level and reports whether it was curated.
func (r *Resolver) LookupTwoTailed(confidenceLevelPercent float64) Critical {
	return r.resolve(ConfidenceTable, PercentLabel(confidenceLevelPercent), confidenceLevelPercent, func() float64 {
		return Quantile(1 - (1-confidenceLevelPercent/100)/2)
	})
}

// LookupOneTailedPower resolves a power and reports whether it was curated.
func (r *Resolver) LookupOneTailedPower(power float64) Critical {
	return r.resolve(PowerTable, PercentLabel(power*100), power, func() float64 {
		return Quantile(power)
	})
}

// LookupOneTailedAlpha resolves a one-sided alpha and reports whether it was curated.
func (r *Resolver) LookupOneTailedAlpha(alpha float64) Critical {
	return r.resolve(AlphaTable, PercentLabel(alpha*100), alpha, func() float64 {
		return Quantile(1 - alpha)
	})
}

// LookupEquivalenceTwoSided resolves an equivalence alpha and reports whether it was curated.
func (r *Resolver) LookupEquivalenceTwoSided(alpha float64) Critical {
	return r.resolve(EquivalenceTwoSidedTable, equivalenceLabel(alpha), alpha, func() float64 {
		return Quantile(1 - alpha/2)
	})
}

// LookupEquivalenceOneSided resolves a non-inferiority alpha and reports whether it was curated.
func (r *Resolver) LookupEquivalenceOneSided(alpha float64) Critical {
	return r.resolve(EquivalenceOneSidedTable, equivalenceLabel(alpha), alpha, func() float64 {
		return Quantile(1 - alpha)
	})
}

func (r *Resolver) resolve(t *Table, label string, requested float64, exact func() float64) Critical {
	if z, ok := t.Lookup(label); ok {
		return Critical{Z: z, Requested: label, Used: label, Curated: true}
	}
	r.logger.Warn("critical value not curated, using fallback",
		zap.String("table", t.Name()),
		zap.String("label", label),
		zap.Float64("requested", requested),
		zap.Float64("fallback", t.Fallback()),
		zap.Float64("exact", exact()),
	)
	return Critical{Z: t.Fallback(), Requested: label, Used: t.FallbackLabel()}
}

// PercentLabel renders a percentage as a table label. The value is rounded to
// four decimal places and printed in its shortest form, so 0.95*100 and
// (1-0.05)*100 both render as "95%".
func PercentLabel(percent float64) string {
	rounded := math.Round(percent*1e4) / 1e4
	return strconv.FormatFloat(rounded, 'f', -1, 64) + "%"
}

func equivalenceLabel(alpha float64) string {
	if a, ok := ParseEquivalenceAlpha(alpha); ok {
		return a.Label()
	}
	return strconv.FormatFloat(alpha, 'f', -1, 64)
}
