package zvalue

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTwoTailed_CuratedLevels(t *testing.T) {
	expected := map[float64]float64{
		80:   1.282,
		85:   1.44,
		90:   1.645,
		95:   1.96,
		97:   2.17,
		99:   2.576,
		99.5: 2.807,
		99.9: 3.291,
	}
	for level, z := range expected {
		assert.Equal(t, z, TwoTailed(level), "confidence %v%%", level)
	}
}

func TestTwoTailed_FallbackOnUnlistedLevel(t *testing.T) {
	assert.Equal(t, DefaultTwoTailed, TwoTailed(93))
	assert.Equal(t, 1.96, TwoTailed(93))
	assert.NotPanics(t, func() {
		assert.Equal(t, DefaultTwoTailed, TwoTailed(-5))
		assert.Equal(t, DefaultTwoTailed, TwoTailed(150))
		assert.Equal(t, DefaultTwoTailed, TwoTailed(math.NaN()))
	})
}

func TestTwoTailed_FromAlphaComplement(t *testing.T) {
	// Callers derive confidence as (1 - alpha) * 100; float noise must not miss the label.
	assert.Equal(t, 1.96, TwoTailed((1-0.05)*100))
	assert.Equal(t, 2.576, TwoTailed((1-0.01)*100))
	assert.Equal(t, 1.645, TwoTailed((1-0.1)*100))
	assert.Equal(t, 3.291, TwoTailed((1-0.001)*100))
	assert.Equal(t, 2.807, TwoTailed((1-0.005)*100))
}

func TestOneTailedPower(t *testing.T) {
	assert.Equal(t, 0.84, OneTailedPower(0.8))
	assert.Equal(t, 1.04, OneTailedPower(0.85))
	assert.Equal(t, 1.28, OneTailedPower(0.9))
	assert.Equal(t, 1.64, OneTailedPower(0.95))
	assert.Equal(t, 2.33, OneTailedPower(0.99))
	assert.Equal(t, DefaultOneTailedPower, OneTailedPower(0.97))
}

func TestOneTailedAlpha(t *testing.T) {
	assert.Equal(t, 2.33, OneTailedAlpha(0.01))
	assert.Equal(t, 1.96, OneTailedAlpha(0.025))
	assert.Equal(t, 1.64, OneTailedAlpha(0.05))
	assert.Equal(t, 1.28, OneTailedAlpha(0.1))
	assert.Equal(t, DefaultOneTailedAlpha, OneTailedAlpha(0.2))
}

func TestEquivalence_CuratedLevels(t *testing.T) {
	assert.Equal(t, 2.57, EquivalenceTwoSided(0.01))
	assert.Equal(t, 1.96, EquivalenceTwoSided(0.05))
	assert.Equal(t, 2.33, EquivalenceOneSided(0.01))
	assert.Equal(t, 1.64, EquivalenceOneSided(0.05))
}

// Alpha 0.10 must hit its curated entry. A two-decimal key ("0.10") compared
// against a one-decimal literal ("0.1") would silently fall through to the
// 0.05 fallback instead.
func TestEquivalence_TenPercentAlphaHitsCuratedValue(t *testing.T) {
	assert.Equal(t, 1.64, EquivalenceTwoSided(0.1))
	assert.Equal(t, 1.28, EquivalenceOneSided(0.1))
	assert.NotEqual(t, DefaultEquivalenceTwoSided, EquivalenceTwoSided(0.1))
	assert.NotEqual(t, DefaultEquivalenceOneSided, EquivalenceOneSided(0.1))

	// Same value reached through arithmetic.
	assert.Equal(t, 1.64, EquivalenceTwoSided(1-0.9))

	assert.Equal(t, "0.10", Alpha10.Label())
	_, ok := EquivalenceTwoSidedTable.Lookup("0.1")
	assert.False(t, ok, "table keys are two-decimal labels only")
}

func TestEquivalence_FallbackOnUnlistedAlpha(t *testing.T) {
	assert.Equal(t, DefaultEquivalenceTwoSided, EquivalenceTwoSided(0.025))
	assert.Equal(t, DefaultEquivalenceOneSided, EquivalenceOneSided(0.025))
	// Near a curated level but not on it: no rounding onto the label.
	assert.Equal(t, DefaultEquivalenceTwoSided, EquivalenceTwoSided(0.012))
}

func TestParseEquivalenceAlpha(t *testing.T) {
	a, ok := ParseEquivalenceAlpha(0.05)
	require.True(t, ok)
	assert.Equal(t, Alpha05, a)
	assert.Equal(t, 0.05, a.Value())

	_, ok = ParseEquivalenceAlpha(0.2)
	assert.False(t, ok)
}

func TestPercentLabel(t *testing.T) {
	assert.Equal(t, "95%", PercentLabel(95))
	assert.Equal(t, "99.5%", PercentLabel(99.5))
	assert.Equal(t, "2.5%", PercentLabel(0.025*100))
	assert.Equal(t, "85%", PercentLabel(0.85*100))
}

func TestTables_AreReadOnlyCopies(t *testing.T) {
	labels := ConfidenceTable.Labels()
	labels[0] = "mutated"
	assert.Equal(t, "80%", ConfidenceTable.Labels()[0])
}

// Curated values are rounded normal quantiles. Keep them within 0.01 of the
// exact value so a typo in a table entry is caught.
func TestTables_AgreeWithExactQuantiles(t *testing.T) {
	for _, label := range ConfidenceTable.Labels() {
		level := mustPercent(t, label)
		z, _ := ConfidenceTable.Lookup(label)
		assert.InDelta(t, Quantile(1-(1-level)/2), z, 0.01, "confidence %s", label)
	}
	for _, label := range PowerTable.Labels() {
		z, _ := PowerTable.Lookup(label)
		assert.InDelta(t, Quantile(mustPercent(t, label)), z, 0.01, "power %s", label)
	}
	for _, label := range AlphaTable.Labels() {
		z, _ := AlphaTable.Lookup(label)
		assert.InDelta(t, Quantile(1-mustPercent(t, label)), z, 0.01, "alpha %s", label)
	}
	for _, a := range equivalenceAlphas {
		two, _ := EquivalenceTwoSidedTable.Lookup(a.Label())
		one, _ := EquivalenceOneSidedTable.Lookup(a.Label())
		assert.InDelta(t, Quantile(1-a.Value()/2), two, 0.01, "two-sided %s", a.Label())
		assert.InDelta(t, Quantile(1-a.Value()), one, 0.01, "one-sided %s", a.Label())
	}
}

func TestResolver_LogsFallbackNote(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewResolver(zap.New(core))

	assert.Equal(t, 1.96, r.TwoTailed(95))
	assert.Equal(t, 0, logs.Len(), "curated hits are silent")

	assert.Equal(t, DefaultTwoTailed, r.TwoTailed(93))
	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "two-tailed confidence", fields["table"])
	assert.Equal(t, "93%", fields["label"])
	assert.Equal(t, DefaultTwoTailed, fields["fallback"])
	assert.InDelta(t, 1.8119, fields["exact"], 0.001)
}

func TestResolver_LookupReportsFallback(t *testing.T) {
	r := NewResolver(nil)

	hit := r.LookupOneTailedPower(0.95)
	assert.Equal(t, Critical{Z: 1.64, Requested: "95%", Used: "95%", Curated: true}, hit)

	miss := r.LookupOneTailedPower(0.97)
	assert.Equal(t, Critical{Z: DefaultOneTailedPower, Requested: "97%", Used: "80%"}, miss)

	assert.Equal(t, Critical{Z: DefaultTwoTailed, Requested: "93%", Used: "95%"}, r.LookupTwoTailed(93))
	assert.Equal(t, Critical{Z: DefaultOneTailedAlpha, Requested: "20%", Used: "5%"}, r.LookupOneTailedAlpha(0.2))
	assert.Equal(t, Critical{Z: DefaultEquivalenceOneSided, Requested: "0.2", Used: "0.05"}, r.LookupEquivalenceOneSided(0.2))
	assert.True(t, r.LookupEquivalenceTwoSided(0.1).Curated)
}

func TestTables_FallbackIsCurated(t *testing.T) {
	for _, table := range []*Table{ConfidenceTable, PowerTable, AlphaTable, EquivalenceTwoSidedTable, EquivalenceOneSidedTable} {
		z, ok := table.Lookup(table.FallbackLabel())
		require.True(t, ok, table.Name())
		assert.Equal(t, table.Fallback(), z, table.Name())
	}
}

func TestResolver_ConcurrentUse(t *testing.T) {
	r := NewResolver(nil)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, 2.576, r.TwoTailed(99))
				assert.Equal(t, 1.28, r.EquivalenceOneSided(0.1))
			}
		}()
	}
	wg.Wait()
}

func TestQuantile_GuardsDomain(t *testing.T) {
	assert.True(t, math.IsNaN(Quantile(0)))
	assert.True(t, math.IsNaN(Quantile(1.5)))
	assert.InDelta(t, 1.959964, Quantile(0.975), 1e-6)
	assert.InDelta(t, 0.975, CDF(1.959964), 1e-6)
}

func mustPercent(t *testing.T, label string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(strings.TrimSuffix(label, "%"), 64)
	require.NoError(t, err)
	return v / 100
}
