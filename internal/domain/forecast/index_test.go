package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

// TestBuild_DateInference verifies the positional walk: AM after PM or
// Night advances the inferred date.
func TestBuild_DateInference(t *testing.T) {
	start := day(t, "2025-03-10")
	idx := Build([]Row{
		{PeriodLabel: "AM", Energy: "120 kJ"},
		{PeriodLabel: "PM", Energy: "230 kJ"},
		{PeriodLabel: "Night", Energy: "90 kJ"},
		{PeriodLabel: "AM", Energy: "310 kJ"},
		{PeriodLabel: "PM", Energy: "75 kJ"},
	}, start)

	cases := []struct {
		date   string
		period Period
		want   int64
	}{
		{"2025-03-10", PeriodAM, 120},
		{"2025-03-10", PeriodPM, 230},
		{"2025-03-10", PeriodNight, 90},
		{"2025-03-11", PeriodAM, 310},
		{"2025-03-11", PeriodPM, 75},
	}
	for _, tc := range cases {
		energy, ok := idx.Lookup(tc.date, tc.period)
		require.True(t, ok, "expected an entry for %s %s", tc.date, tc.period)
		assert.Equal(t, tc.want, energy)
	}
}

// TestBuild_StartsAfterMorning covers a sequence beginning mid-day: no
// day advance before the first AM-after-PM transition.
func TestBuild_StartsAfterMorning(t *testing.T) {
	idx := Build([]Row{
		{PeriodLabel: "PM", Energy: "40"},
		{PeriodLabel: "Night", Energy: "35"},
		{PeriodLabel: "AM", Energy: "60"},
	}, day(t, "2025-03-10"))

	energy, ok := idx.Lookup("2025-03-10", PeriodPM)
	require.True(t, ok)
	assert.Equal(t, int64(40), energy)

	energy, ok = idx.Lookup("2025-03-11", PeriodAM)
	require.True(t, ok)
	assert.Equal(t, int64(60), energy)
}

func TestLookup_Missing(t *testing.T) {
	idx := Build([]Row{{PeriodLabel: "AM", Energy: "14"}}, day(t, "2025-03-10"))

	_, ok := idx.Lookup("2025-03-11", PeriodAM)
	assert.False(t, ok, "unknown date must not resolve")
	_, ok = idx.Lookup("2025-03-10", PeriodPM)
	assert.False(t, ok, "unknown period must not resolve")
}

func TestLookup_ExtractsFirstDigitRun(t *testing.T) {
	idx := Build([]Row{{PeriodLabel: "AM", Energy: " 14.5 kJ (rising 2m) "}}, day(t, "2025-03-10"))

	energy, ok := idx.Lookup("2025-03-10", PeriodAM)
	require.True(t, ok)
	assert.Equal(t, int64(14), energy, "only the first run of digits counts")
}

func TestLookup_NoDigits(t *testing.T) {
	idx := Build([]Row{{PeriodLabel: "AM", Energy: "n/a"}}, day(t, "2025-03-10"))

	_, ok := idx.Lookup("2025-03-10", PeriodAM)
	assert.False(t, ok)
}

func TestBuild_KeepsFirstObservation(t *testing.T) {
	idx := Build([]Row{
		{PeriodLabel: "AM", Energy: "10"},
		{PeriodLabel: "AM", Energy: "99"},
	}, day(t, "2025-03-10"))

	energy, ok := idx.Lookup("2025-03-10", PeriodAM)
	require.True(t, ok)
	assert.Equal(t, int64(10), energy)
}

func TestPeriodForHour(t *testing.T) {
	assert.Equal(t, PeriodAM, PeriodForHour(0))
	assert.Equal(t, PeriodAM, PeriodForHour(11))
	assert.Equal(t, PeriodPM, PeriodForHour(12))
	assert.Equal(t, PeriodPM, PeriodForHour(19))
}

func TestLookup_NilIndex(t *testing.T) {
	var idx *Index
	_, ok := idx.Lookup("2025-03-10", PeriodAM)
	assert.False(t, ok)
}
