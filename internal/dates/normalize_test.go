package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeMonthNumbers(t *testing.T) {
	n := Normalize(3, 0)
	require.Equal(t, 3, n.SortKey)
	require.Equal(t, "Março", n.Label)
	require.Empty(t, n.Canonical)

	n = Normalize("11", 0)
	require.Equal(t, 11, n.SortKey)
	require.Equal(t, "Novembro", n.Label)

	n = Normalize(float64(7), 0)
	require.Equal(t, "Julho", n.Label)

	// 13 is not a month and not a date, so it falls back.
	n = Normalize(13, 42)
	require.Equal(t, 42, n.SortKey)
	require.Equal(t, "13", n.Label)
}

func TestNormalizeISODates(t *testing.T) {
	n := Normalize("2024-03-05", 0)
	require.Equal(t, 20240305, n.SortKey)
	require.Equal(t, "05/03/2024", n.Label)
	require.Equal(t, "2024-03-05", n.Canonical)

	withTime := Normalize("2024-03-05T14:30:00Z", 0)
	require.Equal(t, n.SortKey, withTime.SortKey)
	require.Equal(t, n.Canonical, withTime.Canonical)

	withSpace := Normalize("2024-03-05 14:30:00", 0)
	require.Equal(t, n.Canonical, withSpace.Canonical)
}

func TestNormalizeBrazilianDates(t *testing.T) {
	n := Normalize("05/03/2024", 0)
	require.Equal(t, 20240305, n.SortKey)
	require.Equal(t, "05/03/2024", n.Label)
	require.Equal(t, "2024-03-05", n.Canonical)

	// Unpadded day and month.
	n = Normalize("5/3/2024", 0)
	require.Equal(t, "2024-03-05", n.Canonical)
}

func TestNormalizeShortDates(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	n := normalizeAt("10/01", 0, now)
	require.Equal(t, 20250110, n.SortKey)
	require.Equal(t, "10/01/2025", n.Label)
	require.Empty(t, n.Canonical, "a DD/MM value must not become a query key")
}

func TestNormalizeChronologicalOrder(t *testing.T) {
	earlier := Normalize("2024-03-05", 0)
	later := Normalize("2024-04-01", 0)
	require.Less(t, earlier.SortKey, later.SortKey)

	mixed := Normalize("01/04/2024", 0)
	require.Less(t, earlier.SortKey, mixed.SortKey)
}

func TestNormalizeGenericParse(t *testing.T) {
	n := Normalize("2024-03-05T14:30:00+02:00", 0)
	require.Equal(t, "2024-03-05", n.Canonical)

	n = Normalize("March 2024", 99)
	require.Equal(t, 202403, n.SortKey)
	require.Equal(t, "Março/2024", n.Label)
	require.Empty(t, n.Canonical)
}

func TestNormalizeNeverFails(t *testing.T) {
	cases := []struct {
		raw   any
		label string
	}{
		{nil, ""},
		{"", ""},
		{"não é data", "não é data"},
		{"2024-13-45", "2024-13-45"},
		{"32/01/2024", "32/01/2024"},
		{3.7, "3.7"},
		{struct{}{}, "{}"},
	}
	for i, tc := range cases {
		n := Normalize(tc.raw, 100+i)
		require.Equal(t, 100+i, n.SortKey, "case %d keeps feed order", i)
		require.Equal(t, tc.label, n.Label, "case %d keeps the raw value visible", i)
		require.Empty(t, n.Canonical)
	}
}

func TestMonthName(t *testing.T) {
	require.Equal(t, "Janeiro", MonthName(1))
	require.Equal(t, "Dezembro", MonthName(12))
	require.Empty(t, MonthName(0))
	require.Empty(t, MonthName(13))
}
