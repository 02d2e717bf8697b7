package reconcile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMonthlySummarySortsAndComputesProfit(t *testing.T) {
	rows := []Row{
		{"mes": 3, "total_recebido": "150,50", "total_entrada": 100},
		{"mes": 1, "total_recebido": 300.0, "total_entrada": 120.0, "lucro": 90.0},
		{"mes": 2, "total_recebido": 0, "total_entrada": 0},
	}

	view := BuildMonthlySummary(rows)

	require.Len(t, view.Points, 3)
	require.Equal(t, "Janeiro", view.Points[0].PeriodLabel)
	require.Equal(t, "Fevereiro", view.Points[1].PeriodLabel)
	require.Equal(t, "Março", view.Points[2].PeriodLabel)

	require.Equal(t, 90.0, view.Points[0].Profit, "explicit profit column wins")
	require.InDelta(t, 50.5, view.Points[2].Profit, 1e-9, "profit derived when the column is absent")
	require.InDelta(t, 150.5, view.Points[2].TotalReceived, 1e-9, "comma decimals accepted")
}

func TestBuildMonthlySummaryAcceptsColumnAliases(t *testing.T) {
	rows := []Row{
		{"month": "2024-02-01", "total_received": 40.0, "total_entry_cost": 10.0},
	}

	view := BuildMonthlySummary(rows)

	require.Len(t, view.Points, 1)
	require.Equal(t, 20240201, view.Points[0].PeriodKey)
	require.Equal(t, "01/02/2024", view.Points[0].PeriodLabel)
	require.Equal(t, 30.0, view.Points[0].Profit)
}

func TestBuildMonthlySummaryChart(t *testing.T) {
	view := BuildMonthlySummary([]Row{
		{"mes": 1, "total_recebido": 10.0, "total_entrada": 5.0},
		{"mes": 2, "total_recebido": 20.0, "total_entrada": 8.0},
	})

	chart := string(view.Chart)
	require.Contains(t, chart, "<svg")
	require.Equal(t, 3, strings.Count(chart, "<path"), "one line per metric")

	empty := BuildMonthlySummary(nil)
	require.Empty(t, empty.Chart)
	require.Empty(t, empty.Points)
}

func TestBuildMonthlySummaryGarbledRowDegrades(t *testing.T) {
	rows := []Row{
		{"mes": "não sei", "total_recebido": "abc"},
	}

	view := BuildMonthlySummary(rows)

	require.Len(t, view.Points, 1)
	require.Equal(t, 0, view.Points[0].PeriodKey, "fallback index keeps feed order")
	require.Equal(t, "não sei", view.Points[0].PeriodLabel)
	require.Zero(t, view.Points[0].TotalReceived)
}
