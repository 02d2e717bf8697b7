package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildCalendarResolvesDateByPriority(t *testing.T) {
	rows := []Row{
		{
			"data":             "01/01/2020",
			"data_recebimento": "2024-05-10",
			"total_previsto":   150.0,
			"total_recebido":   150.0,
		},
	}

	view := BuildCalendar(rows)

	require.Len(t, view.Rows, 1)
	require.Equal(t, "2024-05-10", view.Rows[0].DateKey, "data_recebimento outranks data")
	require.Equal(t, "10/05/2024", view.Rows[0].DateLabel)
	require.Equal(t, 20240510, view.Rows[0].SortKey)
}

func TestBuildCalendarHeuristicSkipsAmountColumns(t *testing.T) {
	rows := []Row{
		{
			"d_venc":         "10/03/2024",
			"total_previsto": 100.0,
			"total_recebido": 40.0,
		},
	}

	view := BuildCalendar(rows)

	require.Len(t, view.Rows, 1)
	require.Equal(t, "2024-03-10", view.Rows[0].DateKey)
	require.Equal(t, 100.0, view.Rows[0].TotalForecast)
	require.Equal(t, 40.0, view.Rows[0].TotalReceived)
}

func TestBuildCalendarSortsChronologically(t *testing.T) {
	rows := []Row{
		{"data_recebimento": "2024-03-15", "total_previsto": 1.0},
		{"data_recebimento": "2024-01-10", "total_previsto": 2.0},
		{"data_recebimento": "2024-02-10", "total_previsto": 3.0},
	}

	view := BuildCalendar(rows)

	require.Equal(t, "2024-01-10", view.Rows[0].DateKey)
	require.Equal(t, "2024-02-10", view.Rows[1].DateKey)
	require.Equal(t, "2024-03-15", view.Rows[2].DateKey)
	require.Contains(t, string(view.Chart), "<rect")
}

func TestBuildCalendarUnresolvableDateFallsBack(t *testing.T) {
	rows := []Row{
		{"data_recebimento": "sem data", "total_previsto": 10.0},
		{"total_previsto": 20.0},
	}

	view := BuildCalendar(rows)

	require.Len(t, view.Rows, 2)
	require.Equal(t, 0, view.Rows[0].SortKey)
	require.Equal(t, "sem data", view.Rows[0].DateLabel)
	require.Empty(t, view.Rows[0].DateKey, "no canonical key for free text")
	require.Equal(t, 1, view.Rows[1].SortKey, "rows without any date keep feed order")
}
