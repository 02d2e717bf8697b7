package reconcile

import (
	"sort"
	"strings"

	"github.com/vitrine-retail/vitrine/internal/dates"
	"github.com/vitrine-retail/vitrine/internal/reconcile/svg"
)

// Column names probed for the receivables date, most specific first. The
// feeds have shipped several spellings over time.
var dateColumnPriority = []string{
	"data_recebimento",
	"data_vencimento",
	"due_date",
	"vencimento",
	"data",
	"dia",
	"date",
}

var dateLikeTokens = []string{"data", "date", "dia", "venc"}
var amountLikeTokens = []string{"total", "valor", "amount", "sum", "recebido", "previsto"}

// resolveDateValue finds the raw date of a calendar feed row: the priority
// list first, then a heuristic scan over the remaining columns that skips
// anything smelling like a total or amount.
func resolveDateValue(row Row) (any, bool) {
	if v, ok := pick(row, dateColumnPriority...); ok {
		return v, true
	}
	for _, key := range sortedKeys(row) {
		lowered := strings.ToLower(key)
		if containsAny(lowered, amountLikeTokens) {
			continue
		}
		if containsAny(lowered, dateLikeTokens) {
			return row[key], true
		}
	}
	return nil, false
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}

// BuildCalendar converts raw receivables rows into the sorted calendar and
// its forecast-versus-received bar chart.
func BuildCalendar(rows []Row) CalendarView {
	out := make([]CalendarRow, 0, len(rows))
	for i, row := range rows {
		raw, _ := resolveDateValue(row)
		n := dates.Normalize(raw, i)

		forecast, _ := pick(row, "total_previsto", "total_forecast", "previsto", "forecast")
		received, _ := pick(row, "total_recebido", "total_received", "recebido")
		out = append(out, CalendarRow{
			SortKey:       n.SortKey,
			DateKey:       n.Canonical,
			DateLabel:     n.Label,
			TotalForecast: asFloat(forecast),
			TotalReceived: asFloat(received),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortKey < out[j].SortKey })

	view := CalendarView{Rows: out}
	if len(out) > 0 {
		forecast := make([]float64, len(out))
		received := make([]float64, len(out))
		labels := make([]string, len(out))
		for i, row := range out {
			forecast[i] = row.TotalForecast
			received[i] = row.TotalReceived
			labels[i] = row.DateLabel
		}
		chart, err := svg.Bars(0, 0, forecast, received, labels, svg.BarsOpts{
			Title:       "Agenda de recebimento",
			Description: "Total previsto e recebido por data de vencimento",
		})
		if err == nil {
			view.Chart = chart
		}
	}
	return view
}
