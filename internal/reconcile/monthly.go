package reconcile

import (
	"sort"

	"github.com/vitrine-retail/vitrine/internal/dates"
	"github.com/vitrine-retail/vitrine/internal/reconcile/svg"
)

// BuildMonthlySummary converts raw monthly feed rows into the sorted
// summary and its three-line chart (received revenue, entry cost, profit),
// drawn against one scale shared across the metrics.
func BuildMonthlySummary(rows []Row) MonthlySummaryView {
	points := make([]MonthlyPoint, 0, len(rows))
	for i, row := range rows {
		period, _ := pick(row, "mes", "month", "periodo", "period")
		n := dates.Normalize(period, i)

		received, _ := pick(row, "total_recebido", "total_received", "recebido")
		entry, _ := pick(row, "total_entrada", "total_entry_cost", "entrada")

		point := MonthlyPoint{
			PeriodKey:      n.SortKey,
			PeriodLabel:    n.Label,
			TotalReceived:  asFloat(received),
			TotalEntryCost: asFloat(entry),
		}
		if profit, ok := pick(row, "lucro", "profit"); ok {
			point.Profit = asFloat(profit)
		} else {
			point.Profit = point.TotalReceived - point.TotalEntryCost
		}
		points = append(points, point)
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].PeriodKey < points[j].PeriodKey })

	view := MonthlySummaryView{Points: points}
	if len(points) > 0 {
		received := make([]float64, len(points))
		entry := make([]float64, len(points))
		profit := make([]float64, len(points))
		labels := make([]string, len(points))
		for i, p := range points {
			received[i] = p.TotalReceived
			entry[i] = p.TotalEntryCost
			profit[i] = p.Profit
			labels[i] = p.PeriodLabel
		}
		chart, err := svg.Lines(0, 0, []svg.Series{
			{Label: "Recebido", Values: received},
			{Label: "Entrada", Values: entry},
			{Label: "Lucro", Values: profit},
		}, labels, svg.LinesOpts{
			Title:       "Resumo mensal",
			Description: "Receita recebida, custo de entrada e lucro por mês",
		})
		if err == nil {
			view.Chart = chart
		}
	}
	return view
}
