// Package reconcile keeps the three derived views (monthly financial
// summary, receivables calendar, supplier payment ledger) consistent with
// the ledger after every mutation. The aggregate feeds it reads are owned
// by the store, guarantee neither column names nor date formats, and are
// therefore re-fetched wholesale instead of patched locally.
package reconcile

import (
	"html/template"

	"github.com/google/uuid"
)

// Row is the loosely-typed shape of one aggregate feed record. Feeds are not
// trusted to keep a fixed schema, so conversion to the strict view types
// happens behind probing and normalization.
type Row = map[string]any

// View names one of the derived views.
type View string

const (
	ViewMonthlySummary View = "monthly-summary"
	ViewCalendar       View = "receivables-calendar"
	ViewSupplierLedger View = "supplier-ledger"
)

// Views lists every derived view in refresh order.
var Views = []View{ViewMonthlySummary, ViewCalendar, ViewSupplierLedger}

// MonthlyPoint is one row of the monthly financial summary.
type MonthlyPoint struct {
	PeriodKey      int     `json:"period_key"`
	PeriodLabel    string  `json:"period_label"`
	TotalReceived  float64 `json:"total_received"`
	TotalEntryCost float64 `json:"total_entry_cost"`
	Profit         float64 `json:"profit"`
}

// MonthlySummaryView is the chart-ready monthly summary.
type MonthlySummaryView struct {
	Points []MonthlyPoint `json:"points"`
	Chart  template.HTML  `json:"chart"`
}

// CalendarRow aggregates every installment due on one date key.
type CalendarRow struct {
	SortKey       int     `json:"sort_key"`
	DateKey       string  `json:"date_key,omitempty"` // canonical YYYY-MM-DD when resolvable
	DateLabel     string  `json:"date_label"`
	TotalForecast float64 `json:"total_forecast"`
	TotalReceived float64 `json:"total_received"`
}

// CalendarView is the chart-ready receivables calendar.
type CalendarView struct {
	Rows  []CalendarRow `json:"rows"`
	Chart template.HTML `json:"chart"`
}

// DrillDownRow is one installment due on a selected calendar date, joined
// with its product and client display fields.
type DrillDownRow struct {
	InstallmentID uuid.UUID `json:"installment_id"`
	Number        int       `json:"number"`
	Amount        float64   `json:"amount"`
	Received      bool      `json:"received"`
	ProductName   string    `json:"product_name"`
	ClientName    string    `json:"client_name"`
	DueLabel      string    `json:"due_label"`
}

// SupplierProduct is one defensive-parsed product detail of a supplier row.
type SupplierProduct struct {
	Name      string  `json:"name"`
	EntryCost float64 `json:"entry_cost"`
	Paid      bool    `json:"paid"`
}

// SupplierLedgerRow groups a supplier's products by payment state.
type SupplierLedgerRow struct {
	SupplierLabel string            `json:"supplier_label"`
	SupplierCode  string            `json:"supplier_code,omitempty"`
	SumPaid       float64           `json:"sum_paid"`
	SumPending    float64           `json:"sum_pending"`
	Products      []SupplierProduct `json:"products"`
}

// SupplierLedgerView is the supplier payment ledger.
type SupplierLedgerView struct {
	Rows []SupplierLedgerRow `json:"rows"`
}

// MonthlyTotals answers the month/year sales query.
type MonthlyTotals struct {
	SalesCount int     `json:"sales_count"`
	EntryTotal float64 `json:"entry_total"`
	SaleTotal  float64 `json:"sale_total"`
	Profit     float64 `json:"profit"`
}
