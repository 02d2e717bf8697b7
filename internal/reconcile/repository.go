package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrine-retail/vitrine/internal/shared"
)

// Repository implements FeedPort over the aggregate queries in PostgreSQL.
// Result columns flow out as loose rows on purpose: the view builders probe
// and normalize, so the SQL here can evolve without touching them.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the feed repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// MonthlySummaryRows groups received installments and entry costs by the
// month of the sale date.
func (r *Repository) MonthlySummaryRows(ctx context.Context) ([]Row, error) {
	rows, err := r.pool.Query(ctx, `
		WITH recebimentos AS (
			SELECT to_char(date_trunc('month', due_date), 'YYYY-MM-01') AS mes,
			       SUM(amount) FILTER (WHERE received) AS total_recebido
			FROM installments
			GROUP BY 1
		),
		entradas AS (
			SELECT to_char(date_trunc('month', sale_date), 'YYYY-MM-01') AS mes,
			       SUM(entry_cost) AS total_entrada,
			       SUM(sale_price - entry_cost) AS lucro
			FROM products
			WHERE sold
			GROUP BY 1
		)
		SELECT COALESCE(re.mes, en.mes) AS mes,
		       COALESCE(re.total_recebido, 0) AS total_recebido,
		       COALESCE(en.total_entrada, 0) AS total_entrada,
		       COALESCE(en.lucro, 0) AS lucro
		FROM recebimentos re
		FULL OUTER JOIN entradas en ON en.mes = re.mes`)
	if err != nil {
		return nil, &shared.StoreError{Op: "load monthly summary", Err: err}
	}
	return scanLoose(rows)
}

// ReceivablesRows aggregates the forecast and received totals per due date.
func (r *Repository) ReceivablesRows(ctx context.Context) ([]Row, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT due_date::text AS data_recebimento,
		       SUM(amount) AS total_previsto,
		       SUM(amount) FILTER (WHERE received) AS total_recebido
		FROM installments
		GROUP BY due_date`)
	if err != nil {
		return nil, &shared.StoreError{Op: "load receivables", Err: err}
	}
	return scanLoose(rows)
}

// SupplierPaymentRows lists each supplier with its sold products and their
// payment state as a jsonb detail column.
func (r *Repository) SupplierPaymentRows(ctx context.Context) ([]Row, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.name AS fornecedor,
		       s.code AS codigo,
		       jsonb_agg(jsonb_build_object(
		           'produto', p.name,
		           'valor_entrada', p.entry_cost,
		           'pago', p.supplier_paid
		       ) ORDER BY p.name) AS produtos
		FROM suppliers s
		JOIN products p ON p.supplier_id = s.id AND p.sold
		GROUP BY s.id, s.name, s.code`)
	if err != nil {
		return nil, &shared.StoreError{Op: "load supplier payments", Err: err}
	}
	return scanLoose(rows)
}

// InstallmentsDueOn loads the installments due on one canonical date, joined
// with the product and client display names.
func (r *Repository) InstallmentsDueOn(ctx context.Context, canonical string) ([]DrillDownRow, error) {
	day, err := time.Parse("2006-01-02", canonical)
	if err != nil {
		return nil, shared.NewValidationError("date", "data inválida")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.seq, i.amount, i.received, p.name, c.name
		FROM installments i
		JOIN products p ON p.id = i.product_id
		JOIN clients c ON c.id = i.client_id
		WHERE i.due_date = $1`, day)
	if err != nil {
		return nil, &shared.StoreError{Op: "load due installments", Err: err}
	}
	defer rows.Close()

	label := day.Format("02/01/2006")
	var out []DrillDownRow
	for rows.Next() {
		var row DrillDownRow
		if err := rows.Scan(&row.InstallmentID, &row.Number, &row.Amount, &row.Received, &row.ProductName, &row.ClientName); err != nil {
			return nil, &shared.StoreError{Op: "scan due installment", Err: err}
		}
		row.DueLabel = label
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &shared.StoreError{Op: "load due installments", Err: err}
	}
	return out, nil
}

// MonthlyTotals aggregates the sales of one month.
func (r *Repository) MonthlyTotals(ctx context.Context, month, year int) (MonthlyTotals, error) {
	var totals MonthlyTotals
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(entry_cost), 0),
		       COALESCE(SUM(sale_price), 0),
		       COALESCE(SUM(sale_price - entry_cost), 0)
		FROM products
		WHERE sold
		  AND EXTRACT(MONTH FROM sale_date) = $1
		  AND EXTRACT(YEAR FROM sale_date) = $2`,
		month, year).Scan(&totals.SalesCount, &totals.EntryTotal, &totals.SaleTotal, &totals.Profit)
	if errors.Is(err, pgx.ErrNoRows) {
		return MonthlyTotals{}, nil
	}
	if err != nil {
		return MonthlyTotals{}, &shared.StoreError{Op: "load monthly totals", Err: err}
	}
	return totals, nil
}

// scanLoose converts a result set into rows keyed by column name, without
// committing the builders to a fixed schema.
func scanLoose(rows pgx.Rows) ([]Row, error) {
	defer rows.Close()
	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, &shared.StoreError{Op: "scan feed row", Err: err}
		}
		row := make(Row, len(fields))
		for i, field := range fields {
			row[string(field.Name)] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &shared.StoreError{Op: "scan feed rows", Err: err}
	}
	return out, nil
}
