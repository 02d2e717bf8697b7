package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrine-retail/vitrine/internal/platform/db"
	"github.com/vitrine-retail/vitrine/internal/shared"
)

// Repository provides PostgreSQL backed persistence for the ledger.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx runs the sale replacement atomically. Because both the delete and
// the insert commit together, a crash mid-replace can never leave a product
// sold with a missing or stale plan.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxPort) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

// GetProductRefs loads the identities installment rows denormalize.
func (r *Repository) GetProductRefs(ctx context.Context, productID uuid.UUID) (ProductRefs, error) {
	var refs ProductRefs
	err := r.pool.QueryRow(ctx,
		`SELECT supplier_id, sold FROM products WHERE id = $1`,
		productID).Scan(&refs.SupplierID, &refs.Sold)
	if errors.Is(err, pgx.ErrNoRows) {
		return ProductRefs{}, shared.ErrNotFound
	}
	if err != nil {
		return ProductRefs{}, &shared.StoreError{Op: "load product", Err: err}
	}
	return refs, nil
}

// SetInstallmentReceived updates a single installment's received flag.
func (r *Repository) SetInstallmentReceived(ctx context.Context, id uuid.UUID, received bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE installments SET received = $2 WHERE id = $1`,
		id, received)
	if err != nil {
		return &shared.StoreError{Op: "update installment", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetSupplierPayment updates the product's supplier-payment sub-record.
func (r *Repository) SetSupplierPayment(ctx context.Context, productID uuid.UUID, paid bool, paidDate *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET supplier_paid = $2, supplier_paid_date = $3, updated_at = NOW() WHERE id = $1`,
		productID, paid, paidDate)
	if err != nil {
		return &shared.StoreError{Op: "update supplier payment", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type txRepo struct {
	tx pgx.Tx
}

func (t *txRepo) MarkProductSold(ctx context.Context, productID, clientID uuid.UUID, salePrice float64, saleDate time.Time, installmentCount int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE products
		 SET sold = TRUE, client_id = $2, sale_price = $3, sale_date = $4,
		     installment_count = $5, updated_at = NOW()
		 WHERE id = $1`,
		productID, clientID, salePrice, saleDate, installmentCount)
	if err != nil {
		return &shared.StoreError{Op: "mark product sold", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (t *txRepo) DeleteInstallments(ctx context.Context, productID uuid.UUID) error {
	if _, err := t.tx.Exec(ctx,
		`DELETE FROM installments WHERE product_id = $1`, productID); err != nil {
		return &shared.StoreError{Op: "delete installments", Err: err}
	}
	return nil
}

func (t *txRepo) InsertInstallments(ctx context.Context, rows []Installment) error {
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(
			`INSERT INTO installments (id, product_id, client_id, supplier_id, seq, amount, due_date, received, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			row.ID, row.ProductID, row.ClientID, row.SupplierID,
			row.Number, row.Amount, row.DueDate, row.Received, row.CreatedAt)
	}
	results := t.tx.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()
	for range rows {
		if _, err := results.Exec(); err != nil {
			return &shared.StoreError{Op: "insert installments", Err: err}
		}
	}
	return nil
}
