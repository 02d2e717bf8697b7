package products

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrine-retail/vitrine/internal/masterdata/shared"
	"github.com/vitrine-retail/vitrine/internal/platform/httpx"
	internalShared "github.com/vitrine-retail/vitrine/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id uuid.UUID, product Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, code, name, description, supplier_id, entry_cost, list_price, entry_date,
	sold, client_id, sale_price, sale_date, installment_count,
	supplier_paid, supplier_paid_date, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.SupplierID, &p.EntryCost, &p.ListPrice, &p.EntryDate,
		&p.Sold, &p.ClientID, &p.SalePrice, &p.SaleDate, &p.InstallmentCount,
		&p.SupplierPaid, &p.SupplierPaidDate, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	where := ` FROM products WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.SupplierID != nil {
		argCount++
		where += ` AND supplier_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.SupplierID)
	}
	if filters.Sold != nil {
		argCount++
		where += ` AND sold = $` + strconv.Itoa(argCount)
		args = append(args, *filters.Sold)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + where + " ORDER BY " + sortOrder(filters.SortBy, filters.SortDir)
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, internalShared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now()
	product.ID = uuid.New()
	if product.EntryDate == nil {
		product.EntryDate = &now
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (id, code, name, description, supplier_id, entry_cost, list_price, entry_date, sold, supplier_paid, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, FALSE, $9, $9)`,
		product.ID, product.Code, product.Name, product.Description, product.SupplierID, product.EntryCost, product.ListPrice, product.EntryDate, now)
	if err != nil {
		return Product{}, mapConstraint(err)
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

// Update rewrites the master data fields only. Sale state stays untouched.
func (r *repository) Update(ctx context.Context, id uuid.UUID, product Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET code = $1, name = $2, description = $3, supplier_id = $4, entry_cost = $5, list_price = $6, entry_date = $7, updated_at = $8 WHERE id = $9`,
		product.Code, product.Name, product.Description, product.SupplierID, product.EntryCost, product.ListPrice, product.EntryDate, time.Now(), id)
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

// Delete refuses to drop a sold product, its installments depend on it.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1 AND NOT sold`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var sold bool
		if lookupErr := r.db.QueryRow(ctx, `SELECT sold FROM products WHERE id = $1`, id).Scan(&sold); lookupErr == nil && sold {
			return internalShared.NewValidationError("id", "produto vendido não pode ser removido")
		}
		return internalShared.ErrNotFound
	}
	return nil
}

// mapConstraint translates foreign key and unique violations into the
// sentinels the HTTP layer understands.
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return httpx.ErrDuplicate
		case "23503":
			return internalShared.NewValidationError("supplier_id", "fornecedor inexistente")
		}
	}
	return err
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "code":
		return "code " + dir
	case "entry_cost":
		return "entry_cost " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
