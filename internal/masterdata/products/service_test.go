package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	mdshared "github.com/vitrine-retail/vitrine/internal/masterdata/shared"
	"github.com/vitrine-retail/vitrine/internal/shared"
)

type memoryRepo struct {
	products map[uuid.UUID]Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[uuid.UUID]Product)}
}

func (r *memoryRepo) List(ctx context.Context, filters mdshared.ListFilters) ([]Product, int, error) {
	var out []Product
	for _, p := range r.products {
		if filters.SupplierID != nil && p.SupplierID != *filters.SupplierID {
			continue
		}
		if filters.Sold != nil && p.Sold != *filters.Sold {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, p Product) (Product, error) {
	p.ID = uuid.New()
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Update(ctx context.Context, id uuid.UUID, p Product) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	p.ID = id
	r.products[id] = p
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func TestCreateValidatesProduct(t *testing.T) {
	service := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := service.Create(ctx, Product{SupplierID: uuid.New(), EntryCost: 50})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "name", verr.Field)

	_, err = service.Create(ctx, Product{Name: "Vestido"})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "supplier_id", verr.Field)

	_, err = service.Create(ctx, Product{Name: "Vestido", SupplierID: uuid.New(), EntryCost: -1})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "entry_cost", verr.Field)

	created, err := service.Create(ctx, Product{Name: "Vestido", SupplierID: uuid.New(), EntryCost: 100, ListPrice: 250})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
}

func TestListFiltersBySupplierAndSold(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo)
	ctx := context.Background()

	supplierID := uuid.New()
	a, err := service.Create(ctx, Product{Name: "Blusa", SupplierID: supplierID, EntryCost: 30})
	require.NoError(t, err)
	_, err = service.Create(ctx, Product{Name: "Calça", SupplierID: uuid.New(), EntryCost: 60})
	require.NoError(t, err)

	sold := repo.products[a.ID]
	sold.Sold = true
	repo.products[a.ID] = sold

	yes := true
	rows, total, err := service.List(ctx, mdshared.ListFilters{SupplierID: &supplierID, Sold: &yes})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Blusa", rows[0].Name)
}
