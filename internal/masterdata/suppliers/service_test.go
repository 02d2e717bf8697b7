package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	mdshared "github.com/vitrine-retail/vitrine/internal/masterdata/shared"
	"github.com/vitrine-retail/vitrine/internal/shared"
)

type memoryRepo struct {
	suppliers map[uuid.UUID]Supplier
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{suppliers: make(map[uuid.UUID]Supplier)}
}

func (r *memoryRepo) List(ctx context.Context, filters mdshared.ListFilters) ([]Supplier, int, error) {
	var out []Supplier
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return Supplier{}, shared.ErrNotFound
	}
	return s, nil
}

func (r *memoryRepo) Create(ctx context.Context, s Supplier) (Supplier, error) {
	s.ID = uuid.New()
	r.suppliers[s.ID] = s
	return s, nil
}

func (r *memoryRepo) Update(ctx context.Context, id uuid.UUID, s Supplier) error {
	if _, ok := r.suppliers[id]; !ok {
		return shared.ErrNotFound
	}
	s.ID = id
	r.suppliers[id] = s
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.suppliers[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.suppliers, id)
	return nil
}

func TestCreateValidatesSupplier(t *testing.T) {
	service := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := service.Create(ctx, Supplier{Code: "10"})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "name", verr.Field)

	_, err = service.Create(ctx, Supplier{Name: "Tecidos Sul", CNPJ: "not-a-cnpj"})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "cnpj", verr.Field)

	created, err := service.Create(ctx, Supplier{Name: "Tecidos Sul", CNPJ: "12.345.678/0001-95"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
}

func TestCreateAcceptsBlankCode(t *testing.T) {
	service := NewService(newMemoryRepo())

	created, err := service.Create(context.Background(), Supplier{Name: "Malhas Norte"})
	require.NoError(t, err)
	require.Empty(t, created.Code)
}
