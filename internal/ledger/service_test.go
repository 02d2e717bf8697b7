package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-retail/vitrine/internal/shared"
)

type memoryLedgerRepo struct {
	products     map[uuid.UUID]*memoryProduct
	installments map[uuid.UUID]*Installment
	failInsert   bool
}

type memoryProduct struct {
	supplierID       uuid.UUID
	sold             bool
	clientID         uuid.UUID
	salePrice        float64
	saleDate         time.Time
	installmentCount int
	supplierPaid     bool
	supplierPaidDate *time.Time
}

func newMemoryLedgerRepo() *memoryLedgerRepo {
	return &memoryLedgerRepo{
		products:     make(map[uuid.UUID]*memoryProduct),
		installments: make(map[uuid.UUID]*Installment),
	}
}

func (r *memoryLedgerRepo) addProduct(supplierID uuid.UUID) uuid.UUID {
	id := uuid.New()
	r.products[id] = &memoryProduct{supplierID: supplierID}
	return id
}

func (r *memoryLedgerRepo) rowsFor(productID uuid.UUID) []*Installment {
	var rows []*Installment
	for _, inst := range r.installments {
		if inst.ProductID == productID {
			rows = append(rows, inst)
		}
	}
	return rows
}

// WithTx runs the closure without store-side atomicity, so a failed insert
// after a completed delete must surface as a partial replace.
func (r *memoryLedgerRepo) WithTx(ctx context.Context, fn func(context.Context, TxPort) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

func (r *memoryLedgerRepo) GetProductRefs(ctx context.Context, productID uuid.UUID) (ProductRefs, error) {
	p, ok := r.products[productID]
	if !ok {
		return ProductRefs{}, shared.ErrNotFound
	}
	return ProductRefs{SupplierID: p.supplierID, Sold: p.sold}, nil
}

func (r *memoryLedgerRepo) SetInstallmentReceived(ctx context.Context, id uuid.UUID, received bool) error {
	inst, ok := r.installments[id]
	if !ok {
		return shared.ErrNotFound
	}
	inst.Received = received
	return nil
}

func (r *memoryLedgerRepo) SetSupplierPayment(ctx context.Context, productID uuid.UUID, paid bool, paidDate *time.Time) error {
	p, ok := r.products[productID]
	if !ok {
		return shared.ErrNotFound
	}
	p.supplierPaid = paid
	p.supplierPaidDate = paidDate
	return nil
}

type memoryTx struct {
	repo    *memoryLedgerRepo
	deleted bool
}

func (t *memoryTx) MarkProductSold(ctx context.Context, productID, clientID uuid.UUID, salePrice float64, saleDate time.Time, installmentCount int) error {
	p, ok := t.repo.products[productID]
	if !ok {
		return shared.ErrNotFound
	}
	p.sold = true
	p.clientID = clientID
	p.salePrice = salePrice
	p.saleDate = saleDate
	p.installmentCount = installmentCount
	return nil
}

func (t *memoryTx) DeleteInstallments(ctx context.Context, productID uuid.UUID) error {
	for id, inst := range t.repo.installments {
		if inst.ProductID == productID {
			delete(t.repo.installments, id)
		}
	}
	t.deleted = true
	return nil
}

func (t *memoryTx) InsertInstallments(ctx context.Context, rows []Installment) error {
	if t.repo.failInsert {
		err := errors.New("connection reset")
		if t.deleted {
			return fmt.Errorf("%w: %v", shared.ErrPartialReplace, err)
		}
		return err
	}
	for i := range rows {
		row := rows[i]
		t.repo.installments[row.ID] = &row
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type eventRecorder struct {
	events []shared.Event
}

func (r *eventRecorder) attach(bus *shared.EventBus) {
	bus.Subscribe(func(evt shared.Event) { r.events = append(r.events, evt) })
}

func TestRegisterSaleCreatesPlan(t *testing.T) {
	repo := newMemoryLedgerRepo()
	supplierID := uuid.New()
	productID := repo.addProduct(supplierID)

	bus := shared.NewEventBus()
	rec := &eventRecorder{}
	rec.attach(bus)

	svc := NewService(repo, bus, testLogger())
	input := SaleInput{
		ProductID: productID,
		ClientID:  uuid.New(),
		SalePrice: 450,
		SaleDate:  "2025-01-05",
		Slots: []PlanSlot{
			{Amount: "150", DueDate: "2025-01-10"},
			{Amount: "150", DueDate: "2025-02-10"},
			{Amount: "150", DueDate: "2025-03-10"},
		},
	}
	require.NoError(t, svc.RegisterSale(context.Background(), input))

	rows := repo.rowsFor(productID)
	require.Len(t, rows, 3)
	for _, row := range rows {
		require.Equal(t, supplierID, row.SupplierID, "supplier is denormalized onto the row")
		require.Equal(t, input.ClientID, row.ClientID)
		require.False(t, row.Received)
	}
	require.True(t, repo.products[productID].sold)
	require.Equal(t, 3, repo.products[productID].installmentCount)
	require.Equal(t, []shared.Event{shared.EventSaleChanged}, rec.events)
}

func TestRegisterSaleReplacesExistingPlan(t *testing.T) {
	repo := newMemoryLedgerRepo()
	productID := repo.addProduct(uuid.New())
	svc := NewService(repo, shared.NewEventBus(), testLogger())

	first := SaleInput{
		ProductID: productID,
		ClientID:  uuid.New(),
		SalePrice: 200,
		SaleDate:  "2025-01-05",
		Slots: []PlanSlot{
			{Amount: "100", DueDate: "2025-01-10"},
			{Amount: "100", DueDate: "2025-02-10"},
		},
	}
	require.NoError(t, svc.RegisterSale(context.Background(), first))
	require.Len(t, repo.rowsFor(productID), 2)

	edited := first
	edited.Slots = []PlanSlot{{Amount: "200", DueDate: "2025-01-20"}}
	require.NoError(t, svc.RegisterSale(context.Background(), edited))

	rows := repo.rowsFor(productID)
	require.Len(t, rows, 1, "old rows fully removed, not left orphaned")
	require.Equal(t, 1, rows[0].Number)
	require.InDelta(t, 200.0, rows[0].Amount, 1e-9)
}

func TestRegisterSaleValidationAbortsBeforeWrite(t *testing.T) {
	repo := newMemoryLedgerRepo()
	productID := repo.addProduct(uuid.New())
	bus := shared.NewEventBus()
	rec := &eventRecorder{}
	rec.attach(bus)
	svc := NewService(repo, bus, testLogger())

	input := SaleInput{
		ProductID: productID,
		ClientID:  uuid.New(),
		SalePrice: 100,
		SaleDate:  "2025-01-05",
		Slots:     []PlanSlot{{Amount: "", DueDate: "2025-01-10"}},
	}
	err := svc.RegisterSale(context.Background(), input)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.False(t, repo.products[productID].sold)
	require.Empty(t, repo.rowsFor(productID))
	require.Empty(t, rec.events, "no invalidation events on a rejected submit")
}

func TestRegisterSalePartialFailureSurfacedDistinctly(t *testing.T) {
	repo := newMemoryLedgerRepo()
	productID := repo.addProduct(uuid.New())
	repo.failInsert = true
	bus := shared.NewEventBus()
	rec := &eventRecorder{}
	rec.attach(bus)
	svc := NewService(repo, bus, testLogger())

	input := SaleInput{
		ProductID: productID,
		ClientID:  uuid.New(),
		SalePrice: 100,
		SaleDate:  "2025-01-05",
		Slots:     []PlanSlot{{Amount: "100", DueDate: "2025-01-10"}},
	}
	err := svc.RegisterSale(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrPartialReplace)
	require.Empty(t, rec.events, "failed mutations publish nothing")
}

func TestSetInstallmentReceivedIsIdempotent(t *testing.T) {
	repo := newMemoryLedgerRepo()
	productID := repo.addProduct(uuid.New())
	svc := NewService(repo, shared.NewEventBus(), testLogger())

	input := SaleInput{
		ProductID: productID,
		ClientID:  uuid.New(),
		SalePrice: 100,
		SaleDate:  "2025-01-05",
		Slots:     []PlanSlot{{Amount: "100", DueDate: "2025-01-10"}},
	}
	require.NoError(t, svc.RegisterSale(context.Background(), input))
	inst := repo.rowsFor(productID)[0]

	bus := shared.NewEventBus()
	rec := &eventRecorder{}
	rec.attach(bus)
	svc = NewService(repo, bus, testLogger())

	require.NoError(t, svc.SetInstallmentReceived(context.Background(), inst.ID, true))
	require.True(t, repo.installments[inst.ID].Received)

	// Same value again: a data-level no-op, but the refresh still fires.
	require.NoError(t, svc.SetInstallmentReceived(context.Background(), inst.ID, true))
	require.True(t, repo.installments[inst.ID].Received)
	require.Equal(t, []shared.Event{shared.EventInstallmentsChanged, shared.EventInstallmentsChanged}, rec.events)
}

func TestSetSupplierPayment(t *testing.T) {
	repo := newMemoryLedgerRepo()
	productID := repo.addProduct(uuid.New())
	bus := shared.NewEventBus()
	rec := &eventRecorder{}
	rec.attach(bus)
	svc := NewService(repo, bus, testLogger())
	svc.WithNow(func() time.Time {
		return time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC)
	})

	require.NoError(t, svc.SetSupplierPayment(context.Background(), productID, true, nil))
	p := repo.products[productID]
	require.True(t, p.supplierPaid)
	require.NotNil(t, p.supplierPaidDate, "paid without a date defaults to today")

	require.NoError(t, svc.SetSupplierPayment(context.Background(), productID, false, nil))
	require.False(t, p.supplierPaid)
	require.Nil(t, p.supplierPaidDate)

	require.Equal(t, []shared.Event{shared.EventSupplierPaymentChanged, shared.EventSupplierPaymentChanged}, rec.events)
}

func TestMutationsAgainstUnknownRowsReportNotFound(t *testing.T) {
	repo := newMemoryLedgerRepo()
	svc := NewService(repo, shared.NewEventBus(), testLogger())

	err := svc.SetInstallmentReceived(context.Background(), uuid.New(), true)
	require.ErrorIs(t, err, shared.ErrNotFound)

	err = svc.SetSupplierPayment(context.Background(), uuid.New(), true, nil)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
