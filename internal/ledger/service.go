package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vitrine-retail/vitrine/internal/shared"
)

// TxPort groups the writes of one sale registration. Implementations backed
// by a transactional store run the whole closure atomically; implementations
// that cannot must wrap insert-phase failures with shared.ErrPartialReplace
// so a half-replaced plan is surfaced distinctly, never silently.
type TxPort interface {
	MarkProductSold(ctx context.Context, productID, clientID uuid.UUID, salePrice float64, saleDate time.Time, installmentCount int) error
	DeleteInstallments(ctx context.Context, productID uuid.UUID) error
	InsertInstallments(ctx context.Context, rows []Installment) error
}

// RepositoryPort defines data access for the ledger.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxPort) error) error
	GetProductRefs(ctx context.Context, productID uuid.UUID) (ProductRefs, error)
	SetInstallmentReceived(ctx context.Context, id uuid.UUID, received bool) error
	SetSupplierPayment(ctx context.Context, productID uuid.UUID, paid bool, paidDate *time.Time) error
}

// Service applies the three ledger mutations and announces which derived
// views they invalidate.
type Service struct {
	repo   RepositoryPort
	bus    *shared.EventBus
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, bus *shared.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// RegisterSale marks the product sold and replaces its whole installment
// plan. There is no partial-installment update path: edits always delete
// everything and insert the new plan.
func (s *Service) RegisterSale(ctx context.Context, input SaleInput) error {
	rows, err := ValidateSale(input)
	if err != nil {
		return err
	}

	refs, err := s.repo.GetProductRefs(ctx, input.ProductID)
	if err != nil {
		return err
	}

	saleDate, _ := time.Parse("2006-01-02", input.SaleDate)
	now := s.now()

	installments := make([]Installment, 0, len(rows))
	for _, row := range rows {
		installments = append(installments, Installment{
			ID:         uuid.New(),
			ProductID:  input.ProductID,
			ClientID:   input.ClientID,
			SupplierID: refs.SupplierID,
			Number:     row.Number,
			Amount:     row.Amount,
			DueDate:    row.DueDate,
			Received:   row.Received,
			CreatedAt:  now,
		})
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxPort) error {
		if err := tx.MarkProductSold(ctx, input.ProductID, input.ClientID, input.SalePrice, saleDate, len(installments)); err != nil {
			return err
		}
		if err := tx.DeleteInstallments(ctx, input.ProductID); err != nil {
			return err
		}
		return tx.InsertInstallments(ctx, installments)
	})
	if err != nil {
		return err
	}

	s.logger.Info("sale registered",
		slog.String("product_id", input.ProductID.String()),
		slog.Int("installments", len(installments)))
	s.bus.Publish(shared.EventSaleChanged)
	return nil
}

// SetInstallmentReceived toggles a single installment's received flag.
// Setting the current value again is a data-level no-op, but the dependent
// views still refresh; the feeds are the source of truth, not local state.
func (s *Service) SetInstallmentReceived(ctx context.Context, id uuid.UUID, received bool) error {
	if id == uuid.Nil {
		return shared.NewValidationError("installment", "installment is required")
	}
	if err := s.repo.SetInstallmentReceived(ctx, id, received); err != nil {
		return err
	}
	s.bus.Publish(shared.EventInstallmentsChanged)
	return nil
}

// SetSupplierPayment toggles whether the shop has paid the supplier for a
// product's entry cost. Independent of the sold state.
func (s *Service) SetSupplierPayment(ctx context.Context, productID uuid.UUID, paid bool, paidDate *time.Time) error {
	if productID == uuid.Nil {
		return shared.NewValidationError("product", "product is required")
	}
	if paid && paidDate == nil {
		today := s.now().Truncate(24 * time.Hour)
		paidDate = &today
	}
	if !paid {
		paidDate = nil
	}
	if err := s.repo.SetSupplierPayment(ctx, productID, paid, paidDate); err != nil {
		return err
	}
	s.bus.Publish(shared.EventSupplierPaymentChanged)
	return nil
}
