package ledger

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitrine-retail/vitrine/internal/dates"
	"github.com/vitrine-retail/vitrine/internal/shared"
)

// ResizePlan returns a plan of exactly count slots. Existing entries carry
// over by position; new positions start empty. This is a stateless resize:
// shrinking discards the tail and growing back does not restore it.
func ResizePlan(prior []PlanSlot, count int) []PlanSlot {
	if count < 1 {
		count = 1
	}
	if count > MaxInstallments {
		count = MaxInstallments
	}
	next := make([]PlanSlot, count)
	copy(next, prior)
	return next
}

// ValidateSale checks a sale submission field by field and converts the raw
// slots into insertable installment inputs. The first failing field aborts
// before any write is attempted.
func ValidateSale(input SaleInput) ([]InstallmentInput, error) {
	if input.ProductID == uuid.Nil {
		return nil, shared.NewValidationError("product", "product is required")
	}
	if input.ClientID == uuid.Nil {
		return nil, shared.NewValidationError("client", "client is required")
	}
	if input.SalePrice <= 0 {
		return nil, shared.NewValidationError("sale_price", "sale price must be positive")
	}
	if _, err := time.Parse("2006-01-02", input.SaleDate); err != nil {
		return nil, shared.NewValidationError("sale_date", "sale date is required as YYYY-MM-DD")
	}
	if len(input.Slots) < 1 || len(input.Slots) > MaxInstallments {
		return nil, shared.NewValidationError("installments", "between 1 and 3 installments are required")
	}

	rows := make([]InstallmentInput, 0, len(input.Slots))
	for i, slot := range input.Slots {
		field := "installments[" + strconv.Itoa(i) + "]"
		amount, err := parseAmount(slot.Amount)
		if err != nil || amount <= 0 {
			return nil, shared.NewValidationError(field+".amount", "amount must be a positive number")
		}
		due, ok := parseDueDate(slot.DueDate)
		if !ok {
			return nil, shared.NewValidationError(field+".due_date", "due date is required")
		}
		rows = append(rows, InstallmentInput{
			Number:   i + 1,
			Amount:   amount,
			DueDate:  due,
			Received: slot.Received,
		})
	}
	return rows, nil
}

// parseAmount accepts both 1234.56 and the Brazilian 1234,56 spelling.
func parseAmount(raw string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	return strconv.ParseFloat(cleaned, 64)
}

// parseDueDate accepts any shape the normalizer can pin to a single day.
func parseDueDate(raw string) (time.Time, bool) {
	n := dates.Normalize(raw, 0)
	if n.Canonical == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", n.Canonical)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
