// Package ledger owns the installment receivables ledger: it splits a sale
// into scheduled installments and applies the mutations that the derived
// views react to.
package ledger

import (
	"time"

	"github.com/google/uuid"
)

// MaxInstallments bounds the plan size a sale may be split into.
const MaxInstallments = 3

// Installment is one scheduled partial payment of a sale. Client and
// supplier identities are denormalized onto the row for lookup convenience.
type Installment struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	ClientID   uuid.UUID
	SupplierID uuid.UUID
	Number     int // 1-based, contiguous per product
	Amount     float64
	DueDate    time.Time
	Received   bool
	CreatedAt  time.Time
}

// PlanSlot holds the user-edited values of one installment position before
// validation. Values stay raw text until the plan is submitted.
type PlanSlot struct {
	Amount   string `json:"amount"`
	DueDate  string `json:"due_date"`
	Received bool   `json:"received"`
}

// SaleInput carries everything a register-or-replace sale operation needs.
type SaleInput struct {
	ProductID uuid.UUID
	ClientID  uuid.UUID
	SalePrice float64
	SaleDate  string // ISO date
	Slots     []PlanSlot
}

// InstallmentInput is one validated plan entry ready for insertion.
type InstallmentInput struct {
	Number   int
	Amount   float64
	DueDate  time.Time
	Received bool
}

// ProductRefs are the identities an installment row denormalizes.
type ProductRefs struct {
	SupplierID uuid.UUID
	Sold       bool
}
