package products

import (
	"time"

	"github.com/google/uuid"
)

// Product represents one garment in stock. The sale fields and the supplier
// payment sub-record are written by the receivables ledger, never by the
// master data endpoints.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	SupplierID  uuid.UUID  `json:"supplier_id"`
	EntryCost   float64    `json:"entry_cost"`
	ListPrice   float64    `json:"list_price"`
	EntryDate   *time.Time `json:"entry_date,omitempty"`

	Sold             bool       `json:"sold"`
	ClientID         *uuid.UUID `json:"client_id,omitempty"`
	SalePrice        *float64   `json:"sale_price,omitempty"`
	SaleDate         *time.Time `json:"sale_date,omitempty"`
	InstallmentCount int        `json:"installment_count,omitempty"`

	SupplierPaid     bool       `json:"supplier_paid"`
	SupplierPaidDate *time.Time `json:"supplier_paid_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
