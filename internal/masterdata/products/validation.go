package products

import (
	"strings"

	"github.com/google/uuid"

	"github.com/vitrine-retail/vitrine/internal/shared"
)

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewValidationError("name", "nome é obrigatório")
	}
	if p.SupplierID == uuid.Nil {
		return shared.NewValidationError("supplier_id", "fornecedor é obrigatório")
	}
	if p.EntryCost < 0 {
		return shared.NewValidationError("entry_cost", "valor de entrada não pode ser negativo")
	}
	if p.ListPrice < 0 {
		return shared.NewValidationError("list_price", "preço não pode ser negativo")
	}
	return nil
}
