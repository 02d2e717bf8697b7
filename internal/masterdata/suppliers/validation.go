package suppliers

import (
	"regexp"
	"strings"

	"github.com/vitrine-retail/vitrine/internal/shared"
)

var cnpjRe = regexp.MustCompile(`^\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}$`)

func (s *Service) validate(sup Supplier) error {
	if strings.TrimSpace(sup.Name) == "" {
		return shared.NewValidationError("name", "nome é obrigatório")
	}
	if sup.CNPJ != "" && !cnpjRe.MatchString(sup.CNPJ) {
		return shared.NewValidationError("cnpj", "CNPJ inválido")
	}
	return nil
}
