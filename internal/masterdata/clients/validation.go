package clients

import (
	"regexp"
	"strings"

	"github.com/vitrine-retail/vitrine/internal/shared"
)

var cpfRe = regexp.MustCompile(`^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`)

func (s *Service) validate(c Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewValidationError("name", "nome é obrigatório")
	}
	if c.CPF != "" && !cpfRe.MatchString(c.CPF) {
		return shared.NewValidationError("cpf", "CPF inválido")
	}
	return nil
}
