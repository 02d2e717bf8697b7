package httpx

import (
	"errors"
	"net/http"

	"github.com/vitrine-retail/vitrine/internal/shared"
)

// ErrDuplicate flags a unique-constraint violation surfaced by a repository.
var ErrDuplicate = errors.New("duplicate entry")

// RespondError maps domain errors to RFC7807 responses. Store failures keep
// the store's own message visible so the user can retry with context; the
// prior view state on the client is left untouched.
func RespondError(w http.ResponseWriter, err error) {
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		FieldProblem(w, map[string]string{verr.Field: verr.Message})
		return
	}
	var serr *shared.StoreError
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrPartialReplace):
		Problem(w, http.StatusConflict, "Partial Replace", shared.UserSafeMessage(err))
	case errors.As(err, &serr):
		Problem(w, http.StatusBadGateway, "Store Error", shared.UserSafeMessage(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
