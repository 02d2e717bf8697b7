package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrPartialReplace indicates a replace-all-installments operation
	// removed the old plan but failed to write the new one.
	ErrPartialReplace = errors.New("installment plan partially replaced")
)

// ValidationError reports a field that failed validation before a write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-scoped validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StoreError wraps a failure reported by the persistent store. The store's
// own message stays user visible; callers retain their prior view state.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// UserSafeMessage returns a message suitable for end users. Validation and
// store errors carry their own text; anything else degrades to a generic line.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var serr *StoreError
	if errors.As(err, &serr) {
		return serr.Error()
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPartialReplace) {
		return err.Error()
	}
	return "something went wrong, please try again"
}
