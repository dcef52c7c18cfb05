package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
)

var (
	// ErrForbidden indicates the actor's role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted")
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Name string
	Role domain.Role
	IP   string
}

// ValidationError carries field-level messages for malformed input. No state
// is mutated when one is returned.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages, "; "))
}

func newValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
