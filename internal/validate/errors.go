package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/jurisflow/internal/model"
)

// ErrSchemaViolation marks a record that breaks its variant's schema.
// No record is emitted when it is returned.
var ErrSchemaViolation = errors.New("schema violation")

// Violation is one broken rule
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Reason
}

// ViolationError lists every violation found in one record
type ViolationError struct {
	Variant    model.Variant
	Violations []Violation
}

func (e *ViolationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s record: %s: %s", e.Variant, ErrSchemaViolation, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrSchemaViolation
func (e *ViolationError) Unwrap() error { return ErrSchemaViolation }
