package carbon

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFactors is returned when an EmissionFactors table fails validation.
var ErrInvalidFactors = errors.New("invalid emission factors")

// MissingFieldError reports every required field absent from a table at the
// point a calculator ran. Fields keeps the calculator's declaration order.
type MissingFieldError struct {
	Calculator string
	Fields     []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Calculator, strings.Join(e.Fields, ", "))
}

// InvalidShapeError reports input that is not a table of rows.
type InvalidShapeError struct {
	Calculator string
	Reason     string
}

func (e *InvalidShapeError) Error() string {
	if e.Calculator == "" {
		return "invalid table shape: " + e.Reason
	}
	return fmt.Sprintf("%s: invalid table shape: %s", e.Calculator, e.Reason)
}
