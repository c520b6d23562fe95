package trade

import (
	"errors"
	"fmt"
)

// ValidationError marks a malformed signal or fill. It is rejected before the
// rule chain runs and is distinct from an admission rejection.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
