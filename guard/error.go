package guard

import (
	"errors"
	"fmt"
)

// ErrSecurity is matched by every SecurityError
var ErrSecurity = errors.New("security violation")

// SecurityError represents rejected path or URL
type SecurityError struct {
	Op     string
	Target string
	Reason string
}

// Error returns error message
func (e *SecurityError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Op, e.Target, e.Reason)
}

// Is reports whether target is ErrSecurity
func (e *SecurityError) Is(target error) bool {
	return target == ErrSecurity
}

func newError(op, target, reason string) error {
	return &SecurityError{Op: op, Target: target, Reason: reason}
}
