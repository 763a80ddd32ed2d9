package entity

import (
	"errors"
	"fmt"
)

// ErrInvalidAddress is returned when an address matches no known family or
// resolves to an empty chain set. It is the only error that aborts an
// analysis.
var ErrInvalidAddress = errors.New("unrecognized address format")

// AuthError reports that an external data source rejected a request because a
// required credential is missing or invalid. It is recovered locally (the
// chain contributes no data) but surfaced as a report-level warning, unlike
// transient provider failures.
type AuthError struct {
	Provider    string
	Remediation string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s credential missing or invalid: %s", e.Provider, e.Remediation)
}
