package services

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned when authentication fails, without
// distinguishing an unknown username from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrRoleMismatch is returned when a profile is created for a user whose
// role does not permit it.
var ErrRoleMismatch = errors.New("user role does not permit this profile")

// InvalidTransitionError reports a status change that the entity's state
// machine does not permit from its current state.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s status cannot change from %s to %s", e.Entity, e.From, e.To)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}
