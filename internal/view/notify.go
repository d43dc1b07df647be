package view

import (
	"errors"
	"fmt"

	"github.com/existflow/jera/internal/fetch"
	"github.com/existflow/jera/internal/logger"
	"github.com/existflow/jera/internal/model"
)

// Notifier shows the outcome of a mutation to the user.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// Identity is the current user as pages need it.
type Identity interface {
	UserID() *int64
}

// mutate validates, calls the API, reports the result and refetches.
// Validation failures never reach call. A refetch failure is logged and left
// in the resource state.
func mutate(n Notifier, action, done string, validate func() error, call func() error, refetch func() error) error {
	if validate != nil {
		if err := validate(); err != nil {
			n.Failure(err.Error())
			return err
		}
	}
	if err := call(); err != nil {
		n.Failure(fmt.Sprintf("Failed to %s: %s", action, err.Error()))
		return err
	}
	n.Success(done)
	if refetch != nil {
		if err := fetch.Settled(refetch()); err != nil {
			logger.Warn("Refetch after mutation failed", logger.F("action", action), logger.F("error", err))
		}
	}
	return nil
}

// IsValidation reports a client-side validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, model.ErrValidation)
}
