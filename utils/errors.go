package utils

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrPrecondition is the cause of every error returned for a violated input
// contract, such as a bounding box outside the image or mismatched array sizes.
var ErrPrecondition = errors.New("precondition failed")

// NewPreconditionError reports which precondition failed.
func NewPreconditionError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrPrecondition, format, args...)
}

// IsPreconditionError returns whether err was built by NewPreconditionError.
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

// NewConfigValidationError returns a config validation error
// occurring at a given path.
func NewConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}

// NewConfigValidationFieldRequiredError returns a config validation
// error for a field missing at a given path.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return NewConfigValidationError(path, errors.Errorf("%q is required", field))
}

// NewPanicError converts a recovered panic value into an error.
func NewPanicError(recovered interface{}) error {
	if err, ok := recovered.(error); ok {
		return errors.Wrap(err, "recovered from panic")
	}
	return errors.New(fmt.Sprintf("recovered from panic: %v", recovered))
}
