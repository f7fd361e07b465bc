package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain assignable to target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsCode reports whether err is a ProtocolError with the given code.
func IsCode(err error, code Code) bool {
	var perr *ProtocolError
	if errors.As(err, &perr) {
		return perr.Code == code
	}
	return false
}

// CodeOf returns the protocol code of err, or CodeInternal if err carries none.
func CodeOf(err error) Code {
	var perr *ProtocolError
	if errors.As(err, &perr) {
		return perr.Code
	}
	return CodeInternal
}
