package analyzer

import "github.com/pkg/errors"

// ErrInputNotFound is matched by errors.Is for any failure to read the input log.
var ErrInputNotFound = errors.New("input not found")

// InputError reports that the input log could not be read.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return "read: " + e.Err.Error()
}

func (e *InputError) Unwrap() error { return e.Err }

func (e *InputError) Is(target error) bool { return target == ErrInputNotFound }
