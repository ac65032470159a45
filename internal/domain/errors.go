package domain

import (
	"errors"
	"strings"
)

var (
	ErrIncomplete         = errors.New("incomplete record")
	ErrDuplicate          = errors.New("duplicate record")
	ErrConnLost           = errors.New("store connection lost")
	ErrUnknownContentType = errors.New("unknown content type")
)

// ValidationError reports the required fields a record lacks.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "incomplete record, missing " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrIncomplete
}
