package domain

import (
	"errors"
	"fmt"
)

// ErrMissingInput is matched by errors.Is for any stage that could not find a
// raw or intermediate file.
var ErrMissingInput = errors.New("missing input file")

// MissingInputError names the file a stage expected to read.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input file: %s", e.Path)
}

func (e *MissingInputError) Unwrap() error { return ErrMissingInput }
