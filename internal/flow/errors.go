package flow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the class every rejected packing input belongs to.
	ErrInvalidInput = errors.New("invalid layout input")
	// ErrInvalidSpacing is returned when spacing is negative or not finite.
	ErrInvalidSpacing = fmt.Errorf("%w: spacing must be a finite non-negative number", ErrInvalidInput)
	// ErrInvalidContainerWidth is returned when the container width is negative or not finite.
	ErrInvalidContainerWidth = fmt.Errorf("%w: container width must be a finite non-negative number", ErrInvalidInput)
	// ErrInvalidSize is returned when an item size has a negative or non-finite dimension.
	ErrInvalidSize = fmt.Errorf("%w: item sizes must be finite non-negative numbers", ErrInvalidInput)
)
