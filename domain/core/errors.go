package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrDesignNotFound = fmt.Errorf("%w: study design", ErrNotFound)

	// Calculation errors
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrUnsupported      = errors.New("unsupported parameter combination")

	// Result contract errors
	ErrInvalidResult = errors.New("calculator result violates contract")
)
