package core

import (
	"errors"
	"fmt"
)

// MaxCells bounds the number of cells a single grid buffer may hold.
const MaxCells = 1 << 26

var (
	// ErrInvalidDimensions reports a non-positive or oversized grid request.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	// ErrAllocation reports that a backend could not provide buffer storage.
	ErrAllocation = errors.New("buffer allocation failed")
	// ErrReleased reports use of a buffer or simulation after release.
	ErrReleased = errors.New("resource released")
)

// ValidateDimensions rejects grids that are empty or exceed MaxCells.
func ValidateDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	if w > MaxCells/h {
		return fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidDimensions, w, h, MaxCells)
	}
	return nil
}
