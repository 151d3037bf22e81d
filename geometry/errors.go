package geometry

import "errors"

// Sentinel errors for the geometry package, styled after lvlath's
// package-prefixed sentinel convention (matrix.ErrInvalidDimensions).
var (
	// ErrDimensionMismatch indicates two vectors/matrices have incompatible shapes.
	ErrDimensionMismatch = errors.New("geometry: dimension mismatch")

	// ErrSingular indicates a matrix required to be invertible was not.
	ErrSingular = errors.New("geometry: matrix is singular")

	// ErrEmptyRegion indicates an operation was asked to act on nothing:
	// Region.Sample on a region with zero total volume, or BoundingBox on an
	// empty point set.
	ErrEmptyRegion = errors.New("geometry: region is empty")

	// ErrDegenerateBox indicates a Box was constructed with Lo[i] > Hi[i] for some axis.
	ErrDegenerateBox = errors.New("geometry: box has Lo > Hi on some axis")
)
