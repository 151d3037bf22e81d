package config

import "errors"

var (
	// ErrMissingField is returned when a required scenario field is absent
	// or empty.
	ErrMissingField = errors.New("config: missing required field")
	// ErrBadMatrixShape is returned when a matrix's flat data doesn't match
	// its declared rows/cols.
	ErrBadMatrixShape = errors.New("config: matrix data does not match declared shape")
	// ErrBadVectorLength is returned when a box's lo/hi vectors disagree in
	// length with each other or with the declared dimension.
	ErrBadVectorLength = errors.New("config: vector length mismatch")
	// ErrUnknownObjective is returned for an objective string other than
	// "reachability" or "safety".
	ErrUnknownObjective = errors.New("config: unknown objective")
)
