package lp

import "errors"

// Sentinel errors returned while building a Tableau.
var (
	// ErrUnknownVar is returned when a variable index or name is not defined.
	ErrUnknownVar = errors.New("lp: unknown variable")

	// ErrDuplicateVar is returned when a variable name is declared twice, or
	// when a variable appears twice in the same row.
	ErrDuplicateVar = errors.New("lp: duplicate variable")

	// ErrEmptyRow is returned when a row has no terms.
	ErrEmptyRow = errors.New("lp: empty row")

	// ErrZeroCoefficient is returned when a row term has coefficient zero.
	ErrZeroCoefficient = errors.New("lp: zero coefficient")

	// ErrInvalidBounds is returned when a lower bound exceeds an upper bound.
	ErrInvalidBounds = errors.New("lp: lower bound exceeds upper bound")
)
