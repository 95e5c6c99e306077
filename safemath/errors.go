package safemath

import "errors"

var (
	// ErrOverflow indicates an operation exceeded the uint64 range.
	ErrOverflow = errors.New("safemath: arithmetic overflow")

	// ErrUnderflow indicates a subtraction would go below zero.
	ErrUnderflow = errors.New("safemath: arithmetic underflow")
)
