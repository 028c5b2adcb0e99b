package domain

import "errors"

var (
	ErrInvalidTravelers = errors.New("travelers must be at least 1")
	ErrTooManyTravelers = errors.New("travelers exceed package capacity")
)
