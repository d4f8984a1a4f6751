package onboarding

import "errors"

var (
	ErrInvalidClass    = errors.New("invalid class")
	ErrInvalidBirthday = errors.New("invalid birthday")
	ErrNameRequired    = errors.New("name is required")
)
