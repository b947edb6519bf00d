package model

import (
	"errors"
	"fmt"
)

// Ошибки ядра. Сравнивать через errors.Is.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStorage            = errors.New("storage failure")
)

// Разновидности ErrValidation.
var (
	ErrMissingRequired = fmt.Errorf("%w: location, country and content are required", ErrValidation)
	ErrInvalidNumeric  = fmt.Errorf("%w: lat/lng must be numeric", ErrValidation)
)
