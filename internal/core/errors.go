package core

import (
	"errors"

	"crewclock.service/internal/ports/repository"
)

var (
	ErrNotFound   = repository.ErrNotFound
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)
