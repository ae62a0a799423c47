package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when a job or its schedule is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrJobNotFound is returned when a job is not registered
	ErrJobNotFound = errors.New("job not found")
)
