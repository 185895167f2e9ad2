package config

import "errors"

var (
	// ErrInvalidConfig is returned when the configuration file cannot be read,
	// cannot be parsed, or fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)
