package errors

import "errors"

// Domain errors
var (
	// Input errors
	ErrEmptyURL    = errors.New("url cannot be empty")
	ErrInvalidURL  = errors.New("url could not be parsed")
	ErrMissingHost = errors.New("url has no hostname")

	// Job errors
	ErrJobNotFound    = errors.New("job not found")
	ErrJobNotFinished = errors.New("job has not finished")

	// Brand table errors
	ErrEmptyBrandName  = errors.New("brand name cannot be empty")
	ErrNoBrandDomains  = errors.New("brand has no canonical domains")
	ErrBrandTableEmpty = errors.New("brand table is empty")

	// Checker errors
	ErrFeedKeyMissing = errors.New("reputation feed API key not configured")
)
