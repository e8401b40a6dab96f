package errors

import "errors"

// Sentinel errors for common error conditions
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput indicates that input validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderNotSupported indicates that a search or model provider name
	// is not part of the supported set
	ErrProviderNotSupported = errors.New("provider not supported")

	// ErrStageNotFound indicates that the workflow resolved a stage name
	// that was never registered
	ErrStageNotFound = errors.New("stage not found")

	// ErrMaxStepsExceeded indicates that a workflow run exceeded its step
	// bound, which points at a cyclic misconfiguration
	ErrMaxStepsExceeded = errors.New("maximum workflow steps exceeded")

	// ErrRateLimited indicates that an upstream service rejected a request
	// because of rate limiting
	ErrRateLimited = errors.New("rate limited")

	// ErrGeneration indicates that the generation capability failed
	ErrGeneration = errors.New("generation failed")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
