package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job cannot be found by ID.
	ErrJobNotFound = errors.New("job not found")

	// ErrEmptyBatch is returned when a submission contains no requests.
	ErrEmptyBatch = errors.New("batch must contain at least one request")

	// ErrCountOutOfRange is returned when a request count is outside [1, 1000].
	ErrCountOutOfRange = errors.New("request count must be between 1 and 1000")

	// ErrBatchTooLarge is returned when the total requested items exceed 1000.
	ErrBatchTooLarge = errors.New("total requested items exceed maximum batch size (1000)")

	// ErrUnknownCategory is returned when a request names an unsupported category.
	ErrUnknownCategory = errors.New("unknown artifact category")
)
