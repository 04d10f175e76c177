package services

import "errors"

var (
	// ErrMalformedOutput means the model response is not parseable
	// structured data after fence stripping.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrValidation means the response parsed but violates the scoring
	// contract.
	ErrValidation = errors.New("scoring contract violation")

	ErrJobNotFound       = errors.New("job not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrNoCandidates      = errors.New("no candidates found for this company")
	ErrBatchTooLarge     = errors.New("candidate batch exceeds the safety ceiling")
	ErrDuplicateScore    = errors.New("score already exists for this candidate-job pair")
	ErrScoreNotFound     = errors.New("score not found")
)
