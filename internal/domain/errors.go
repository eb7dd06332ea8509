package domain

import "errors"

var (
	ErrMissingID      = errors.New("listing has no id")
	ErrNegativeWeight = errors.New("weight must be non-negative")
	ErrMinScoreRange  = errors.New("min_score must be between 0 and 100")
)
