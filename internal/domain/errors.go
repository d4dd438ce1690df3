package domain

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrProviderFailure   = errors.New("provider failure")
	ErrNoVideo           = errors.New("No video generated")
	ErrPollExhausted     = errors.New("video polling attempts exhausted")
	ErrPollTimeout       = errors.New("video generation timed out")
	ErrMissingCredential = errors.New("provider credential missing")
	ErrStatsUnavailable  = errors.New("stats unavailable without database")
)
