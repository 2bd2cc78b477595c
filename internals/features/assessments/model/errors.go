package model

import "errors"

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrNoResult           = errors.New("no result found")
	ErrAlreadyTaken       = errors.New("already taken")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidAnswers     = errors.New("invalid answers format")
	ErrTimeLimitExceeded  = errors.New("time limit exceeded")
	ErrInvalidAssessment  = errors.New("invalid assessment")
)
