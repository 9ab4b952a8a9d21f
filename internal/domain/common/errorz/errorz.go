package errorz

import "errors"

var (
	ErrInvalidCallbackData = errors.New("invalid callback data")
	ErrMalformedToken      = errors.New("malformed transition token")
	ErrUnknownEventGame    = errors.New("unknown event game")
	ErrSourceUnavailable   = errors.New("event source unavailable")
	ErrGenerationFailed    = errors.New("content generation failed")
	ErrValidation          = errors.New("invalid input")
	ErrAlreadyEnrolled     = errors.New("already enrolled")
)
