package entity

import "errors"

// Standard domain errors
var (
	ErrInvalidRequest    = errors.New("invalid request parameters")
	ErrImageFetch        = errors.New("source image could not be downloaded")
	ErrNoImageInResponse = errors.New("no image found in model response")
	ErrAllModelsFailed   = errors.New("both primary and fallback models failed")
	ErrAgentEmptyReply   = errors.New("agent returned no text")
	ErrAgentMaxSteps     = errors.New("agent exceeded the maximum number of steps")
	ErrReadOnlyQuery     = errors.New("only single SELECT statements are allowed")
	ErrResourceNotFound  = errors.New("the requested resource was not found")
)
