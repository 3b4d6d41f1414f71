package publisher

import "errors"

// Sentinel errors for rating publication.
var (
	ErrPublish      = errors.New("publish rating")
	ErrInvalidURL   = errors.New("invalid redis url")
	ErrEmptyStream  = errors.New("redis stream name is empty")
	ErrMarshalMatch = errors.New("encode match ratings")
)
