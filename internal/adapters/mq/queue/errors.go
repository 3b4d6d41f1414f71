package queue

import "errors"

// Sentinel errors returned by Enqueue.
var (
	ErrFull   = errors.New("submission queue full")
	ErrClosed = errors.New("submission queue closed")
)
