package queue

import "github.com/pkg/errors"

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAllocationFailure = errors.New("allocation failure")
	ErrEmptyQueue        = errors.New("queue is empty")
	ErrCorrupted         = errors.New("queue is corrupted")
)
