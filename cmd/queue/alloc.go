package queue

import (
	"fmt"

	"github.com/pkg/errors"
)

// Nominal sizes charged to an Allocator for the fixed parts of a queue.
const (
	HeaderSize = 32
	NodeSize   = 16
)

// Allocator hands out storage for queue headers, nodes and values. Every
// successful Alloc is matched by exactly one Free of the same size.
type Allocator interface {
	Alloc(size int) error
	Free(size int)
}

type runtimeAllocator struct{}

func (runtimeAllocator) Alloc(int) error { return nil }
func (runtimeAllocator) Free(int)        {}

// Tracker is an accounting Allocator with fault injection.
type Tracker struct {
	blocks   int
	bytes    int
	allocs   int
	frees    int
	badFrees int

	limit   int
	failAt  int
	refused int
}

func NewTracker() *Tracker {
	return &Tracker{failAt: -1}
}

func (t *Tracker) Alloc(size int) error {
	if t.failAt == 0 {
		t.failAt = -1
		t.refused++
		return errors.Wrap(ErrAllocationFailure, "injected failure")
	}

	if t.limit > 0 && t.bytes+size > t.limit {
		t.refused++
		return errors.Wrapf(ErrAllocationFailure, "limit of %d bytes reached", t.limit)
	}

	if t.failAt > 0 {
		t.failAt--
	}

	t.allocs++
	t.blocks++
	t.bytes += size
	return nil
}

func (t *Tracker) Free(size int) {
	if t.blocks == 0 || t.bytes < size {
		t.badFrees++
		return
	}

	t.frees++
	t.blocks--
	t.bytes -= size
}

// FailAfter lets n more allocations succeed and refuses the one after them.
// Allocations refused by the limit do not count towards n.
// A negative n disarms the injection.
func (t *Tracker) FailAfter(n int) {
	t.failAt = n
}

// SetLimit caps the number of live bytes. Zero removes the cap.
func (t *Tracker) SetLimit(bytes int) {
	t.limit = bytes
}

func (t *Tracker) Blocks() int   { return t.blocks }
func (t *Tracker) Bytes() int    { return t.bytes }
func (t *Tracker) Allocs() int   { return t.allocs }
func (t *Tracker) Frees() int    { return t.frees }
func (t *Tracker) BadFrees() int { return t.badFrees }
func (t *Tracker) Refused() int  { return t.refused }

// Leaked returns an error when blocks are still outstanding or a free did not
// match any allocation.
func (t *Tracker) Leaked() error {
	if t.badFrees > 0 {
		return errors.Errorf("%d frees without a matching allocation", t.badFrees)
	}
	if t.blocks > 0 {
		return errors.Errorf("%d blocks (%d bytes) still allocated", t.blocks, t.bytes)
	}
	return nil
}

func (t *Tracker) String() string {
	return fmt.Sprintf("blocks=%d bytes=%d allocs=%d frees=%d refused=%d", t.blocks, t.bytes, t.allocs, t.frees, t.refused)
}
