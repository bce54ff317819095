package queue

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type qNode struct {
	value []byte
	next  *qNode
}

// Queue is a singly linked list of strings. The head owns the chain, tail is
// only a shortcut to the last node.
type Queue struct {
	head *qNode
	tail *qNode
	size int

	alloc    Allocator
	logger   logrus.FieldLogger
	released bool
}

type Option func(*Queue)

func WithAllocator(alloc Allocator) Option {
	return func(q *Queue) {
		q.alloc = alloc
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(q *Queue) {
		q.logger = logger
	}
}

func New(opts ...Option) (*Queue, error) {
	q := &Queue{alloc: runtimeAllocator{}, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(q)
	}

	if err := q.alloc.Alloc(HeaderSize); err != nil {
		q.logger.WithError(err).Debug("queue: could not allocate header")
		return nil, errors.Wrap(err, "new queue")
	}

	return q, nil
}

// Free releases every node, then the queue itself. Calling it on a nil or
// already released queue does nothing.
func (q *Queue) Free() {
	if q == nil || q.released {
		return
	}

	for q.head != nil {
		node := q.head
		q.head = node.next
		q.freeNode(node)
	}
	q.tail = nil
	q.size = 0

	q.alloc.Free(HeaderSize)
	q.released = true
}

func (q *Queue) InsertHead(item string) error {
	if q == nil || q.released {
		return errors.Wrap(ErrInvalidArgument, "insert head")
	}

	node, err := q.newNode(item)
	if err != nil {
		return errors.Wrap(err, "insert head")
	}

	node.next = q.head
	q.head = node
	if q.tail == nil {
		q.tail = node
	}
	q.size++
	return nil
}

func (q *Queue) InsertTail(item string) error {
	if q == nil || q.released {
		return errors.Wrap(ErrInvalidArgument, "insert tail")
	}

	node, err := q.newNode(item)
	if err != nil {
		return errors.Wrap(err, "insert tail")
	}

	if q.tail == nil {
		q.head, q.tail = node, node
	} else {
		q.tail.next = node
		q.tail = node
	}
	q.size++
	return nil
}

// RemoveHead unlinks the first node. When buf is not nil the removed value is
// copied into it, truncated to len(buf)-1 bytes and followed by zero bytes up
// to len(buf). Nothing past len(buf) is ever written.
func (q *Queue) RemoveHead(buf []byte) error {
	if q == nil || q.released {
		return errors.Wrap(ErrEmptyQueue, "remove head: no queue")
	}
	if q.head == nil || q.size == 0 {
		return errors.Wrap(ErrEmptyQueue, "remove head")
	}

	node := q.head
	if buf != nil {
		copyOut(buf, node.value)
	}

	q.head = node.next
	q.size--
	if q.head == nil {
		q.tail = nil
	}

	q.freeNode(node)
	return nil
}

func (q *Queue) Size() int {
	if q == nil {
		return 0
	}
	return q.size
}

func (q *Queue) Peek() (string, bool) {
	if q == nil || q.head == nil {
		return "", false
	}
	return string(q.head.value), true
}

// Values walks the chain from head to tail.
func (q *Queue) Values() []string {
	if q == nil {
		return nil
	}

	values := make([]string, 0, q.size)
	for node := q.head; node != nil; node = node.next {
		values = append(values, string(node.value))
	}
	return values
}

// Reverse flips every link in place. The old head becomes the tail.
func (q *Queue) Reverse() {
	if q == nil || q.size <= 1 {
		return
	}

	var prev *qNode
	q.tail = q.head
	for node := q.head; node != nil; {
		next := node.next
		node.next = prev
		prev = node
		node = next
	}
	q.head = prev
}

// Validate walks the chain and checks head, tail and size against it.
func (q *Queue) Validate() error {
	if q == nil {
		return nil
	}
	if q.released {
		if q.head != nil || q.tail != nil || q.size != 0 {
			return errors.Wrap(ErrCorrupted, "released queue still holds nodes")
		}
		return nil
	}

	if (q.head == nil) != (q.size == 0) || (q.tail == nil) != (q.size == 0) {
		return errors.Wrapf(ErrCorrupted, "head/tail presence does not match size %d", q.size)
	}

	seen := make(map[*qNode]struct{}, q.size)
	var last *qNode
	n := 0
	for node := q.head; node != nil; node = node.next {
		if _, found := seen[node]; found {
			return errors.Wrapf(ErrCorrupted, "cycle at position %d", n)
		}
		seen[node] = struct{}{}
		last = node
		n++
		if n > q.size {
			return errors.Wrapf(ErrCorrupted, "chain longer than size %d", q.size)
		}
	}

	if n != q.size {
		return errors.Wrapf(ErrCorrupted, "chain has %d nodes, size is %d", n, q.size)
	}
	if last != q.tail {
		return errors.Wrap(ErrCorrupted, "tail is not the last node")
	}
	return nil
}

// newNode charges the node and then its value to the allocator. The value
// takes one extra byte for the terminator slot.
func (q *Queue) newNode(item string) (*qNode, error) {
	if err := q.alloc.Alloc(NodeSize); err != nil {
		q.logger.WithError(err).Debug("queue: could not allocate node")
		return nil, err
	}

	if err := q.alloc.Alloc(len(item) + 1); err != nil {
		q.logger.WithError(err).WithField("length", len(item)).Debug("queue: could not allocate value")
		q.alloc.Free(NodeSize)
		return nil, err
	}

	value := make([]byte, len(item))
	copy(value, item)
	return &qNode{value: value}, nil
}

func (q *Queue) freeNode(node *qNode) {
	q.alloc.Free(len(node.value) + 1)
	q.alloc.Free(NodeSize)
	node.value = nil
	node.next = nil
}

func copyOut(buf []byte, value []byte) {
	if len(buf) == 0 {
		return
	}

	n := copy(buf[:len(buf)-1], value)
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
}
