package queue

import (
	"math/rand"
	"slices"
	"strconv"
	"testing"

	"github.com/tychoish/fun/assert"
	"github.com/tychoish/fun/assert/check"
)

func fill(t *testing.T, tracker *Tracker, values ...string) *Queue {
	t.Helper()
	q, err := New(WithAllocator(tracker))
	assert.NotError(t, err)
	for _, v := range values {
		assert.NotError(t, q.InsertTail(v))
	}
	return q
}

func randomValues(r *rand.Rand, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(r.Intn(n + 1))
	}
	return out
}

func TestSort(t *testing.T) {
	t.Run("Fruit", func(t *testing.T) {
		q := fill(t, NewTracker(), "banana", "apple", "cherry")
		defer q.Free()

		q.Sort()
		assert.True(t, slices.Equal(q.Values(), []string{"apple", "banana", "cherry"}))
		check.Equal(t, 3, q.Size())
		check.Equal(t, "cherry", string(q.tail.value))
		assert.NotError(t, q.Validate())
	})
	t.Run("Small", func(t *testing.T) {
		q := fill(t, NewTracker())
		defer q.Free()
		q.Sort()
		check.Equal(t, 0, q.Size())
		assert.True(t, q.tail == nil)

		assert.NotError(t, q.InsertTail("x"))
		node := q.head
		q.Sort()
		assert.True(t, q.head == node && q.tail == node)
	})
	t.Run("ByteOrder", func(t *testing.T) {
		q := fill(t, NewTracker(), "b", "B", "", "ab", "a", "\xff")
		defer q.Free()

		q.Sort()
		assert.True(t, slices.Equal(q.Values(), []string{"", "B", "a", "ab", "b", "\xff"}))
	})
	t.Run("Permutation", func(t *testing.T) {
		r := rand.New(rand.NewSource(42))
		for _, n := range []int{2, 3, 7, 64, 513} {
			tracker := NewTracker()
			values := randomValues(r, n)
			q := fill(t, tracker, values...)
			blocks := tracker.Blocks()

			q.Sort()
			expected := slices.Clone(values)
			slices.Sort(expected)

			assert.True(t, slices.Equal(q.Values(), expected))
			assert.True(t, slices.IsSorted(q.Values()))
			check.Equal(t, n, q.Size())
			check.Equal(t, blocks, tracker.Blocks())
			assert.NotError(t, q.Validate())

			q.Sort()
			assert.True(t, slices.Equal(q.Values(), expected))

			q.Free()
			assert.NotError(t, tracker.Leaked())
		}
	})
}

func TestProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	t.Run("SizeCountsInsertions", func(t *testing.T) {
		q := fill(t, NewTracker())
		defer q.Free()
		for i := 0; i < 100; i++ {
			if r.Intn(2) == 0 {
				assert.NotError(t, q.InsertHead(strconv.Itoa(i)))
			} else {
				assert.NotError(t, q.InsertTail(strconv.Itoa(i)))
			}
			check.Equal(t, i+1, q.Size())
		}
		assert.NotError(t, q.Validate())
	})
	t.Run("LIFORoundTrip", func(t *testing.T) {
		q := fill(t, NewTracker(), "x", "y")
		defer q.Free()

		assert.NotError(t, q.InsertHead("pushed"))
		buf := make([]byte, 32)
		assert.NotError(t, q.RemoveHead(buf))
		check.Equal(t, "pushed", cstr(buf))
		check.Equal(t, 2, q.Size())
	})
	t.Run("FIFOOrder", func(t *testing.T) {
		values := randomValues(r, 50)
		q := fill(t, NewTracker(), values...)
		defer q.Free()

		buf := make([]byte, 32)
		for _, v := range values {
			assert.NotError(t, q.RemoveHead(buf))
			check.Equal(t, v, cstr(buf))
		}
		check.Equal(t, 0, q.Size())
		assert.True(t, q.head == nil && q.tail == nil)
		assert.NotError(t, q.Validate())
	})
	t.Run("ReverseSelfInverse", func(t *testing.T) {
		values := randomValues(r, 33)
		q := fill(t, NewTracker(), values...)
		defer q.Free()

		q.Reverse()
		reversed := slices.Clone(values)
		slices.Reverse(reversed)
		assert.True(t, slices.Equal(q.Values(), reversed))
		assert.NotError(t, q.Validate())

		q.Reverse()
		assert.True(t, slices.Equal(q.Values(), values))
	})
	t.Run("FailureKeepsState", func(t *testing.T) {
		q := fill(t, NewTracker())
		defer q.Free()

		assert.ErrorIs(t, q.RemoveHead(make([]byte, 8)), ErrEmptyQueue)
		check.Equal(t, 0, q.Size())
		assert.NotError(t, q.Validate())
	})
	t.Run("TailAfterDrain", func(t *testing.T) {
		q := fill(t, NewTracker(), "a", "b", "c")
		defer q.Free()
		for q.Size() > 0 {
			assert.NotError(t, q.RemoveHead(nil))
		}
		assert.True(t, q.tail == nil)

		assert.NotError(t, q.InsertTail("d"))
		assert.True(t, slices.Equal(q.Values(), []string{"d"}))
		assert.NotError(t, q.Validate())
	})
}
