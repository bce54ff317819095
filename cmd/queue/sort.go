package queue

import "bytes"

// Sort orders the queue ascending by byte-wise comparison using a merge sort
// over the existing nodes. Equal values may change relative order.
func (q *Queue) Sort() {
	if q == nil || q.size <= 1 {
		return
	}

	q.head = mergeSort(q.head)

	tail := q.head
	for tail.next != nil {
		tail = tail.next
	}
	q.tail = tail
}

func mergeSort(head *qNode) *qNode {
	if head == nil || head.next == nil {
		return head
	}

	slow := head
	for fast := head.next; fast != nil && fast.next != nil; fast = fast.next.next {
		slow = slow.next
	}
	right := slow.next
	slow.next = nil

	return merge(mergeSort(head), mergeSort(right))
}

func merge(left, right *qNode) *qNode {
	var head *qNode
	link := &head

	for left != nil && right != nil {
		if bytes.Compare(left.value, right.value) < 0 {
			*link = left
			left = left.next
		} else {
			*link = right
			right = right.next
		}
		link = &(*link).next
	}

	if left != nil {
		*link = left
	} else {
		*link = right
	}
	return head
}
