package broker

// compactAfter is the number of consumed slots tolerated at the front of the
// buffer before the live tail is moved down.
const compactAfter = 64

// fifo is an unbounded first-in first-out buffer. It is not safe for
// concurrent use; the broker guards it with its mutex.
type fifo[E any] struct {
	items []E
	head  int
}

func (q *fifo[E]) len() int {
	return len(q.items) - q.head
}

func (q *fifo[E]) push(v E) {
	q.items = append(q.items, v)
}

func (q *fifo[E]) pop() (E, bool) {
	var zero E
	if q.head == len(q.items) {
		return zero, false
	}
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactAfter && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return v, true
}
