package broker

import orderedmap "github.com/wk8/go-ordered-map/v2"

type entry[E any] struct {
	id string
	fn Subscriber[E]
}

// registry keeps subscribers in registration order. Every change publishes a
// fresh snapshot slice, so the dispatch loop can take the current list in
// constant time and walk it without the lock.
type registry[E any] struct {
	entries  *orderedmap.OrderedMap[string, Subscriber[E]]
	snapshot []entry[E]
}

func newRegistry[E any]() registry[E] {
	return registry[E]{
		entries: orderedmap.New[string, Subscriber[E]](),
	}
}

func (r *registry[E]) add(id string, fn Subscriber[E]) {
	r.entries.Set(id, fn)
	r.rebuild()
}

func (r *registry[E]) remove(id string) bool {
	if _, ok := r.entries.Delete(id); !ok {
		return false
	}
	r.rebuild()
	return true
}

func (r *registry[E]) len() int {
	return r.entries.Len()
}

// current returns the latest snapshot. Callers must not modify it.
func (r *registry[E]) current() []entry[E] {
	return r.snapshot
}

func (r *registry[E]) rebuild() {
	next := make([]entry[E], 0, r.entries.Len())
	for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
		next = append(next, entry[E]{id: pair.Key, fn: pair.Value})
	}
	r.snapshot = next
}
