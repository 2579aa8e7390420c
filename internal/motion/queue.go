package motion

import "sync"

// queue is the FIFO admission gate for movement batches. At most one
// movement executes at a time; the rest wait in arrival order. All
// methods are safe for concurrent use.
type queue struct {
	mu        sync.Mutex
	pending   []string
	executing string
	members   map[string]struct{}
}

func newQueue() *queue {
	return &queue{members: make(map[string]struct{})}
}

// enqueue appends a movement id to the back of the queue.
func (q *queue) enqueue(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, id)
	q.members[id] = struct{}{}
}

// contains reports whether the movement id is still queued or
// executing. A movement that observes false has been cancelled.
func (q *queue) contains(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.members[id]
	return ok
}

// tryAcquire promotes the movement to executing if it is at the head of
// the queue and nothing else is executing.
func (q *queue) tryAcquire(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.executing != "" || len(q.pending) == 0 || q.pending[0] != id {
		return false
	}
	q.pending = q.pending[1:]
	q.executing = id
	return true
}

// release removes a finished or abandoned movement.
func (q *queue) release(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.executing == id {
		q.executing = ""
	} else {
		for i, p := range q.pending {
			if p == id {
				q.pending = append(q.pending[:i], q.pending[i+1:]...)
				break
			}
		}
	}
	delete(q.members, id)
}

// clear drops every pending and executing movement in one atomic step.
// Waiters and the running executor observe their ids missing and finish
// as cancelled.
func (q *queue) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
	q.executing = ""
	q.members = make(map[string]struct{})
}

// depth returns the number of queued and executing movements.
func (q *queue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.members)
}
