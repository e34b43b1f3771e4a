package ingest

import "sync"

// jobQueue is an unbounded FIFO of ingestion jobs. Pushes never block, so
// Enqueue stays synchronous and cheap no matter how far behind the worker is.
type jobQueue struct {
	mu    sync.Mutex
	items []*Job
	wake  chan struct{}
}

func newJobQueue() *jobQueue {
	return &jobQueue{
		wake: make(chan struct{}, 1),
	}
}

func (q *jobQueue) push(job *Job) {
	q.mu.Lock()
	q.items = append(q.items, job)
	q.mu.Unlock()

	// Coalesced wakeup: the consumer drains until empty after each signal,
	// so one buffered slot is enough.
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *jobQueue) pop() (*Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	job := q.items[0]
	q.items = q.items[1:]
	return job, true
}

func (q *jobQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
