package screens

import "sync"

// keyedQueue runs jobs with the same key one after another in submission order.
// Jobs with different keys run independently. The zero value is ready to use.
type keyedQueue struct {
	mu      sync.Mutex
	pending map[string][]func()
}

// enqueue adds job behind the jobs already waiting for key. A worker is started on exec
// only when none is draining that key.
func (q *keyedQueue) enqueue(exec Executor, key string, job func()) {
	q.mu.Lock()
	if q.pending == nil {
		q.pending = make(map[string][]func())
	}
	jobs, running := q.pending[key]
	q.pending[key] = append(jobs, job)
	q.mu.Unlock()

	if !running {
		exec.Go(func() { q.drain(key) })
	}
}

func (q *keyedQueue) drain(key string) {
	for {
		q.mu.Lock()
		jobs := q.pending[key]
		if len(jobs) == 0 {
			delete(q.pending, key)
			q.mu.Unlock()
			return
		}
		job := jobs[0]
		q.pending[key] = jobs[1:]
		q.mu.Unlock()

		job()
	}
}
