package state

// Task is a unit of work on the microtask queue.
type Task func() error

// Queue is a FIFO microtask queue. Tasks enqueued while draining run in the
// same drain, after the tasks already queued.
type Queue struct {
	tasks    []Task
	draining bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends t to the queue.
func (q *Queue) Enqueue(t Task) {
	q.tasks = append(q.tasks, t)
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Drain runs queued tasks until the queue is empty. It stops at the first
// error and leaves the remaining tasks queued. A nested Drain call is a
// no-op.
func (q *Queue) Drain() error {
	if q.draining {
		return nil
	}
	q.draining = true
	defer func() { q.draining = false }()

	for len(q.tasks) > 0 {
		t := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		if err := t(); err != nil {
			return err
		}
	}
	q.tasks = nil
	return nil
}
