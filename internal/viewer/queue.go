package viewer

import (
	"context"
	"sync"
)

// Queue hands work from background goroutines to the UI goroutine. Tasks run
// only when the UI loop calls Drain.
type Queue struct {
	tasks  chan func()
	wake   func()
	closed chan struct{}
	once   sync.Once
}

// NewQueue creates a queue holding up to size pending tasks. wake, when not
// nil, is called after each Post to interrupt a blocked event wait.
func NewQueue(size int, wake func()) *Queue {
	return &Queue{
		tasks:  make(chan func(), size),
		wake:   wake,
		closed: make(chan struct{}),
	}
}

// Post schedules fn on the UI goroutine. It blocks while the queue is full
// and fails once ctx is done or the queue is closed.
func (q *Queue) Post(ctx context.Context, fn func()) error {
	select {
	case <-q.closed:
		return ErrQueueClosed
	default:
	}

	select {
	case q.tasks <- fn:
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closed:
		return ErrQueueClosed
	}

	if q.wake != nil {
		q.wake()
	}
	return nil
}

// Drain runs every pending task and returns how many ran. Only the UI
// goroutine may call it.
func (q *Queue) Drain() int {
	n := 0
	for {
		select {
		case fn := <-q.tasks:
			fn()
			n++
		default:
			return n
		}
	}
}

// Run drives the UI loop: it draws once, then until done reports true it
// waits for events, runs pending tasks and draws again.
func (q *Queue) Run(done func() bool, wait func(), draw func()) {
	draw()
	for !done() {
		wait()
		q.Drain()
		draw()
	}
}

// Close rejects further posts. Pending tasks are discarded.
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.closed)
		for {
			select {
			case <-q.tasks:
			default:
				return
			}
		}
	})
}
