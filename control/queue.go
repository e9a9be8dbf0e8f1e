package control

import "sync"

// Queue collects commands from any goroutine until the frame loop drains
// them.
type Queue struct {
	mu      sync.Mutex
	pending []Command
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(cmds ...Command) {
	if len(cmds) == 0 {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, cmds...)
	q.mu.Unlock()
}

// Drain returns all pending commands in push order and empties the queue.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	cmds := q.pending
	q.pending = nil
	return cmds
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
