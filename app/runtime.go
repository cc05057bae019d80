package app

import (
	"sync"

	glintbridge "github.com/glintui/glint-bridge"
)

// ExecFunc defines how a runtime's tasks run on the loop goroutine.
// A nil ExecFunc calls Task.Execute directly.
type ExecFunc func(t glintbridge.Task)

// queued pairs a task with the executor of the runtime that queued it.
type queued struct {
	task glintbridge.Task
	exec ExecFunc
}

// Runtime is the capability to queue tasks onto an application's loop.
// It replaces global runtime lookup: whoever holds the Runtime may
// queue, nobody else can.
type Runtime struct {
	app  *Application
	exec ExecFunc

	mu       sync.Mutex
	released bool
}

var _ glintbridge.TaskQueue = (*Runtime)(nil)

// StartRuntime registers an executor and returns the queueing
// capability bound to it.
func (a *Application) StartRuntime(exec ExecFunc) *Runtime {
	a.log.Debug("runtime started")
	return &Runtime{app: a, exec: exec}
}

// Queue schedules t to run later on the loop goroutine, FIFO, never
// synchronously. It reports false when the runtime has been released,
// the application has stopped, or t is nil; after false the task will
// never run. A task may Queue again from inside its own execution; it
// runs in a later loop iteration.
func (r *Runtime) Queue(t glintbridge.Task) bool {
	if t == nil {
		return false
	}
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return false
	}
	exec := r.exec
	r.mu.Unlock()
	return r.app.enqueue(queued{task: t, exec: exec})
}

// Release detaches the runtime; further Queue calls report false.
func (r *Runtime) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.released {
		r.released = true
		r.app.log.Debug("runtime released")
	}
}

func (a *Application) enqueue(q queued) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.stopped {
		return false
	}
	a.pending = append(a.pending, q)
	a.signal()
	return true
}
