package glintbridge

import "github.com/glintui/glint-bridge/variant"

// Task is one unit of work queued onto an application's event loop.
// Execute runs synchronously on the loop goroutine.
type Task interface {
	Execute()
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func()

// Execute calls f.
func (f TaskFunc) Execute() { f() }

// TaskQueue schedules tasks onto an event loop. Queue reports false
// when the queue can no longer deliver; a false return means the task
// will never run.
type TaskQueue interface {
	Queue(t Task) bool
	Release()
}

// Runner drives an application lifetime: Exec blocks running queued
// tasks until Exit supplies the return code.
type Runner interface {
	Exec() int
	Exit(code int)
	Quit()
	Close() error
}

// PropertyObject is the generated-binding instance contract: typed,
// named properties with coercing writes and cloning reads.
type PropertyObject interface {
	Get(name string) (*variant.Value, bool)
	Set(name string, v *variant.Value) bool
}
