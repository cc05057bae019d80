// Package app provides the toolkit application instance: an explicit
// object owning an event loop that runs queued tasks until told to
// exit. There is no discoverable global application; embedders create
// one and hand out the runtime capability to whoever may queue.
package app

import (
	"sync"

	"go.uber.org/zap"

	glintbridge "github.com/glintui/glint-bridge"
)

// Config carries application identity and startup arguments.
type Config struct {
	// Name, Organization and Version are optional metadata, surfaced
	// for logging and embedder introspection.
	Name         string
	Organization string
	Version      string

	// Args is the argv equivalent handed to the application.
	Args []string

	// Logger overrides the package logger for this instance.
	Logger *zap.Logger
}

// Application owns one event loop. Exec runs the loop on the calling
// goroutine; Exit, Quit, Close and task queueing are safe from any
// goroutine.
type Application struct {
	cfg Config
	log *zap.Logger

	mu       sync.Mutex
	pending  []queued
	wake     chan struct{}
	running  bool
	stopped  bool
	closed   bool
	exitCode int
}

var _ glintbridge.Runner = (*Application)(nil)

// New creates an application from cfg. A nil cfg is treated as empty.
func New(cfg *Config) *Application {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	log := c.Logger
	if log == nil {
		log = Logger()
	}
	a := &Application{
		cfg:  c,
		log:  log,
		wake: make(chan struct{}, 1),
	}
	a.log.Debug("application created",
		zap.String("name", c.Name),
		zap.Strings("args", c.Args))
	return a
}

// Config returns a copy of the application's configuration.
func (a *Application) Config() Config {
	return a.cfg
}

// Exec runs the event loop on the calling goroutine until Exit, then
// returns the exit code. Queued tasks execute here, in queue order.
// An application runs at most one loop over its lifetime: after Close,
// after the loop has exited, or while another Exec is running, Exec
// returns -1 immediately.
func (a *Application) Exec() int {
	a.mu.Lock()
	if a.closed || a.stopped {
		a.mu.Unlock()
		return -1
	}
	if a.running {
		a.mu.Unlock()
		a.log.Warn("exec re-entered while the loop is running")
		return -1
	}
	a.running = true
	a.exitCode = 0
	a.mu.Unlock()

	a.log.Debug("event loop started")

	for {
		a.mu.Lock()
		if a.closed {
			a.discardLocked()
			a.running = false
			a.mu.Unlock()
			return -1
		}
		if a.stopped {
			a.discardLocked()
			code := a.exitCode
			a.running = false
			a.mu.Unlock()
			a.log.Debug("event loop stopped", zap.Int("code", code))
			return code
		}
		var next queued
		have := false
		if len(a.pending) > 0 {
			next = a.pending[0]
			a.pending = a.pending[1:]
			have = true
		}
		a.mu.Unlock()

		if have {
			a.run(next)
			continue
		}
		<-a.wake
	}
}

// Exit stops a running loop with the given code. Pending tasks are
// discarded, not drained. Without a running loop it does nothing.
func (a *Application) Exit(code int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running || a.stopped || a.closed {
		return
	}
	a.stopped = true
	a.exitCode = code
	a.signal()
}

// Quit is Exit(0).
func (a *Application) Quit() {
	a.Exit(0)
}

// Close releases the instance. A running loop unwinds with -1; later
// Exec calls return -1 immediately. Close is idempotent.
func (a *Application) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	a.discardLocked()
	a.signal()
	a.log.Debug("application closed")
	return nil
}

func (a *Application) discardLocked() {
	if n := len(a.pending); n > 0 {
		a.log.Debug("discarding pending tasks", zap.Int("count", n))
		a.pending = nil
	}
}

// signal wakes a parked loop. Callers hold a.mu; the send never blocks.
func (a *Application) signal() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// run executes one task, via its runtime's executor when present. A
// panicking task is contained and logged; the loop keeps going.
func (a *Application) run(q queued) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("task panicked", zap.Any("panic", r))
		}
	}()
	if q.exec != nil {
		q.exec(q.task)
		return
	}
	q.task.Execute()
}
