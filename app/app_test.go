package app

import (
	"testing"

	glintbridge "github.com/glintui/glint-bridge"
)

func TestApplication_ExecReturnsExitCode(t *testing.T) {
	a := New(&Config{Name: "test"})
	defer a.Close()
	rt := a.StartRuntime(nil)

	if !rt.Queue(glintbridge.TaskFunc(func() { a.Exit(3) })) {
		t.Fatal("Queue failed")
	}

	if code := a.Exec(); code != 3 {
		t.Fatalf("Exec = %d, want 3", code)
	}
}

func TestApplication_QuitIsExitZero(t *testing.T) {
	a := New(nil)
	defer a.Close()
	rt := a.StartRuntime(nil)

	rt.Queue(glintbridge.TaskFunc(func() { a.Quit() }))

	if code := a.Exec(); code != 0 {
		t.Fatalf("Exec = %d, want 0", code)
	}
}

func TestApplication_TasksRunInOrder(t *testing.T) {
	a := New(nil)
	defer a.Close()
	rt := a.StartRuntime(nil)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		rt.Queue(glintbridge.TaskFunc(func() { order = append(order, i) }))
	}
	rt.Queue(glintbridge.TaskFunc(func() { a.Quit() }))

	a.Exec()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("Task order = %v, want [1 2 3]", order)
	}
}

func TestApplication_QueueNeverRunsSynchronously(t *testing.T) {
	a := New(nil)
	defer a.Close()
	rt := a.StartRuntime(nil)

	var order []string
	rt.Queue(glintbridge.TaskFunc(func() {
		rt.Queue(glintbridge.TaskFunc(func() {
			order = append(order, "second")
			a.Quit()
		}))
		order = append(order, "first-end")
	}))

	a.Exec()

	if len(order) != 2 || order[0] != "first-end" || order[1] != "second" {
		t.Fatalf("Order = %v, want [first-end second]", order)
	}
}

func TestApplication_SelfRequeue(t *testing.T) {
	a := New(nil)
	defer a.Close()
	rt := a.StartRuntime(nil)

	runs := 0
	var again glintbridge.TaskFunc
	again = func() {
		runs++
		if runs < 3 {
			if !rt.Queue(again) {
				t.Error("Self-requeue failed")
			}
			return
		}
		a.Exit(runs)
	}
	rt.Queue(again)

	if code := a.Exec(); code != 3 {
		t.Fatalf("Exec = %d, want 3", code)
	}
	if runs != 3 {
		t.Fatalf("Task ran %d times, want 3", runs)
	}
}

func TestApplication_ExitFromAnotherGoroutine(t *testing.T) {
	a := New(nil)
	defer a.Close()
	rt := a.StartRuntime(nil)

	rt.Queue(glintbridge.TaskFunc(func() {
		go a.Exit(7)
	}))

	if code := a.Exec(); code != 7 {
		t.Fatalf("Exec = %d, want 7", code)
	}
}

func TestApplication_ExitDiscardsPending(t *testing.T) {
	a := New(nil)
	defer a.Close()
	rt := a.StartRuntime(nil)

	ran := false
	rt.Queue(glintbridge.TaskFunc(func() {
		a.Exit(1)
		// Queued after Exit inside the same task: must never run.
		rt.Queue(glintbridge.TaskFunc(func() { ran = true }))
	}))
	rt.Queue(glintbridge.TaskFunc(func() { ran = true }))

	a.Exec()

	if ran {
		t.Fatal("Pending task ran after Exit")
	}
}

func TestApplication_ExitWithoutLoopIsNoop(t *testing.T) {
	a := New(nil)
	defer a.Close()
	rt := a.StartRuntime(nil)

	// No loop is running; Exit must not poison the next Exec.
	a.Exit(9)

	rt.Queue(glintbridge.TaskFunc(func() { a.Exit(2) }))
	if code := a.Exec(); code != 2 {
		t.Fatalf("Exec = %d, want 2", code)
	}
}

func TestApplication_ExecAfterClose(t *testing.T) {
	a := New(nil)
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if code := a.Exec(); code != -1 {
		t.Fatalf("Exec after Close = %d, want -1", code)
	}

	// Idempotent.
	if err := a.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
}

func TestApplication_CloseUnwindsRunningLoop(t *testing.T) {
	a := New(nil)
	rt := a.StartRuntime(nil)

	rt.Queue(glintbridge.TaskFunc(func() {
		go a.Close()
	}))

	if code := a.Exec(); code != -1 {
		t.Fatalf("Exec = %d after Close, want -1", code)
	}
}

func TestApplication_ExecReentry(t *testing.T) {
	a := New(nil)
	defer a.Close()
	rt := a.StartRuntime(nil)

	var nested int
	rt.Queue(glintbridge.TaskFunc(func() {
		nested = a.Exec()
		a.Exit(1)
	}))

	if code := a.Exec(); code != 1 {
		t.Fatalf("Exec = %d, want 1", code)
	}
	if nested != -1 {
		t.Fatalf("Nested Exec = %d, want -1", nested)
	}
}

func TestApplication_StopIsTerminal(t *testing.T) {
	a := New(nil)
	defer a.Close()
	rt := a.StartRuntime(nil)

	rt.Queue(glintbridge.TaskFunc(func() { a.Exit(1) }))
	if code := a.Exec(); code != 1 {
		t.Fatalf("First Exec = %d, want 1", code)
	}

	// The loop has exited: queueing fails and Exec does not restart.
	if rt.Queue(glintbridge.TaskFunc(func() {})) {
		t.Fatal("Queue succeeded after the loop exited")
	}
	if code := a.Exec(); code != -1 {
		t.Fatalf("Exec after stop = %d, want -1", code)
	}
}

func TestApplication_TaskPanicContained(t *testing.T) {
	a := New(nil)
	defer a.Close()
	rt := a.StartRuntime(nil)

	after := false
	rt.Queue(glintbridge.TaskFunc(func() { panic("boom") }))
	rt.Queue(glintbridge.TaskFunc(func() {
		after = true
		a.Quit()
	}))

	if code := a.Exec(); code != 0 {
		t.Fatalf("Exec = %d, want 0", code)
	}
	if !after {
		t.Fatal("Loop did not continue past a panicking task")
	}
}

func TestApplication_Config(t *testing.T) {
	a := New(&Config{
		Name:         "demo",
		Organization: "glint",
		Version:      "0.1.0",
		Args:         []string{"demo", "-x"},
	})
	defer a.Close()

	cfg := a.Config()
	if cfg.Name != "demo" || cfg.Organization != "glint" || cfg.Version != "0.1.0" {
		t.Fatalf("Config = %+v", cfg)
	}
	if len(cfg.Args) != 2 || cfg.Args[0] != "demo" {
		t.Fatalf("Args = %v", cfg.Args)
	}
}
