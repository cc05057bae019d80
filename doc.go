// Package glintbridge provides a Go embedding bridge for a GUI-toolkit
// style dynamic value system: tagged-union values, opaque handle
// lifetimes, an application event loop with a task queue, and
// data-driven property objects, exposed to WebAssembly guests through
// wazero host modules.
//
// The two sides of the boundary share no allocator and no container
// ABI. Values cross one at a time as opaque handles; containers cross
// element-wise through callbacks; strings cross as borrowed UTF-8 byte
// spans. Every handle is owned by exactly one side at a time and owes
// exactly one delete.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	glint-bridge/        Root package with shared collaborator interfaces
//	├── variant/         Tagged-union values and the coercion matrix
//	├── handle/          Generational handle tables
//	├── bridge/          Exported operation surface over handles
//	├── app/             Application lifecycle and task queue
//	├── object/          Data-driven property classes and instances
//	├── codec/           Canonical CBOR form of values
//	├── manifest/        TOML configuration
//	├── guest/           wazero host modules and the WIT surface
//	├── errors/          Structured bridge errors
//	└── cmd/glint/       One-shot and interactive inspector CLI
//
// # Quick Start
//
// Create values behind handles and coerce them out:
//
//	b := bridge.New()
//	defer b.Close()
//
//	id := b.CreateFloat64(3.9)
//	n, ok, err := b.FillInt32(id) // 4, true, nil
//	b.Delete(id)
//
// Run an application loop with queued tasks:
//
//	a := app.New(&app.Config{Name: "demo"})
//	rt := a.StartRuntime(nil)
//	rt.Queue(work)       // runs inside Exec, FIFO
//	code := a.Exec()     // blocks until a task calls a.Exit(code)
//
// Expose the surface to a wasm guest:
//
//	reg := guest.NewRegistry(guest.Config{Runtime: rt, Bridge: b})
//	err := reg.Register(ctx)
//
// # Thread Safety
//
// Bridge and handle tables are safe for concurrent use. A single
// variant.Value is not internally synchronized: when one crosses a
// goroutine boundary it moves, it is not shared. Exec runs tasks on
// the calling goroutine only.
package glintbridge
