// Package guest exposes the bridge surface to WebAssembly guests as wazero
// host modules.
//
// The surface is declared once in surface.wit and split into four
// interfaces, each registered as its own host module:
//
//	glint:bridge/variant@0.1.0   value construction, coercion, lists
//	glint:bridge/app@0.1.0       application event loops
//	glint:bridge/tasks@0.1.0     deferred task queues
//	glint:bridge/object@0.1.0    property class instances
//
// Registration validates the Go host functions against the parsed WIT
// declaration, so the embedded text is the single source of truth for the
// boundary.
//
// # Quick Start
//
//	rt := wazero.NewRuntime(ctx)
//	defer rt.Close(ctx)
//
//	reg := guest.NewRegistry(guest.Config{
//	    Runtime: rt,
//	    Bridge:  bridge.New(),
//	    App:     app.Config{Name: "demo"},
//	})
//	defer reg.Close()
//
//	if err := reg.Register(ctx); err != nil {
//	    return err
//	}
//	mod, err := rt.Instantiate(ctx, guestWasm)
//
// # Ownership
//
// Handles returned to the guest are owned by the guest: every handle from
// a create-*, clone, list-get, list-finish, or object-get call must
// eventually be passed to delete. list-append and object-set borrow their
// value argument; the guest keeps ownership. fill-list transfers ownership
// of each element handle to the glint_list_sink export.
//
// Failures are in-band sentinel results (0 for handles, -1/-2 for counts)
// and never traps; contract violations are additionally logged through the
// package logger.
package guest
