package guest

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	glintbridge "github.com/glintui/glint-bridge"
	"github.com/glintui/glint-bridge/app"
	"github.com/glintui/glint-bridge/handle"
)

// guestTaskExport is the export a guest must provide to receive queued
// task callbacks.
const guestTaskExport = "glint_task_exec"

// taskRuntime pairs a queue capability with the guest entry point its
// tasks dispatch to.
type taskRuntime struct {
	rt   *app.Runtime
	exec api.Function
}

func (tr *taskRuntime) Release() {
	tr.rt.Release()
}

func (r *Registry) taskFuncs() []hostFunc {
	return []hostFunc{
		{
			name:    "runtime-init",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, mod api.Module, stack []uint64) {
				a, ok := r.apps.Get(handle.ID(uint32(stack[0])))
				if !ok {
					Logger().Warn("runtime-init on dead app handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = 0
					return
				}
				exec := mod.ExportedFunction(guestTaskExport)
				if exec == nil {
					Logger().Warn("guest exports no task entry", zap.String("export", guestTaskExport))
					stack[0] = 0
					return
				}
				tr := &taskRuntime{rt: a.StartRuntime(nil), exec: exec}
				id, err := r.runtimes.Put(tr)
				if err != nil {
					Logger().Warn("task runtime not stored", zap.Error(err))
					tr.Release()
					stack[0] = 0
					return
				}
				stack[0] = uint64(id)
			},
		},
		{
			name:    "queue",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(ctx context.Context, _ api.Module, stack []uint64) {
				tr, ok := r.runtimes.Get(handle.ID(uint32(stack[0])))
				if !ok {
					Logger().Warn("queue without runtime", zap.Uint32("runtime", uint32(stack[0])))
					stack[0] = 0
					return
				}
				cookie := uint64(uint32(stack[1]))
				queued := tr.rt.Queue(glintbridge.TaskFunc(func() {
					if _, err := tr.exec.Call(ctx, cookie); err != nil {
						Logger().Warn("guest task failed", zap.Error(err))
					}
				}))
				stack[0] = 0
				if queued {
					stack[0] = 1
				}
			},
		},
		{
			name:    "runtime-release",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				tr, ok := r.runtimes.Drop(handle.ID(uint32(stack[0])))
				if !ok {
					Logger().Warn("runtime-release on dead handle", zap.Uint32("runtime", uint32(stack[0])))
					stack[0] = 0
					return
				}
				tr.Release()
				stack[0] = 1
			},
		},
	}
}
