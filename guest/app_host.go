package guest

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/glintui/glint-bridge/app"
	"github.com/glintui/glint-bridge/handle"
)

func (r *Registry) appFuncs() []hostFunc {
	return []hostFunc{
		{
			name:    "app-new",
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				cfg := r.appCfg
				a := app.New(&cfg)
				id, err := r.apps.Put(a)
				if err != nil {
					Logger().Warn("application not stored", zap.Error(err))
					_ = a.Close()
					stack[0] = 0
					return
				}
				stack[0] = uint64(id)
			},
		},
		{
			name:    "app-exec",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				a, ok := r.apps.Get(handle.ID(uint32(stack[0])))
				if !ok {
					Logger().Warn("app-exec on dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = i32ret(-1)
					return
				}
				stack[0] = i32ret(int32(a.Exec()))
			},
		},
		{
			name:    "app-exit",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				a, ok := r.apps.Get(handle.ID(uint32(stack[0])))
				if !ok {
					Logger().Warn("app-exit on dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = 0
					return
				}
				a.Exit(int(int32(uint32(stack[1]))))
				stack[0] = 1
			},
		},
		{
			name:    "app-quit",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				a, ok := r.apps.Get(handle.ID(uint32(stack[0])))
				if !ok {
					Logger().Warn("app-quit on dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = 0
					return
				}
				a.Quit()
				stack[0] = 1
			},
		},
		{
			name:    "app-delete",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				a, ok := r.apps.Drop(handle.ID(uint32(stack[0])))
				if !ok {
					Logger().Warn("app-delete on dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = 0
					return
				}
				_ = a.Close()
				stack[0] = 1
			},
		},
	}
}
