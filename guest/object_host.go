package guest

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/glintui/glint-bridge/handle"
)

func (r *Registry) objectFuncs() []hostFunc {
	return []hostFunc{
		{
			name:    "class-count",
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = i32ret(int32(len(r.classes)))
			},
		},
		{
			name:    "class-find",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, mod api.Module, stack []uint64) {
				mem := mod.Memory()
				if mem == nil {
					Logger().Warn("class-find without guest memory")
					stack[0] = i32ret(-1)
					return
				}
				raw, ok := mem.Read(uint32(stack[0]), uint32(stack[1]))
				if !ok {
					Logger().Warn("class-find out of bounds",
						zap.Uint32("ptr", uint32(stack[0])),
						zap.Uint32("len", uint32(stack[1])))
					stack[0] = i32ret(-1)
					return
				}
				name := string(raw)
				stack[0] = i32ret(-1)
				for i, c := range r.classes {
					if c.Name() == name {
						stack[0] = i32ret(int32(i))
						return
					}
				}
			},
		},
		{
			name:    "class-prop-count",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				idx := int(int32(uint32(stack[0])))
				if idx < 0 || idx >= len(r.classes) {
					stack[0] = i32ret(-1)
					return
				}
				stack[0] = i32ret(int32(r.classes[idx].Len()))
			},
		},
		{
			name:    "object-new",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				idx := int(int32(uint32(stack[0])))
				if idx < 0 || idx >= len(r.classes) {
					Logger().Warn("object-new with unknown class", zap.Int("class", idx))
					stack[0] = 0
					return
				}
				id, err := r.objects.Put(r.classes[idx].New())
				if err != nil {
					Logger().Warn("object not stored", zap.Error(err))
					stack[0] = 0
					return
				}
				stack[0] = uint64(id)
			},
		},
		{
			name:    "object-delete",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				if _, ok := r.objects.Drop(handle.ID(uint32(stack[0]))); !ok {
					Logger().Warn("object-delete on dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = 0
					return
				}
				stack[0] = 1
			},
		},
		{
			name:    "object-get",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				o, ok := r.objects.Get(handle.ID(uint32(stack[0])))
				if !ok {
					Logger().Warn("object-get on dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = 0
					return
				}
				v, ok := o.GetAt(int(uint32(stack[1])))
				if !ok {
					stack[0] = 0
					return
				}
				stack[0] = uint64(r.bridge.Adopt(v))
			},
		},
		{
			name:    "object-set",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				o, ok := r.objects.Get(handle.ID(uint32(stack[0])))
				if !ok {
					Logger().Warn("object-set on dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = 0
					return
				}
				v, err := r.bridge.Value(handle.ID(uint32(stack[2])))
				if err != nil {
					Logger().Warn("object-set of dead value handle", zap.Uint32("handle", uint32(stack[2])))
					stack[0] = 0
					return
				}
				stack[0] = 0
				if o.SetAt(int(uint32(stack[1])), v) {
					stack[0] = 1
				}
			},
		},
	}
}
