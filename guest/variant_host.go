package guest

import (
	"context"
	"math"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/glintui/glint-bridge/handle"
	"github.com/glintui/glint-bridge/variant"
)

// listAccum accumulates list elements across guest calls until finish.
type listAccum struct {
	items []*variant.Value
	mu    sync.Mutex
}

func (l *listAccum) add(v *variant.Value) {
	l.mu.Lock()
	l.items = append(l.items, v)
	l.mu.Unlock()
}

func (l *listAccum) take() []*variant.Value {
	l.mu.Lock()
	items := l.items
	l.items = nil
	l.mu.Unlock()
	return items
}

// fillFunc builds the shared (ok, value) extraction shape. The fill
// callback reports the value as raw result bits.
func fillFunc(name string, result api.ValueType, fill func(handle.ID) (uint64, bool, error)) hostFunc {
	return hostFunc{
		name:    name,
		params:  []api.ValueType{api.ValueTypeI32},
		results: []api.ValueType{api.ValueTypeI32, result},
		handler: func(_ context.Context, _ api.Module, stack []uint64) {
			id := handle.ID(uint32(stack[0]))
			bits, ok, err := fill(id)
			if err != nil {
				Logger().Warn("fill on dead handle",
					zap.String("op", name),
					zap.Uint32("handle", uint32(id)))
			}
			stack[0], stack[1] = 0, 0
			if ok {
				stack[0] = 1
				stack[1] = bits
			}
		},
	}
}

func (r *Registry) variantFuncs() []hostFunc {
	return []hostFunc{
		{
			name:    "create-invalid",
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = uint64(r.bridge.CreateInvalid())
			},
		},
		{
			name:    "create-bool",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = uint64(r.bridge.CreateBool(uint32(stack[0]) != 0))
			},
		},
		{
			name:    "create-i32",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = uint64(r.bridge.CreateInt32(int32(uint32(stack[0]))))
			},
		},
		{
			name:    "create-u32",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = uint64(r.bridge.CreateUint32(uint32(stack[0])))
			},
		},
		{
			name:    "create-i64",
			params:  []api.ValueType{api.ValueTypeI64},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = uint64(r.bridge.CreateInt64(int64(stack[0])))
			},
		},
		{
			name:    "create-u64",
			params:  []api.ValueType{api.ValueTypeI64},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = uint64(r.bridge.CreateUint64(stack[0]))
			},
		},
		{
			name:    "create-f32",
			params:  []api.ValueType{api.ValueTypeF32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = uint64(r.bridge.CreateFloat32(math.Float32frombits(uint32(stack[0]))))
			},
		},
		{
			name:    "create-f64",
			params:  []api.ValueType{api.ValueTypeF64},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = uint64(r.bridge.CreateFloat64(math.Float64frombits(stack[0])))
			},
		},
		{
			name:    "create-string",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, mod api.Module, stack []uint64) {
				mem := mod.Memory()
				if mem == nil {
					Logger().Warn("create-string without guest memory")
					stack[0] = 0
					return
				}
				data, ok := mem.Read(uint32(stack[0]), uint32(stack[1]))
				if !ok {
					Logger().Warn("create-string out of bounds",
						zap.Uint32("ptr", uint32(stack[0])),
						zap.Uint32("len", uint32(stack[1])))
					stack[0] = 0
					return
				}
				stack[0] = uint64(r.bridge.CreateStringBytes(data))
			},
		},
		{
			name:    "clone",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				id, err := r.bridge.Clone(handle.ID(uint32(stack[0])))
				if err != nil {
					Logger().Warn("clone of dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = 0
					return
				}
				stack[0] = uint64(id)
			},
		},
		{
			name:    "compare",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				eq, err := r.bridge.Compare(handle.ID(uint32(stack[0])), handle.ID(uint32(stack[1])))
				if err != nil {
					Logger().Warn("compare with dead handle",
						zap.Uint32("x", uint32(stack[0])),
						zap.Uint32("y", uint32(stack[1])))
				}
				stack[0] = 0
				if eq {
					stack[0] = 1
				}
			},
		},
		{
			name:    "delete",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				if err := r.bridge.Delete(handle.ID(uint32(stack[0]))); err != nil {
					Logger().Warn("delete of dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = 0
					return
				}
				stack[0] = 1
			},
		},
		{
			name:    "type-name",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, mod api.Module, stack []uint64) {
				name := r.bridge.TypeName(handle.ID(uint32(stack[0])))
				mem := mod.Memory()
				if mem == nil || uint32(len(name)) > uint32(stack[2]) {
					stack[0] = 0
					return
				}
				if !mem.Write(uint32(stack[1]), []byte(name)) {
					stack[0] = 0
					return
				}
				stack[0] = uint64(uint32(len(name)))
			},
		},
		fillFunc("fill-bool", api.ValueTypeI32, func(id handle.ID) (uint64, bool, error) {
			v, ok, err := r.bridge.FillBool(id)
			var bits uint64
			if v {
				bits = 1
			}
			return bits, ok, err
		}),
		fillFunc("fill-i32", api.ValueTypeI32, func(id handle.ID) (uint64, bool, error) {
			v, ok, err := r.bridge.FillInt32(id)
			return uint64(uint32(v)), ok, err
		}),
		fillFunc("fill-u32", api.ValueTypeI32, func(id handle.ID) (uint64, bool, error) {
			v, ok, err := r.bridge.FillUint32(id)
			return uint64(v), ok, err
		}),
		fillFunc("fill-i64", api.ValueTypeI64, func(id handle.ID) (uint64, bool, error) {
			v, ok, err := r.bridge.FillInt64(id)
			return uint64(v), ok, err
		}),
		fillFunc("fill-u64", api.ValueTypeI64, func(id handle.ID) (uint64, bool, error) {
			v, ok, err := r.bridge.FillUint64(id)
			return v, ok, err
		}),
		fillFunc("fill-f32", api.ValueTypeF32, func(id handle.ID) (uint64, bool, error) {
			v, ok, err := r.bridge.FillFloat32(id)
			return uint64(math.Float32bits(v)), ok, err
		}),
		fillFunc("fill-f64", api.ValueTypeF64, func(id handle.ID) (uint64, bool, error) {
			v, ok, err := r.bridge.FillFloat64(id)
			return math.Float64bits(v), ok, err
		}),
		{
			name:    "string-len",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				v, err := r.bridge.Value(handle.ID(uint32(stack[0])))
				if err != nil {
					Logger().Warn("string-len of dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = i32ret(-1)
					return
				}
				s, ok := v.ToText()
				if !ok {
					stack[0] = i32ret(-1)
					return
				}
				stack[0] = i32ret(int32(len(s)))
			},
		},
		{
			name:    "fill-string",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, mod api.Module, stack []uint64) {
				mem := mod.Memory()
				if mem == nil {
					Logger().Warn("fill-string without guest memory")
					stack[0] = i32ret(-2)
					return
				}
				ptr, capacity := uint32(stack[1]), uint32(stack[2])
				wrote := int32(-2)
				ok, err := r.bridge.FillString(handle.ID(uint32(stack[0])), func(raw []byte) {
					if uint32(len(raw)) > capacity {
						return
					}
					if !mem.Write(ptr, raw) {
						return
					}
					wrote = int32(len(raw))
				})
				if err != nil {
					Logger().Warn("fill-string of dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = i32ret(-1)
					return
				}
				if !ok {
					stack[0] = i32ret(-1)
					return
				}
				stack[0] = i32ret(wrote)
			},
		},
		{
			name:    "list-begin",
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				id, err := r.builders.Put(&listAccum{})
				if err != nil {
					Logger().Warn("list builder not stored", zap.Error(err))
					stack[0] = 0
					return
				}
				stack[0] = uint64(id)
			},
		},
		{
			name:    "list-append",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				acc, ok := r.builders.Get(handle.ID(uint32(stack[0])))
				if !ok {
					Logger().Warn("list-append on dead builder", zap.Uint32("builder", uint32(stack[0])))
					stack[0] = 0
					return
				}
				v, err := r.bridge.Value(handle.ID(uint32(stack[1])))
				if err != nil {
					Logger().Warn("list-append of dead handle", zap.Uint32("handle", uint32(stack[1])))
					stack[0] = 0
					return
				}
				acc.add(v.Clone())
				stack[0] = 1
			},
		},
		{
			name:    "list-finish",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				acc, ok := r.builders.Drop(handle.ID(uint32(stack[0])))
				if !ok {
					Logger().Warn("list-finish on dead builder", zap.Uint32("builder", uint32(stack[0])))
					stack[0] = 0
					return
				}
				stack[0] = uint64(r.bridge.Adopt(variant.NewListOf(acc.take()...)))
			},
		},
		{
			name:    "list-len",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				v, err := r.bridge.Value(handle.ID(uint32(stack[0])))
				if err != nil {
					Logger().Warn("list-len of dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = i32ret(-1)
					return
				}
				n, ok := v.ListLen()
				if !ok {
					stack[0] = i32ret(-1)
					return
				}
				stack[0] = i32ret(int32(n))
			},
		},
		{
			name:    "list-get",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(_ context.Context, _ api.Module, stack []uint64) {
				v, err := r.bridge.Value(handle.ID(uint32(stack[0])))
				if err != nil {
					Logger().Warn("list-get of dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = 0
					return
				}
				elem, ok := v.At(int(uint32(stack[1])))
				if !ok {
					stack[0] = 0
					return
				}
				stack[0] = uint64(r.bridge.Adopt(elem))
			},
		},
		{
			name:    "fill-list",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
			handler: func(ctx context.Context, mod api.Module, stack []uint64) {
				sink := mod.ExportedFunction("glint_list_sink")
				if sink == nil {
					Logger().Warn("guest exports no list sink", zap.String("export", "glint_list_sink"))
					stack[0] = i32ret(-2)
					return
				}
				cookie := uint64(uint32(stack[1]))
				delivered := int32(0)
				failed := false
				ok, err := r.bridge.FillList(handle.ID(uint32(stack[0])), func(elem handle.ID) {
					if failed {
						_ = r.bridge.Delete(elem)
						return
					}
					if _, cerr := sink.Call(ctx, cookie, uint64(elem)); cerr != nil {
						Logger().Warn("list sink failed", zap.Error(cerr))
						failed = true
						_ = r.bridge.Delete(elem)
						return
					}
					delivered++
				})
				if err != nil {
					Logger().Warn("fill-list of dead handle", zap.Uint32("handle", uint32(stack[0])))
					stack[0] = i32ret(-1)
					return
				}
				if !ok {
					stack[0] = i32ret(-1)
					return
				}
				stack[0] = i32ret(delivered)
			},
		},
	}
}
