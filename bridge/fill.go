package bridge

import (
	"github.com/glintui/glint-bridge/errors"
	"github.com/glintui/glint-bridge/handle"
	"github.com/glintui/glint-bridge/variant"
)

// Fill* run one coercion against the value behind a live handle. A
// false second result means the representation does not convert under
// the matrix; the error is reserved for stale handles. Outputs are the
// zero value whenever the coercion fails.

// FillBool attempts the bool coercion of the value behind id.
func (b *Bridge) FillBool(id handle.ID) (bool, bool, error) {
	v, ok := b.table.Get(id)
	if !ok {
		return false, false, errors.StaleHandle(errors.PhaseFill, uint32(id))
	}
	out, ok := v.ToBool()
	return out, ok, nil
}

// FillInt32 attempts the int32 coercion of the value behind id.
func (b *Bridge) FillInt32(id handle.ID) (int32, bool, error) {
	v, ok := b.table.Get(id)
	if !ok {
		return 0, false, errors.StaleHandle(errors.PhaseFill, uint32(id))
	}
	out, ok := v.ToInt32()
	return out, ok, nil
}

// FillUint32 attempts the uint32 coercion of the value behind id.
func (b *Bridge) FillUint32(id handle.ID) (uint32, bool, error) {
	v, ok := b.table.Get(id)
	if !ok {
		return 0, false, errors.StaleHandle(errors.PhaseFill, uint32(id))
	}
	out, ok := v.ToUint32()
	return out, ok, nil
}

// FillInt64 attempts the int64 coercion of the value behind id.
func (b *Bridge) FillInt64(id handle.ID) (int64, bool, error) {
	v, ok := b.table.Get(id)
	if !ok {
		return 0, false, errors.StaleHandle(errors.PhaseFill, uint32(id))
	}
	out, ok := v.ToInt64()
	return out, ok, nil
}

// FillUint64 attempts the uint64 coercion of the value behind id.
func (b *Bridge) FillUint64(id handle.ID) (uint64, bool, error) {
	v, ok := b.table.Get(id)
	if !ok {
		return 0, false, errors.StaleHandle(errors.PhaseFill, uint32(id))
	}
	out, ok := v.ToUint64()
	return out, ok, nil
}

// FillFloat32 attempts the float32 coercion of the value behind id.
func (b *Bridge) FillFloat32(id handle.ID) (float32, bool, error) {
	v, ok := b.table.Get(id)
	if !ok {
		return 0, false, errors.StaleHandle(errors.PhaseFill, uint32(id))
	}
	out, ok := v.ToFloat32()
	return out, ok, nil
}

// FillFloat64 attempts the float64 coercion of the value behind id.
func (b *Bridge) FillFloat64(id handle.ID) (float64, bool, error) {
	v, ok := b.table.Get(id)
	if !ok {
		return 0, false, errors.StaleHandle(errors.PhaseFill, uint32(id))
	}
	out, ok := v.ToFloat64()
	return out, ok, nil
}

// FillString invokes sink exactly once with the UTF-8 bytes of the
// string coercion, returning (true, nil). The slice is only valid for
// the duration of the call; the sink must copy. A live handle whose
// value is not string-coercible returns (false, nil) without invoking
// the sink.
func (b *Bridge) FillString(id handle.ID, sink func([]byte)) (bool, error) {
	v, ok := b.table.Get(id)
	if !ok {
		return false, errors.StaleHandle(errors.PhaseFill, uint32(id))
	}
	return v.FillString(sink), nil
}

// FillList walks the list behind id in order, issuing a fresh handle to
// an independent clone of each element and passing it to fn. Ownership
// of every element handle transfers to fn at callback time; the callee
// owes each one a Delete. A live handle whose value is not a list
// returns (false, nil) without invoking fn.
func (b *Bridge) FillList(id handle.ID, fn func(elem handle.ID)) (bool, error) {
	v, ok := b.table.Get(id)
	if !ok {
		return false, errors.StaleHandle(errors.PhaseList, uint32(id))
	}
	filled := v.FillList(func(item *variant.Value) {
		fn(b.put(item))
	})
	return filled, nil
}

// ListBuilder appends values into a list under construction. It is only
// valid inside the CreateList callback that received it.
type ListBuilder struct {
	bridge *Bridge
	add    func(*variant.Value)
}

// Append deep-copies the value behind id onto the end of the list. The
// appended handle stays owned by the caller.
func (l *ListBuilder) Append(id handle.ID) error {
	v, ok := l.bridge.table.Get(id)
	if !ok {
		return errors.StaleHandle(errors.PhaseList, uint32(id))
	}
	l.add(v)
	return nil
}

// CreateList issues a handle to a new list populated by fill, which is
// invoked exactly once. Elements arrive through the builder's Append in
// order. The builder must not be retained past fill's return.
func (b *Bridge) CreateList(fill func(l *ListBuilder)) handle.ID {
	v := variant.NewList(func(add func(*variant.Value)) {
		if fill != nil {
			fill(&ListBuilder{bridge: b, add: add})
		}
	})
	return b.put(v)
}
