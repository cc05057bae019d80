// Package bridge exposes variant values to foreign callers as opaque
// handles with explicit create/fill/delete lifetimes.
//
// A Bridge owns a handle table mapping IDs to values. Every Create and
// Clone transfers ownership of the result to the caller, who owes the
// table exactly one Delete per ID. Handles are generation-tagged, so
// operations on released IDs fail with stale-handle errors instead of
// touching a reused slot; outputs are left untouched on any failure.
//
// There is no package-global bridge. Callers construct one and thread
// it through explicitly.
package bridge

import (
	"go.uber.org/zap"

	"github.com/glintui/glint-bridge/errors"
	"github.com/glintui/glint-bridge/handle"
	"github.com/glintui/glint-bridge/variant"
)

// Bridge is the boundary surface over a table of owned variant values.
// All methods are safe for concurrent use.
type Bridge struct {
	table *handle.Table[*variant.Value]
}

// New creates an empty bridge.
func New() *Bridge {
	return &Bridge{table: handle.NewTable[*variant.Value]()}
}

// put stores v and returns its ID, or 0 when the bridge is closed.
func (b *Bridge) put(v *variant.Value) handle.ID {
	id, err := b.table.Put(v)
	if err != nil {
		Logger().Warn("value not stored", zap.Error(err))
		return 0
	}
	return id
}

// CreateInvalid issues a handle to an empty value.
func (b *Bridge) CreateInvalid() handle.ID {
	return b.put(variant.NewInvalid())
}

// CreateBool issues a handle to a Bool value.
func (b *Bridge) CreateBool(v bool) handle.ID {
	return b.put(variant.NewBool(v))
}

// CreateInt32 issues a handle to an Int32 value.
func (b *Bridge) CreateInt32(v int32) handle.ID {
	return b.put(variant.NewInt32(v))
}

// CreateUint32 issues a handle to a UInt32 value.
func (b *Bridge) CreateUint32(v uint32) handle.ID {
	return b.put(variant.NewUint32(v))
}

// CreateInt64 issues a handle to an Int64 value.
func (b *Bridge) CreateInt64(v int64) handle.ID {
	return b.put(variant.NewInt64(v))
}

// CreateUint64 issues a handle to a UInt64 value.
func (b *Bridge) CreateUint64(v uint64) handle.ID {
	return b.put(variant.NewUint64(v))
}

// CreateFloat32 issues a handle to a Float32 value.
func (b *Bridge) CreateFloat32(v float32) handle.ID {
	return b.put(variant.NewFloat32(v))
}

// CreateFloat64 issues a handle to a Float64 value.
func (b *Bridge) CreateFloat64(v float64) handle.ID {
	return b.put(variant.NewFloat64(v))
}

// CreateString issues a handle to a String value holding s.
func (b *Bridge) CreateString(s string) handle.ID {
	return b.put(variant.NewString(s))
}

// CreateStringBytes issues a handle to a String value copied from raw.
// The caller keeps raw.
func (b *Bridge) CreateStringBytes(raw []byte) handle.ID {
	return b.put(variant.NewStringBytes(raw))
}

// Adopt transfers ownership of v into the bridge and issues its handle.
// The caller must not use v afterwards.
func (b *Bridge) Adopt(v *variant.Value) handle.ID {
	if v == nil {
		v = variant.NewInvalid()
	}
	return b.put(v)
}

// Clone issues a new handle to an independent deep copy of the value
// behind id. Both handles owe their own Delete.
func (b *Bridge) Clone(id handle.ID) (handle.ID, error) {
	v, ok := b.table.Get(id)
	if !ok {
		return 0, errors.StaleHandle(errors.PhaseHandle, uint32(id))
	}
	return b.put(v.Clone()), nil
}

// Compare reports structural equality of the values behind two live
// handles. Neither handle is consumed.
func (b *Bridge) Compare(x, y handle.ID) (bool, error) {
	vx, ok := b.table.Get(x)
	if !ok {
		return false, errors.StaleHandle(errors.PhaseHandle, uint32(x))
	}
	vy, ok := b.table.Get(y)
	if !ok {
		return false, errors.StaleHandle(errors.PhaseHandle, uint32(y))
	}
	return vx.Equal(vy), nil
}

// Delete releases id. Deleting an already-released or never-issued id
// fails; the slot's later occupants are never touched.
func (b *Bridge) Delete(id handle.ID) error {
	if _, ok := b.table.Drop(id); !ok {
		return errors.DoubleDelete(uint32(id))
	}
	return nil
}

// TypeName reports the stable type name of the value behind id. It
// never fails: stale and invalid ids report "Unknown".
func (b *Bridge) TypeName(id handle.ID) string {
	v, ok := b.table.Get(id)
	if !ok {
		return "Unknown"
	}
	return v.TypeName()
}

// Value returns a borrowed reference to the value behind id, for
// Go-side callers that want direct read access. The reference must not
// be used after the handle is deleted.
func (b *Bridge) Value(id handle.ID) (*variant.Value, error) {
	v, ok := b.table.Get(id)
	if !ok {
		return nil, errors.StaleHandle(errors.PhaseHandle, uint32(id))
	}
	return v, nil
}

// Live reports the number of currently owned handles.
func (b *Bridge) Live() int {
	return b.table.Len()
}

// Close releases every outstanding handle and stops the bridge.
func (b *Bridge) Close() error {
	n := b.table.Len()
	if err := b.table.Close(); err != nil {
		return err
	}
	Logger().Info("bridge closed", zap.Int("reclaimed", n))
	return nil
}
