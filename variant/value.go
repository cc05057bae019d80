package variant

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a dynamically tagged union over the toolkit's crossable
// representations: nothing, bool, four integer widths, two float widths,
// an owned UTF-8 string, or an owned heterogeneous list of Values.
//
// Values are immutable after construction. A nil *Value behaves as
// Invalid for every read operation.
type Value struct {
	l    []*Value
	s    string
	i    int64
	u    uint64
	f    float64
	kind Kind
	b    bool
}

// NewInvalid returns the empty representation.
func NewInvalid() *Value {
	return &Value{}
}

// NewBool returns a Bool Value.
func NewBool(v bool) *Value {
	return &Value{kind: KindBool, b: v}
}

// NewInt32 returns an Int32 Value.
func NewInt32(v int32) *Value {
	return &Value{kind: KindInt32, i: int64(v)}
}

// NewUint32 returns a UInt32 Value.
func NewUint32(v uint32) *Value {
	return &Value{kind: KindUint32, u: uint64(v)}
}

// NewInt64 returns an Int64 Value.
func NewInt64(v int64) *Value {
	return &Value{kind: KindInt64, i: v}
}

// NewUint64 returns a UInt64 Value.
func NewUint64(v uint64) *Value {
	return &Value{kind: KindUint64, u: v}
}

// NewFloat32 returns a Float32 Value. The payload is carried widened;
// widening float32 to float64 is exact.
func NewFloat32(v float32) *Value {
	return &Value{kind: KindFloat32, f: float64(v)}
}

// NewFloat64 returns a Float64 Value.
func NewFloat64(v float64) *Value {
	return &Value{kind: KindFloat64, f: v}
}

// NewString returns a String Value holding s. The bytes are stored as
// UTF-8 without validation; invalid UTF-8 is carried through verbatim.
func NewString(s string) *Value {
	return &Value{kind: KindString, s: s}
}

// NewStringBytes returns a String Value holding a copy of b. The Value
// owns its storage; the caller keeps b.
func NewStringBytes(b []byte) *Value {
	return &Value{kind: KindString, s: string(b)}
}

// Kind reports the active representation.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindInvalid
	}
	return v.kind
}

// IsValid reports whether the value holds a representation.
func (v *Value) IsValid() bool {
	return v.Kind() != KindInvalid
}

// TypeName reports the stable name of the active representation. It
// never fails: Invalid values and unrecognized kinds report "Unknown".
func (v *Value) TypeName() string {
	k := v.Kind()
	if k == KindInvalid {
		return "Unknown"
	}
	return k.String()
}

// Clone returns a deep copy: list elements are cloned recursively and
// string storage is independent. Releasing either side never affects
// the other.
func (v *Value) Clone() *Value {
	if v == nil {
		return NewInvalid()
	}
	c := &Value{kind: v.kind, s: v.s, i: v.i, u: v.u, f: v.f, b: v.b}
	if v.kind == KindList {
		c.l = make([]*Value, len(v.l))
		for i, e := range v.l {
			c.l[i] = e.Clone()
		}
	}
	return c
}

// Equal reports structural equality: kinds must match exactly and the
// payloads must compare equal. Lists compare element-wise in order.
// Floats compare by IEEE ==, so NaN is unequal to everything, itself
// included. There is no cross-kind numeric equality.
func (v *Value) Equal(o *Value) bool {
	k := v.Kind()
	if k != o.Kind() {
		return false
	}
	switch k {
	case KindInvalid:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt32, KindInt64:
		return v.i == o.i
	case KindUint32, KindUint64:
		return v.u == o.u
	case KindFloat32, KindFloat64:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.l) != len(o.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(o.l[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value for debugging, e.g. Int32(5), String("a"),
// List[Int32(1), String("a")]. It is not part of the boundary surface.
func (v *Value) String() string {
	switch v.Kind() {
	case KindInvalid:
		return "Invalid"
	case KindBool:
		return fmt.Sprintf("Bool(%t)", v.b)
	case KindInt32:
		return fmt.Sprintf("Int32(%d)", int32(v.i))
	case KindUint32:
		return fmt.Sprintf("UInt32(%d)", uint32(v.u))
	case KindInt64:
		return fmt.Sprintf("Int64(%d)", v.i)
	case KindUint64:
		return fmt.Sprintf("UInt64(%d)", v.u)
	case KindFloat32:
		return "Float32(" + strconv.FormatFloat(v.f, 'g', -1, 32) + ")"
	case KindFloat64:
		return "Float64(" + strconv.FormatFloat(v.f, 'g', -1, 64) + ")"
	case KindString:
		return fmt.Sprintf("String(%q)", v.s)
	case KindList:
		var sb strings.Builder
		sb.WriteString("List[")
		for i, e := range v.l {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.String())
		}
		sb.WriteByte(']')
		return sb.String()
	}
	return "Unknown"
}
