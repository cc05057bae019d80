// Package codec provides the canonical binary form of variant values for
// persistence and transport between cooperating hosts. Encoding is CBOR
// in canonical mode, so structurally equal values encode to identical
// bytes.
package codec

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/glintui/glint-bridge/errors"
	"github.com/glintui/glint-bridge/variant"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("codec: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Wire kind codes are fixed independently of the variant.Kind values so
// the stored form survives enum changes.
const (
	wireInvalid uint8 = 0
	wireBool    uint8 = 1
	wireInt32   uint8 = 2
	wireUint32  uint8 = 3
	wireInt64   uint8 = 4
	wireUint64  uint8 = 5
	wireFloat32 uint8 = 6
	wireFloat64 uint8 = 7
	wireString  uint8 = 8
	wireList    uint8 = 9
)

// wireValue is the integer-keyed CBOR shape of a Value. Exactly one
// payload field is meaningful, selected by Kind; zero payloads are
// omitted so equal values share one encoding. Float32 travels widened
// to float64 and narrows back exactly on decode.
type wireValue struct {
	Kind  uint8        `cbor:"1,keyasint"`
	Bool  bool         `cbor:"2,keyasint,omitempty"`
	Int   int64        `cbor:"3,keyasint,omitempty"`
	Uint  uint64       `cbor:"4,keyasint,omitempty"`
	Float float64      `cbor:"5,keyasint,omitempty"`
	Str   string       `cbor:"6,keyasint,omitempty"`
	List  []*wireValue `cbor:"7,keyasint,omitempty"`
}

// Marshal serializes a Value to canonical CBOR bytes.
func Marshal(v *variant.Value) ([]byte, error) {
	w, err := toWire(v)
	if err != nil {
		return nil, err
	}
	data, err := cborEncMode.Marshal(w)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCodec, errors.KindInvalidData, err, "encode value")
	}
	return data, nil
}

// Unmarshal deserializes canonical CBOR bytes back into a Value.
func Unmarshal(data []byte) (*variant.Value, error) {
	var w wireValue
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(errors.PhaseCodec, errors.KindInvalidData, err, "decode value")
	}
	return fromWire(&w)
}

func toWire(v *variant.Value) (*wireValue, error) {
	w := &wireValue{}
	switch v.Kind() {
	case variant.KindInvalid:
		w.Kind = wireInvalid
	case variant.KindBool:
		w.Kind = wireBool
		w.Bool, _ = v.ToBool()
	case variant.KindInt32:
		n, _ := v.ToInt32()
		w.Kind = wireInt32
		w.Int = int64(n)
	case variant.KindUint32:
		n, _ := v.ToUint32()
		w.Kind = wireUint32
		w.Uint = uint64(n)
	case variant.KindInt64:
		w.Kind = wireInt64
		w.Int, _ = v.ToInt64()
	case variant.KindUint64:
		w.Kind = wireUint64
		w.Uint, _ = v.ToUint64()
	case variant.KindFloat32:
		f, _ := v.ToFloat32()
		w.Kind = wireFloat32
		w.Float = float64(f)
	case variant.KindFloat64:
		w.Kind = wireFloat64
		w.Float, _ = v.ToFloat64()
	case variant.KindString:
		w.Kind = wireString
		w.Str, _ = v.ToText()
	case variant.KindList:
		w.Kind = wireList
		var elemErr error
		v.ForEach(func(i int, item *variant.Value) bool {
			var we *wireValue
			we, elemErr = toWire(item)
			if elemErr != nil {
				return false
			}
			w.List = append(w.List, we)
			return true
		})
		if elemErr != nil {
			return nil, elemErr
		}
	default:
		return nil, errors.Unsupported(errors.PhaseCodec, fmt.Sprintf("kind %d", v.Kind()))
	}
	return w, nil
}

func fromWire(w *wireValue) (*variant.Value, error) {
	switch w.Kind {
	case wireInvalid:
		return variant.NewInvalid(), nil
	case wireBool:
		return variant.NewBool(w.Bool), nil
	case wireInt32:
		if w.Int < math.MinInt32 || w.Int > math.MaxInt32 {
			return nil, payloadErr("Int32 payload %d out of range", w.Int)
		}
		return variant.NewInt32(int32(w.Int)), nil
	case wireUint32:
		if w.Uint > math.MaxUint32 {
			return nil, payloadErr("UInt32 payload %d out of range", w.Uint)
		}
		return variant.NewUint32(uint32(w.Uint)), nil
	case wireInt64:
		return variant.NewInt64(w.Int), nil
	case wireUint64:
		return variant.NewUint64(w.Uint), nil
	case wireFloat32:
		f := float32(w.Float)
		if !math.IsNaN(w.Float) && float64(f) != w.Float {
			return nil, payloadErr("Float32 payload %v not representable", w.Float)
		}
		return variant.NewFloat32(f), nil
	case wireFloat64:
		return variant.NewFloat64(w.Float), nil
	case wireString:
		return variant.NewString(w.Str), nil
	case wireList:
		elems := make([]*variant.Value, 0, len(w.List))
		for i, we := range w.List {
			if we == nil {
				return nil, payloadErr("list element %d is null", i)
			}
			e, err := fromWire(we)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return variant.NewListOf(elems...), nil
	}
	return nil, errors.Unsupported(errors.PhaseCodec, fmt.Sprintf("wire kind %d", w.Kind))
}

func payloadErr(format string, args ...any) *errors.Error {
	return errors.New(errors.PhaseCodec, errors.KindInvalidData).
		Detail(format, args...).
		Build()
}
