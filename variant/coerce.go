package variant

import (
	"math"
	"strconv"
	"strings"
)

const (
	two63 = 9223372036854775808.0  // 2^63, first float64 above MaxInt64
	two64 = 18446744073709551616.0 // 2^64, first float64 above MaxUint64
)

// roundToInt64 rounds half away from zero and reports whether the result
// fits in an int64. NaN and infinities do not.
func roundToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	r := math.Round(f)
	if r < math.MinInt64 || r >= two63 {
		return 0, false
	}
	return int64(r), true
}

// roundToUint64 is roundToInt64 for the unsigned range.
func roundToUint64(f float64) (uint64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	r := math.Round(f)
	if r < 0 || r >= two64 {
		return 0, false
	}
	return uint64(r), true
}

// isFalseWord reports whether s spells a false bool: "", "0" and
// "false" after lower-casing. Everything else is true.
func isFalseWord(s string) bool {
	switch strings.ToLower(s) {
	case "", "0", "false":
		return true
	}
	return false
}

// stripPlus drops one leading '+' so unsigned parses accept the optional
// sign the signed parser already allows.
func stripPlus(s string) string {
	if strings.HasPrefix(s, "+") {
		return s[1:]
	}
	return s
}

// ToBool coerces to bool. Numerics yield v != 0 (NaN counts as
// non-zero); strings follow the false-word rule and always succeed.
func (v *Value) ToBool() (bool, bool) {
	switch v.Kind() {
	case KindBool:
		return v.b, true
	case KindInt32, KindInt64:
		return v.i != 0, true
	case KindUint32, KindUint64:
		return v.u != 0, true
	case KindFloat32, KindFloat64:
		return v.f != 0, true
	case KindString:
		return !isFalseWord(v.s), true
	}
	return false, false
}

// ToInt32 coerces to int32. Out-of-range integers, unroundable floats
// and unparsable strings fail.
func (v *Value) ToInt32() (int32, bool) {
	switch v.Kind() {
	case KindInt32:
		return int32(v.i), true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindInt64:
		if v.i >= math.MinInt32 && v.i <= math.MaxInt32 {
			return int32(v.i), true
		}
	case KindUint32, KindUint64:
		if v.u <= math.MaxInt32 {
			return int32(v.u), true
		}
	case KindFloat32, KindFloat64:
		if r, ok := roundToInt64(v.f); ok && r >= math.MinInt32 && r <= math.MaxInt32 {
			return int32(r), true
		}
	case KindString:
		if n, err := strconv.ParseInt(v.s, 10, 32); err == nil {
			return int32(n), true
		}
	}
	return 0, false
}

// ToUint32 coerces to uint32.
func (v *Value) ToUint32() (uint32, bool) {
	switch v.Kind() {
	case KindUint32:
		return uint32(v.u), true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindInt32, KindInt64:
		if v.i >= 0 && v.i <= math.MaxUint32 {
			return uint32(v.i), true
		}
	case KindUint64:
		if v.u <= math.MaxUint32 {
			return uint32(v.u), true
		}
	case KindFloat32, KindFloat64:
		if r, ok := roundToUint64(v.f); ok && r <= math.MaxUint32 {
			return uint32(r), true
		}
	case KindString:
		if n, err := strconv.ParseUint(stripPlus(v.s), 10, 32); err == nil {
			return uint32(n), true
		}
	}
	return 0, false
}

// ToInt64 coerces to int64.
func (v *Value) ToInt64() (int64, bool) {
	switch v.Kind() {
	case KindInt64, KindInt32:
		return v.i, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindUint32:
		return int64(v.u), true
	case KindUint64:
		if v.u <= math.MaxInt64 {
			return int64(v.u), true
		}
	case KindFloat32, KindFloat64:
		if r, ok := roundToInt64(v.f); ok {
			return r, true
		}
	case KindString:
		if n, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// ToUint64 coerces to uint64.
func (v *Value) ToUint64() (uint64, bool) {
	switch v.Kind() {
	case KindUint64, KindUint32:
		return v.u, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindInt32, KindInt64:
		if v.i >= 0 {
			return uint64(v.i), true
		}
	case KindFloat32, KindFloat64:
		if r, ok := roundToUint64(v.f); ok {
			return r, true
		}
	case KindString:
		if n, err := strconv.ParseUint(stripPlus(v.s), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// ToFloat32 coerces to float32. Finite Float64 payloads whose magnitude
// exceeds MaxFloat32 fail; NaN and infinities convert.
func (v *Value) ToFloat32() (float32, bool) {
	switch v.Kind() {
	case KindFloat32:
		return float32(v.f), true
	case KindFloat64:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return float32(v.f), true
		}
		if math.Abs(v.f) > math.MaxFloat32 {
			return 0, false
		}
		return float32(v.f), true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindInt32, KindInt64:
		return float32(v.i), true
	case KindUint32, KindUint64:
		return float32(v.u), true
	case KindString:
		if f, err := strconv.ParseFloat(v.s, 32); err == nil {
			return float32(f), true
		}
	}
	return 0, false
}

// ToFloat64 coerces to float64. Integers always succeed; magnitudes
// beyond 2^53 take the nearest representable value.
func (v *Value) ToFloat64() (float64, bool) {
	switch v.Kind() {
	case KindFloat64, KindFloat32:
		return v.f, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindInt32, KindInt64:
		return float64(v.i), true
	case KindUint32, KindUint64:
		return float64(v.u), true
	case KindString:
		if f, err := strconv.ParseFloat(v.s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// ToText coerces to a string: bools spell "true"/"false", integers
// format in decimal, floats in shortest round-trip form. Lists and
// Invalid fail.
func (v *Value) ToText() (string, bool) {
	switch v.Kind() {
	case KindString:
		return v.s, true
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10), true
	case KindUint32, KindUint64:
		return strconv.FormatUint(v.u, 10), true
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32), true
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64), true
	}
	return "", false
}

// FillString invokes sink exactly once with the value's UTF-8 bytes when
// it is string-coercible, then returns true. The slice is only valid for
// the duration of the call; the sink must copy. Returns false without
// invoking sink otherwise.
func (v *Value) FillString(sink func([]byte)) bool {
	s, ok := v.ToText()
	if !ok {
		return false
	}
	if sink != nil {
		sink([]byte(s))
	}
	return true
}

// ConvertTo coerces the value to the target kind, returning a new
// caller-owned Value. Identity conversions return a fresh deep copy.
// Invalid is not a convertible target.
func (v *Value) ConvertTo(k Kind) (*Value, bool) {
	switch k {
	case KindBool:
		if b, ok := v.ToBool(); ok {
			return NewBool(b), true
		}
	case KindInt32:
		if n, ok := v.ToInt32(); ok {
			return NewInt32(n), true
		}
	case KindUint32:
		if n, ok := v.ToUint32(); ok {
			return NewUint32(n), true
		}
	case KindInt64:
		if n, ok := v.ToInt64(); ok {
			return NewInt64(n), true
		}
	case KindUint64:
		if n, ok := v.ToUint64(); ok {
			return NewUint64(n), true
		}
	case KindFloat32:
		if f, ok := v.ToFloat32(); ok {
			return NewFloat32(f), true
		}
	case KindFloat64:
		if f, ok := v.ToFloat64(); ok {
			return NewFloat64(f), true
		}
	case KindString:
		if s, ok := v.ToText(); ok {
			return NewString(s), true
		}
	case KindList:
		if v.Kind() == KindList {
			return v.Clone(), true
		}
	}
	return nil, false
}
