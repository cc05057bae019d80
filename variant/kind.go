package variant

import "strings"

// Kind identifies the active representation of a Value.
// KindInvalid is the zero value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindList
)

// String returns the kind's name. Unrecognized kinds report "Unknown".
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "Invalid"
	case KindBool:
		return "Bool"
	case KindInt32:
		return "Int32"
	case KindUint32:
		return "UInt32"
	case KindInt64:
		return "Int64"
	case KindUint64:
		return "UInt64"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindString:
		return "String"
	case KindList:
		return "List"
	}
	return "Unknown"
}

// ParseKind maps a kind name to its Kind. Accepted spellings are the
// canonical names (Bool, Int32, UInt32, ...) and the short wire-style
// names (bool, i32, u32, i64, u64, f32, f64, str, list), case
// insensitively. Invalid is not an accepted target.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "bool":
		return KindBool, true
	case "i32", "int32":
		return KindInt32, true
	case "u32", "uint32":
		return KindUint32, true
	case "i64", "int64":
		return KindInt64, true
	case "u64", "uint64":
		return KindUint64, true
	case "f32", "float32":
		return KindFloat32, true
	case "f64", "float64":
		return KindFloat64, true
	case "str", "string":
		return KindString, true
	case "list":
		return KindList, true
	}
	return KindInvalid, false
}
