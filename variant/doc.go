// Package variant implements the toolkit's dynamic value type: a tagged
// union over nothing, bool, four integer widths, two float widths, owned
// UTF-8 strings, and heterogeneous lists of further values.
//
// Values are immutable after construction and form the sole entity that
// crosses the embedding boundary. Construction (New*) always succeeds;
// extraction (To*) attempts a coercion and reports failure with a false
// second result, leaving the source untouched.
//
// # Coercion Matrix
//
// Every legal source/target pair is enumerated. Blank cells fail.
//
//	from \ to   bool       int/uint     float       string
//	Bool        identity   0 / 1        0 / 1       "true"/"false"
//	Int/UInt    v != 0     range check  exact cast  decimal
//	Float       v != 0     round+range  range check shortest form
//	String      word rule  parse        parse       identity
//	List        -          -            -           -
//	Invalid     -          -            -           -
//
// Rules:
//
//   - Float to integer rounds half away from zero (3.5 -> 4, -3.5 -> -4)
//     and then range-checks; NaN and infinities fail.
//   - Float64 to Float32 fails for finite magnitudes above MaxFloat32;
//     NaN and infinities convert.
//   - Integer to float always succeeds; magnitudes beyond the target's
//     exact range take the nearest representable value.
//   - String to bool never fails: "", "0" and "false" (case-insensitive)
//     are false, everything else is true.
//   - String to number requires a full-string parse; failure fails the
//     coercion rather than yielding zero.
//   - List converts to List only. Nothing converts to or from Invalid.
//
// # Lists
//
// Both marshalling directions are callback-driven so neither side of a
// boundary has to materialize the other's container type:
//
//	v := variant.NewList(func(add func(*variant.Value)) {
//	    add(variant.NewInt32(1))
//	    add(variant.NewString("a"))
//	})
//
//	v.FillList(func(item *variant.Value) {
//	    // item is a fresh clone owned by this callback
//	})
//
// NewList's add callback deep-copies each element, so the caller keeps
// ownership of what it appends. FillList hands out a fresh clone per
// element; ownership of each clone transfers to the callback.
//
// # Ownership
//
// Clone is a deep copy with an independent lifetime. Values are not
// internally synchronized; a value moving between goroutines must be
// owned by one side at a time.
package variant
