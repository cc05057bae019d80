package variant

// NewList builds a List Value by invoking fill exactly once with an add
// callback. fill walks its source sequence and calls add once per
// element in order; add deep-copies the element into the list, so the
// argument stays owned by the caller. add must not be retained past
// fill's return; a late call panics. A nil fill yields an empty list.
func NewList(fill func(add func(elem *Value))) *Value {
	v := &Value{kind: KindList, l: make([]*Value, 0, 4)}
	sealed := false
	add := func(elem *Value) {
		if sealed {
			panic("variant: list add callback invoked after fill returned")
		}
		v.l = append(v.l, elem.Clone())
	}
	if fill != nil {
		fill(add)
	}
	sealed = true
	return v
}

// NewListOf builds a List Value from elems, deep-copying each. The
// caller keeps ownership of the arguments.
func NewListOf(elems ...*Value) *Value {
	return NewList(func(add func(*Value)) {
		for _, e := range elems {
			add(e)
		}
	})
}

// ListLen returns the element count, or false when the value is not a
// list.
func (v *Value) ListLen() (int, bool) {
	if v.Kind() != KindList {
		return 0, false
	}
	return len(v.l), true
}

// At returns a fresh clone of element i. The caller owns the clone.
// Returns false when the value is not a list or i is out of range.
func (v *Value) At(i int) (*Value, bool) {
	if v.Kind() != KindList || i < 0 || i >= len(v.l) {
		return nil, false
	}
	return v.l[i].Clone(), true
}

// ForEach iterates elements in order, passing borrowed references that
// must not be retained past each call. Return false from fn to stop
// early. ForEach returns false when the value is not a list.
func (v *Value) ForEach(fn func(i int, item *Value) bool) bool {
	if v.Kind() != KindList {
		return false
	}
	for i, e := range v.l {
		if !fn(i, e) {
			break
		}
	}
	return true
}

// FillList invokes fn once per element in order when the value is
// list-coercible. Every call receives a fresh clone whose ownership
// transfers to fn at callback time. Returns false without invoking fn
// otherwise.
func (v *Value) FillList(fn func(item *Value)) bool {
	if v.Kind() != KindList {
		return false
	}
	for _, e := range v.l {
		fn(e.Clone())
	}
	return true
}

// ToSlice returns clones of all elements, in order. The caller owns
// each clone.
func (v *Value) ToSlice() ([]*Value, bool) {
	if v.Kind() != KindList {
		return nil, false
	}
	out := make([]*Value, len(v.l))
	for i, e := range v.l {
		out[i] = e.Clone()
	}
	return out, true
}
