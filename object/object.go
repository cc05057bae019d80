// Package object implements data-driven property objects: a Class declares
// named, typed properties with defaults, and instances hold coerced values
// behind clone-on-read accessors with change notification.
//
// Writes coerce through the variant conversion matrix to the declared kind;
// a write that cannot coerce is rejected and leaves the stored value alone.
// Reads return fresh clones, so no caller ever aliases instance state.
package object

import (
	"sync"

	glintbridge "github.com/glintui/glint-bridge"
	"github.com/glintui/glint-bridge/variant"
)

type watcher struct {
	fn func(*variant.Value)
	id int
}

// Object is one instance of a Class. Safe for concurrent use; change
// callbacks run outside the instance lock.
type Object struct {
	class  *Class
	watch  map[int][]watcher
	values []*variant.Value
	mu     sync.Mutex
	nextID int
}

var _ glintbridge.PropertyObject = (*Object)(nil)

// Class returns the schema this instance was built from.
func (o *Object) Class() *Class {
	return o.class
}

// Get returns a clone of the named property's value. The clone is owned by
// the caller. Returns false for an unknown property.
func (o *Object) Get(name string) (*variant.Value, bool) {
	i, ok := o.class.Index(name)
	if !ok {
		return nil, false
	}
	return o.GetAt(i)
}

// GetAt is Get by declaration index.
func (o *Object) GetAt(i int) (*variant.Value, bool) {
	if i < 0 || i >= len(o.values) {
		return nil, false
	}
	o.mu.Lock()
	v := o.values[i].Clone()
	o.mu.Unlock()
	return v, true
}

// Set coerces v to the property's declared kind and stores an independent
// copy. Returns false for an unknown property or a value that does not
// coerce; the stored value is untouched on failure.
//
// A successful Set that changes the stored value (structural compare)
// notifies the property's OnChange subscribers, in subscription order,
// after the store.
func (o *Object) Set(name string, v *variant.Value) bool {
	i, ok := o.class.Index(name)
	if !ok {
		return false
	}
	return o.SetAt(i, v)
}

// SetAt is Set by declaration index.
func (o *Object) SetAt(i int, v *variant.Value) bool {
	if i < 0 || i >= len(o.values) {
		return false
	}
	conv, ok := v.ConvertTo(o.class.props[i].Kind)
	if !ok {
		return false
	}

	o.mu.Lock()
	if conv.Equal(o.values[i]) {
		o.values[i] = conv
		o.mu.Unlock()
		return true
	}
	o.values[i] = conv
	snap := make([]watcher, len(o.watch[i]))
	copy(snap, o.watch[i])
	o.mu.Unlock()

	for _, w := range snap {
		w.fn(conv.Clone())
	}
	return true
}

// OnChange subscribes fn to value changes of the named property. fn runs
// synchronously after each successful Set that changed the value and
// receives a fresh clone of the new value. The returned func removes the
// subscription; calling it more than once is harmless.
//
// Returns nil for an unknown property or a nil fn.
func (o *Object) OnChange(name string, fn func(*variant.Value)) func() {
	i, ok := o.class.Index(name)
	if !ok || fn == nil {
		return nil
	}

	o.mu.Lock()
	if o.watch == nil {
		o.watch = make(map[int][]watcher)
	}
	id := o.nextID
	o.nextID++
	o.watch[i] = append(o.watch[i], watcher{id: id, fn: fn})
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		list := o.watch[i]
		for n, w := range list {
			if w.id == id {
				o.watch[i] = append(list[:n], list[n+1:]...)
				break
			}
		}
		o.mu.Unlock()
	}
}

// Index returns the declaration index of a property name.
func (o *Object) Index(name string) (int, bool) {
	return o.class.Index(name)
}

// PropAt returns the declaration at index i.
func (o *Object) PropAt(i int) (Property, bool) {
	return o.class.PropAt(i)
}
