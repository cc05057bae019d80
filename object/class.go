package object

import (
	"github.com/glintui/glint-bridge/errors"
	"github.com/glintui/glint-bridge/variant"
)

// Property declares one named, typed slot of a Class.
// Default may be nil, in which case the zero value of Kind is used.
// A non-nil Default must be coercible to Kind.
type Property struct {
	Default *variant.Value
	Name    string
	Kind    variant.Kind
}

// Class is an immutable property schema. Instances share the schema and
// carry their own values.
type Class struct {
	index map[string]int
	name  string
	props []Property
}

// NewClass validates the property declarations and builds a schema.
// Property order is preserved and becomes the declaration index used by
// PropAt and the integer-addressed accessors.
func NewClass(name string, props ...Property) (*Class, error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseObject, "class name cannot be empty")
	}

	c := &Class{
		name:  name,
		index: make(map[string]int, len(props)),
		props: make([]Property, 0, len(props)),
	}

	for i, p := range props {
		if p.Name == "" {
			return nil, errors.New(errors.PhaseObject, errors.KindInvalidInput).
				Path(name).
				Detail("property %d has no name", i).
				Build()
		}
		if _, dup := c.index[p.Name]; dup {
			return nil, errors.New(errors.PhaseObject, errors.KindInvalidInput).
				Path(name, p.Name).
				Detail("duplicate property name").
				Build()
		}
		if p.Kind == variant.KindInvalid || p.Kind > variant.KindList {
			return nil, errors.New(errors.PhaseObject, errors.KindUnsupported).
				Path(name, p.Name).
				Detail("property kind %s cannot be declared", p.Kind).
				Build()
		}

		def := zeroOf(p.Kind)
		if p.Default != nil {
			conv, ok := p.Default.ConvertTo(p.Kind)
			if !ok {
				return nil, errors.TypeMismatch(errors.PhaseObject,
					[]string{name, p.Name}, p.Kind.String(), p.Default.TypeName())
			}
			def = conv
		}

		c.index[p.Name] = len(c.props)
		c.props = append(c.props, Property{Name: p.Name, Kind: p.Kind, Default: def})
	}

	return c, nil
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Len returns the number of declared properties.
func (c *Class) Len() int {
	return len(c.props)
}

// Index returns the declaration index of a property name.
func (c *Class) Index(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// PropAt returns the declaration at index i. The returned Default is a
// clone owned by the caller.
func (c *Class) PropAt(i int) (Property, bool) {
	if i < 0 || i >= len(c.props) {
		return Property{}, false
	}
	p := c.props[i]
	return Property{Name: p.Name, Kind: p.Kind, Default: p.Default.Clone()}, true
}

// New builds an instance with every property set to its default.
func (c *Class) New() *Object {
	vals := make([]*variant.Value, len(c.props))
	for i, p := range c.props {
		vals[i] = p.Default.Clone()
	}
	return &Object{
		class:  c,
		values: vals,
	}
}

func zeroOf(k variant.Kind) *variant.Value {
	switch k {
	case variant.KindBool:
		return variant.NewBool(false)
	case variant.KindInt32:
		return variant.NewInt32(0)
	case variant.KindUint32:
		return variant.NewUint32(0)
	case variant.KindInt64:
		return variant.NewInt64(0)
	case variant.KindUint64:
		return variant.NewUint64(0)
	case variant.KindFloat32:
		return variant.NewFloat32(0)
	case variant.KindFloat64:
		return variant.NewFloat64(0)
	case variant.KindString:
		return variant.NewString("")
	case variant.KindList:
		return variant.NewListOf()
	default:
		return variant.NewInvalid()
	}
}
