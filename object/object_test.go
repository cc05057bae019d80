package object

import (
	stderrors "errors"
	"testing"

	"github.com/glintui/glint-bridge/errors"
	"github.com/glintui/glint-bridge/variant"
)

func counterClass(t *testing.T) *Class {
	t.Helper()
	c, err := NewClass("Counter",
		Property{Name: "value", Kind: variant.KindInt32},
		Property{Name: "label", Kind: variant.KindString, Default: variant.NewString("counter")},
		Property{Name: "history", Kind: variant.KindList},
	)
	if err != nil {
		t.Fatalf("NewClass() error = %v", err)
	}
	return c
}

func TestNewClass_Validation(t *testing.T) {
	tests := []struct {
		name     string
		class    string
		props    []Property
		wantKind errors.Kind
	}{
		{
			name:     "empty class name",
			class:    "",
			wantKind: errors.KindInvalidInput,
		},
		{
			name:     "unnamed property",
			class:    "Widget",
			props:    []Property{{Kind: variant.KindBool}},
			wantKind: errors.KindInvalidInput,
		},
		{
			name:  "duplicate property",
			class: "Widget",
			props: []Property{
				{Name: "x", Kind: variant.KindInt32},
				{Name: "x", Kind: variant.KindInt64},
			},
			wantKind: errors.KindInvalidInput,
		},
		{
			name:     "invalid kind",
			class:    "Widget",
			props:    []Property{{Name: "x", Kind: variant.KindInvalid}},
			wantKind: errors.KindUnsupported,
		},
		{
			name:     "unknown kind value",
			class:    "Widget",
			props:    []Property{{Name: "x", Kind: variant.Kind(99)}},
			wantKind: errors.KindUnsupported,
		},
		{
			name:  "default not coercible",
			class: "Widget",
			props: []Property{
				{Name: "x", Kind: variant.KindInt32, Default: variant.NewString("abc")},
			},
			wantKind: errors.KindTypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClass(tt.class, tt.props...)
			if err == nil {
				t.Fatal("NewClass() succeeded, want error")
			}
			var be *errors.Error
			if !stderrors.As(err, &be) {
				t.Fatalf("NewClass() error type = %T, want *errors.Error", err)
			}
			if be.Kind != tt.wantKind {
				t.Errorf("NewClass() error kind = %s, want %s", be.Kind, tt.wantKind)
			}
		})
	}
}

func TestNewClass_CoercesDefaults(t *testing.T) {
	c, err := NewClass("Gauge",
		Property{Name: "level", Kind: variant.KindInt32, Default: variant.NewFloat64(3.9)},
		Property{Name: "ratio", Kind: variant.KindFloat64, Default: variant.NewString("0.5")},
	)
	if err != nil {
		t.Fatalf("NewClass() error = %v", err)
	}
	o := c.New()

	if v, ok := o.Get("level"); !ok || !v.Equal(variant.NewInt32(4)) {
		t.Errorf("Get(level) = %v, %v, want Int32(4)", v, ok)
	}
	if v, ok := o.Get("ratio"); !ok || !v.Equal(variant.NewFloat64(0.5)) {
		t.Errorf("Get(ratio) = %v, %v, want Float64(0.5)", v, ok)
	}
}

func TestClass_ZeroDefaults(t *testing.T) {
	c, err := NewClass("Zeros",
		Property{Name: "b", Kind: variant.KindBool},
		Property{Name: "i", Kind: variant.KindInt64},
		Property{Name: "f", Kind: variant.KindFloat32},
		Property{Name: "s", Kind: variant.KindString},
		Property{Name: "l", Kind: variant.KindList},
	)
	if err != nil {
		t.Fatalf("NewClass() error = %v", err)
	}
	o := c.New()

	tests := []struct {
		want *variant.Value
		name string
	}{
		{variant.NewBool(false), "b"},
		{variant.NewInt64(0), "i"},
		{variant.NewFloat32(0), "f"},
		{variant.NewString(""), "s"},
		{variant.NewListOf(), "l"},
	}
	for _, tt := range tests {
		v, ok := o.Get(tt.name)
		if !ok || !v.Equal(tt.want) {
			t.Errorf("Get(%s) = %v, %v, want %v", tt.name, v, ok, tt.want)
		}
	}
}

func TestObject_SetCoercion(t *testing.T) {
	o := counterClass(t).New()

	if !o.Set("value", variant.NewFloat64(3.9)) {
		t.Fatal("Set(value, 3.9) failed")
	}
	if v, _ := o.Get("value"); !v.Equal(variant.NewInt32(4)) {
		t.Errorf("Get(value) = %v, want Int32(4)", v)
	}

	// Failed coercion leaves the stored value alone.
	if o.Set("value", variant.NewString("abc")) {
		t.Error("Set(value, \"abc\") succeeded, want coercion failure")
	}
	if v, _ := o.Get("value"); !v.Equal(variant.NewInt32(4)) {
		t.Errorf("Get(value) after failed Set = %v, want Int32(4)", v)
	}

	if o.Set("missing", variant.NewInt32(1)) {
		t.Error("Set on unknown property succeeded")
	}
	if o.Set("value", nil) {
		t.Error("Set(value, nil) succeeded")
	}
	if _, ok := o.Get("missing"); ok {
		t.Error("Get on unknown property succeeded")
	}
}

func TestObject_GetClones(t *testing.T) {
	o := counterClass(t).New()
	o.Set("history", variant.NewListOf(variant.NewInt32(1)))

	g1, _ := o.Get("history")
	g2, _ := o.Get("history")
	if g1 == g2 {
		t.Error("Get returned the same pointer twice")
	}
	if !g1.Equal(g2) {
		t.Errorf("clones differ: %v vs %v", g1, g2)
	}

	// A later Set must not affect an earlier Get.
	o.Set("history", variant.NewListOf(variant.NewInt32(2)))
	if !g1.Equal(variant.NewListOf(variant.NewInt32(1))) {
		t.Errorf("earlier Get changed after Set: %v", g1)
	}
}

func TestObject_InstancesIndependent(t *testing.T) {
	c := counterClass(t)
	o1 := c.New()
	o2 := c.New()

	o1.Set("value", variant.NewInt32(7))

	if v, _ := o2.Get("value"); !v.Equal(variant.NewInt32(0)) {
		t.Errorf("sibling instance value = %v, want Int32(0)", v)
	}
}

func TestObject_OnChange(t *testing.T) {
	o := counterClass(t).New()

	var seen []*variant.Value
	off := o.OnChange("value", func(v *variant.Value) {
		seen = append(seen, v)
	})
	if off == nil {
		t.Fatal("OnChange returned nil for a known property")
	}

	o.Set("value", variant.NewInt32(1))
	o.Set("value", variant.NewInt32(1)) // equal write, no notification
	o.Set("value", variant.NewFloat64(2.2))
	o.Set("value", variant.NewString("abc")) // failed write, no notification

	if len(seen) != 2 {
		t.Fatalf("notifications = %d, want 2", len(seen))
	}
	if !seen[0].Equal(variant.NewInt32(1)) || !seen[1].Equal(variant.NewInt32(2)) {
		t.Errorf("notified values = %v, %v, want Int32(1), Int32(2)", seen[0], seen[1])
	}

	off()
	off() // second call is harmless
	o.Set("value", variant.NewInt32(9))
	if len(seen) != 2 {
		t.Errorf("notifications after unsubscribe = %d, want 2", len(seen))
	}
}

func TestObject_OnChangeOrder(t *testing.T) {
	o := counterClass(t).New()

	var order []string
	o.OnChange("value", func(*variant.Value) { order = append(order, "first") })
	o.OnChange("value", func(*variant.Value) { order = append(order, "second") })
	o.OnChange("label", func(*variant.Value) { order = append(order, "label") })

	o.Set("value", variant.NewInt32(5))

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("notification order = %v, want [first second]", order)
	}
}

func TestObject_OnChangeUnknown(t *testing.T) {
	o := counterClass(t).New()

	if off := o.OnChange("missing", func(*variant.Value) {}); off != nil {
		t.Error("OnChange on unknown property returned a subscription")
	}
	if off := o.OnChange("value", nil); off != nil {
		t.Error("OnChange with nil fn returned a subscription")
	}
}

func TestObject_IndexAccess(t *testing.T) {
	o := counterClass(t).New()

	i, ok := o.Index("label")
	if !ok || i != 1 {
		t.Fatalf("Index(label) = %d, %v, want 1, true", i, ok)
	}
	if _, ok := o.Index("missing"); ok {
		t.Error("Index(missing) succeeded")
	}

	p, ok := o.PropAt(1)
	if !ok || p.Name != "label" || p.Kind != variant.KindString {
		t.Errorf("PropAt(1) = %+v, %v", p, ok)
	}
	if !p.Default.Equal(variant.NewString("counter")) {
		t.Errorf("PropAt(1).Default = %v, want String(\"counter\")", p.Default)
	}
	if _, ok := o.PropAt(3); ok {
		t.Error("PropAt(3) succeeded, want out of range")
	}
	if _, ok := o.PropAt(-1); ok {
		t.Error("PropAt(-1) succeeded, want out of range")
	}

	if !o.SetAt(0, variant.NewInt32(11)) {
		t.Fatal("SetAt(0) failed")
	}
	v, ok := o.GetAt(0)
	if !ok || !v.Equal(variant.NewInt32(11)) {
		t.Errorf("GetAt(0) = %v, %v, want Int32(11)", v, ok)
	}
	if o.SetAt(5, variant.NewInt32(1)) {
		t.Error("SetAt(5) succeeded, want out of range")
	}
	if _, ok := o.GetAt(5); ok {
		t.Error("GetAt(5) succeeded, want out of range")
	}
}

func TestClass_Accessors(t *testing.T) {
	c := counterClass(t)

	if c.Name() != "Counter" {
		t.Errorf("Name() = %q, want %q", c.Name(), "Counter")
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}
