package value_test

import (
	"testing"

	"github.com/hpl-lang/hpl/pkg/core/value"
)

func TestScalarConstructors(t *testing.T) {
	cases := []struct {
		name string
		v    value.Value
		want string
	}{
		{"int", value.NewInt(42), "42"},
		{"negative int", value.NewInt(-7), "-7"},
		{"float", value.NewFloat(3.5), "3.5"},
		{"float no fraction", value.NewFloat(2), "2.0"},
		{"string", value.NewString("hi"), "hi"},
		{"bool true", value.NewBool(true), "true"},
		{"bool false", value.NewBool(false), "false"},
		{"null", value.NullValue, "null"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Display(); got != c.want {
				t.Errorf("Display() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestArrayDisplay(t *testing.T) {
	arr := value.NewArray([]value.Value{
		value.NewInt(1),
		value.NewString("x"),
		value.NewBool(true),
	})
	want := `[1, "x", true]`
	if got := arr.Display(); got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}
}

func TestDictPreservesInsertionOrder(t *testing.T) {
	d := value.NewDict()
	dv := d.Opaque.(*value.DictVal)
	dv.Set("b", value.NewInt(2))
	dv.Set("a", value.NewInt(1))
	dv.Set("b", value.NewInt(20))

	want := `{"b": 20, "a": 1}`
	if got := d.Display(); got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}

	if v, ok := dv.Get("a"); !ok || v.IntV != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := dv.Get("missing"); ok {
		t.Errorf("Get(missing) should not be found")
	}
}

func TestIsNumericAndAsFloat(t *testing.T) {
	i := value.NewInt(4)
	f := value.NewFloat(1.5)
	s := value.NewString("no")

	if !i.IsNumeric() || !f.IsNumeric() {
		t.Errorf("expected int and float to be numeric")
	}
	if s.IsNumeric() {
		t.Errorf("expected string to not be numeric")
	}
	if got := i.AsFloat(); got != 4.0 {
		t.Errorf("AsFloat() = %v, want 4.0", got)
	}
	if got := f.AsFloat(); got != 1.5 {
		t.Errorf("AsFloat() = %v, want 1.5", got)
	}
}

func TestTruthyPlaceholderValuesAreDistinctKinds(t *testing.T) {
	// Truthy is owned by pkg/eval (only booleans are legal in && / || per
	// §4.4); this just checks Kind tagging stays distinct so the evaluator
	// can safely require value.Bool for logical operands.
	if value.NewBool(true).Kind != value.Bool {
		t.Errorf("expected Bool kind")
	}
	if value.NewInt(1).Kind == value.Bool {
		t.Errorf("int must not be tagged as Bool")
	}
}
