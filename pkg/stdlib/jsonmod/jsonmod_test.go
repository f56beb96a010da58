package jsonmod

import (
	"testing"

	"github.com/hpl-lang/hpl/pkg/core/value"
)

func TestJSONModule(t *testing.T) {
	m := New()

	t.Run("parse object preserves keys", func(t *testing.T) {
		v, err := m.Functions["parse"].Call(nil, []value.Value{value.NewString(`{"name": "Ada", "age": 37}`)})
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		d := v.Opaque.(*value.DictVal)
		name, _ := d.Get("name")
		age, _ := d.Get("age")
		if name.StrV != "Ada" || age.IntV != 37 {
			t.Errorf("got name=%v age=%v", name, age)
		}
	})

	t.Run("parse array of ints", func(t *testing.T) {
		v, err := m.Functions["parse"].Call(nil, []value.Value{value.NewString(`[1, 2, 3]`)})
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		elems := v.Opaque.(*value.ArrayVal).Elems
		if len(elems) != 3 || elems[2].IntV != 3 {
			t.Errorf("got %v", elems)
		}
	})

	t.Run("round trip through stringify", func(t *testing.T) {
		arr := value.NewArray([]value.Value{value.NewInt(1), value.NewString("x")})
		s, err := m.Functions["stringify"].Call(nil, []value.Value{arr})
		if err != nil {
			t.Fatalf("stringify: %v", err)
		}
		if s.StrV != `[1,"x"]` {
			t.Errorf("got %q", s.StrV)
		}
	})
}
