// Package value implements the HPL runtime's tagged-union value type.
//
// A Value is a small struct rather than an interface: scalars live directly
// in the struct, heap-shaped values (array, dict, object, class, module,
// bound function) live behind Opaque. This mirrors the tagged
// Type+Data+Opaque union the teacher's pkg/core/value used for its own VM,
// minus the byte-arena string packing that design needed for a
// fixed-memory sandbox — a tree-walking evaluator has no such constraint,
// so strings and numbers are stored directly on the struct.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the tag of the union.
type Kind uint8

const (
	Null Kind = iota
	Int
	Float
	String
	Bool
	Array
	Dict
	Object
	Class
	Module
	BoundFunction
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Array:
		return "array"
	case Dict:
		return "dict"
	case Object:
		return "object"
	case Class:
		return "class"
	case Module:
		return "module"
	case BoundFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is the runtime representation of every HPL datum. Opaque holds a
// *ArrayVal, *DictVal, or a pointer owned by pkg/object / pkg/module
// (*object.Object, *object.Class, *module.Module, *module.FunctionEntry)
// depending on Kind; value itself never imports those packages, so the
// type assertion lives with the caller that knows the Kind.
type Value struct {
	Kind   Kind
	IntV   int64
	FloatV float64
	StrV   string
	BoolV  bool
	Opaque any
}

// NullValue is the singleton null.
var NullValue = Value{Kind: Null}

func NewInt(i int64) Value     { return Value{Kind: Int, IntV: i} }
func NewFloat(f float64) Value { return Value{Kind: Float, FloatV: f} }
func NewString(s string) Value { return Value{Kind: String, StrV: s} }
func NewBool(b bool) Value     { return Value{Kind: Bool, BoolV: b} }

// ArrayVal backs an Array value; Elems is mutated in place so that
// arr[i] = v and append-like builtins are visible through every alias of
// the value (spec §3: object/array identity is stable).
type ArrayVal struct {
	Elems []Value
}

func NewArray(elems []Value) Value {
	return Value{Kind: Array, Opaque: &ArrayVal{Elems: elems}}
}

// DictVal backs a Dict value (SPEC_FULL §3 supplement). Keys preserves
// insertion order so `for (k in d)` and Display are deterministic.
type DictVal struct {
	Keys   []string
	Values map[string]Value
}

func NewDict() Value {
	return Value{Kind: Dict, Opaque: &DictVal{Values: make(map[string]Value)}}
}

func (d *DictVal) Get(key string) (Value, bool) {
	v, ok := d.Values[key]
	return v, ok
}

func (d *DictVal) Set(key string, v Value) {
	if _, exists := d.Values[key]; !exists {
		d.Keys = append(d.Keys, key)
	}
	d.Values[key] = v
}

// IsNumeric reports whether the value participates in numeric arithmetic.
func (v Value) IsNumeric() bool {
	return v.Kind == Int || v.Kind == Float
}

// AsFloat returns the value's numeric reading as a float64; callers must
// check IsNumeric first.
func (v Value) AsFloat() float64 {
	if v.Kind == Int {
		return float64(v.IntV)
	}
	return v.FloatV
}

// Display renders a value the way the evaluator's "+" operator and the
// echo built-in do: booleans as true/false, null as the literal null,
// arrays as [e1, e2, …] (spec §3 invariant 6).
func (v Value) Display() string {
	switch v.Kind {
	case Null:
		return "null"
	case Int:
		return strconv.FormatInt(v.IntV, 10)
	case Float:
		return formatFloat(v.FloatV)
	case String:
		return v.StrV
	case Bool:
		if v.BoolV {
			return "true"
		}
		return "false"
	case Array:
		a := v.Opaque.(*ArrayVal)
		parts := make([]string, len(a.Elems))
		for i, e := range a.Elems {
			parts[i] = e.quotedDisplay()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Dict:
		d := v.Opaque.(*DictVal)
		parts := make([]string, 0, len(d.Keys))
		for _, k := range d.Keys {
			parts = append(parts, fmt.Sprintf("%q: %s", k, d.Values[k].quotedDisplay()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		// Object, Class, Module, BoundFunction implement fmt.Stringer on
		// their Opaque payload; fall back to that.
		if s, ok := v.Opaque.(fmt.Stringer); ok {
			return s.String()
		}
		return "<" + v.Kind.String() + ">"
	}
}

func (v Value) quotedDisplay() string {
	if v.Kind == String {
		return strconv.Quote(v.StrV)
	}
	return v.Display()
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
