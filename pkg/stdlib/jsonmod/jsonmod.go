// Package jsonmod is the built-in "json" module: parse and stringify,
// converting between HPL's value.Value and Go's encoding/json the way
// the teacher's pkg/stdlib/json.go converts parsed JSON into its own VM
// value representation.
package jsonmod

import (
	"encoding/json"
	"sort"

	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/herrors"
	"github.com/hpl-lang/hpl/pkg/module"
)

// New builds the json module descriptor.
func New() *module.Module {
	m := module.New("json", "parse and stringify")
	m.RegisterFunc(&module.FunctionEntry{Name: "parse", Arity: 1, Doc: "parse(str) -> value", Host: parseFunc})
	m.RegisterFunc(&module.FunctionEntry{Name: "stringify", Arity: 1, Doc: "stringify(value) -> str", Host: stringifyFunc})
	return m
}

func parseFunc(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.String {
		return value.NullValue, herrors.New(herrors.Type, herrors.Position{}, "json.parse() requires one string argument")
	}
	var raw any
	if err := json.Unmarshal([]byte(args[0].StrV), &raw); err != nil {
		return value.NullValue, herrors.Wrap(herrors.Value, herrors.Position{}, err, "json.parse() failed")
	}
	return fromJSON(raw), nil
}

func fromJSON(raw any) value.Value {
	switch v := raw.(type) {
	case nil:
		return value.NullValue
	case bool:
		return value.NewBool(v)
	case float64:
		if v == float64(int64(v)) {
			return value.NewInt(int64(v))
		}
		return value.NewFloat(v)
	case string:
		return value.NewString(v)
	case []any:
		elems := make([]value.Value, len(v))
		for i, e := range v {
			elems[i] = fromJSON(e)
		}
		return value.NewArray(elems)
	case map[string]any:
		d := value.NewDict()
		dv := d.Opaque.(*value.DictVal)
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			dv.Set(k, fromJSON(v[k]))
		}
		return d
	default:
		return value.NullValue
	}
}

func stringifyFunc(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.NullValue, herrors.New(herrors.Value, herrors.Position{}, "json.stringify() takes exactly 1 argument")
	}
	raw, err := toJSON(args[0])
	if err != nil {
		return value.NullValue, err
	}
	out, err := json.Marshal(raw)
	if err != nil {
		return value.NullValue, herrors.Wrap(herrors.Value, herrors.Position{}, err, "json.stringify() failed")
	}
	return value.NewString(string(out)), nil
}

func toJSON(v value.Value) (any, error) {
	switch v.Kind {
	case value.Null:
		return nil, nil
	case value.Bool:
		return v.BoolV, nil
	case value.Int:
		return v.IntV, nil
	case value.Float:
		return v.FloatV, nil
	case value.String:
		return v.StrV, nil
	case value.Array:
		elems := v.Opaque.(*value.ArrayVal).Elems
		out := make([]any, len(elems))
		for i, e := range elems {
			converted, err := toJSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case value.Dict:
		d := v.Opaque.(*value.DictVal)
		out := make(map[string]any, len(d.Keys))
		for _, k := range d.Keys {
			converted, err := toJSON(d.Values[k])
			if err != nil {
				return nil, err
			}
			out[k] = converted
		}
		return out, nil
	default:
		return nil, herrors.New(herrors.Type, herrors.Position{}, "json.stringify() cannot serialize a %s value", v.Kind)
	}
}
