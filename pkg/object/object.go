// Package object implements the Function, Class, and Object descriptors
// of spec.md §3: a class's method table, single-parent inheritance, and a
// duck-typed attribute map per instance.
package object

import (
	"fmt"

	"github.com/hpl-lang/hpl/pkg/ast"
	"github.com/hpl-lang/hpl/pkg/core/value"
)

// Function is a callable body: a parameter-name list and a block AST. It
// is not a runtime value (spec §3: "functions are not values") — it lives
// only in a Class's method map or a top-level function table.
type Function struct {
	Name   string
	Params []string
	Body   *ast.Block
}

// Class is {name, optional parent name, method map}. Methods is keyed by
// bare method name; parent resolution walks Registry by Parent name, not
// by an embedded pointer, so that forward references within the same
// post-merge document (invariant 1) resolve independent of declaration
// order.
type Class struct {
	Name    string
	Parent  string
	Methods map[string]*Function
}

func NewClass(name, parent string) *Class {
	return &Class{Name: name, Parent: parent, Methods: make(map[string]*Function)}
}

func (c *Class) String() string { return fmt.Sprintf("<class %s>", c.Name) }

// Registry resolves class names to Class descriptors, letting LookupMethod
// walk the parent chain. The evaluator owns one Registry per run (the
// merged classes map from the outer document).
type Registry struct {
	Classes map[string]*Class
}

func NewRegistry() *Registry {
	return &Registry{Classes: make(map[string]*Class)}
}

// LookupMethod walks className's parent chain, returning the first method
// named name and the class that defines it. ok is false if no class in the
// chain defines it (§4.4 method dispatch step 2: "absence fails with
// method-not-found").
func (r *Registry) LookupMethod(className, name string) (*Function, *Class, bool) {
	seen := make(map[string]bool)
	for className != "" {
		if seen[className] {
			break // defensive: a cyclic parent chain must not loop forever
		}
		seen[className] = true
		cls, ok := r.Classes[className]
		if !ok {
			return nil, nil, false
		}
		if fn, ok := cls.Methods[name]; ok {
			return fn, cls, true
		}
		className = cls.Parent
	}
	return nil, nil, false
}

// Object is {name, class reference, attribute map}. Attributes are
// created on first assignment and never removed through the language
// (§3 Object descriptor).
type Object struct {
	ClassName string
	Attrs     map[string]value.Value
}

func NewObject(className string) *Object {
	return &Object{ClassName: className, Attrs: make(map[string]value.Value)}
}

func (o *Object) String() string { return fmt.Sprintf("<object of %s>", o.ClassName) }

// Get reads an attribute; ok is false if it was never assigned.
func (o *Object) Get(name string) (value.Value, bool) {
	v, ok := o.Attrs[name]
	return v, ok
}

// Set creates or overwrites an attribute.
func (o *Object) Set(name string, v value.Value) {
	o.Attrs[name] = v
}

// AsValue wraps the object in a tagged runtime Value.
func (o *Object) AsValue() value.Value {
	return value.Value{Kind: value.Object, Opaque: o}
}

// AsValue wraps the class in a tagged runtime Value (classes are not
// spec.md runtime values, but the evaluator needs to hand one around when
// resolving `this.parent`-style chains and debug dumps).
func (c *Class) AsValue() value.Value {
	return value.Value{Kind: value.Class, Opaque: c}
}
