package eval_test

import (
	"bytes"
	"testing"

	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/eval"
	"github.com/hpl-lang/hpl/pkg/lexer"
	"github.com/hpl-lang/hpl/pkg/module"
	"github.com/hpl-lang/hpl/pkg/object"
	"github.com/hpl-lang/hpl/pkg/parser"
)

// parseFunc parses one arrow-function body into an object.Function,
// mirroring what pkg/document does for every class method / top-level
// function once the outer document is decoded.
func parseFunc(t *testing.T, name string, params []string, src string) *object.Function {
	t.Helper()
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		t.Fatalf("%s: lex error: %v", name, err)
	}
	block, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("%s: parse error: %v", name, err)
	}
	return &object.Function{Name: name, Params: params, Body: block}
}

func newEvaluator() (*eval.Evaluator, *bytes.Buffer) {
	classes := object.NewRegistry()
	top := make(map[string]*object.Function)
	resolver := module.NewResolver(nil)
	e := eval.New(classes, top, resolver)
	var out bytes.Buffer
	e.Out = &out
	return e, &out
}

// S1: main: () => { echo 1 + 2 * 3 } + call: main() => "7"
func TestScenarioS1ArithmeticPrecedence(t *testing.T) {
	e, out := newEvaluator()
	e.TopLevel["main"] = parseFunc(t, "main", nil, `echo 1 + 2 * 3`)

	if _, err := e.RunMain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "7\n" {
		t.Errorf("got %q, want %q", got, "7\n")
	}
}

// S2: method call through an inheritance-free class.
func TestScenarioS2MethodCall(t *testing.T) {
	e, out := newEvaluator()
	cls := object.NewClass("C", "")
	cls.Methods["greet"] = parseFunc(t, "greet", []string{"n"}, `return "Hi " + n`)
	e.Classes.Classes["C"] = cls

	obj := object.NewObject("C")
	e.Globals["c"] = obj.AsValue()
	e.TopLevel["main"] = parseFunc(t, "main", nil, `echo c.greet("Ada")`)

	if _, err := e.RunMain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "Hi Ada\n" {
		t.Errorf("got %q, want %q", got, "Hi Ada\n")
	}
}

// S3: a top-level function that echoes internally before returning.
func TestScenarioS3FunctionCallWithInternalEcho(t *testing.T) {
	e, out := newEvaluator()
	e.TopLevel["add"] = parseFunc(t, "add", []string{"a", "b"},
		`echo "Adding " + str(a) + " + " + str(b) + " = " + str(a + b)
return a + b`)

	result, err := e.RunCallDirective("add", []value.Value{value.NewInt(5), value.NewInt(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IntV != 8 {
		t.Errorf("return value = %v, want 8", result)
	}
	if got := out.String(); got != "Adding 5 + 3 = 8\n" {
		t.Errorf("got %q, want %q", got, "Adding 5 + 3 = 8\n")
	}
}

// S4: while loop with continue and break.
func TestScenarioS4WhileBreakContinue(t *testing.T) {
	e, out := newEvaluator()
	e.TopLevel["main"] = parseFunc(t, "main", nil, `i=0
sum=0
while (i<10) : {
	i++
	if (i==3): continue
	if (i==7): break
	sum = sum + i
}
echo sum`)

	if _, err := e.RunMain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "18\n" {
		t.Errorf("got %q, want %q", got, "18\n")
	}
}

// S5: single inheritance, method dispatch walking the parent chain, and
// `this` binding inside a called method.
func TestScenarioS5Inheritance(t *testing.T) {
	e, out := newEvaluator()
	base := object.NewClass("BasePrinter", "")
	base.Methods["print"] = parseFunc(t, "print", []string{"s"}, `echo s`)
	e.Classes.Classes["BasePrinter"] = base

	derived := object.NewClass("MessagePrinter", "BasePrinter")
	derived.Methods["show"] = parseFunc(t, "show", nil, `this.print("Hello")`)
	e.Classes.Classes["MessagePrinter"] = derived

	obj := object.NewObject("MessagePrinter")
	e.Globals["m"] = obj.AsValue()
	e.TopLevel["main"] = parseFunc(t, "main", nil, `m.show()`)

	if _, err := e.RunMain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "Hello\n" {
		t.Errorf("got %q, want %q", got, "Hello\n")
	}
	if e.This().Kind != value.Null {
		t.Errorf("expected this to be restored to null after the call, got %v", e.This())
	}
}

// S6: try/catch around a division-by-zero value error.
func TestScenarioS6TryCatchDivisionByZero(t *testing.T) {
	e, out := newEvaluator()
	e.TopLevel["main"] = parseFunc(t, "main", nil,
		`try : { x = 10/0 } catch (e) : { echo "caught: " + e }`)

	if _, err := e.RunMain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "caught: Division by zero\n" {
		t.Errorf("got %q, want %q", got, "caught: Division by zero\n")
	}
}

// S7: three-level object property access.
func TestScenarioS7NestedPropertyAccess(t *testing.T) {
	e, out := newEvaluator()
	a := object.NewObject("Any")
	b := object.NewObject("Any")
	b.Set("c", value.NewInt(42))
	a.Set("b", b.AsValue())
	e.Globals["a"] = a.AsValue()
	e.TopLevel["main"] = parseFunc(t, "main", nil, `echo a.b.c`)

	if _, err := e.RunMain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "42\n" {
		t.Errorf("got %q, want %q", got, "42\n")
	}
}

func TestShortCircuitAndDoesNotEvaluateRight(t *testing.T) {
	e, out := newEvaluator()
	e.TopLevel["probe"] = parseFunc(t, "probe", nil, `echo "evaluated"
return true`)
	e.TopLevel["main"] = parseFunc(t, "main", nil, `x = false && probe()
echo x`)

	if _, err := e.RunMain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "false\n" {
		t.Errorf("probe() must not run: got %q, want %q", got, "false\n")
	}
}

func TestForInOverDictIteratesInsertionOrder(t *testing.T) {
	e, out := newEvaluator()
	d := value.NewDict()
	dv := d.Opaque.(*value.DictVal)
	dv.Set("first", value.NewInt(1))
	dv.Set("second", value.NewInt(2))
	e.Globals["d"] = d
	e.TopLevel["main"] = parseFunc(t, "main", nil, `for (k in d) { echo k }`)

	if _, err := e.RunMain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "first\nsecond\n" {
		t.Errorf("got %q, want %q", got, "first\nsecond\n")
	}
}

func TestThrowIsCaughtByEnclosingTry(t *testing.T) {
	e, out := newEvaluator()
	e.TopLevel["main"] = parseFunc(t, "main", nil,
		`try : { throw "custom failure" } catch (e) : { echo "caught: " + e }`)

	if _, err := e.RunMain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "caught: custom failure\n" {
		t.Errorf("got %q, want %q", got, "caught: custom failure\n")
	}
}

func TestCallStackBalancedAfterSuccessAndCaughtError(t *testing.T) {
	e, _ := newEvaluator()
	cls := object.NewClass("C", "")
	cls.Methods["m"] = parseFunc(t, "m", nil, `return 1`)
	e.Classes.Classes["C"] = cls
	obj := object.NewObject("C")
	e.Globals["c"] = obj.AsValue()
	e.TopLevel["main"] = parseFunc(t, "main", nil, `c.m()
try : { x = 1/0 } catch (e) : { }`)

	if _, err := e.RunMain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(e.CallStack()) != 0 {
		t.Errorf("expected empty call stack after termination, got %v", e.CallStack())
	}
}
