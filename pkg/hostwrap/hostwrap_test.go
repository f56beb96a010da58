package hostwrap

import (
	"bytes"
	"testing"

	"github.com/hpl-lang/hpl/pkg/core/value"
)

func TestWrapSourceArithmetic(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		src  string
		args []value.Value
		want value.Value
	}{
		{
			name: "integer addition",
			fn:   "add",
			src:  "def add(a, b):\n    return a + b\n",
			args: []value.Value{value.NewInt(2), value.NewInt(3)},
			want: value.NewInt(5),
		},
		{
			name: "float division",
			fn:   "halve",
			src:  "def halve(x):\n    return x / 2\n",
			args: []value.Value{value.NewInt(9)},
			want: value.NewFloat(4.5),
		},
		{
			name: "floor division",
			fn:   "third",
			src:  "def third(x):\n    return x // 3\n",
			args: []value.Value{value.NewInt(10)},
			want: value.NewInt(3),
		},
		{
			name: "operator precedence",
			fn:   "compute",
			src:  "def compute():\n    return 1 + 2 * 3\n",
			args: nil,
			want: value.NewInt(7),
		},
		{
			name: "string concatenation via add",
			fn:   "greet",
			src:  "def greet(n):\n    return \"Hi \" + n\n",
			args: []value.Value{value.NewString("Ada")},
			want: value.NewString("Hi Ada"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWrapper(&bytes.Buffer{})
			mod, err := w.wrapSource("arith", tt.src)
			if err != nil {
				t.Fatalf("wrapSource: %v", err)
			}
			entry, ok := mod.Functions[tt.fn]
			if !ok {
				t.Fatalf("function %q not registered", tt.fn)
			}
			got, err := entry.Call(nil, tt.args)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWrapSourceControlFlow(t *testing.T) {
	t.Run("if/else selects a branch", func(t *testing.T) {
		src := `
def sign(x):
    if x > 0:
        return 1
    else:
        return -1
`
		w := NewWrapper(&bytes.Buffer{})
		mod, err := w.wrapSource("ctrl", src)
		if err != nil {
			t.Fatalf("wrapSource: %v", err)
		}
		pos, err := mod.Functions["sign"].Call(nil, []value.Value{value.NewInt(5)})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		if pos != value.NewInt(1) {
			t.Errorf("sign(5) = %+v, want 1", pos)
		}
		neg, err := mod.Functions["sign"].Call(nil, []value.Value{value.NewInt(-5)})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		if neg != value.NewInt(-1) {
			t.Errorf("sign(-5) = %+v, want -1", neg)
		}
	})

	t.Run("while loop accumulates", func(t *testing.T) {
		src := `
def sum_to(n):
    total = 0
    i = 1
    while i <= n:
        total = total + i
        i = i + 1
    return total
`
		w := NewWrapper(&bytes.Buffer{})
		mod, err := w.wrapSource("ctrl", src)
		if err != nil {
			t.Fatalf("wrapSource: %v", err)
		}
		got, err := mod.Functions["sum_to"].Call(nil, []value.Value{value.NewInt(5)})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		if got != value.NewInt(15) {
			t.Errorf("sum_to(5) = %+v, want 15", got)
		}
	})

	t.Run("for loop returns early", func(t *testing.T) {
		src := `
def first_over(items, limit):
    for x in items:
        if x > limit:
            return x
    return -1
`
		w := NewWrapper(&bytes.Buffer{})
		mod, err := w.wrapSource("ctrl", src)
		if err != nil {
			t.Fatalf("wrapSource: %v", err)
		}
		items := value.NewArray([]value.Value{value.NewInt(1), value.NewInt(2), value.NewInt(10)})
		got, err := mod.Functions["first_over"].Call(nil, []value.Value{items, value.NewInt(5)})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		if got != value.NewInt(10) {
			t.Errorf("first_over(...) = %+v, want 10", got)
		}
	})

	t.Run("break stops a while loop", func(t *testing.T) {
		src := `
def find_first_negative(items):
    i = 0
    result = -1
    while i < 100:
        if items[i] < 0:
            result = items[i]
            break
        i = i + 1
    return result
`
		w := NewWrapper(&bytes.Buffer{})
		mod, err := w.wrapSource("ctrl", src)
		if err != nil {
			t.Fatalf("wrapSource: %v", err)
		}
		items := value.NewArray([]value.Value{value.NewInt(1), value.NewInt(-2), value.NewInt(3)})
		got, err := mod.Functions["find_first_negative"].Call(nil, []value.Value{items})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		if got != value.NewInt(-2) {
			t.Errorf("got %+v, want -2", got)
		}
	})
}

func TestWrapSourceInterFunctionCalls(t *testing.T) {
	src := `
def square(x):
    return x * x

def sum_of_squares(a, b):
    return square(a) + square(b)
`
	w := NewWrapper(&bytes.Buffer{})
	mod, err := w.wrapSource("calls", src)
	if err != nil {
		t.Fatalf("wrapSource: %v", err)
	}
	got, err := mod.Functions["sum_of_squares"].Call(nil, []value.Value{value.NewInt(3), value.NewInt(4)})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != value.NewInt(25) {
		t.Errorf("sum_of_squares(3, 4) = %+v, want 25", got)
	}
}

func TestWrapSourcePrintWritesToWrapperOut(t *testing.T) {
	var buf bytes.Buffer
	w := NewWrapper(&buf)
	src := "def announce(n):\n    print(\"hello\", n)\n    return n\n"
	mod, err := w.wrapSource("io", src)
	if err != nil {
		t.Fatalf("wrapSource: %v", err)
	}
	if _, err := mod.Functions["announce"].Call(nil, []value.Value{value.NewInt(1)}); err != nil {
		t.Fatalf("call: %v", err)
	}
	if buf.String() != "hello 1\n" {
		t.Errorf("got %q, want %q", buf.String(), "hello 1\n")
	}
}

func TestWrapSourceRejectsTupleUnpackingAssignment(t *testing.T) {
	w := NewWrapper(&bytes.Buffer{})
	src := "def f(a, b):\n    a, b = b, a\n    return a\n"
	mod, err := w.wrapSource("bad", src)
	if err != nil {
		t.Fatalf("wrapSource: %v", err)
	}
	if _, err := mod.Functions["f"].Call(nil, []value.Value{value.NewInt(1), value.NewInt(2)}); err == nil {
		t.Errorf("expected an error for a tuple-unpacking assignment target")
	}
}

func TestWrapSourceDivisionByZero(t *testing.T) {
	w := NewWrapper(&bytes.Buffer{})
	mod, err := w.wrapSource("bad", "def div(a, b):\n    return a / b\n")
	if err != nil {
		t.Fatalf("wrapSource: %v", err)
	}
	if _, err := mod.Functions["div"].Call(nil, []value.Value{value.NewInt(1), value.NewInt(0)}); err == nil {
		t.Errorf("expected division by zero to error")
	}
}
