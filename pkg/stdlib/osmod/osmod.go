// Package osmod is the built-in "os" module: getenv and args, a narrow
// read-only slice of process environment the way iomod narrows filesystem
// access to a sandboxed root — no subprocess spawning, no environment
// mutation.
package osmod

import (
	"os"

	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/herrors"
	"github.com/hpl-lang/hpl/pkg/module"
)

// New builds the os module descriptor. scriptArgs are the arguments the
// host passed after the script path on the command line.
func New(scriptArgs []string) *module.Module {
	m := module.New("os", "getenv and the script's command-line arguments")

	args := make([]value.Value, len(scriptArgs))
	for i, a := range scriptArgs {
		args[i] = value.NewString(a)
	}
	m.RegisterConst("args", value.NewArray(args))

	m.RegisterFunc(&module.FunctionEntry{Name: "getenv", Arity: 1, Doc: "getenv(name) -> string (empty if unset)", Host: getenvFunc})
	return m
}

func getenvFunc(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.String {
		return value.NullValue, herrors.New(herrors.Type, herrors.Position{}, "os.getenv() requires one string argument")
	}
	return value.NewString(os.Getenv(args[0].StrV)), nil
}
