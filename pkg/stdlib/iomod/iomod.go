// Package iomod is the built-in "io" module: read_file, write_file, and
// print, all jailed to a configured root directory the way the teacher's
// FSSandbox (pkg/stdlib/fs.go) jails its own filesystem syscalls.
package iomod

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/herrors"
	"github.com/hpl-lang/hpl/pkg/module"
)

// ErrPathEscape is raised when a requested path resolves outside Root.
var ErrPathEscape = herrors.New(herrors.Value, herrors.Position{}, "io: path escapes the sandbox root")

// Sandbox roots every file operation the io module performs, and routes
// print to the injected Out writer rather than directly to os.Stdout.
type Sandbox struct {
	Root string
	Out  io.Writer
}

func NewSandbox(root string, out io.Writer) *Sandbox {
	absRoot, _ := filepath.Abs(root)
	return &Sandbox{Root: absRoot, Out: out}
}

func (s *Sandbox) resolve(path string) (string, error) {
	clean := filepath.Join(s.Root, filepath.Clean(path))
	if clean != s.Root && !strings.HasPrefix(clean, s.Root+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return clean, nil
}

// New builds the io module descriptor bound to this sandbox.
func (s *Sandbox) New() *module.Module {
	m := module.New("io", "read_file, write_file, and print, jailed to a sandbox root")

	m.RegisterFunc(&module.FunctionEntry{Name: "read_file", Arity: 1, Doc: "read_file(path) -> string", Host: s.readFile})
	m.RegisterFunc(&module.FunctionEntry{Name: "write_file", Arity: 2, Doc: "write_file(path, content) -> null", Host: s.writeFile})
	m.RegisterFunc(&module.FunctionEntry{Name: "print", Arity: -1, Variadic: true, Doc: "print(...) -> null", Host: s.print})

	return m
}

func (s *Sandbox) readFile(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.String {
		return value.NullValue, herrors.New(herrors.Type, herrors.Position{}, "io.read_file() requires one string argument")
	}
	path, err := s.resolve(args[0].StrV)
	if err != nil {
		return value.NullValue, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return value.NullValue, herrors.Wrap(herrors.Value, herrors.Position{}, err, "io.read_file() failed")
	}
	return value.NewString(string(data)), nil
}

func (s *Sandbox) writeFile(args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind != value.String || args[1].Kind != value.String {
		return value.NullValue, herrors.New(herrors.Type, herrors.Position{}, "io.write_file() requires (path, content) strings")
	}
	path, err := s.resolve(args[0].StrV)
	if err != nil {
		return value.NullValue, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return value.NullValue, herrors.Wrap(herrors.Value, herrors.Position{}, err, "io.write_file() failed")
	}
	if err := os.WriteFile(path, []byte(args[1].StrV), 0o644); err != nil {
		return value.NullValue, herrors.Wrap(herrors.Value, herrors.Position{}, err, "io.write_file() failed")
	}
	return value.NullValue, nil
}

func (s *Sandbox) print(args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Display()
	}
	fmt.Fprintln(s.Out, strings.Join(parts, " "))
	return value.NullValue, nil
}
