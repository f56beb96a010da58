// Command hpl runs an HPL document: decode it (pkg/document), wire the
// module resolver's four layers (pkg/module, pkg/stdlib/*, pkg/hostwrap),
// seed an evaluator (pkg/eval), instantiate the document's objects, and
// run its call directive or main.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hpl-lang/hpl/pkg/config"
	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/document"
	"github.com/hpl-lang/hpl/pkg/eval"
	"github.com/hpl-lang/hpl/pkg/herrors"
	"github.com/hpl-lang/hpl/pkg/hostwrap"
	"github.com/hpl-lang/hpl/pkg/module"
	"github.com/hpl-lang/hpl/pkg/object"
	"github.com/hpl-lang/hpl/pkg/stdlib/iomod"
	"github.com/hpl-lang/hpl/pkg/stdlib/jsonmod"
	"github.com/hpl-lang/hpl/pkg/stdlib/mathmod"
	"github.com/hpl-lang/hpl/pkg/stdlib/osmod"
	"github.com/hpl-lang/hpl/pkg/stdlib/timemod"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: hpl run <document.hpl> [script args...]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runDocument()
	default:
		fmt.Println("Unknown command:", os.Args[1])
		os.Exit(1)
	}
}

func runDocument() {
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	sandboxRoot := runCmd.String("sandbox", "", "filesystem root for io.read_file/write_file (default: the document's directory)")

	if len(os.Args) < 3 {
		fmt.Println("Usage: hpl run <document.hpl> [-sandbox dir] [script args...]")
		os.Exit(1)
	}
	docPath := os.Args[2]
	runCmd.Parse(os.Args[3:])
	scriptArgs := runCmd.Args()

	cfg := config.Load()

	root := *sandboxRoot
	if root == "" {
		root = filepath.Dir(docPath)
	}

	logger := log.New(os.Stderr, "", 0)

	prog, err := document.LoadWithLogger(docPath, cfg.ModulePaths, logger)
	if err != nil {
		fmt.Printf("Load error: %v\n", err)
		os.Exit(1)
	}

	resolver := module.NewResolver(cfg.ModulePaths)
	resolver.RegisterBuiltin(mathmod.New())
	resolver.RegisterBuiltin(jsonmod.New())
	resolver.RegisterBuiltin(timemod.New())
	resolver.RegisterBuiltin(osmod.New(scriptArgs))
	resolver.RegisterBuiltin(iomod.NewSandbox(root, os.Stdout).New())

	wrapper := hostwrap.NewWrapper(os.Stdout)
	resolver.LoadHostPackage = wrapper.LoadHostPackage
	resolver.LoadHostFile = wrapper.LoadHostFile
	resolver.LoadScriptFile = func(path string) (*module.Module, error) {
		return document.LoadAsModule(path, cfg.ModulePaths)
	}

	ev := eval.New(prog.Classes, prog.TopLevel, resolver)
	ev.Out = os.Stdout
	ev.In = bufio.NewReader(os.Stdin)
	ev.Logger = logger

	for name, className := range prog.Objects {
		obj := object.NewObject(className)
		ev.Globals[name] = obj.AsValue()
		if _, _, err := ev.CallMethodIfExists(obj, "init", nil); err != nil {
			reportAndExit(err, cfg.Debug)
		}
	}

	for _, imp := range prog.Imports {
		mod, err := resolver.Resolve(imp.Module)
		if err != nil {
			fmt.Printf("Import error: %v\n", err)
			os.Exit(1)
		}
		name := imp.Module
		if imp.Alias != "" {
			name = imp.Alias
		}
		ev.Globals[name] = mod.AsValue()
	}

	if prog.Call != nil {
		values := make([]value.Value, len(prog.Call.Args))
		for i, a := range prog.Call.Args {
			v, err := a.ToValue(ev.Globals)
			if err != nil {
				fmt.Printf("Call error: %v\n", err)
				os.Exit(1)
			}
			values[i] = v
		}
		if _, err := ev.RunCallDirective(prog.Call.Name, values); err != nil {
			reportAndExit(err, cfg.Debug)
		}
		return
	}

	if _, err := ev.RunMain(); err != nil {
		reportAndExit(err, cfg.Debug)
	}
}

func reportAndExit(err error, debug bool) {
	if he, ok := herrors.AsError(err); ok {
		fmt.Fprintf(os.Stderr, "%s\n", he.Error())
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	if debug {
		if st := herrors.StackTrace(err); st != "" {
			fmt.Fprintln(os.Stderr, st)
		}
	}
	os.Exit(1)
}
