// Command hpl-debug runs an HPL document the same way cmd/hpl does, but
// on an uncaught error it drops into an interactive post-mortem prompt
// (github.com/peterh/liner) instead of just exiting: inspect the call
// stack, `this`, and the local/global scopes as the evaluator holds them
// once the error has unwound to the top. By then every call frame has been
// popped and `this` restored, so the stack shows empty and `this` shows
// null; locals are those of the most recently entered call.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/hpl-lang/hpl/internal/debughook"
	"github.com/hpl-lang/hpl/pkg/config"
	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/document"
	"github.com/hpl-lang/hpl/pkg/eval"
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
	verbose := flag.Bool("verbose", false, "include a full stack trace in the error report")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: hpl-debug <document.hpl> [--verbose]")
		os.Exit(1)
	}
	docPath := args[0]
	var scriptArgs []string
	for _, a := range args[1:] {
		if a == "--verbose" || a == "-verbose" {
			*verbose = true
			continue
		}
		scriptArgs = append(scriptArgs, a)
	}

	cfg := config.Load()
	if os.Getenv(config.DebugEnv) != "" {
		*verbose = *verbose || cfg.Debug
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
	resolver.RegisterBuiltin(iomod.NewSandbox(filepath.Dir(docPath), os.Stdout).New())

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

	var runErr error
	for name, className := range prog.Objects {
		obj := object.NewObject(className)
		ev.Globals[name] = obj.AsValue()
		if _, _, err := ev.CallMethodIfExists(obj, "init", nil); err != nil {
			runErr = err
			break
		}
	}

	if runErr == nil {
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
	}

	if runErr == nil {
		if prog.Call != nil {
			callArgs := make([]value.Value, len(prog.Call.Args))
			for i, a := range prog.Call.Args {
				v, verr := a.ToValue(ev.Globals)
				if verr != nil {
					fmt.Printf("Call error: %v\n", verr)
					os.Exit(1)
				}
				callArgs[i] = v
			}
			_, runErr = ev.RunCallDirective(prog.Call.Name, callArgs)
		} else {
			_, runErr = ev.RunMain()
		}
	}

	if runErr == nil {
		return
	}

	report := debughook.Build(runErr, ev, *verbose)
	fmt.Println(report.String())
	postMortem(report)
	os.Exit(1)
}

// postMortem is the liner-backed interactive prompt: "stack", "locals",
// "globals", "this", and "quit".
func postMortem(report *debughook.Report) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	fmt.Println("entering post-mortem; type 'help' for commands")
	for {
		line, err := ln.Prompt("(hpl-debug) ")
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			continue
		}
		ln.AppendHistory(line)

		switch strings.TrimSpace(line) {
		case "help":
			fmt.Println("commands: stack, locals, globals, this, quit")
		case "stack":
			for _, frame := range report.CallStack {
				fmt.Println(" ", frame)
			}
		case "locals":
			printMap(report.Locals)
		case "globals":
			printMap(report.Globals)
		case "this":
			fmt.Println(report.This)
		case "quit", "exit":
			return
		case "":
			// ignore
		default:
			fmt.Println("unknown command; type 'help'")
		}
	}
}

func printMap(m map[string]string) {
	for k, v := range m {
		fmt.Printf("  %s = %s\n", k, v)
	}
}
