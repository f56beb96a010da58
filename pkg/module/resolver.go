package module

import (
	"fmt"
	"os"
	"path/filepath"
)

// HostFileExt is the host-language file suffix used by resolution layer 4
// (spec §4.5: "a host-language source file M.{host-ext}"). The runtime's
// host-ecosystem wrap is Python (via pkg/hostwrap's gpython integration),
// so the extension is ".py".
const HostFileExt = ".py"

// ScriptFileExt is the script-module suffix used by resolution layer 3.
const ScriptFileExt = ".hpl"

// Resolver implements the four-layer lookup of §4.5. Layers 2 and 4 are
// injected as callbacks (both ultimately backed by pkg/hostwrap) so this
// package never imports the AST/evaluator/hostwrap packages that would
// otherwise create an import cycle back to module.
type Resolver struct {
	// Builtins is the fixed stdlib set (math, io, json, os, time),
	// populated by cmd/hpl at startup from pkg/stdlib/*.
	Builtins map[string]*Module

	// SearchPaths is HPL_MODULE_PATHS, most-specific first.
	SearchPaths []string

	// LoadHostPackage wraps an installed host-ecosystem package named M
	// (layer 2). A nil result with a nil error means "not found, try the
	// next layer."
	LoadHostPackage func(name string) (*Module, error)

	// LoadScriptFile parses and loads an .hpl file's top-level functions
	// into a Module (layer 3).
	LoadScriptFile func(path string) (*Module, error)

	// LoadHostFile wraps a host-language source file the same way as
	// LoadHostPackage (layer 4).
	LoadHostFile func(path string) (*Module, error)
}

func NewResolver(searchPaths []string) *Resolver {
	return &Resolver{
		Builtins:    make(map[string]*Module),
		SearchPaths: searchPaths,
	}
}

func (r *Resolver) RegisterBuiltin(m *Module) {
	r.Builtins[m.Name] = m
}

// Resolve looks up module name through all four layers in order,
// returning the first hit.
func (r *Resolver) Resolve(name string) (*Module, error) {
	if m, ok := r.Builtins[name]; ok {
		return m, nil
	}

	if r.LoadHostPackage != nil {
		m, err := r.LoadHostPackage(name)
		if err != nil {
			return nil, fmt.Errorf("loading host package %q: %w", name, err)
		}
		if m != nil {
			return m, nil
		}
	}

	if path, ok := r.findOnSearchPath(name, ScriptFileExt); ok {
		if r.LoadScriptFile == nil {
			return nil, fmt.Errorf("found script module %q but no script loader is configured", path)
		}
		return r.LoadScriptFile(path)
	}

	if path, ok := r.findOnSearchPath(name, HostFileExt); ok {
		if r.LoadHostFile == nil {
			return nil, fmt.Errorf("found host module %q but no host loader is configured", path)
		}
		return r.LoadHostFile(path)
	}

	return nil, fmt.Errorf("module not found: %s", name)
}

func (r *Resolver) findOnSearchPath(name, ext string) (string, bool) {
	for _, dir := range r.SearchPaths {
		candidate := filepath.Join(dir, name+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
