package document

import (
	"github.com/hpl-lang/hpl/pkg/module"
)

// LoadAsModule implements module-resolution layer 3 (spec §4.5): an .hpl
// file is a full document, and its top-level functions become the
// resulting Module's callables. Its own classes/objects/imports are
// loaded too (so the file's functions can reference them) but are not
// part of the Module surface the importer sees.
func LoadAsModule(path string, searchPaths []string) (*module.Module, error) {
	prog, err := Load(path, searchPaths)
	if err != nil {
		return nil, err
	}
	m := module.New(path, "script module")
	for name, fn := range prog.TopLevel {
		m.RegisterFunc(&module.FunctionEntry{Name: name, Arity: len(fn.Params), Script: fn})
	}
	return m, nil
}
