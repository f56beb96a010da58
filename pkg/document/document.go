// Package document implements the outer structured-document layer (§4.2):
// decoding a host document into classes, objects, top-level functions,
// imports, and a call directive, resolving and merging its includes.
package document

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/lexer"
	"github.com/hpl-lang/hpl/pkg/object"
	"github.com/hpl-lang/hpl/pkg/parser"
)

// Import is one entry of the document's imports list: a bare module name,
// or a module aliased to a local name.
type Import struct {
	Module string
	Alias  string
}

// CallArg is one argument of a call directive, resolved greedily as
// int, then float, then quoted string, else left as an identifier that
// must be looked up among the program's globals at dispatch time.
type CallArg struct {
	Int   *int64
	Float *float64
	Str   *string
	Ident string
}

// ToValue resolves the argument to a runtime value.Value, looking up
// identifiers in globals.
func (a CallArg) ToValue(globals map[string]value.Value) (value.Value, error) {
	switch {
	case a.Int != nil:
		return value.NewInt(*a.Int), nil
	case a.Float != nil:
		return value.NewFloat(*a.Float), nil
	case a.Str != nil:
		return value.NewString(*a.Str), nil
	default:
		v, ok := globals[a.Ident]
		if !ok {
			return value.NullValue, fmt.Errorf("call directive: identifier %q is not defined", a.Ident)
		}
		return v, nil
	}
}

// CallDirective names the top-level function or bare identifier a
// document asks to be run after it loads, with its literal arguments.
type CallDirective struct {
	Name string
	Args []CallArg
}

// Program is the fully decoded, include-merged content of a document:
// everything pkg/eval needs to seed an Evaluator.
type Program struct {
	Classes  *object.Registry
	Objects  map[string]string // instance name -> class name
	TopLevel map[string]*object.Function
	Imports  []Import
	Call     *CallDirective
}

func newProgram() *Program {
	return &Program{
		Classes:  object.NewRegistry(),
		Objects:  make(map[string]string),
		TopLevel: make(map[string]*object.Function),
	}
}

var structuralKeys = map[string]bool{
	"includes": true,
	"imports":  true,
	"classes":  true,
	"objects":  true,
	"call":     true,
}

// Load reads the document at path and every file reachable through its
// includes, merging them per §4.2 (existing keys in the including
// document win; included top-level functions and imports are added).
// A missing include is warned about, not fatal (§4.2); Load discards the
// warning, use LoadWithLogger to see it.
func Load(path string, searchPaths []string) (*Program, error) {
	return LoadWithLogger(path, searchPaths, log.New(io.Discard, "", 0))
}

// LoadWithLogger is Load with an explicit sink for the warnings §4.2's
// include resolution can produce (a missing include is not a load
// error). A nil logger discards warnings, same as Load.
func LoadWithLogger(path string, searchPaths []string, logger *log.Logger) (*Program, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return load(path, searchPaths, map[string]bool{}, logger)
}

func load(path string, searchPaths []string, seen map[string]bool, logger *log.Logger) (*Program, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if seen[abs] {
		return newProgram(), nil
	}
	seen[abs] = true

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(preprocessArrowFunctions(raw), &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	prog := newProgram()
	if err := parseClasses(doc, prog); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := parseObjects(doc, prog); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := parseTopLevelFunctions(doc, prog); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := parseImports(doc, prog); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := parseCallDirective(doc, prog); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if rawIncludes, ok := doc["includes"]; ok {
		includes, ok := toStringSlice(rawIncludes)
		if !ok {
			return nil, fmt.Errorf("%s: includes: expected a sequence of strings", path)
		}
		baseDir := filepath.Dir(path)
		for _, inc := range includes {
			incPath, found := resolveIncludePath(inc, baseDir, searchPaths)
			if !found {
				logger.Printf("%s: warning: include %q not found (searched %s and configured search paths)", path, inc, baseDir)
				continue
			}
			incProg, err := load(incPath, searchPaths, seen, logger)
			if err != nil {
				return nil, err
			}
			mergeProgram(prog, incProg)
		}
	}

	return prog, nil
}

func mergeProgram(host, inc *Program) {
	for name, cls := range inc.Classes.Classes {
		if _, exists := host.Classes.Classes[name]; !exists {
			host.Classes.Classes[name] = cls
		}
	}
	for name, className := range inc.Objects {
		if _, exists := host.Objects[name]; !exists {
			host.Objects[name] = className
		}
	}
	for name, fn := range inc.TopLevel {
		if _, exists := host.TopLevel[name]; !exists {
			host.TopLevel[name] = fn
		}
	}
	host.Imports = append(host.Imports, inc.Imports...)
	if host.Call == nil {
		host.Call = inc.Call
	}
}

func parseClasses(doc map[string]any, prog *Program) error {
	raw, ok := doc["classes"]
	if !ok {
		return nil
	}
	classesMap, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("classes: expected a mapping")
	}
	for className, memberRaw := range classesMap {
		members, ok := memberRaw.(map[string]any)
		if !ok {
			return fmt.Errorf("class %s: expected a mapping of members", className)
		}
		cls := object.NewClass(className, "")
		for memberName, memberVal := range members {
			if memberName == "parent" {
				parentName, ok := memberVal.(string)
				if !ok {
					return fmt.Errorf("class %s: parent must be a string", className)
				}
				cls.Parent = parentName
				continue
			}
			body, ok := memberVal.(string)
			if !ok {
				return fmt.Errorf("class %s: member %s must be an arrow-function string", className, memberName)
			}
			fn, err := parseArrowFunction(memberName, body)
			if err != nil {
				return fmt.Errorf("class %s: %w", className, err)
			}
			cls.Methods[memberName] = fn
		}
		prog.Classes.Classes[className] = cls
	}
	return nil
}

var objectCtorRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\(\s*\)$`)

func parseObjects(doc map[string]any, prog *Program) error {
	raw, ok := doc["objects"]
	if !ok {
		return nil
	}
	objsMap, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("objects: expected a mapping")
	}
	for name, ctorRaw := range objsMap {
		ctor, ok := ctorRaw.(string)
		if !ok {
			return fmt.Errorf("object %s: expected a constructor expression", name)
		}
		m := objectCtorRe.FindStringSubmatch(strings.TrimSpace(ctor))
		if m == nil {
			return fmt.Errorf("object %s: invalid constructor expression %q", name, ctor)
		}
		prog.Objects[name] = m[1]
	}
	return nil
}

func parseTopLevelFunctions(doc map[string]any, prog *Program) error {
	for key, val := range doc {
		if structuralKeys[key] {
			continue
		}
		s, ok := val.(string)
		if !ok || !strings.Contains(s, "=>") {
			continue
		}
		fn, err := parseArrowFunction(key, s)
		if err != nil {
			return fmt.Errorf("function %s: %w", key, err)
		}
		prog.TopLevel[key] = fn
	}
	return nil
}

func parseImports(doc map[string]any, prog *Program) error {
	raw, ok := doc["imports"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("imports: expected a sequence")
	}
	for _, entry := range list {
		switch v := entry.(type) {
		case string:
			prog.Imports = append(prog.Imports, Import{Module: v})
		case map[string]any:
			for mod, aliasRaw := range v {
				alias, _ := aliasRaw.(string)
				prog.Imports = append(prog.Imports, Import{Module: mod, Alias: alias})
			}
		default:
			return fmt.Errorf("imports: invalid entry %#v", entry)
		}
	}
	return nil
}

var callDirectiveRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\((.*)\))?$`)

func parseCallDirective(doc map[string]any, prog *Program) error {
	raw, ok := doc["call"]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return fmt.Errorf("call: expected a string")
	}
	m := callDirectiveRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return fmt.Errorf("call: invalid directive %q", s)
	}
	directive := &CallDirective{Name: m[1]}
	if argsRaw := strings.TrimSpace(m[2]); argsRaw != "" {
		for _, part := range strings.Split(argsRaw, ",") {
			directive.Args = append(directive.Args, parseCallArg(strings.TrimSpace(part)))
		}
	}
	prog.Call = directive
	return nil
}

func parseCallArg(s string) CallArg {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return CallArg{Int: &i}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return CallArg{Float: &f}
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unquoted := s[1 : len(s)-1]
		return CallArg{Str: &unquoted}
	}
	return CallArg{Ident: s}
}

var arrowFuncRe = regexp.MustCompile(`(?s)^\(([^)]*)\)\s*=>\s*\{(.*)\}\s*$`)

// parseArrowFunction compiles a `(params) => { body }` document value into
// a callable object.Function, by lexing and parsing the body the same way
// a top-level .hpl script body would be parsed.
func parseArrowFunction(name, raw string) (*object.Function, error) {
	raw = strings.TrimSpace(raw)
	m := arrowFuncRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%s: not a valid arrow-function value: %q", name, raw)
	}
	var params []string
	if paramsRaw := strings.TrimSpace(m[1]); paramsRaw != "" {
		for _, p := range strings.Split(paramsRaw, ",") {
			params = append(params, strings.TrimSpace(p))
		}
	}

	toks, err := lexer.New(m[2]).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	block, err := parser.New(toks).Parse()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &object.Function{Name: name, Params: params, Body: block}, nil
}

// resolveIncludePath implements §4.2's include-path resolution: absolute
// paths are used as-is, then paths are tried relative to the including
// document's directory, the process working directory, and finally each
// configured search path, in that order.
func resolveIncludePath(inc, baseDir string, searchPaths []string) (string, bool) {
	if filepath.IsAbs(inc) {
		if fileExists(inc) {
			return inc, true
		}
		return "", false
	}
	if candidate := filepath.Join(baseDir, inc); fileExists(candidate) {
		return candidate, true
	}
	if wd, err := os.Getwd(); err == nil {
		if candidate := filepath.Join(wd, inc); fileExists(candidate) {
			return candidate, true
		}
	}
	for _, dir := range searchPaths {
		if candidate := filepath.Join(dir, inc); fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func toStringSlice(raw any) ([]string, bool) {
	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
