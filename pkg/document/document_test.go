package document

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestPreprocessArrowFunctionsQuotesSingleLineBody(t *testing.T) {
	raw := []byte("greet: (n) => { echo n }\n")
	got := string(preprocessArrowFunctions(raw))
	want := `greet: "(n) => { echo n }"` + "\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPreprocessArrowFunctionsIgnoresBracesInsideStrings(t *testing.T) {
	raw := []byte(`greet: (n) => { echo "{not a brace}" }` + "\n")
	got := string(preprocessArrowFunctions(raw))
	want := `greet: "(n) => { echo \"{not a brace}\" }"` + "\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPreprocessArrowFunctionsSpansMultipleLines(t *testing.T) {
	raw := []byte("run: (x) => {\n  echo x\n  return x\n}\n")
	got := string(preprocessArrowFunctions(raw))
	if !containsSubstring(got, `run: "(x) => {\n  echo x\n  return x\n}"`) {
		t.Errorf("got %q", got)
	}
}

func containsSubstring(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestLoadParsesClassesObjectsAndCallDirective(t *testing.T) {
	dir := t.TempDir()
	doc := `
classes:
  Greeter:
    greet: (n) => { return "Hi " + n }
objects:
  g: Greeter()
call: main("Ada")
main: (name) => { echo g.greet(name) }
`
	path := writeTemp(t, dir, "main.hpl.yaml", doc)

	prog, err := Load(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := prog.Classes.Classes["Greeter"]; !ok {
		t.Fatalf("expected class Greeter to be registered")
	}
	if prog.Objects["g"] != "Greeter" {
		t.Errorf("objects[g] = %q, want Greeter", prog.Objects["g"])
	}
	if _, ok := prog.TopLevel["main"]; !ok {
		t.Fatalf("expected top-level function main")
	}
	if prog.Call == nil || prog.Call.Name != "main" {
		t.Fatalf("expected call directive main, got %+v", prog.Call)
	}
	if len(prog.Call.Args) != 1 || prog.Call.Args[0].Str == nil || *prog.Call.Args[0].Str != "Ada" {
		t.Fatalf("expected single string arg %q, got %+v", "Ada", prog.Call.Args)
	}
}

func TestLoadMergesIncludesWithHostKeysWinning(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "lib.hpl.yaml", `
classes:
  Shared:
    ping: (x) => { return x }
helper: () => { echo "from lib" }
`)
	hostDoc := `
includes:
  - lib.hpl.yaml
classes:
  Shared:
    ping: (x) => { return x + 1 }
`
	path := writeTemp(t, dir, "host.hpl.yaml", hostDoc)

	prog, err := Load(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := prog.TopLevel["helper"]; !ok {
		t.Fatalf("expected helper imported from include")
	}
	shared, ok := prog.Classes.Classes["Shared"]
	if !ok {
		t.Fatalf("expected class Shared")
	}
	if shared.Methods["ping"].Body.Stmts[0] == nil {
		t.Fatalf("expected ping method body to be parsed")
	}
}

func TestLoadWithLoggerWarnsOnMissingIncludeWithoutFailing(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "host.hpl.yaml", `
includes:
  - does-not-exist.hpl.yaml
main: () => { echo "ok" }
`)

	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	prog, err := LoadWithLogger(path, nil, logger)
	if err != nil {
		t.Fatalf("a missing include must not be a load error, got: %v", err)
	}
	if _, ok := prog.TopLevel["main"]; !ok {
		t.Fatalf("expected main to still be parsed")
	}
	if !containsSubstring(buf.String(), "does-not-exist.hpl.yaml") {
		t.Errorf("expected a warning naming the missing include, got %q", buf.String())
	}
}

func TestParseCallDirectiveArgHeuristics(t *testing.T) {
	doc := map[string]any{"call": `run(1, 2.5, "hi", x)`}
	prog := newProgram()
	if err := parseCallDirective(doc, prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Call.Name != "run" {
		t.Fatalf("name = %q, want run", prog.Call.Name)
	}
	if len(prog.Call.Args) != 4 {
		t.Fatalf("got %d args, want 4", len(prog.Call.Args))
	}
	if *prog.Call.Args[0].Int != 1 {
		t.Errorf("arg0 = %+v, want int 1", prog.Call.Args[0])
	}
	if *prog.Call.Args[1].Float != 2.5 {
		t.Errorf("arg1 = %+v, want float 2.5", prog.Call.Args[1])
	}
	if *prog.Call.Args[2].Str != "hi" {
		t.Errorf("arg2 = %+v, want string hi", prog.Call.Args[2])
	}
	if prog.Call.Args[3].Ident != "x" {
		t.Errorf("arg3 = %+v, want ident x", prog.Call.Args[3])
	}
}

func TestResolveIncludePathTriesSearchPaths(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "lib")
	if err := os.Mkdir(libDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemp(t, libDir, "extra.hpl.yaml", "helper: () => { echo 1 }\n")

	path, ok := resolveIncludePath("extra.hpl.yaml", dir, []string{libDir})
	if !ok {
		t.Fatalf("expected to resolve extra.hpl.yaml via search path")
	}
	if filepath.Dir(path) != libDir {
		t.Errorf("resolved to %q, want a file under %q", path, libDir)
	}
}
