// Command hplpkg is the thin package-manager entry point spec.md §6
// scopes out of the core: add/remove/list module version constraints
// under HPL_MODULE_PATHS's first directory, the way `import math@^1.0`
// would be recorded. It manages a manifest only — fetching and
// installing modules onto disk is left to the host.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/hpl-lang/hpl/pkg/config"
)

const manifestFile = "hplpkg.json"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg := config.Load()
	if len(cfg.ModulePaths) == 0 {
		fmt.Println("no module search path is configured (HPL_MODULE_PATHS)")
		os.Exit(1)
	}
	manifestPath := filepath.Join(cfg.ModulePaths[0], manifestFile)

	switch os.Args[1] {
	case "add":
		if len(os.Args) != 3 {
			fmt.Println("Usage: hplpkg add <module>@<constraint>")
			os.Exit(1)
		}
		if err := add(manifestPath, os.Args[2]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	case "remove":
		if len(os.Args) != 3 {
			fmt.Println("Usage: hplpkg remove <module>")
			os.Exit(1)
		}
		if err := remove(manifestPath, os.Args[2]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	case "list":
		if err := list(manifestPath); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: hplpkg <add|remove|list> ...")
}

func loadManifest(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func saveManifest(path string, m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func add(manifestPath, spec string) error {
	name, constraintStr, ok := strings.Cut(spec, "@")
	if !ok {
		constraintStr = "*"
	}
	if _, err := semver.NewConstraint(constraintStr); err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraintStr, err)
	}

	m, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}
	m[name] = constraintStr
	return saveManifest(manifestPath, m)
}

func remove(manifestPath, name string) error {
	m, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}
	delete(m, name)
	return saveManifest(manifestPath, m)
}

func list(manifestPath string) error {
	m, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s@%s\n", name, m[name])
	}
	return nil
}
