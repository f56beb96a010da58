// Package config resolves the runtime's environment-variable
// configuration: HPL_MODULE_PATHS and HPL_DEBUG, the way the teacher's
// cmd/npython and cmd/nforth entry points mix flag.FlagSet with
// os.Getenv/os.Args rather than a configuration-file framework.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// ModulePathsEnv is the colon-separated list of directories searched
	// for .hpl/.py files by module-resolution layers 3 and 4 (§4.5).
	ModulePathsEnv = "HPL_MODULE_PATHS"
	// DebugEnv, set to a truthy value, makes the entry points add a stack
	// trace to the report of an uncaught error.
	DebugEnv = "HPL_DEBUG"
)

// Config is the resolved environment for one interpreter run.
type Config struct {
	ModulePaths []string
	Debug       bool
}

// Load resolves Config from the process environment. ModulePaths falls
// back to <home>/.hpl/packages when HPL_MODULE_PATHS is unset or empty.
func Load() Config {
	return Config{
		ModulePaths: modulePaths(),
		Debug:       debugEnabled(),
	}
}

func modulePaths() []string {
	raw := os.Getenv(ModulePathsEnv)
	if raw == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		return []string{filepath.Join(home, ".hpl", "packages")}
	}
	parts := strings.Split(raw, ":")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func debugEnabled() bool {
	v := os.Getenv(DebugEnv)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
