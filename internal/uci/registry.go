// Package uci manages UCI analysis engines: the Nibbler-style engine
// registry file and the engine process adapter.
package uci

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// EngineConf is the per-engine entry of a Nibbler engines.json file. Only
// the fields relevant to analysis are decoded.
type EngineConf struct {
	Args    []string       `json:"args"`
	Options map[string]any `json:"options"`
}

// Registry maps engine executable paths to their configurations.
type Registry map[string]EngineConf

// DefaultRegistryPath returns the platform default location of the Nibbler
// engines.json file.
func DefaultRegistryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Roaming", "Nibbler", "engines.json")
	}
	return filepath.Join(home, ".config", "Nibbler", "engines.json")
}

// LoadRegistry reads and decodes an engines.json file.
func LoadRegistry(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading engine registry: %w", err)
	}
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decoding engine registry %s: %w", path, err)
	}
	return reg, nil
}

// Resolve looks up an engine by full path or by unambiguous basename. Two
// registry entries sharing the requested basename is a configuration error.
func (r Registry) Resolve(name string) (string, EngineConf, error) {
	if conf, ok := r[name]; ok {
		return name, conf, nil
	}

	fullName := ""
	for path := range r {
		if filepath.Base(path) == name {
			if fullName != "" {
				return "", EngineConf{}, fmt.Errorf(
					"ambiguous engine name %q can resolve to %q or %q", name, fullName, path)
			}
			fullName = path
		}
	}
	if fullName == "" {
		return "", EngineConf{}, fmt.Errorf("engine not found: %q", name)
	}
	return fullName, r[fullName], nil
}
