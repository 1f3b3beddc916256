// Package config loads the optional volkeys configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the file-configurable settings. Command-line flags
// override Device and Silent; Binds are applied before -b specs so the
// binding table's last-wins rule lets flags replace file bindings.
type Config struct {
	Device string
	Silent bool
	Binds  []string
}

// Loaded captures the resolved path, parsed values, and whether a file
// was actually present.
type Loaded struct {
	Path   string
	Config Config
	Exists bool
}

// Load reads and parses the configuration file at the XDG default
// location. A missing file is not an error.
func Load() (Loaded, error) {
	path, err := resolvePath()
	if err != nil {
		return Loaded{}, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Loaded{Path: path}, nil
		}
		return Loaded{}, fmt.Errorf("read config %q: %w", path, err)
	}

	cfg, err := Parse(string(content))
	if err != nil {
		return Loaded{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	return Loaded{Path: path, Config: cfg, Exists: true}, nil
}

// Parse reads the flat key = value grammar: "device", "silent" and
// repeatable "bind" keys, '#' comments, blank lines ignored. Unknown keys
// and malformed lines are configuration errors.
func Parse(content string) (Config, error) {
	var cfg Config

	for n, line := range strings.Split(content, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return Config{}, fmt.Errorf("line %d: expected key = value", n+1)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if value == "" {
			return Config{}, fmt.Errorf("line %d: empty value for %q", n+1, key)
		}

		switch key {
		case "device":
			cfg.Device = value
		case "silent":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Config{}, fmt.Errorf("line %d: silent must be a boolean", n+1)
			}
			cfg.Silent = b
		case "bind":
			cfg.Binds = append(cfg.Binds, value)
		default:
			return Config{}, fmt.Errorf("line %d: unknown key %q", n+1, key)
		}
	}

	return cfg, nil
}

// resolvePath selects XDG_CONFIG_HOME when available, otherwise
// ~/.config.
func resolvePath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "volkeys", "config.conf"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for config fallback")
	}
	return filepath.Join(home, ".config", "volkeys", "config.conf"), nil
}
