package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file
const ConfigFileName = "kitty-launcher.yaml"

// loadFromPath reads the YAML file at path on top of the values already in cfg
func loadFromPath(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.path = path
	return nil
}

const defaultConfigFile = `# kitty launcher configuration
#
# Environment variables take precedence over the values below.

# Command used by "kitty +edit-config". Falls back to $VISUAL, $EDITOR,
# then the first of vim, nvim, nano, vi found in PATH.
# editor: nvim

# Executable of the kitten multi-tool (KITTY_KITTEN_EXE).
# Default: the kitten next to the kitty executable, else PATH.
# kitten_exe: /usr/local/bin/kitten

# Executable of the terminal engine (KITTY_ENGINE_EXE).
# engine_exe: /usr/local/bin/kitty-engine

# Diagnostics on stderr (KITTY_LOG_LEVEL, KITTY_LOG_FORMAT).
# log_level: warn    # debug, info, warn, error, none
# log_format: text   # text or json
`

// CreateDefaultConfigFile writes the commented default config to path unless
// a file already exists there. It returns path in both cases.
func CreateDefaultConfigFile(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigFile), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
