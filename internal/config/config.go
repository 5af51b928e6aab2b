// Package config loads the launcher configuration.
//
// Values are layered, lowest priority first: Defaults, the YAML file in the
// kitty configuration directory, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/quocvuong92/kitty-launcher/internal/constants"
)

// Environment variable names
const (
	EnvConfigDirectory = "KITTY_CONFIG_DIRECTORY"
	EnvKittenExe       = "KITTY_KITTEN_EXE"
	EnvEngineExe       = "KITTY_ENGINE_EXE"
	EnvLogLevel        = "KITTY_LOG_LEVEL"
	EnvLogFormat       = "KITTY_LOG_FORMAT"
	EnvVisual          = "VISUAL"
	EnvEditor          = "EDITOR"
)

// Defaults
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// fallbackEditors are tried in order when nothing else names an editor
var fallbackEditors = []string{"vim", "nvim", "nano", "vi"}

// Errors
var (
	ErrNoEditor = errors.New("no editor found. Set editor in " + ConfigFileName + " or the VISUAL/EDITOR environment variables")
	// ErrInvalidFile marks a config file that could not be read or parsed
	ErrInvalidFile = errors.New("invalid config file")
)

// Config holds the launcher configuration
type Config struct {
	// Editor is the command line used by +edit-config, e.g. "nvim" or "code -w"
	Editor string `yaml:"editor,omitempty"`

	// Executables of the external collaborators; empty means auto-detect
	KittenExe string `yaml:"kitten_exe,omitempty" env:"KITTY_KITTEN_EXE"`
	EngineExe string `yaml:"engine_exe,omitempty" env:"KITTY_ENGINE_EXE"`

	// Logging
	LogLevel  string `yaml:"log_level,omitempty" env:"KITTY_LOG_LEVEL"`
	LogFormat string `yaml:"log_format,omitempty" env:"KITTY_LOG_FORMAT"`

	// path is the file the configuration was read from, if any
	path string
}

type editorEnv struct {
	Visual string `env:"VISUAL"`
	Editor string `env:"EDITOR"`
}

type directoryEnv struct {
	ConfigDirectory string `env:"KITTY_CONFIG_DIRECTORY"`
}

// Defaults returns a Config with every option at its default value
func Defaults() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// Load builds the effective configuration from defaults, the config file and
// the environment. A missing config file is not an error. A file that cannot
// be read or parsed is skipped: Load then returns the defaults with the
// environment applied together with an error wrapping ErrInvalidFile, so
// callers can keep going and still report the file.
func Load() (*Config, error) {
	cfg := Defaults()

	var fileErr error
	path := Path()
	if _, err := os.Stat(path); err == nil {
		if err := loadFromPath(path, cfg); err != nil {
			cfg = Defaults()
			fileErr = fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, fileErr
}

// Source returns the file the configuration was loaded from, or ""
func (c *Config) Source() string {
	return c.path
}

// ResolveKittenExe returns the configured kitten executable or the detected one
func (c *Config) ResolveKittenExe() string {
	if c.KittenExe != "" {
		return c.KittenExe
	}
	return constants.KittenExe()
}

// ResolveEngineExe returns the configured engine executable or the detected one
func (c *Config) ResolveEngineExe() string {
	if c.EngineExe != "" {
		return c.EngineExe
	}
	return constants.EngineExe()
}

// EditorCommand returns the editor command line split into words. The editor
// option wins, then VISUAL, then EDITOR, then the first fallback editor found
// with lookPath.
func (c *Config) EditorCommand(lookPath func(string) (string, error)) ([]string, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if words := strings.Fields(c.Editor); len(words) > 0 {
		return words, nil
	}

	var e editorEnv
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	for _, candidate := range []string{e.Visual, e.Editor} {
		if words := strings.Fields(candidate); len(words) > 0 {
			return words, nil
		}
	}

	for _, name := range fallbackEditors {
		if p, err := lookPath(name); err == nil {
			return []string{p}, nil
		}
	}
	return nil, ErrNoEditor
}

// Directory returns the kitty configuration directory
func Directory() string {
	var d directoryEnv
	if err := env.Parse(&d); err == nil && d.ConfigDirectory != "" {
		if abs, err := filepath.Abs(expandHome(d.ConfigDirectory)); err == nil {
			return abs
		}
		return d.ConfigDirectory
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, constants.AppName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", constants.AppName)
	}
	return filepath.Join(".", "."+constants.AppName)
}

// Path returns the location of the launcher config file
func Path() string {
	return filepath.Join(Directory(), ConfigFileName)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
