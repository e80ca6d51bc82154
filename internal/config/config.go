// Package config loads and resolves CLI configuration. Settings come from
// three layers, lowest priority first: built-in defaults, the TOML config
// file, and environment variables. CLI flags are applied by the caller on
// top of the resolved result because flags always win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Environment variables recognized as overrides.
const (
	EnvHost     = "PCLOUD_HOST"
	EnvUser     = "PCLOUD_USER"
	EnvPassword = "PCLOUD_PASSWORD"
)

// DefaultHost is used when neither config file nor environment name one.
const DefaultHost = "https://api.pcloud.com"

// File is the on-disk TOML shape of the config file.
type File struct {
	Host     string `toml:"host"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	LogLevel string `toml:"log_level"`
}

// Resolved is the effective configuration after layering.
type Resolved struct {
	Host     string
	Username string
	Password string
	LogLevel string

	// Path of the config file actually read, empty when none existed.
	Path string
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/pcloud/config.toml or ~/.config/pcloud/config.toml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pcloud", "config.toml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: determining home directory: %w", err)
	}

	return filepath.Join(home, ".config", "pcloud", "config.toml"), nil
}

// TokenPath returns where the CLI stores its OAuth token, next to the
// config file.
func TokenPath() (string, error) {
	cfgPath, err := DefaultPath()
	if err != nil {
		return "", err
	}

	return filepath.Join(filepath.Dir(cfgPath), "token.json"), nil
}

// load reads one TOML config file. A missing file is not an error; the
// zero File is returned so defaults apply.
func load(path string) (File, error) {
	var f File

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}

	if err != nil {
		return f, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return f, nil
}

// Resolve layers defaults, the config file at path (or the default location
// when path is empty), and environment variables.
func Resolve(path string) (*Resolved, error) {
	explicit := path != ""

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	f, err := load(path)
	if err != nil {
		return nil, err
	}

	if explicit {
		// An explicitly named config file must exist.
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, fmt.Errorf("config: %s: %w", path, statErr)
		}
	}

	r := &Resolved{
		Host:     DefaultHost,
		Username: f.Username,
		Password: f.Password,
		LogLevel: f.LogLevel,
		Path:     path,
	}

	if f.Host != "" {
		r.Host = f.Host
	}

	if v := os.Getenv(EnvHost); v != "" {
		r.Host = v
	}

	if v := os.Getenv(EnvUser); v != "" {
		r.Username = v
	}

	if v := os.Getenv(EnvPassword); v != "" {
		r.Password = v
	}

	return r, nil
}
