// Package config resolves the shared container and loads process settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvVarHome overrides the shared container location.
	EnvVarHome = "RIGHTKIT_HOME"

	// FileName is the settings file inside the container.
	FileName = "config.yaml"

	// DefaultNamespace scopes the shared key/value entries.
	DefaultNamespace = "io.rightkit.shared"
)

// Config holds the settings shared by the editor and serving processes.
type Config struct {
	// Namespace scopes the shared key/value store.
	Namespace string `yaml:"namespace"`

	// FallbackDir is used when an action arrives without a target directory.
	FallbackDir string `yaml:"fallback_dir"`

	// DesktopDir receives sendToDesktop copies.
	DesktopDir string `yaml:"desktop_dir"`

	// TemplatesDir holds the file templates.
	TemplatesDir string `yaml:"templates_dir"`

	// Port is the loopback port of the serving process.
	Port int `yaml:"port"`

	// LogLevel is used when LOG_LEVEL is unset.
	LogLevel string `yaml:"log_level"`

	// CutLabel and PasteLabel are the two titles of the cut/paste item.
	CutLabel   string `yaml:"cut_label"`
	PasteLabel string `yaml:"paste_label"`
}

// Default returns a Config populated with defaults for the container at home.
func Default(home string) *Config {
	userHome, _ := os.UserHomeDir()
	desktop := filepath.Join(userHome, "Desktop")
	return &Config{
		Namespace:    DefaultNamespace,
		FallbackDir:  desktop,
		DesktopDir:   desktop,
		TemplatesDir: filepath.Join(home, "templates"),
		Port:         9876,
		LogLevel:     "info",
		CutLabel:     "Cut",
		PasteLabel:   "Paste Here",
	}
}

// Load reads home/config.yaml over the defaults. A missing file is not an
// error and keys absent from the file keep their default values.
func Load(home string) (*Config, error) {
	cfg := Default(home)

	data, err := os.ReadFile(filepath.Join(home, FileName))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}

	overlay(&cfg.Namespace, file.Namespace)
	overlay(&cfg.LogLevel, file.LogLevel)
	overlay(&cfg.CutLabel, file.CutLabel)
	overlay(&cfg.PasteLabel, file.PasteLabel)
	if file.FallbackDir != "" {
		cfg.FallbackDir = normalizePath(file.FallbackDir)
	}
	if file.DesktopDir != "" {
		cfg.DesktopDir = normalizePath(file.DesktopDir)
	}
	if file.TemplatesDir != "" {
		cfg.TemplatesDir = normalizePath(file.TemplatesDir)
	}
	if file.Port > 0 {
		cfg.Port = file.Port
	}

	return cfg, nil
}

// Save writes cfg to home/config.yaml.
func Save(home string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(home, FileName), out, 0o600)
}

func overlay(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// ResolveHome returns the shared container and the source of the resolution.
// Priority: flag → RIGHTKIT_HOME → ~/.config/rightkit.
// source is one of "flag", "env", or "default".
func ResolveHome(flag string) (path, source string) {
	if flag != "" {
		return normalizePath(flag), "flag"
	}
	if env := os.Getenv(EnvVarHome); env != "" {
		return normalizePath(env), "env"
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "rightkit"), "default"
}

// normalizePath expands ~ and environment variables and makes the path absolute.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	path = os.ExpandEnv(path)
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
