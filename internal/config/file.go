package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile decodes the TOML file at path into cfg. Keys absent from the
// file keep their current values; unknown keys are an error so typos do
// not silently fall back to defaults.
func LoadFile(path string, cfg *Config) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}

	file, err := os.Open(expanded)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", expanded, err)
	}
	cfg.OutputDir = expandOrKeep(cfg.OutputDir)
	cfg.MoveDir = expandOrKeep(cfg.MoveDir)
	cfg.LogFile = expandOrKeep(cfg.LogFile)
	return nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

func expandOrKeep(path string) string {
	if expanded, err := expandPath(path); err == nil {
		return expanded
	}
	return path
}
