/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the ASA-graph service configuration
type Config struct {
	Bind    string         `yaml:"bind"`
	Port    int            `yaml:"port"`
	APIKey  string         `yaml:"api_key"`
	Logging Logging        `yaml:"logging"`
	Sensors []SensorConfig `yaml:"sensors"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// SensorConfig declares one named sensor
type SensorConfig struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Order    int    `yaml:"order"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Bind:   "127.0.0.1",
		Port:   8080,
		APIKey: "auto",
		Logging: Logging{
			Level: "info",
		},
		Sensors: []SensorConfig{
			{Name: "temperature", Category: "numerical", Order: 25},
			{Name: "humidity", Category: "numerical", Order: 25},
			{Name: "label", Category: "categorical", Order: 5},
		},
	}
}

// LoadConfig reads and parses the configuration at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no configuration at %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveConfig writes the configuration to path, creating the parent
// directory if needed. The file carries the API key, so it is written
// owner-only.
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// BootstrapConfig writes a fresh default configuration to path with a
// random 256-bit API key.
func BootstrapConfig(path string) (*Config, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate API key: %w", err)
	}

	cfg := DefaultConfig()
	cfg.APIKey = hex.EncodeToString(key)
	if err := SaveConfig(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigPath returns the per-user configuration location, falling
// back to the working directory when no user config directory exists.
func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "./asagraph.yaml"
	}
	return filepath.Join(base, "asagraph", "config.yaml")
}

// Exists reports whether a configuration file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
