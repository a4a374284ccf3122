// Package config loads the optional cleantree configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPath overrides the config file location.
const EnvPath = "CLEANTREE_CONFIG"

// Config mirrors config.yaml. Pointer fields distinguish "not set" from
// zero values.
type Config struct {
	// Scrubbing
	HeaderSkip    *int64 `yaml:"header_skip"`
	HeaderMarker  string `yaml:"header_marker"`
	AnnotationKey string `yaml:"annotation_key"`
	FlushPending  *bool  `yaml:"flush_pending"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
	MaxBodyBytes  *int64 `yaml:"max_body_bytes"`
}

// DefaultPath returns $CLEANTREE_CONFIG, or config.yaml under the user config
// directory. It returns "" when neither can be determined.
func DefaultPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cleantree", "config.yaml")
}

// Load reads the config file at path. A missing file, or an empty path,
// yields a zero Config and no error; unknown keys are rejected.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.HeaderSkip != nil && *c.HeaderSkip < 0 {
		return fmt.Errorf("header_skip must not be negative (got %d)", *c.HeaderSkip)
	}
	if c.MaxBodyBytes != nil && *c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive (got %d)", *c.MaxBodyBytes)
	}
	return nil
}
