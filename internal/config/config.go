// Package config loads .unitool.yaml and resolves the effective settings for
// a run from flags, environment, file and defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/unitool/internal/schema"
)

// FileName is the project-level configuration file.
const FileName = ".unitool.yaml"

// Config mirrors the configuration file. Every field is optional.
type Config struct {
	Editor         string   `yaml:"editor,omitempty"`
	SearchPaths    []string `yaml:"search_paths,omitempty"`
	Timeout        string   `yaml:"timeout,omitempty"`
	ArtifactsDir   string   `yaml:"artifacts_dir,omitempty"`
	MaxDiagnostics *int     `yaml:"max_diagnostics,omitempty"`
	ExtraArgs      []string `yaml:"extra_args,omitempty"`
	ResultsFormat  string   `yaml:"results_format,omitempty"`
	LogFormat      string   `yaml:"log_format,omitempty"`
}

// Load reads, schema-validates and decodes a configuration file.
// An empty file yields an empty Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates and decodes configuration YAML.
func Parse(data []byte) (*Config, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if doc == nil {
		return &Config{}, nil
	}

	if err := schema.ValidateConfigValue(doc); err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Find returns the configuration file to use: the explicit path if given,
// otherwise the project's .unitool.yaml if it exists. An empty result means
// no file.
func Find(explicit, projectRoot string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	candidate := filepath.Join(projectRoot, FileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", nil
}
