package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/AndreyAkinshin/unitool/internal/errors"
)

// Settings is the resolved configuration for one run. It is computed once at
// startup and passed explicitly to the components that need it.
type Settings struct {
	EditorPath     string // explicit editor binary; empty means discover
	SearchPaths    []string
	Timeout        time.Duration
	ArtifactsDir   string
	MaxDiagnostics int
	ExtraArgs      []string
	ResultsFormat  string
	LogFormat      string
	ConfigFile     string // file the settings were read from, if any
}

// Overrides holds values given on the command line. Zero values mean "not set".
type Overrides struct {
	ConfigFile     string
	Editor         string
	Timeout        time.Duration
	MaxDiagnostics *int
}

// Resolve computes the effective settings for a project.
// Precedence: overrides > environment > config file > defaults.
// getenv is usually os.Getenv.
func Resolve(projectRoot string, o Overrides, getenv func(string) string) (*Settings, error) {
	s := defaultSettings()

	path, err := Find(o.ConfigFile, projectRoot)
	if err != nil {
		return nil, errors.Usage(err.Error())
	}
	if path != "" {
		cfg, err := Load(path)
		if err != nil {
			return nil, errors.Usagef("invalid configuration: %v", err)
		}
		if err := s.applyFile(cfg, filepath.Dir(path)); err != nil {
			return nil, errors.Usagef("invalid configuration %s: %v", path, err)
		}
		s.ConfigFile = path
	}

	if err := s.applyEnv(getenv); err != nil {
		return nil, err
	}
	if err := s.applyOverrides(o); err != nil {
		return nil, err
	}
	return &s, nil
}

// applyFile merges file values. Relative paths are resolved against the
// directory holding the file.
func (s *Settings) applyFile(cfg *Config, baseDir string) error {
	if cfg.Editor != "" {
		s.EditorPath = absFrom(baseDir, cfg.Editor)
	}
	for _, p := range cfg.SearchPaths {
		s.SearchPaths = append(s.SearchPaths, absFrom(baseDir, p))
	}
	if cfg.Timeout != "" {
		d, err := parseTimeout(cfg.Timeout)
		if err != nil {
			return err
		}
		s.Timeout = d
	}
	if cfg.ArtifactsDir != "" {
		s.ArtifactsDir = absFrom(baseDir, cfg.ArtifactsDir)
	}
	if cfg.MaxDiagnostics != nil {
		s.MaxDiagnostics = *cfg.MaxDiagnostics
	}
	s.ExtraArgs = slices.Clone(cfg.ExtraArgs)
	if cfg.ResultsFormat != "" {
		s.ResultsFormat = cfg.ResultsFormat
	}
	if cfg.LogFormat != "" {
		s.LogFormat = cfg.LogFormat
	}
	return nil
}

func (s *Settings) applyEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	if v := strings.TrimSpace(getenv(EnvEditor)); v != "" {
		s.EditorPath = v
	}
	if v := strings.TrimSpace(getenv(EnvTimeout)); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return errors.Usagef("%s: %v", EnvTimeout, err)
		}
		s.Timeout = d
	}
	if v := strings.TrimSpace(getenv(EnvArtifactsDir)); v != "" {
		s.ArtifactsDir = v
	}
	return nil
}

func (s *Settings) applyOverrides(o Overrides) error {
	if o.Editor != "" {
		s.EditorPath = o.Editor
	}
	if o.Timeout < 0 {
		return errors.Usagef("--timeout must be positive, got %s", o.Timeout)
	}
	if o.Timeout > 0 {
		s.Timeout = o.Timeout
	}
	if o.MaxDiagnostics != nil {
		if *o.MaxDiagnostics < 0 {
			return errors.Usagef("--max-diagnostics must not be negative, got %d", *o.MaxDiagnostics)
		}
		s.MaxDiagnostics = *o.MaxDiagnostics
	}
	return nil
}

func parseTimeout(v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %q", v)
	}
	return d, nil
}

func absFrom(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if strings.HasPrefix(p, "~"+string(filepath.Separator)) || p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return filepath.Join(baseDir, p)
}
