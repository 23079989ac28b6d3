package integration

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/AndreyAkinshin/unitool/internal/config"
)

func TestConfiguredFixture(t *testing.T) {
	t.Parallel()
	dir := fixture("configured")

	s, err := config.Resolve(dir, config.Overrides{}, noEnv)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := &config.Settings{
		SearchPaths:    []string{filepath.Join(dir, "Editors")},
		Timeout:        45 * time.Minute,
		ArtifactsDir:   filepath.Join(dir, "Temp", "unitool"),
		MaxDiagnostics: 3,
		ExtraArgs:      []string{"-buildTarget", "StandaloneLinux64"},
		ResultsFormat:  "nunit3",
		LogFormat:      "unity",
		ConfigFile:     filepath.Join(dir, config.FileName),
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfiguredFixture_EnvAndFlags(t *testing.T) {
	t.Parallel()
	env := map[string]string{config.EnvTimeout: "5m", config.EnvArtifactsDir: "/ci/artifacts"}
	limit := 1

	s, err := config.Resolve(fixture("configured"),
		config.Overrides{Timeout: time.Minute, MaxDiagnostics: &limit},
		func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.Timeout != time.Minute || s.ArtifactsDir != "/ci/artifacts" || s.MaxDiagnostics != 1 {
		t.Errorf("precedence not applied: %+v", s)
	}
}

func TestMinimalFixtureUsesDefaults(t *testing.T) {
	t.Parallel()
	s, err := config.Resolve(fixture("minimal"), config.Overrides{}, noEnv)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.ConfigFile != "" || s.Timeout != config.DefaultTimeout || s.MaxDiagnostics != config.DefaultMaxDiagnostics {
		t.Errorf("defaults not applied: %+v", s)
	}
}
