package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/AndreyAkinshin/unitool/internal/testparser"
)

// Default configuration values.
const (
	DefaultTimeout        = 30 * time.Minute
	DefaultMaxDiagnostics = 10
	DefaultArtifactsName  = "unitool"
)

// Environment variables read during resolution.
const (
	EnvEditor       = "UNITOOL_EDITOR"
	EnvTimeout      = "UNITOOL_TIMEOUT"
	EnvArtifactsDir = "UNITOOL_ARTIFACTS_DIR"
	EnvNoColor      = "NO_COLOR"
)

// DefaultArtifactsDir returns $TMPDIR/unitool.
func DefaultArtifactsDir() string {
	return filepath.Join(os.TempDir(), DefaultArtifactsName)
}

func defaultSettings() Settings {
	return Settings{
		Timeout:        DefaultTimeout,
		ArtifactsDir:   DefaultArtifactsDir(),
		MaxDiagnostics: DefaultMaxDiagnostics,
		ResultsFormat:  testparser.DefaultResultsFormat,
		LogFormat:      testparser.DefaultLogFormat,
	}
}
