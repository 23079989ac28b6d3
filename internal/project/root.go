// Package project inspects Unity project directories.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/unitool/internal/errors"
)

// Directories every Unity project root contains.
const (
	AssetsDirName          = "Assets"
	ProjectSettingsDirName = "ProjectSettings"
)

// ProjectVersionFileName holds the editor version the project was last opened with.
const ProjectVersionFileName = "ProjectVersion.txt"

// IsRoot reports whether dir looks like a Unity project root.
func IsRoot(dir string) bool {
	return isDir(filepath.Join(dir, AssetsDirName)) && isDir(filepath.Join(dir, ProjectSettingsDirName))
}

// ValidateRoot returns a PathNotFound error when dir is not a project root.
// If dir is inside a project, the error names the enclosing root.
func ValidateRoot(dir string) error {
	if IsRoot(dir) {
		return nil
	}
	reason := fmt.Sprintf("not a Unity project (missing %s/ or %s/)", AssetsDirName, ProjectSettingsDirName)
	if root, err := FindRootFrom(filepath.Dir(dir)); err == nil {
		reason = fmt.Sprintf("not a Unity project root (did you mean %s?)", root)
	}
	return errors.PathNotFound(dir, reason)
}

// FindRootFrom walks up from the given directory until it finds a project root.
func FindRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if IsRoot(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", fmt.Errorf("no Unity project found above %s", startDir)
		}
		dir = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
