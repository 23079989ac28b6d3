// Package editor finds the Unity editor binary to run for a project.
package editor

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/AndreyAkinshin/unitool/internal/errors"
	"github.com/AndreyAkinshin/unitool/internal/project"
	"github.com/AndreyAkinshin/unitool/internal/version"
)

// Installation is an editor found on disk.
type Installation struct {
	Version string // directory name, e.g. "2022.3.10f1"; empty for an explicit path
	Path    string // editor binary
}

// Selection is the result of Locate.
type Selection struct {
	Installation
	Wanted string // version from ProjectVersion.txt; empty if unknown
}

// Mismatch reports whether the selected editor differs from the version the
// project was last opened with.
func (s *Selection) Mismatch() bool {
	return s.Wanted != "" && s.Version != "" && s.Version != s.Wanted
}

// Locator searches install roots for editors. Each child directory of a root
// is one installed version.
type Locator struct {
	Roots []string
	GOOS  string
}

// NewLocator returns a locator searching the given paths first, then the
// platform's default install roots.
func NewLocator(searchPaths []string) *Locator {
	home, _ := os.UserHomeDir()
	roots := slices.Clone(searchPaths)
	roots = append(roots, DefaultRoots(runtime.GOOS, home)...)
	return &Locator{Roots: roots, GOOS: runtime.GOOS}
}

// DefaultRoots returns the conventional install roots for a platform.
func DefaultRoots(goos, home string) []string {
	var roots []string
	switch goos {
	case "darwin":
		roots = []string{"/Applications/Unity/Hub/Editor", "/Applications/Unity"}
	case "windows":
		roots = []string{`C:\Program Files\Unity\Hub\Editor`, `C:\Program Files\Unity`}
	default:
		roots = []string{"/opt/Unity"}
		if home != "" {
			roots = append(roots, filepath.Join(home, "Unity", "Hub", "Editor"))
		}
	}
	return roots
}

// BinaryPath returns the editor binary inside a version directory.
func BinaryPath(installDir, goos string) string {
	switch goos {
	case "darwin":
		return filepath.Join(installDir, "Unity.app", "Contents", "MacOS", "Unity")
	case "windows":
		return filepath.Join(installDir, "Editor", "Unity.exe")
	default:
		return filepath.Join(installDir, "Editor", "Unity")
	}
}

// Installed lists the editors under all roots, newest first. Directories
// whose names are not Unity versions sort after all versioned ones.
func (l *Locator) Installed() []Installation {
	var (
		found []Installation
		seen  = make(map[string]bool)
	)
	for _, root := range l.Roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			bin := BinaryPath(filepath.Join(root, e.Name()), l.GOOS)
			if seen[bin] || !isFile(bin) {
				continue
			}
			seen[bin] = true
			found = append(found, Installation{Version: e.Name(), Path: bin})
		}
	}

	slices.SortStableFunc(found, func(a, b Installation) int {
		va, errA := version.Parse(a.Version)
		vb, errB := version.Parse(b.Version)
		switch {
		case errA != nil && errB != nil:
			return strings.Compare(a.Version, b.Version)
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return vb.Compare(va)
	})
	return found
}

// Locate picks the editor for a project. An explicit path wins; otherwise
// the version in ProjectVersion.txt is preferred and the newest install is
// the fallback.
func (l *Locator) Locate(explicit, projectRoot string) (*Selection, error) {
	var wanted string
	if v, err := project.ReadEditorVersion(projectRoot); err == nil {
		wanted = v.Version
	}

	if explicit != "" {
		if !isFile(explicit) {
			return nil, errors.Launchf("editor not found at %s", explicit)
		}
		return &Selection{Installation: Installation{Path: explicit}, Wanted: wanted}, nil
	}

	installs := l.Installed()
	if len(installs) == 0 {
		return nil, errors.Launchf("no Unity editor found in %s; use --editor or set UNITOOL_EDITOR",
			strings.Join(l.Roots, ", "))
	}

	if wanted != "" {
		for _, in := range installs {
			if in.Version == wanted {
				return &Selection{Installation: in, Wanted: wanted}, nil
			}
		}
	}
	return &Selection{Installation: installs[0], Wanted: wanted}, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
