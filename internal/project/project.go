package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EditorVersion is the content of ProjectSettings/ProjectVersion.txt:
//
//	m_EditorVersion: 2022.3.10f1
//	m_EditorVersionWithRevision: 2022.3.10f1 (ff3792e53c62)
type EditorVersion struct {
	Version             string `yaml:"m_EditorVersion"`
	VersionWithRevision string `yaml:"m_EditorVersionWithRevision"`
}

// Revision returns the changeset hash in parentheses, if present.
func (v EditorVersion) Revision() string {
	start := strings.IndexByte(v.VersionWithRevision, '(')
	end := strings.LastIndexByte(v.VersionWithRevision, ')')
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(v.VersionWithRevision[start+1 : end])
}

// VersionFilePath returns the path of the project's ProjectVersion.txt.
func VersionFilePath(root string) string {
	return filepath.Join(root, ProjectSettingsDirName, ProjectVersionFileName)
}

// ReadEditorVersion reads the editor version the project expects.
// Returns the underlying os error (wrapped) if the file cannot be read, so
// callers can use errors.Is(err, os.ErrNotExist).
func ReadEditorVersion(root string) (*EditorVersion, error) {
	path := VersionFilePath(root)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ProjectVersionFileName, err)
	}

	var v EditorVersion
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	v.Version = strings.TrimSpace(v.Version)
	if v.Version == "" {
		return nil, fmt.Errorf("%s has no m_EditorVersion", path)
	}
	return &v, nil
}
