package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	uerrors "github.com/AndreyAkinshin/unitool/internal/errors"
)

func makeProject(t *testing.T, dir string) string {
	t.Helper()
	for _, sub := range []string{AssetsDirName, ProjectSettingsDirName} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestIsRoot(t *testing.T) {
	t.Parallel()

	root := makeProject(t, t.TempDir())
	if !IsRoot(root) {
		t.Error("IsRoot(project) = false, want true")
	}

	onlyAssets := t.TempDir()
	if err := os.Mkdir(filepath.Join(onlyAssets, AssetsDirName), 0755); err != nil {
		t.Fatal(err)
	}
	if IsRoot(onlyAssets) {
		t.Error("IsRoot(only Assets) = true, want false")
	}

	// A file named like the directory does not count.
	fileNamed := t.TempDir()
	if err := os.Mkdir(filepath.Join(fileNamed, AssetsDirName), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(fileNamed, ProjectSettingsDirName), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if IsRoot(fileNamed) {
		t.Error("IsRoot(ProjectSettings file) = true, want false")
	}
}

func TestValidateRoot(t *testing.T) {
	t.Parallel()

	root := makeProject(t, t.TempDir())
	if err := ValidateRoot(root); err != nil {
		t.Errorf("ValidateRoot(project) = %v, want nil", err)
	}

	err := ValidateRoot(t.TempDir())
	if !uerrors.Is(err, uerrors.KindPathNotFound) {
		t.Fatalf("ValidateRoot(empty) = %v, want PathNotFound", err)
	}
	if !strings.Contains(err.Error(), "not a Unity project") {
		t.Errorf("error = %q", err)
	}
}

func TestValidateRoot_SuggestsEnclosingRoot(t *testing.T) {
	t.Parallel()

	root := makeProject(t, t.TempDir())
	err := ValidateRoot(filepath.Join(root, AssetsDirName))
	if err == nil {
		t.Fatal("ValidateRoot(Assets) = nil, want error")
	}
	if !strings.Contains(err.Error(), "did you mean "+root) {
		t.Errorf("error = %q, want suggestion of %s", err, root)
	}
}

func TestFindRootFrom(t *testing.T) {
	t.Parallel()

	root := makeProject(t, t.TempDir())
	nested := filepath.Join(root, AssetsDirName, "Scripts", "Player")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindRootFrom(nested)
	if err != nil {
		t.Fatalf("FindRootFrom() error = %v", err)
	}
	if got != root {
		t.Errorf("FindRootFrom() = %q, want %q", got, root)
	}

	if _, err := FindRootFrom(t.TempDir()); err == nil {
		t.Error("FindRootFrom(unrelated) = nil error, want error")
	}
}

func TestReadEditorVersion(t *testing.T) {
	t.Parallel()

	root := makeProject(t, t.TempDir())
	content := "m_EditorVersion: 2022.3.10f1\nm_EditorVersionWithRevision: 2022.3.10f1 (ff3792e53c62)\n"
	if err := os.WriteFile(VersionFilePath(root), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := ReadEditorVersion(root)
	if err != nil {
		t.Fatalf("ReadEditorVersion() error = %v", err)
	}
	if v.Version != "2022.3.10f1" {
		t.Errorf("Version = %q, want 2022.3.10f1", v.Version)
	}
	if v.Revision() != "ff3792e53c62" {
		t.Errorf("Revision() = %q, want ff3792e53c62", v.Revision())
	}
}

func TestReadEditorVersion_Errors(t *testing.T) {
	t.Parallel()

	missing := makeProject(t, t.TempDir())
	if _, err := ReadEditorVersion(missing); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v, want os.ErrNotExist", err)
	}

	empty := makeProject(t, t.TempDir())
	if err := os.WriteFile(VersionFilePath(empty), []byte("m_EditorVersion:\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadEditorVersion(empty); err == nil {
		t.Error("empty version: err = nil, want error")
	}

	garbage := makeProject(t, t.TempDir())
	if err := os.WriteFile(VersionFilePath(garbage), []byte("m_EditorVersion: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadEditorVersion(garbage); err == nil {
		t.Error("malformed yaml: err = nil, want error")
	}
}

func TestEditorVersionRevision_Missing(t *testing.T) {
	t.Parallel()
	if got := (EditorVersion{VersionWithRevision: "2021.3.1f1"}).Revision(); got != "" {
		t.Errorf("Revision() = %q, want empty", got)
	}
}
