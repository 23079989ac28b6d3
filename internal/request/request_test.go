package request

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AndreyAkinshin/unitool/internal/errors"
)

// makeProject creates a minimal Unity project layout.
func makeProject(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Game")
	for _, d := range []string{"Assets", "ProjectSettings"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestParseMode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"edit-mode", EditMode, false},
		{"play-mode", PlayMode, false},
		{"Edit-Mode", EditMode, false},
		{"PLAY-MODE", PlayMode, false},
		{"EditMode", EditMode, false},
		{"playmode", PlayMode, false},
		{" edit_mode ", EditMode, false},
		{"", NoMode, true},
		{"edit", NoMode, true},
		{"run-mode", NoMode, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.KindUsage) {
				t.Errorf("ParseMode(%q) error kind = %v, want usage", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMode_Platform(t *testing.T) {
	t.Parallel()
	if got := EditMode.Platform(); got != "EditMode" {
		t.Errorf("EditMode.Platform() = %q", got)
	}
	if got := PlayMode.Platform(); got != "PlayMode" {
		t.Errorf("PlayMode.Platform() = %q", got)
	}
	if got := NoMode.Platform(); got != "" {
		t.Errorf("NoMode.Platform() = %q, want empty", got)
	}
}

func TestParseAssemblies(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    []string
		wantErr bool
	}{
		{"EditTests", []string{"EditTests"}, false},
		{"A;B", []string{"A", "B"}, false},
		{" A ; B ;", []string{"A", "B"}, false},
		{"A;B;A", []string{"A", "B"}, false},
		{"", nil, true},
		{";;", nil, true},
		{"  ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAssemblies(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAssemblies(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseAssemblies(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestNewCompile(t *testing.T) {
	t.Parallel()
	root := makeProject(t)

	req, err := NewCompile(root)
	if err != nil {
		t.Fatalf("NewCompile() error = %v", err)
	}
	if req.Command() != Compile {
		t.Errorf("Command() = %v, want compile", req.Command())
	}
	if req.ProjectPath() != root {
		t.Errorf("ProjectPath() = %q, want %q", req.ProjectPath(), root)
	}
	if req.ProjectName() != "Game" {
		t.Errorf("ProjectName() = %q, want Game", req.ProjectName())
	}
	if req.Mode() != NoMode || req.Filter() != "" || req.Assemblies() != nil {
		t.Errorf("compile request carries test options: %+v", req)
	}
}

func TestNewCompile_RelativePath(t *testing.T) {
	root := makeProject(t)
	t.Chdir(filepath.Dir(root))

	req, err := NewCompile("Game")
	if err != nil {
		t.Fatalf("NewCompile() error = %v", err)
	}
	if !filepath.IsAbs(req.ProjectPath()) {
		t.Errorf("ProjectPath() = %q, want absolute", req.ProjectPath())
	}
}

func TestNewCompile_PathErrors(t *testing.T) {
	t.Parallel()
	root := makeProject(t)
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		kind errors.ErrorKind
	}{
		{"empty", "", errors.KindUsage},
		{"missing", filepath.Join(t.TempDir(), "nope"), errors.KindPathNotFound},
		{"file", file, errors.KindPathNotFound},
		{"not a project", t.TempDir(), errors.KindPathNotFound},
		{"inside a project", filepath.Join(root, "Assets"), errors.KindPathNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewCompile(tt.path)
			if !errors.Is(err, tt.kind) {
				t.Errorf("NewCompile(%q) error = %v, want kind %v", tt.path, err, tt.kind)
			}
		})
	}
}

func TestNewTest(t *testing.T) {
	t.Parallel()
	root := makeProject(t)

	tests := []struct {
		name           string
		opts           TestOptions
		wantMode       Mode
		wantFilter     string
		wantAssemblies []string
	}{
		{
			name:           "defaults",
			opts:           TestOptions{Mode: "edit-mode"},
			wantMode:       EditMode,
			wantAssemblies: []string{"EditTests", "PlayTest"},
		},
		{
			name:           "filter and assemblies",
			opts:           TestOptions{Mode: "play-mode", Filter: " Foo.* ", Assemblies: "Game.Tests;Game.PlayTests", AssembliesSet: true},
			wantMode:       PlayMode,
			wantFilter:     "Foo.*",
			wantAssemblies: []string{"Game.Tests", "Game.PlayTests"},
		},
		{
			name:           "assemblies value ignored when not set",
			opts:           TestOptions{Mode: "edit-mode", Assemblies: "Ignored"},
			wantMode:       EditMode,
			wantAssemblies: []string{"EditTests", "PlayTest"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := NewTest(root, tt.opts)
			if err != nil {
				t.Fatalf("NewTest() error = %v", err)
			}
			if req.Command() != Test {
				t.Errorf("Command() = %v, want test", req.Command())
			}
			if req.Mode() != tt.wantMode {
				t.Errorf("Mode() = %v, want %v", req.Mode(), tt.wantMode)
			}
			if req.Filter() != tt.wantFilter {
				t.Errorf("Filter() = %q, want %q", req.Filter(), tt.wantFilter)
			}
			if diff := cmp.Diff(tt.wantAssemblies, req.Assemblies()); diff != "" {
				t.Errorf("Assemblies() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewTest_UsageErrorsBeforePathCheck(t *testing.T) {
	t.Parallel()
	missing := filepath.Join(t.TempDir(), "nope")

	tests := []struct {
		name string
		opts TestOptions
	}{
		{"missing mode", TestOptions{}},
		{"invalid mode", TestOptions{Mode: "fast-mode"}},
		{"empty assemblies", TestOptions{Mode: "edit-mode", AssembliesSet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTest(missing, tt.opts)
			if !errors.Is(err, errors.KindUsage) {
				t.Errorf("NewTest() error = %v, want usage error", err)
			}
		})
	}
}

func TestRequest_AssembliesIsACopy(t *testing.T) {
	t.Parallel()
	req, err := NewTest(makeProject(t), TestOptions{Mode: "edit-mode"})
	if err != nil {
		t.Fatal(err)
	}
	a := req.Assemblies()
	a[0] = "Mutated"
	if req.Assemblies()[0] != "EditTests" {
		t.Error("Assemblies() exposed internal state")
	}
	if DefaultAssemblies[0] != "EditTests" {
		t.Error("DefaultAssemblies was mutated")
	}
}
