// Package request builds validated invocation requests from parsed
// command-line values.
package request

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/unitool/internal/errors"
	"github.com/AndreyAkinshin/unitool/internal/project"
)

// Command is the operation requested from the editor.
type Command int

const (
	Compile Command = iota
	Test
)

func (c Command) String() string {
	if c == Test {
		return "test"
	}
	return "compile"
}

// Mode selects the test platform.
type Mode int

const (
	NoMode Mode = iota
	EditMode
	PlayMode
)

// ValidModes lists the accepted -m values.
var ValidModes = []string{"edit-mode", "play-mode"}

// DefaultAssemblies is used when -a is omitted.
var DefaultAssemblies = []string{"EditTests", "PlayTest"}

// AssemblySeparator separates assembly names in -a.
const AssemblySeparator = ";"

// ParseMode accepts "edit-mode"/"play-mode" in any case, as well as the
// editor's own spelling ("EditMode", "PlayMode").
func ParseMode(s string) (Mode, error) {
	switch normalizeMode(s) {
	case "EditMode":
		return EditMode, nil
	case "PlayMode":
		return PlayMode, nil
	}
	return NoMode, errors.Usagef("invalid mode %q (valid: %s)", s, strings.Join(ValidModes, ", "))
}

// normalizeMode turns "edit-mode" into "EditMode"; editor spellings pass through.
func normalizeMode(s string) string {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "-_ ") {
		caser := cases.Title(language.English)
		words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
		for i, w := range words {
			words[i] = caser.String(w)
		}
		return strings.Join(words, "")
	}
	switch strings.ToLower(s) {
	case "editmode":
		return "EditMode"
	case "playmode":
		return "PlayMode"
	}
	return s
}

// Platform returns the value passed to the editor's -testPlatform.
func (m Mode) Platform() string {
	switch m {
	case EditMode:
		return "EditMode"
	case PlayMode:
		return "PlayMode"
	default:
		return ""
	}
}

func (m Mode) String() string {
	switch m {
	case EditMode:
		return "edit-mode"
	case PlayMode:
		return "play-mode"
	default:
		return "none"
	}
}

// ParseAssemblies splits a semicolon-separated list, trimming blanks and
// dropping duplicates while keeping the first occurrence.
func ParseAssemblies(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, AssemblySeparator) {
		part = strings.TrimSpace(part)
		if part == "" || slices.Contains(out, part) {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil, errors.Usagef("no assemblies in %q", s)
	}
	return out, nil
}

// Request is an immutable, validated invocation.
type Request struct {
	command     Command
	projectPath string
	mode        Mode
	filter      string
	assemblies  []string
}

// Command returns the requested operation.
func (r *Request) Command() Command { return r.command }

// ProjectPath returns the absolute project root.
func (r *Request) ProjectPath() string { return r.projectPath }

// Mode returns the test platform; NoMode for compile.
func (r *Request) Mode() Mode { return r.mode }

// Filter returns the test filter; empty means all tests.
func (r *Request) Filter() string { return r.filter }

// Assemblies returns a copy of the assembly list; nil for compile.
func (r *Request) Assemblies() []string { return slices.Clone(r.assemblies) }

// ProjectName returns the base name of the project directory.
func (r *Request) ProjectName() string { return filepath.Base(r.projectPath) }

// NewCompile validates a compile request.
func NewCompile(projectPath string) (*Request, error) {
	abs, err := resolveProject(projectPath)
	if err != nil {
		return nil, err
	}
	return &Request{command: Compile, projectPath: abs}, nil
}

// TestOptions carries the raw test flags. Assemblies is only read when
// AssembliesSet is true; otherwise the default set applies.
type TestOptions struct {
	Mode          string
	Filter        string
	Assemblies    string
	AssembliesSet bool
}

// NewTest validates a test request. Flag values are checked before the
// project path so that usage errors never depend on the filesystem.
func NewTest(projectPath string, opts TestOptions) (*Request, error) {
	if strings.TrimSpace(opts.Mode) == "" {
		return nil, errors.Usage("test requires -m <edit-mode|play-mode>")
	}
	mode, err := ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}

	assemblies := slices.Clone(DefaultAssemblies)
	if opts.AssembliesSet {
		if assemblies, err = ParseAssemblies(opts.Assemblies); err != nil {
			return nil, err
		}
	}

	abs, err := resolveProject(projectPath)
	if err != nil {
		return nil, err
	}

	return &Request{
		command:     Test,
		projectPath: abs,
		mode:        mode,
		filter:      strings.TrimSpace(opts.Filter),
		assemblies:  assemblies,
	}, nil
}

func resolveProject(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.Usage("missing project path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Usagef("invalid project path %q: %v", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.PathNotFound(abs, "project path does not exist")
	}
	if !info.IsDir() {
		return "", errors.PathNotFound(abs, "project path is not a directory")
	}
	if err := project.ValidateRoot(abs); err != nil {
		return "", err
	}
	return abs, nil
}
