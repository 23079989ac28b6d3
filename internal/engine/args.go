package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/unitool/internal/request"
)

// Artifacts are the files the editor writes for one run.
type Artifacts struct {
	LogPath     string
	ResultsPath string // empty for compile
}

// ArtifactsFor names the log and results files for a request:
// <project>-<id>-<command>.log and <project>-<id>-test-results.xml, where id
// is derived from the absolute project path so that same-named projects in
// different directories never share files.
func ArtifactsFor(dir string, req *request.Request) Artifacts {
	name := req.ProjectName() + "-" + projectID(req.ProjectPath())
	a := Artifacts{
		LogPath: filepath.Join(dir, name+"-"+req.Command().String()+".log"),
	}
	if req.Command() == request.Test {
		a.ResultsPath = filepath.Join(dir, name+"-test-results.xml")
	}
	return a
}

func projectID(path string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return hex.EncodeToString(sum[:4])
}

// BuildArgs returns the editor arguments for a request. Extra arguments are
// appended verbatim.
func BuildArgs(req *request.Request, a Artifacts, extra []string) []string {
	args := []string{"-batchmode", "-nographics"}
	if req.Command() == request.Compile {
		args = append(args, "-quit")
	}
	args = append(args,
		"-projectPath", req.ProjectPath(),
		"-logFile", a.LogPath,
	)

	if req.Command() == request.Test {
		args = append(args,
			"-runTests",
			"-testPlatform", req.Mode().Platform(),
			"-testResults", a.ResultsPath,
		)
		if f := req.Filter(); f != "" {
			args = append(args, "-testFilter", f)
		}
		args = append(args, "-assemblyNames", strings.Join(req.Assemblies(), request.AssemblySeparator))
		// Edit-mode runs never finish in batch mode without this.
		if req.Mode() == request.EditMode {
			args = append(args, "-runSynchronously")
		}
	}

	return append(args, extra...)
}
