//go:build windows

package engine

import (
	"os/exec"
)

func startInGroup(cmd *exec.Cmd) {}

// killGroup kills the editor process. Windows has no process groups to
// signal; the editor's own children exit with it.
func killGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
