//go:build !unix

package git

import "os/exec"

// setProcessGroup is a no-op; WaitDelay alone bounds the command.
func setProcessGroup(*exec.Cmd) {}
