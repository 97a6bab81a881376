//go:build !linux

package process

import "os/exec"

// SetDieWithParent is a no-op on platforms without a die-with-parent signal.
func SetDieWithParent(cmd *exec.Cmd) {}
