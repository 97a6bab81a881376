//go:build linux

package process

import (
	"os/exec"

	"golang.org/x/sys/unix"
)

// SetDieWithParent arranges for the adapter subprocess to receive SIGKILL
// if this process dies first, so a crashed client never orphans a debug
// adapter. Best-effort: only implemented where the kernel supports it.
func SetDieWithParent(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &unix.SysProcAttr{}
	}
	cmd.SysProcAttr.Pdeathsig = unix.SIGKILL
}
