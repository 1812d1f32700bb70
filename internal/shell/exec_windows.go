//go:build windows

package shell

import (
	"os/exec"
	"syscall"
)

// createNoWindow keeps console programs from flashing a window.
const createNoWindow = 0x08000000

func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNoWindow}
}
