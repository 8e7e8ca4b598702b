//go:build unix

package daemon

import (
	"errors"
	"os/exec"
	"syscall"
)

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// terminate sends SIGTERM to the whole process group led by pid.
func terminate(pid int) error {
	err := syscall.Kill(-pid, syscall.SIGTERM)
	if errors.Is(err, syscall.ESRCH) {
		return ErrProcessGone
	}
	return err
}

func alive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
