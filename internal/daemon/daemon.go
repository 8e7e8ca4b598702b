// Package daemon manages the detached bot process for botctl.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	ErrAlreadyRunning = errors.New("bot is already running")
	ErrNotRunning     = errors.New("bot is not running")
	// ErrProcessGone means the PID file pointed at a process that had
	// already exited. The file is removed anyway.
	ErrProcessGone = errors.New("process no longer exists")
)

func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotRunning
		}
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("corrupt pid file %s", path)
	}
	return pid, nil
}

func WritePID(path string, pid int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

// RemoveIfOwned deletes the PID file only when it still names pid.
func RemoveIfOwned(path string, pid int) {
	if got, err := ReadPID(path); err == nil && got == pid {
		os.Remove(path)
	}
}

// Start launches name with args in a new session and records its PID.
// Output of the child is discarded; the bot writes its own log file.
func Start(pidFile, name string, args ...string) (int, error) {
	if _, err := os.Stat(pidFile); err == nil {
		return 0, ErrAlreadyRunning
	}

	cmd := exec.Command(name, args...)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", name, err)
	}
	pid := cmd.Process.Pid
	if err := WritePID(pidFile, pid); err != nil {
		cmd.Process.Kill()
		return 0, fmt.Errorf("write pid file: %w", err)
	}
	// Reap the child in the background so it does not linger as a zombie
	// while botctl is still alive.
	go cmd.Wait()
	return pid, nil
}

// Stop signals the process group recorded in pidFile and removes the file,
// even when the process had already exited.
func Stop(pidFile string) (int, error) {
	pid, err := ReadPID(pidFile)
	if err != nil {
		if errors.Is(err, ErrNotRunning) {
			return 0, err
		}
		os.Remove(pidFile)
		return 0, err
	}
	defer os.Remove(pidFile)

	if err := terminate(pid); err != nil {
		return pid, err
	}
	return pid, nil
}

// WaitExit polls until pid is gone or timeout passes.
func WaitExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !alive(pid) {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return !alive(pid)
}
