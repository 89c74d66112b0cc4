package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning is returned by Acquire when a live daemon owns the file
var ErrAlreadyRunning = errors.New("daemon is already running")

// PIDFile guards a single daemon instance per world
type PIDFile struct {
	path string
	pid  int
}

// New creates a new PIDFile manager for the current process
func New(path string) *PIDFile {
	return &PIDFile{path: path, pid: os.Getpid()}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current pid. A stale or unreadable file left by a dead
// process is replaced; a live owner yields ErrAlreadyRunning. With force the
// file is taken over regardless of its owner.
func (p *PIDFile) Acquire(force bool) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}

	if owner, running := p.Owner(); running && owner != p.pid && !force {
		return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, owner)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(fmt.Sprintf("%d\n", p.pid)), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Owner returns the pid recorded in the file and whether that process is alive
func (p *PIDFile) Owner() (int, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, isProcessRunning(pid)
}

// Release removes the file if it still belongs to this process
func (p *PIDFile) Release() error {
	if owner, _ := p.Owner(); owner != 0 && owner != p.pid {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning sends signal 0, which only checks existence and permissions
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM: exists but owned by someone else
	return errors.Is(err, syscall.EPERM)
}
