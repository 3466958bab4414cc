// Package daemonlifecycle owns the parts of running a long-lived daemon
// that have nothing to do with hooks: the single-instance PID guard,
// idle auto-shutdown, and structured logging.
package daemonlifecycle

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/procutil"
)

// verifiedPID is a PID read from the PID file plus, where it could be
// read, that process's start time. AcquireOrReplace does not compare the
// start time; it tells a reused PID apart from this daemon by comparing
// executable paths (identityLooksLikeDaemon).
type verifiedPID struct {
	PID            int
	StartTime      uint64
	StartTimeKnown bool
}

// AcquireOrReplace enforces single-instance ownership of pidPath. If an
// existing PID file names a process that is still alive and verified to
// be this same daemon binary, it returns ErrAlreadyRunning. A stale PID
// file (process gone, or PID reused by something else) is silently
// replaced.
//
// When enforceProcessScan is true, it additionally scans the whole
// process table for any other live instance of this daemon binary, not
// just the one named by the PID file — catching the case where the PID
// file itself was lost or never written.
func AcquireOrReplace(pidPath string, enforceProcessScan bool) error {
	if existing, ok := readPIDFile(pidPath); ok {
		if procutil.PIDAlive(existing.PID) && identityLooksLikeDaemon(existing.PID) {
			return ErrAlreadyRunning{PID: existing.PID}
		}
	}
	if enforceProcessScan {
		if other, found := findOtherDaemonProcess(); found {
			return ErrAlreadyRunning{PID: other}
		}
	}
	return writePIDFile(pidPath, os.Getpid())
}

// findOtherDaemonProcess scans /proc for a live process other than this
// one running the same executable. Used when enforce_single_daemon_process
// is set, to catch instances started outside this PID file's knowledge.
func findOtherDaemonProcess() (int, bool) {
	if !procutil.ProcFSAvailable() {
		return 0, false
	}
	selfPID := os.Getpid()
	selfExe, err := procutil.ExePath(selfPID)
	if err != nil {
		return 0, false
	}
	pids, err := procutil.ListPIDs()
	if err != nil {
		return 0, false
	}
	for _, pid := range pids {
		if pid == selfPID {
			continue
		}
		if procutil.PIDZombie(pid) {
			continue
		}
		exe, err := procutil.ExePath(pid)
		if err != nil || exe != selfExe {
			continue
		}
		if procutil.PIDAlive(pid) {
			return pid, true
		}
	}
	return 0, false
}

// ErrAlreadyRunning is returned when a verified live daemon already owns
// the PID file.
type ErrAlreadyRunning struct{ PID int }

func (e ErrAlreadyRunning) Error() string {
	return fmt.Sprintf("daemon already running with pid %d", e.PID)
}

// Release removes the PID file; callers call this during clean shutdown.
func Release(pidPath string) error {
	err := os.Remove(pidPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func readPIDFile(path string) (verifiedPID, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return verifiedPID{}, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return verifiedPID{}, false
	}
	if start, err := procutil.ReadPIDStartTime(pid); err == nil {
		return verifiedPID{PID: pid, StartTime: start, StartTimeKnown: true}, true
	}
	return verifiedPID{PID: pid}, true
}

func writePIDFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o600)
}

// identityLooksLikeDaemon is a best-effort check that the PID in the file
// is actually running this daemon's binary rather than an unrelated
// process that happened to reuse the number.
func identityLooksLikeDaemon(pid int) bool {
	if !procutil.ProcFSAvailable() {
		return true
	}
	selfExe, err := procutil.ExePath(os.Getpid())
	if err != nil {
		return true
	}
	targetExe, err := procutil.ExePath(pid)
	if err != nil {
		// Can't resolve; if we lack permission this isn't proof of anything,
		// so err on the side of treating it as a live daemon to avoid a
		// second instance starting up underneath an existing one.
		return true
	}
	return selfExe == targetExe
}
