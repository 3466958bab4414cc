// Package paths resolves the project root the daemon is serving and
// derives every filesystem path the daemon and forwarder need from it:
// the daemon root, the control socket, the PID file, the log file, and
// the config file.
package paths

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/config"
)

const marker = ".claude"

// Layout bundles every path the daemon derives from one project root.
type Layout struct {
	ProjectRoot string
	DaemonRoot  string
	ConfigPath  string
	SocketPath  string
	PIDPath     string
	LogPath     string
}

// Resolve finds the project root by walking up from cwd looking for a
// .claude directory, derives daemon_root from it (honoring
// self_install_mode in the project's own config and a DAEMON_ROOT_DIR
// override), and computes every path that hangs off daemon_root. A
// HOOKS_SOCKET_PATH override always wins for the socket path,
// independent of how daemon_root was found.
func Resolve() (*Layout, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, err
	}
	return resolveFrom(projectRoot)
}

func resolveFrom(projectRoot string) (*Layout, error) {
	claudeDir := filepath.Join(projectRoot, marker)
	configPath := filepath.Join(claudeDir, "hooks-daemon.yaml")

	daemonRoot := daemonRootFor(projectRoot, claudeDir, configPath)

	hostID, err := HostID(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("deriving host id: %w", err)
	}

	untracked := filepath.Join(daemonRoot, "untracked")
	socketPath := filepath.Join(untracked, fmt.Sprintf("daemon-%s.sock", hostID))
	pidPath := filepath.Join(untracked, fmt.Sprintf("daemon-%s.pid", hostID))
	logPath := filepath.Join(untracked, fmt.Sprintf("daemon-%s.log", hostID))

	if nested, err := hasNestedDaemonRoot(daemonRoot); err == nil && nested != "" {
		return nil, fmt.Errorf("found untracked daemon root under %s: nested daemon roots are not supported", nested)
	}

	if err := os.MkdirAll(untracked, 0o700); err != nil {
		return nil, fmt.Errorf("creating daemon root %s: %w", untracked, err)
	}

	if len(socketPath) >= unixSocketPathMax {
		fallbackDir, err := fallbackRuntimeDirectory()
		if err != nil {
			return nil, err
		}
		hash, err := HostID(projectRoot)
		if err != nil {
			return nil, fmt.Errorf("deriving fallback hash: %w", err)
		}
		socketPath = filepath.Join(fallbackDir, fmt.Sprintf("hooks-daemon-%s.sock", hash))
		pidPath = filepath.Join(fallbackDir, fmt.Sprintf("hooks-daemon-%s.pid", hash))
		logPath = filepath.Join(fallbackDir, fmt.Sprintf("hooks-daemon-%s.log", hash))
		if len(socketPath) >= unixSocketPathMax {
			return nil, fmt.Errorf("socket path %q exceeds unix socket path limit even after relocating to %s", socketPath, fallbackDir)
		}
	}

	if override := os.Getenv("HOOKS_SOCKET_PATH"); override != "" {
		socketPath = override
	}

	return &Layout{
		ProjectRoot: projectRoot,
		DaemonRoot:  daemonRoot,
		ConfigPath:  configPath,
		SocketPath:  socketPath,
		PIDPath:     pidPath,
		LogPath:     logPath,
	}, nil
}

// daemonRootFor picks daemon_root per §4.1: a DAEMON_ROOT_DIR override
// wins outright; otherwise self_install_mode (read from the project's
// own config, best-effort — a missing or malformed config is treated as
// false rather than failing path resolution) decides between placing
// daemon_root at the project root itself or in a dedicated subdirectory
// that keeps it out of the way of the tracked project tree.
func daemonRootFor(projectRoot, claudeDir, configPath string) string {
	if override := os.Getenv("DAEMON_ROOT_DIR"); override != "" {
		if abs, err := filepath.Abs(override); err == nil {
			return abs
		}
		return override
	}
	if selfInstallMode(configPath) {
		return projectRoot
	}
	return filepath.Join(claudeDir, "hooks-daemon")
}

// selfInstallMode is a best-effort peek at daemon.self_install_mode: it
// never fails path resolution, since a config that doesn't parse yet is
// exactly the degraded-mode case the daemon itself reports later.
func selfInstallMode(configPath string) bool {
	cfg, err := config.Load(configPath)
	if err != nil || cfg == nil {
		return false
	}
	return cfg.Daemon.SelfInstallMode
}

// HostID derives a short, stable identifier for a project root so
// multiple projects never collide on the same socket/PID path.
func HostID(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:8]), nil
}

// findProjectRoot walks up from the working directory looking for a
// .claude marker directory. A project root found this way that itself
// has a parent carrying a .claude directory is a configuration mistake
// (nested daemon roots are ambiguous about which one owns a given
// socket) and is reported as an error rather than silently picking the
// innermost one.
func findProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, marker)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			if nested, err := hasNestedMarker(filepath.Dir(dir)); err == nil && nested != "" {
				return "", fmt.Errorf("found %s at both %s and %s: nested daemon roots are not supported", marker, dir, nested)
			}
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found walking up from %s", marker, cwd)
		}
		dir = parent
	}
}

func hasNestedMarker(from string) (string, error) {
	dir := from
	for {
		candidate := filepath.Join(dir, marker)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// hasNestedDaemonRoot reports whether some ancestor of daemonRoot already
// owns an untracked/ daemon root of its own, which would make two
// projects' sockets ambiguous about which daemon_root they belong under.
func hasNestedDaemonRoot(daemonRoot string) (string, error) {
	dir := filepath.Dir(daemonRoot)
	for {
		candidate := filepath.Join(dir, "untracked")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// fallbackRuntimeDirectory picks a directory for the over-length-path
// fallback cascade: $XDG_RUNTIME_DIR, then /run/user/<uid>, then /tmp.
func fallbackRuntimeDirectory() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	uidDir := fmt.Sprintf("/run/user/%d", os.Getuid())
	if info, err := os.Stat(uidDir); err == nil && info.IsDir() {
		return uidDir, nil
	}
	return os.TempDir(), nil
}

// unixSocketPathMax is the conservative limit (sun_path on Linux is 108
// bytes including the NUL terminator) below which net.Listen("unix", ...)
// is guaranteed not to fail.
const unixSocketPathMax = 104
