package shell

import (
	"context"
	"path/filepath"
	"strings"

	"claw-manager/internal/logger"
)

// Locator finds an executable that may live in any of the places Node.js
// version managers and npm prefixes install to.
type Locator struct {
	Name        string            // executable base name, e.g. "openclaw"
	Override    string            // explicit path; used only if it exists
	SearchPaths []string          // extra directories probed first
	Home        string            // user home directory for the candidate table
	Bundled     string            // command from the offline runtime, if prepared
	PathEnv     string            // PATH value searched after the candidates
	Shell       Runner            // optional login shell fallback (Unix only)
	Cache       *logger.PathCache // optional dedup for "found at" log lines
}

// Find returns the first existing location of the executable.
//
// Order: the override, the extra search paths, the offline runtime command,
// the platform candidate table, the PATH, and finally "command -v" in the
// user's login shell.
func (l *Locator) Find(ctx context.Context) (string, bool) {
	for _, p := range l.candidates() {
		if fileExists(p) {
			l.found(p)
			return p, true
		}
	}

	if p, ok := LookPath(l.Name, l.PathEnv); ok {
		l.found(p)
		return p, true
	}

	if l.Shell == nil || isWindows() {
		return "", false
	}
	res, err := l.Shell.Run(ctx, Command{
		Name: "/bin/sh",
		Args: []string{"-c", `for rc in "$HOME/.zshrc" "$HOME/.bashrc"; do [ -f "$rc" ] && . "$rc" >/dev/null 2>&1 && break; done; command -v "$0"`, l.Name},
	})
	if err != nil || !res.Success {
		return "", false
	}
	p := strings.TrimSpace(res.Stdout)
	if p == "" || !fileExists(p) {
		return "", false
	}
	l.found(p)
	return p, true
}

func (l *Locator) candidates() []string {
	var paths []string
	if l.Override != "" {
		paths = append(paths, l.Override)
	}
	for _, dir := range l.SearchPaths {
		paths = append(paths, filepath.Join(dir, l.executableName()))
	}
	if l.Bundled != "" {
		paths = append(paths, l.Bundled)
	}
	return append(paths, candidatePaths(l.Home, l.Name)...)
}

func (l *Locator) executableName() string {
	if isWindows() {
		return l.Name + ".cmd"
	}
	return l.Name
}

func (l *Locator) found(p string) {
	if l.Cache != nil {
		l.Cache.Found(l.Name, p)
		return
	}
	logger.Debug("[DEBUG] Found %s at %s\n", l.Name, p)
}

// CommandExists reports whether name is on pathList.
func CommandExists(name, pathList string) bool {
	_, ok := LookPath(name, pathList)
	return ok
}
