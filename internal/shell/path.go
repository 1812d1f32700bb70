package shell

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// goos is runtime.GOOS, replaceable in tests.
var goos = runtime.GOOS

func isWindows() bool { return goos == "windows" }

// pathListSeparator is the PATH separator for goos.
func pathListSeparator() string {
	if isWindows() {
		return ";"
	}
	return ":"
}

// commonNvmVersions are probed when nvm has no default alias.
var commonNvmVersions = []string{"v22.22.0", "v22.12.0", "v22.11.0", "v22.2.0", "v22.1.0", "v22.0.0", "v23.0.0"}

// nvmDefaultVersion reads ~/.nvm/alias/default, returning "" when unset.
func nvmDefaultVersion(home string) string {
	raw, err := os.ReadFile(filepath.Join(home, ".nvm", "alias", "default"))
	if err != nil {
		return ""
	}
	v := strings.TrimSpace(string(raw))
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// ExtendedPath builds the PATH handed to child processes. Desktop launchers
// do not inherit the login shell PATH, so the usual Node.js locations are
// added in front of the inherited value. prepend directories come first.
func ExtendedPath(home string, prepend ...string) string {
	var dirs []string
	dirs = append(dirs, prepend...)

	if !isWindows() {
		if home != "" {
			if v := nvmDefaultVersion(home); v != "" {
				dirs = append(dirs, filepath.Join(home, ".nvm", "versions", "node", v, "bin"))
			}
			for _, v := range commonNvmVersions {
				bin := filepath.Join(home, ".nvm", "versions", "node", v, "bin")
				if dirExists(bin) {
					dirs = append(dirs, bin)
					break
				}
			}
		}
		dirs = append(dirs, "/opt/homebrew/bin", "/usr/local/bin", "/usr/bin", "/bin")
		if home != "" {
			dirs = append(dirs,
				filepath.Join(home, ".fnm", "aliases", "default", "bin"),
				filepath.Join(home, ".volta", "bin"),
				filepath.Join(home, ".asdf", "shims"),
				filepath.Join(home, ".local", "share", "mise", "shims"),
			)
		}
	}

	if current := os.Getenv("PATH"); current != "" {
		dirs = append(dirs, current)
	}
	return strings.Join(dedupe(dirs), pathListSeparator())
}

// candidatePaths lists the locations the CLI is usually installed to.
func candidatePaths(home, name string) []string {
	if isWindows() {
		shim := name + ".cmd"
		paths := []string{filepath.Join(`C:\nvm4w\nodejs`, shim)}
		if home != "" {
			paths = append(paths, filepath.Join(home, "AppData", "Roaming", "npm", shim))
		}
		return append(paths, filepath.Join(`C:\Program Files\nodejs`, shim))
	}

	var paths []string
	if home != "" {
		if v := nvmDefaultVersion(home); v != "" {
			paths = append(paths, filepath.Join(home, ".nvm", "versions", "node", v, "bin", name))
		}
	}
	paths = append(paths,
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/opt/homebrew/bin", name),
		filepath.Join("/usr/bin", name),
	)
	if home == "" {
		return paths
	}

	paths = append(paths, filepath.Join(home, ".npm-global", "bin", name))
	for _, v := range commonNvmVersions {
		paths = append(paths, filepath.Join(home, ".nvm", "versions", "node", v, "bin", name))
	}
	return append(paths,
		filepath.Join(home, ".fnm", "aliases", "default", "bin", name),
		filepath.Join(home, ".volta", "bin", name),
		filepath.Join(home, ".pnpm", "bin", name),
		filepath.Join(home, "Library", "pnpm", name),
		filepath.Join(home, ".asdf", "shims", name),
		filepath.Join(home, ".local", "share", "mise", "shims", name),
		filepath.Join(home, ".yarn", "bin", name),
		filepath.Join(home, ".config", "yarn", "global", "node_modules", ".bin", name),
	)
}

// LookPath searches pathList (a PATH value) for an executable called name.
func LookPath(name, pathList string) (string, bool) {
	names := []string{name}
	if isWindows() && filepath.Ext(name) == "" {
		names = []string{name + ".exe", name + ".cmd", name + ".bat", name}
	}
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			continue
		}
		for _, n := range names {
			p := filepath.Join(dir, n)
			if isExecutable(p) {
				return p, true
			}
		}
	}
	return "", false
}

func isExecutable(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}
	if isWindows() {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
