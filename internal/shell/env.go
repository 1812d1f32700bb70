package shell

import (
	"os"
	"sort"
	"strings"
)

// buildEnv returns the current environment with extra variables and PATH
// overridden. Keys are compared case-insensitively on Windows.
func buildEnv(extra map[string]string, path string) []string {
	overrides := make(map[string]string, len(extra)+1)
	for k, v := range extra {
		overrides[k] = v
	}
	if path != "" {
		overrides["PATH"] = path
	}

	env := os.Environ()
	out := make([]string, 0, len(env)+len(overrides))
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		if _, ok := lookupKey(overrides, name); ok {
			continue
		}
		out = append(out, kv)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+overrides[k])
	}
	return out
}

func lookupKey(m map[string]string, key string) (string, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	if isWindows() {
		for k, v := range m {
			if strings.EqualFold(k, key) {
				return v, true
			}
		}
	}
	return "", false
}
