package offline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// findDirWithFile walks root depth-first and returns the first directory
// that directly contains a file called name.
func findDirWithFile(root, name string) (string, bool) {
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if fileExists(filepath.Join(dir, name)) {
			return dir, true
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				stack = append(stack, filepath.Join(dir, e.Name()))
			}
		}
	}
	return "", false
}

// findTopLevelDirContaining returns root when it holds name directly, otherwise the
// first immediate subdirectory whose tree contains name. Archives usually wrap
// their payload in a single versioned folder (node-v22.1.0-win-x64/), and that
// folder is the one worth keeping.
func findTopLevelDirContaining(root, name string) (string, bool) {
	if fileExists(filepath.Join(root, name)) {
		return root, true
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(root, e.Name())
		if _, ok := findDirWithFile(sub, name); ok {
			return sub, true
		}
	}
	return "", false
}

// moveOrCopyDir replaces dst with src. It renames when possible and falls back
// to a recursive copy (for example across volumes), removing src afterwards.
func moveOrCopyDir(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("remove %s failed: %w", dst, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyDir(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0755)
		case d.Type()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyFile(path, target, 0)
		}
	})
}

// copyFile copies a file from src to dst, preserving permissions.
// It creates any missing directories in the destination path.
func copyFile(src, dst string, modeOverride os.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}

	// override wins, otherwise keep the source mode
	if modeOverride != 0 {
		return os.Chmod(dst, modeOverride)
	}
	if stat, err := os.Stat(src); err == nil {
		return os.Chmod(dst, stat.Mode())
	}
	return nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
