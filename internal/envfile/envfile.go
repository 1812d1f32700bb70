// Package envfile reads and edits the openclaw env file (~/.openclaw/env).
//
// The file is a shell fragment of `export KEY="VALUE"` lines that the CLI's own
// scripts source before starting the gateway.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// File is an env file on disk.
type File struct {
	Path string
}

// New returns the env file at path.
func New(path string) *File {
	return &File{Path: path}
}

// Load parses every variable in the file. A missing file yields an empty map.
func (f *File) Load() (map[string]string, error) {
	vars, err := godotenv.Read(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file %s: %w", f.Path, err)
	}
	return vars, nil
}

// Get returns the value of key and whether it is set to a non-empty value.
func (f *File) Get(key string) (string, bool) {
	vars, err := f.Load()
	if err != nil {
		return "", false
	}
	v, ok := vars[key]
	return v, ok && v != ""
}

// Set writes `export KEY="VALUE"`, replacing an existing line for key or
// appending a new one. Other lines are kept as they are.
func (f *File) Set(key, value string) error {
	lines, err := f.readLines()
	if err != nil {
		return err
	}

	entry := fmt.Sprintf("export %s=%q", key, value)
	replaced := false
	for i, line := range lines {
		if definesKey(line, key) {
			lines[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, entry)
	}
	return f.writeLines(lines)
}

// Remove deletes every line that defines key.
func (f *File) Remove(key string) error {
	lines, err := f.readLines()
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, line := range lines {
		if !definesKey(line, key) {
			kept = append(kept, line)
		}
	}
	return f.writeLines(kept)
}

func (f *File) readLines() ([]string, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", f.Path, err)
	}
	content := strings.TrimRight(string(raw), "\n")
	if content == "" {
		return nil, nil
	}
	return strings.Split(content, "\n"), nil
}

func (f *File) writeLines(lines []string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return fmt.Errorf("failed to create env file directory: %w", err)
	}
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	// the file holds API keys, keep it private to the user
	if err := os.WriteFile(f.Path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write env file %s: %w", f.Path, err)
	}
	return nil
}

// definesKey reports whether line assigns key, with or without "export".
func definesKey(line, key string) bool {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "export ")
	name, _, ok := strings.Cut(line, "=")
	return ok && strings.TrimSpace(name) == key
}
