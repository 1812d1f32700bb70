package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"claw-manager/internal/logger"
)

// ComponentState records one offline runtime component that was unpacked.
// It stores the archive it came from, where it ended up and when.
type ComponentState struct {
	Archive     string    `json:"archive"`      // Bundled archive the component was unpacked from
	InstallPath string    `json:"install_path"` // Directory or file the component now lives at
	PreparedAt  time.Time `json:"prepared_at"`  // When the component was prepared
}

// State holds everything the manager remembers between runs.
type State struct {
	Components map[string]ComponentState `json:"components"` // Map from component name (node, git, cli-package) to its state
}

// Load loads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be parsed, it returns a new empty State.
func Load(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		// Missing file is the normal first-run case
		return &State{Components: make(map[string]ComponentState)}
	}

	var st State
	if err := json.Unmarshal(file, &st); err != nil {
		logger.Warn("[WARN] Ignoring unreadable state file %s: %v\n", path, err)
	}

	// Ensure the map is initialized if JSON contained null for it
	if st.Components == nil {
		st.Components = make(map[string]ComponentState)
	}
	return &st
}

// Save writes the given State to a JSON file at the given path, creating
// the parent directory when needed.
func Save(path string, st *State) error {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, file, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}

// Record stores a prepared component under name.
func (s *State) Record(name, archive, installPath string) {
	s.Components[name] = ComponentState{
		Archive:     archive,
		InstallPath: installPath,
		PreparedAt:  time.Now().UTC(),
	}
}
