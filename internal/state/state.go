package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"fmt"
	"os"
	"path/filepath"
	"time"

	"opsinstall/internal/logger"
)

// InstallRecord is one completed install.
type InstallRecord struct {
	Product     string    `json:"product"`             // Product name as registered in the module tree
	Version     string    `json:"version"`             // Module version (branch, tag or package version)
	Environment string    `json:"environment"`         // pyenv environment bound to the product
	Source      string    `json:"source,omitempty"`    // Checkout or extraction path; empty for package installs
	Immutable   bool      `json:"immutable,omitempty"` // True when the source is a frozen snapshot
	Descriptor  string    `json:"descriptor"`          // Modulefile path
	Default     bool      `json:"default,omitempty"`   // True when promoted to default at install time
	InstalledAt time.Time `json:"installed_at"`        // Completion time
}

// State is the install ledger. Records are kept in completion order.
type State struct {
	Installs []InstallRecord `json:"installs"`
}

// LoadState loads the ledger at path. A missing file yields an empty State.
func LoadState(path string) (*State, error) {
	file, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}

	var st State
	if err := json.Unmarshal(file, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	return &st, nil
}

// SaveState writes the ledger to path, creating parent directories as needed.
func SaveState(path string, st *State) error {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	logger.Debug("[DEBUG] Writing state to %s (%d installs)\n", path, len(st.Installs))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, file, 0o644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}

// Record appends rec to the ledger at path.
func Record(path string, rec InstallRecord) error {
	st, err := LoadState(path)
	if err != nil {
		return err
	}
	st.Installs = append(st.Installs, rec)
	return SaveState(path, st)
}
