// Package workdir resolves where NoteForge writes exports and logs.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Root returns the base directory for NoteForge files.
// The path is expanded at runtime to resolve to:
//
//	$HOME/Documents/NoteForge
func Root() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, "Documents", "NoteForge"), nil
}

// ExportDir returns override when set, otherwise the exports folder under Root.
func ExportDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "exports"), nil
}

// LogPath returns the path of the log file used while the TUI owns the terminal.
func LogPath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "logs", "noteforge.log"), nil
}

// Prep ensures that dir exists.
func Prep(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return nil
}
