// Package dotdir manages the .specgraph/ and ~/.specgraph directories.
//
// The resolved directory is the store root: it holds the specs/ records,
// the evidence/ tree, the schema marker, config.toml and graph exports.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the specgraph directory.
	DirName = ".specgraph"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .specgraph/ directory,
// creating it when missing.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.specgraph/ dir
//  3. Home ~/.specgraph/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	dir, err := m.Resolve(overrideDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating specgraph directory %s: %w", dir, err)
	}

	return dir, nil
}

// Resolve applies the same precedence as Target without touching the
// filesystem.
func (m *Manager) Resolve(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, DirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, DirName)
	}

	return filepath.Abs(dir)
}

// Local returns ./.specgraph in the current working directory, whether or
// not it exists. The init command creates it.
func (m *Manager) Local() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return filepath.Join(cwd, DirName), nil
}

// localDirExists checks whether a .specgraph/ directory exists in the
// current working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, DirName))
	return err == nil && info.IsDir()
}
