package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the filesystem locations derived from the data root.
type Paths struct {
	// Root is the base directory for all festplan data (default: ~/.festplan)
	Root string

	// Plans holds one JSON file per plan for the file backend
	Plans string

	// Diskv is the base directory of the diskv backend
	Diskv string

	// Database is the SQLite database file of the sqlite backend
	Database string

	// Catalog is the default lineup file
	Catalog string
}

// NewPaths derives every path from root.
func NewPaths(root string) *Paths {
	return &Paths{
		Root:     root,
		Plans:    filepath.Join(root, "plans"),
		Diskv:    filepath.Join(root, "diskv"),
		Database: filepath.Join(root, "festplan.db"),
		Catalog:  filepath.Join(root, "lineup.yaml"),
	}
}

// EnsureDirectories creates the data directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Plans, p.Diskv} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
