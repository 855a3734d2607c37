// Package persist moves plans in and out of portable export files.
//
// An export is a self-contained JSON or YAML document (chosen by file
// extension) carrying a plan's selections and a checksum over them, so a
// hand-edited or truncated file is detected on import.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/festplan/internal/fsops"
	"github.com/danieljhkim/festplan/internal/hash"
	"github.com/danieljhkim/festplan/internal/state"
)

// FormatVersion is the export document version written by Export.
const FormatVersion = 1

// ErrInvalidExport marks an export file that was read but cannot be trusted:
// it does not decode, has an unknown version, or fails its checksum.
var ErrInvalidExport = errors.New("invalid export")

// Document is the on-disk export format.
type Document struct {
	Version         int                    `json:"version" yaml:"version"`
	ExportedAt      time.Time              `json:"exportedAt" yaml:"exportedAt"`
	PlanID          string                 `json:"planId" yaml:"planId"`
	Name            string                 `json:"name" yaml:"name"`
	Festival        string                 `json:"festival,omitempty" yaml:"festival,omitempty"`
	CatalogChecksum string                 `json:"catalogChecksum,omitempty" yaml:"catalogChecksum,omitempty"`
	Selections      []state.SavedSelection `json:"selections" yaml:"selections"`
	Checksum        string                 `json:"checksum" yaml:"checksum"`
}

// SelectionsChecksum fingerprints selections in order.
func SelectionsChecksum(sels []state.SavedSelection) string {
	var b strings.Builder
	for _, s := range sels {
		b.WriteString(s.ID)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s.Priority))
		b.WriteByte('\n')
	}
	return hash.Bytes([]byte(b.String()))
}

// Exporter writes and reads export documents.
type Exporter struct {
	fs fsops.FS
}

// NewExporter creates a new Exporter.
func NewExporter(fs fsops.FS) *Exporter {
	return &Exporter{fs: fs}
}

// Export writes plan to path. Files ending in .yaml or .yml are written as
// YAML, everything else as JSON.
func (e *Exporter) Export(plan *state.Plan, festival, path string, now time.Time) (*Document, error) {
	doc := &Document{
		Version:         FormatVersion,
		ExportedAt:      now,
		PlanID:          plan.ID,
		Name:            plan.Name,
		Festival:        festival,
		CatalogChecksum: plan.CatalogChecksum,
		Selections:      plan.Selections,
		Checksum:        SelectionsChecksum(plan.Selections),
	}
	if doc.Selections == nil {
		doc.Selections = []state.SavedSelection{}
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	if err := e.fs.AtomicWrite(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	return doc, nil
}

// Import reads and verifies the export document at path.
// A missing file is reported as os.ErrNotExist and a malformed or tampered
// one as ErrInvalidExport. Other errors come from the filesystem.
func (e *Exporter) Import(path string) (*Document, error) {
	exists, err := e.fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat export: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("export %s: %w", path, os.ErrNotExist)
	}

	data, err := e.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}

	var doc Document
	if isYAML(path) {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode export: %v", ErrInvalidExport, err)
	}

	if err := Verify(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Verify checks the version and checksum of doc. Failures wrap
// ErrInvalidExport.
func Verify(doc *Document) error {
	if doc.Version < 1 || doc.Version > FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidExport, doc.Version)
	}
	if doc.Checksum == "" {
		return fmt.Errorf("%w: no checksum", ErrInvalidExport)
	}
	if got := SelectionsChecksum(doc.Selections); got != doc.Checksum {
		return fmt.Errorf("%w: checksum mismatch, selections were modified", ErrInvalidExport)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
