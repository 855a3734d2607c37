package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/danieljhkim/festplan/internal/persist"
	"github.com/danieljhkim/festplan/internal/selection"
)

// Export writes the current plan to req.Path.
func (e *Engine) Export(ctx context.Context, req *ExportRequest) (*ExportResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("%w: export path is required", ErrValidation)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	doc, err := e.exporter.Export(e.plan, e.catalog.Name(), req.Path, e.clock.Now())
	if err != nil {
		return nil, err
	}
	e.logger.Info("exported plan", zap.String("path", req.Path), zap.Int("selections", len(doc.Selections)))

	return &ExportResult{
		Path:       req.Path,
		Selections: len(doc.Selections),
		Checksum:   doc.Checksum,
	}, nil
}

// Import replaces the current plan with the selections in req.Path.
// Entries for concerts missing from the lineup are dropped and reported.
func (e *Engine) Import(ctx context.Context, req *ImportRequest) (*ImportResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("%w: import path is required", ErrValidation)
	}

	doc, err := e.exporter.Import(req.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: no export file at %s", ErrNotFound, req.Path)
	}
	if errors.Is(err, persist.ErrInvalidExport) {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to import plan: %w", err)
	}
	if doc.CatalogChecksum != "" && e.checksum != "" && doc.CatalogChecksum != e.checksum {
		e.logger.Warn("export was made against a different lineup",
			zap.String("path", req.Path),
			zap.String("export_checksum", doc.CatalogChecksum),
		)
	}

	entries := make([]selection.Entry, len(doc.Selections))
	for i, s := range doc.Selections {
		entries[i] = selection.Entry{ID: s.ID, Priority: s.Priority}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.store.Snapshot()
	snap, dropped := e.store.Restore(entries, "")
	for _, d := range dropped {
		e.logger.Warn("dropped imported selection", zap.String("id", d.ID))
	}
	if err := e.save(prev, snap); err != nil {
		return nil, err
	}

	if dropped == nil {
		dropped = []selection.Entry{}
	}
	return &ImportResult{
		Path:     req.Path,
		Restored: len(snap.Selections),
		Dropped:  dropped,
		Snapshot: snap,
	}, nil
}
