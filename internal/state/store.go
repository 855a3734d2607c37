package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danieljhkim/festplan/internal/config"
	"github.com/danieljhkim/festplan/internal/fsops"
)

// StateStore persists plans by name.
type StateStore interface {
	// LoadPlan loads the named plan.
	// Returns os.ErrNotExist if the plan doesn't exist.
	LoadPlan(name string) (*Plan, error)

	// SavePlan saves the plan under plan.Name, replacing any previous version.
	SavePlan(plan *Plan) error

	// DeletePlan deletes the named plan. Deleting a missing plan is not an error.
	DeletePlan(name string) error

	// ListPlans returns the names of all stored plans, sorted.
	ListPlans() ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// Open returns the StateStore for backend, rooted at paths.
func Open(backend string, paths *config.Paths, fs fsops.FS) (StateStore, error) {
	switch backend {
	case config.BackendFile, "":
		return NewFileStateStore(fs, paths.Plans), nil
	case config.BackendDiskv:
		return NewDiskvStateStore(fs, paths.Diskv), nil
	case config.BackendSQLite:
		if err := fs.MkdirAll(paths.Root, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data root: %w", err)
		}
		return NewSQLiteStateStore(fs, paths.Database)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func encodePlan(plan *Plan) ([]byte, error) {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}
	return data, nil
}

func decodePlan(data []byte) (*Plan, error) {
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	if plan.Selections == nil {
		plan.Selections = []SavedSelection{}
	}
	return &plan, nil
}

// FileStateStore implements StateStore using one JSON file per plan.
type FileStateStore struct {
	fs  fsops.FS
	dir string
}

// NewFileStateStore creates a new FileStateStore writing into dir.
func NewFileStateStore(fs fsops.FS, dir string) *FileStateStore {
	return &FileStateStore{fs: fs, dir: dir}
}

func (s *FileStateStore) path(name string) (string, error) {
	if err := s.fs.ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// LoadPlan loads the named plan.
func (s *FileStateStore) LoadPlan(name string) (*Plan, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return decodePlan(data)
}

// SavePlan saves the plan atomically.
func (s *FileStateStore) SavePlan(plan *Plan) error {
	path, err := s.path(plan.Name)
	if err != nil {
		return err
	}

	data, err := encodePlan(plan)
	if err != nil {
		return err
	}
	if err := s.fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// DeletePlan deletes the plan file.
func (s *FileStateStore) DeletePlan(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

// ListPlans returns the names of the plan files in the store directory.
func (s *FileStateStore) ListPlans() ([]string, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op.
func (s *FileStateStore) Close() error {
	return nil
}
