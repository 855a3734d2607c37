package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/peterbourgon/diskv/v3"

	"github.com/danieljhkim/festplan/internal/fsops"
)

// DiskvStateStore implements StateStore on a diskv key/value directory. Each
// plan is one key holding the plan's JSON document.
type DiskvStateStore struct {
	fs fsops.FS
	d  *diskv.Diskv
}

// NewDiskvStateStore creates a DiskvStateStore rooted at basePath. Writes are
// staged in a sibling temp directory so they replace keys atomically.
func NewDiskvStateStore(fs fsops.FS, basePath string) *DiskvStateStore {
	return &DiskvStateStore{
		fs: fs,
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			TempDir:      filepath.Join(filepath.Dir(basePath), ".diskv-tmp"),
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024,
		}),
	}
}

// LoadPlan loads the named plan.
func (s *DiskvStateStore) LoadPlan(name string) (*Plan, error) {
	if err := s.fs.ValidateName(name); err != nil {
		return nil, err
	}
	data, err := s.d.Read(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return decodePlan(data)
}

// SavePlan writes the plan under its name.
func (s *DiskvStateStore) SavePlan(plan *Plan) error {
	if err := s.fs.ValidateName(plan.Name); err != nil {
		return err
	}
	data, err := encodePlan(plan)
	if err != nil {
		return err
	}
	if err := s.d.Write(plan.Name, data); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// DeletePlan erases the named plan.
func (s *DiskvStateStore) DeletePlan(name string) error {
	if err := s.fs.ValidateName(name); err != nil {
		return err
	}
	if err := s.d.Erase(name); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

// ListPlans returns every stored key.
func (s *DiskvStateStore) ListPlans() ([]string, error) {
	done := make(chan struct{})
	defer close(done)

	names := []string{}
	for key := range s.d.Keys(done) {
		names = append(names, key)
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op.
func (s *DiskvStateStore) Close() error {
	return nil
}
