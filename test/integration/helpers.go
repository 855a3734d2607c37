package integration

import (
	"context"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/danieljhkim/festplan/internal/catalog"
	"github.com/danieljhkim/festplan/internal/clock"
	"github.com/danieljhkim/festplan/internal/config"
	"github.com/danieljhkim/festplan/internal/engine"
	"github.com/danieljhkim/festplan/internal/fsops"
	"github.com/danieljhkim/festplan/internal/state"
)

const testLineup = `
festival: Integration Fest
concerts:
  - id: arcade
    artist: Arcade Fire
    stage: Main
    day: Friday
    startTime: "20:00"
    endTime: "21:30"
  - id: beck
    artist: Beck
    stage: Tent
    day: Friday
    startTime: "21:00"
    endTime: "22:00"
  - id: cure
    artist: The Cure
    stage: Woods
    day: Friday
    startTime: "21:10"
    endTime: "21:50"
  - id: daft
    artist: Daft Punk
    stage: Main
    day: Saturday
    startTime: "22:00"
    endTime: "23:30"
  - id: eels
    artist: Eels
    stage: Tent
    day: Sunday
    startTime: "15:00"
    endTime: "16:00"
`

// testFS is a filesystem implementation that keeps files in memory for testing
type testFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
	real  *fsops.RealFS
}

func newTestFS() *testFS {
	return &testFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
		real:  fsops.NewRealFS(),
	}
}

func (fs *testFS) MkdirAll(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for p := path; p != "." && p != string(filepath.Separator); p = filepath.Dir(p) {
		fs.dirs[p] = true
	}
	return nil
}

func (fs *testFS) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok {
		return os.ErrNotExist
	}
	delete(fs.files, path)
	return nil
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = append([]byte(nil), data...)
	fs.dirs[filepath.Dir(path)] = true
	return nil
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, os.ErrNotExist
}

func (fs *testFS) Exists(path string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, hasFile := fs.files[path]
	return hasFile || fs.dirs[path], nil
}

func (fs *testFS) ReadDir(path string) ([]os.DirEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.dirs[path] {
		return nil, os.ErrNotExist
	}
	var entries []os.DirEntry
	for p, content := range fs.files {
		if filepath.Dir(p) == path {
			info := &mockFileInfo{name: filepath.Base(p), size: int64(len(content))}
			entries = append(entries, iofs.FileInfoToDirEntry(info))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

func (fs *testFS) ValidateName(name string) error {
	return fs.real.ValidateName(name)
}

// mockFileInfo implements os.FileInfo
type mockFileInfo struct {
	name string
	size int64
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return 0644 }
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return false }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// testEnv is a data root shared by the engines a test opens against it.
type testEnv struct {
	t       *testing.T
	paths   *config.Paths
	fs      fsops.FS
	backend string
	catalog *catalog.Catalog
	clock   *clock.Fixed

	// checksum is the lineup checksum engines are opened with
	checksum string
}

// setupTestEnv prepares a data root for backend. The file backend runs on the
// in-memory testFS; diskv and SQLite need a real directory.
func setupTestEnv(t *testing.T, backend string) *testEnv {
	t.Helper()
	cat, err := catalog.Parse([]byte(testLineup))
	if err != nil {
		t.Fatalf("failed to parse lineup: %v", err)
	}

	var fs fsops.FS = fsops.NewRealFS()
	root := t.TempDir()
	if backend == config.BackendFile {
		fs = newTestFS()
		root = "/festplan"
	}
	paths := config.NewPaths(root)
	for _, dir := range []string{paths.Root, paths.Plans, paths.Diskv} {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	return &testEnv{
		t:       t,
		paths:   paths,
		fs:      fs,
		backend: backend,
		catalog: cat,
		clock:   clock.NewFixed(time.Date(2026, 6, 26, 12, 0, 0, 0, time.UTC)),

		checksum: "lineup-v1",
	}
}

// open returns a loaded engine for plan; it is closed when the test ends.
func (env *testEnv) open(plan string) *engine.Engine {
	env.t.Helper()
	stateStore, err := state.Open(env.backend, env.paths, env.fs)
	if err != nil {
		env.t.Fatalf("failed to open %s store: %v", env.backend, err)
	}
	eng := engine.New(
		engine.Lineup{Catalog: env.catalog, Path: env.paths.Catalog, Checksum: env.checksum},
		stateStore,
		env.fs,
		env.clock,
		zap.NewNop(),
		plan,
	)
	if err := eng.Load(context.Background()); err != nil {
		env.t.Fatalf("failed to load plan %q: %v", plan, err)
	}
	env.t.Cleanup(func() {
		_ = eng.Close()
	})
	return eng
}

// winners returns the attended concert ids of eng's plan, sorted.
func winners(t *testing.T, eng *engine.Engine) []string {
	t.Helper()
	plan, err := eng.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	ids := append([]string(nil), plan.Snapshot.WinnerIDs...)
	sort.Strings(ids)
	return ids
}

func priorities(t *testing.T, eng *engine.Engine) string {
	t.Helper()
	plan, err := eng.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	parts := make([]string, 0, len(plan.Snapshot.Selections))
	for _, s := range plan.Snapshot.Selections {
		parts = append(parts, fmt.Sprintf("%s=%d", s.ID, s.Priority))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

var backends = []string{config.BackendFile, config.BackendDiskv, config.BackendSQLite}
