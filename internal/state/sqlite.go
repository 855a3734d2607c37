package state

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/danieljhkim/festplan/internal/fsops"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStateStore implements StateStore on a SQLite database. A plan is one
// row in plans plus one row per selection, ordered by position.
type SQLiteStateStore struct {
	fs fsops.FS
	db *sql.DB
}

// NewSQLiteStateStore opens (creating if needed) the database at path.
func NewSQLiteStateStore(fs fsops.FS, path string) (*SQLiteStateStore, error) {
	if err := runMigrations(path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &SQLiteStateStore{fs: fs, db: db}, nil
}

// runMigrations applies every pending up migration to the database at path.
// Databases created before migrations were tracked start from version 0;
// the initial migration is idempotent so they upgrade in place.
func runMigrations(path string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// LoadPlan loads the named plan.
func (s *SQLiteStateStore) LoadPlan(name string) (*Plan, error) {
	if err := s.fs.ValidateName(name); err != nil {
		return nil, err
	}

	plan := Plan{Name: name, Selections: []SavedSelection{}}
	err := s.db.QueryRow(
		"SELECT id, catalog_checksum, last_swapped_id, created_at, updated_at FROM plans WHERE name = ?",
		name,
	).Scan(&plan.ID, &plan.CatalogChecksum, &plan.LastSwappedID, &plan.CreatedAt, &plan.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, os.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT concert_id, priority FROM selections WHERE plan_name = ? ORDER BY position",
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sel SavedSelection
		if err := rows.Scan(&sel.ID, &sel.Priority); err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		plan.Selections = append(plan.Selections, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	return &plan, nil
}

// SavePlan replaces the plan and its selections in one transaction.
func (s *SQLiteStateStore) SavePlan(plan *Plan) error {
	if err := s.fs.ValidateName(plan.Name); err != nil {
		return err
	}

	return s.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO plans (name, id, catalog_checksum, last_swapped_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET id = excluded.id, catalog_checksum = excluded.catalog_checksum,
			 last_swapped_id = excluded.last_swapped_id, created_at = excluded.created_at, updated_at = excluded.updated_at`,
			plan.Name, plan.ID, plan.CatalogChecksum, plan.LastSwappedID, plan.CreatedAt, plan.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert plan: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM selections WHERE plan_name = ?", plan.Name); err != nil {
			return fmt.Errorf("clear selections: %w", err)
		}

		stmt, err := tx.Prepare("INSERT INTO selections (plan_name, position, concert_id, priority) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, sel := range plan.Selections {
			if _, err := stmt.Exec(plan.Name, i, sel.ID, sel.Priority); err != nil {
				return fmt.Errorf("insert selection %s: %w", sel.ID, err)
			}
		}
		return nil
	})
}

// DeletePlan deletes the plan; its selections cascade.
func (s *SQLiteStateStore) DeletePlan(name string) error {
	if err := s.fs.ValidateName(name); err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM plans WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// ListPlans returns all plan names, sorted.
func (s *SQLiteStateStore) ListPlans() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM plans ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database.
func (s *SQLiteStateStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStateStore) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
