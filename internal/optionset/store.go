package optionset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ffjob/internal/job"
)

// Store persists option sets in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to (or creates) the option-set database at path and applies
// pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("option set database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put inserts or replaces a set. CreatedAt is preserved across updates.
func (s *Store) Put(ctx context.Context, set Set) (*Set, error) {
	name, err := NormalizeName(set.Name)
	if err != nil {
		return nil, err
	}
	if set.Options == nil {
		set.Options = job.Options{}
	}
	if err := set.Options.Check(); err != nil {
		return nil, fmt.Errorf("option set %q: %w", name, err)
	}
	payload, err := set.Options.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO option_sets (name, description, options_json, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET
             description = excluded.description,
             options_json = excluded.options_json,
             updated_at = excluded.updated_at`,
		name,
		nullableString(set.Description),
		string(payload),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("put option set: %w", err)
	}
	return s.Get(ctx, name)
}

// Get returns the named set or an error wrapping services.ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (*Set, error) {
	name = strings.TrimSpace(name)
	row := s.db.QueryRowContext(ctx, `SELECT `+setColumns+` FROM option_sets WHERE name = ?`, name)
	set, err := scanSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("get option set: %w", err)
	}
	return set, nil
}

// List returns every set ordered by name.
func (s *Store) List(ctx context.Context) ([]*Set, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+setColumns+` FROM option_sets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list option sets: %w", err)
	}
	defer rows.Close()

	var sets []*Set
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// Delete removes the named set.
func (s *Store) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	res, err := s.db.ExecContext(ctx, `DELETE FROM option_sets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete option set: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound(name)
	}
	return nil
}

// Resolve satisfies job.Resolver.
func (s *Store) Resolve(ctx context.Context, name string) (job.Options, error) {
	set, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return set.Options, nil
}

const setColumns = `name, description, options_json, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSet(row scanner) (*Set, error) {
	var (
		set         Set
		description sql.NullString
		optionsJSON string
		createdAt   string
		updatedAt   string
	)
	if err := row.Scan(&set.Name, &description, &optionsJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	set.Description = description.String

	opts, err := job.ParseOptions([]byte(optionsJSON))
	if err != nil {
		return nil, fmt.Errorf("decode option set %q: %w", set.Name, err)
	}
	set.Options = opts
	set.CreatedAt = parseTime(createdAt)
	set.UpdatedAt = parseTime(updatedAt)
	return &set, nil
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func nullableString(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}
