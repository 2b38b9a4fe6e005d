package broker

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/warrenZY/folderpad/internal/model"
)

// SQLiteRegistry implements Registry using a SQLite database.
type SQLiteRegistry struct {
	db   *sql.DB
	path string
}

// NewSQLiteRegistry creates a SQLiteRegistry with the given database path.
func NewSQLiteRegistry(path string) (*SQLiteRegistry, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Set pragmas for durability and concurrent readers
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	r := &SQLiteRegistry{db: db, path: path}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

// Path returns the database file path.
func (r *SQLiteRegistry) Path() string {
	return r.path
}

// Close closes the database connection.
func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}

// migrate runs database migrations.
func (r *SQLiteRegistry) migrate() error {
	// Check current schema version
	var version int
	err := r.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := r.migrateV1(); err != nil {
			return err
		}
	}

	if version < 2 {
		if err := r.migrateV2(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (r *SQLiteRegistry) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS grants (
			token TEXT PRIMARY KEY NOT NULL,
			path TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_grants_path ON grants(path);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := r.db.Exec(schema)
	return err
}

// migrateV2 adds resolved_at for tracking when a grant was last used.
func (r *SQLiteRegistry) migrateV2() error {
	migration := `
		ALTER TABLE grants ADD COLUMN resolved_at TEXT;
		UPDATE schema_version SET version = 2;
	`
	_, err := r.db.Exec(migration)
	return err
}

// Get returns the grant for token, or ErrNotFound.
func (r *SQLiteRegistry) Get(token string) (model.Grant, error) {
	row := r.db.QueryRow(`
		SELECT token, path, created_at, resolved_at
		FROM grants
		WHERE token = ?
	`, token)

	grant, err := scanGrant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Grant{}, fmt.Errorf("%w: %s", ErrNotFound, token)
	}
	return grant, err
}

// Put inserts the grant, replacing any existing record for the same token.
func (r *SQLiteRegistry) Put(grant model.Grant) error {
	var resolvedAt *string
	if grant.ResolvedAt != nil {
		v := grant.ResolvedAt.Format(time.RFC3339)
		resolvedAt = &v
	}

	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO grants (token, path, created_at, resolved_at)
		VALUES (?, ?, ?, ?)
	`, grant.Token, grant.Path, grant.CreatedAt.Format(time.RFC3339), resolvedAt)
	return err
}

// Delete removes the grant for token. Deleting an absent token is a no-op.
func (r *SQLiteRegistry) Delete(token string) error {
	_, err := r.db.Exec("DELETE FROM grants WHERE token = ?", token)
	return err
}

// All returns every grant ordered by creation time.
func (r *SQLiteRegistry) All() ([]model.Grant, error) {
	rows, err := r.db.Query(`
		SELECT token, path, created_at, resolved_at
		FROM grants
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := []model.Grant{}
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}
	return grants, rows.Err()
}

// Touch records that the grant for token was just resolved.
func (r *SQLiteRegistry) Touch(token string) error {
	res, err := r.db.Exec(`
		UPDATE grants SET resolved_at = ? WHERE token = ?
	`, time.Now().Format(time.RFC3339), token)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, token)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGrant(row scanner) (model.Grant, error) {
	var g model.Grant
	var createdAtStr string
	var resolvedAtStr sql.NullString

	if err := row.Scan(&g.Token, &g.Path, &createdAtStr, &resolvedAtStr); err != nil {
		return model.Grant{}, err
	}

	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)

	if resolvedAtStr.Valid {
		t, err := time.Parse(time.RFC3339, resolvedAtStr.String)
		if err == nil {
			g.ResolvedAt = &t
		}
	}

	return g, nil
}
