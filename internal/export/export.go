// Package export writes a scan snapshot to a SQLite database so the
// reference graph and risk rows can be queried with plain SQL.
package export

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/doctrace/internal/pipeline"
)

// DefaultPath is where export writes when no path is configured.
const DefaultPath = "reports/doctrace.db"

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite snapshot database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new, unopened store.
func NewStore() *Store {
	return &Store{}
}

// Open opens a connection to the database at path.
// Use ":memory:" for an in-memory database.
func (s *Store) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the snapshot tables.
func (s *Store) InitSchema(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Counts holds the number of rows per snapshot table.
type Counts struct {
	Documents    int `json:"documents"`
	Dependencies int `json:"dependencies"`
	Risks        int `json:"risks"`
	Warnings     int `json:"warnings"`
}

// WriteRun inserts every document, edge, risk row and warning of run in a
// single transaction.
func (s *Store) WriteRun(ctx context.Context, run *pipeline.Run) (Counts, error) {
	var counts Counts
	if s.db == nil {
		return counts, fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, root, exported_at, document_count, warning_count) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Root, time.Now().UTC(), len(run.Documents), len(run.Warnings),
	); err != nil {
		return counts, fmt.Errorf("failed to insert run: %w", err)
	}

	for _, res := range run.Results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (path, key, has_dependencies, has_risk) VALUES (?, ?, ?, ?)`,
			res.Path, res.Key, res.HasDependencies, res.HasRisk,
		); err != nil {
			return counts, fmt.Errorf("failed to insert document %s: %w", res.Path, err)
		}
		counts.Documents++
	}

	position := map[string]int{}
	for _, edge := range run.Graph.Edges() {
		source, target := edge[0], edge[1]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dependencies (source, target, position, dangling) VALUES (?, ?, ?, ?)`,
			source, target, position[source], !run.Graph.HasDocument(target),
		); err != nil {
			return counts, fmt.Errorf("failed to insert dependency %s -> %s: %w", source, target, err)
		}
		position[source]++
		counts.Dependencies++
	}

	for i, row := range run.Risks {
		cells, err := json.Marshal(row.Cells)
		if err != nil {
			return counts, fmt.Errorf("failed to encode cells: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO risks (source, line, position, raw, cells, cell_count) VALUES (?, ?, ?, ?, ?, ?)`,
			row.Source, row.Line, i, row.Raw, string(cells), len(row.Cells),
		); err != nil {
			return counts, fmt.Errorf("failed to insert risk row %s:%d: %w", row.Source, row.Line, err)
		}
		counts.Risks++
	}

	for _, w := range run.Warnings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO warnings (kind, path, line, message) VALUES (?, ?, ?, ?)`,
			string(w.Kind), nullString(w.Path), nullInt(w.Line), w.Message,
		); err != nil {
			return counts, fmt.Errorf("failed to insert warning: %w", err)
		}
		counts.Warnings++
	}

	if err := tx.Commit(); err != nil {
		return counts, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return counts, nil
}

// Export recreates the database at path and writes run into it.
func Export(ctx context.Context, path string, run *pipeline.Run) (Counts, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return Counts{}, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Counts{}, fmt.Errorf("failed to remove existing database: %w", err)
	}

	store := NewStore()
	if err := store.Open(path); err != nil {
		return Counts{}, err
	}
	defer func() { _ = store.Close() }()

	if err := store.InitSchema(ctx); err != nil {
		return Counts{}, err
	}
	return store.WriteRun(ctx, run)
}

// nullString returns a sql.NullString for optional string fields.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
