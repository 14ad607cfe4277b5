//go:build !wasm

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/praetorian-inc/linepos/pkg/lineindex"
	"github.com/praetorian-inc/linepos/pkg/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows one writer; serialize through a single connection.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Put stores the index for a document.
func (s *SQLiteStore) Put(id types.DocumentID, idx *lineindex.Index) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT OR IGNORE INTO documents (id, size, ending) VALUES (?, ?, ?)",
		id.Hex(), idx.Len(), idx.Ending().String(),
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Already stored
		return nil
	}

	stmt, err := tx.Prepare("INSERT INTO lines (document_id, line, start_offset, end_offset) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing line insert: %w", err)
	}
	defer stmt.Close()

	for i, span := range idx.Spans() {
		if _, err := stmt.Exec(id.Hex(), i+1, span.Start, span.End); err != nil {
			return fmt.Errorf("inserting line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing document: %w", err)
	}
	return nil
}

// Get retrieves the index for a document.
func (s *SQLiteStore) Get(id types.DocumentID) (*lineindex.Index, error) {
	var size int
	var endingName string
	err := s.db.QueryRow("SELECT size, ending FROM documents WHERE id = ?", id.Hex()).Scan(&size, &endingName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}

	ending, err := lineindex.ParseEnding(endingName)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}

	rows, err := s.db.Query(`
		SELECT start_offset, end_offset
		FROM lines
		WHERE document_id = ?
		ORDER BY line
	`, id.Hex())
	if err != nil {
		return nil, fmt.Errorf("querying lines: %w", err)
	}
	defer rows.Close()

	var spans []lineindex.Span
	for rows.Next() {
		var span lineindex.Span
		if err := rows.Scan(&span.Start, &span.End); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		spans = append(spans, span)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lines: %w", err)
	}

	idx, err := lineindex.FromSpans(spans, ending)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	if idx.Len() != size {
		return nil, fmt.Errorf("document %s: %w: lines cover %d bytes, want %d", id, lineindex.ErrInvalidSpans, idx.Len(), size)
	}

	return idx, nil
}

// Exists checks if an index is stored for a document.
func (s *SQLiteStore) Exists(id types.DocumentID) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM documents WHERE id = ?", id.Hex()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking document: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of stored documents.
func (s *SQLiteStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
