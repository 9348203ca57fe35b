package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"postag/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS tokens (
	run_id      TEXT    NOT NULL,
	doc_id      INTEGER NOT NULL,
	sentence_id INTEGER NOT NULL,
	token_id    INTEGER NOT NULL,
	token       TEXT    NOT NULL,
	pos         TEXT    NOT NULL,
	subtype     TEXT    NOT NULL,
	analytic    TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tokens_run_doc ON tokens(run_id, doc_id, sentence_id, token_id);
`

// SQLite appends tabular rows to a tokens table.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("export: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("export: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("export: enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("export: schema: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

// WriteTable inserts every row of t under runID in one transaction.
func (s *SQLite) WriteTable(ctx context.Context, runID string, t *model.Table) error {
	if t == nil {
		return fmt.Errorf("export: sqlite needs tabular output")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("export: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tokens (run_id, doc_id, sentence_id, token_id, token, pos, subtype, analytic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("export: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range t.Rows {
		if _, err := stmt.ExecContext(ctx, runID, r.DocID, r.SentenceID, r.TokenID, r.Token, r.POS, r.Subtype, r.Analytic); err != nil {
			return fmt.Errorf("export: insert doc %d token %d: %w", r.DocID, r.TokenID, err)
		}
	}
	return tx.Commit()
}

// Rows reads back the rows stored under runID in table order.
func (s *SQLite) Rows(ctx context.Context, runID string) ([]model.TabularRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, sentence_id, token_id, token, pos, subtype, analytic
		FROM tokens WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TabularRow
	for rows.Next() {
		var r model.TabularRow
		if err := rows.Scan(&r.DocID, &r.SentenceID, &r.TokenID, &r.Token, &r.POS, &r.Subtype, &r.Analytic); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
