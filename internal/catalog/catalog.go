package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS compile_runs (
    run_id      TEXT PRIMARY KEY,
    doc_id      TEXT NOT NULL,
    rule_id     TEXT NOT NULL,
    v_size      INTEGER NOT NULL,
    p_size      INTEGER NOT NULL,
    states      INTEGER NOT NULL,
    arcs        INTEGER NOT NULL,
    att_path    TEXT NOT NULL,
    symtab_path TEXT NOT NULL,
    created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_compile_runs_rule ON compile_runs (doc_id, rule_id);
`

// Entry is one recorded compilation.
type Entry struct {
	RunID      string `json:"run_id"`
	DocID      string `json:"doc_id"`
	RuleID     string `json:"rule_id"`
	VSize      int    `json:"v_size"`
	PSize      int    `json:"p_size"`
	States     int    `json:"states"`
	Arcs       int    `json:"arcs"`
	ATTPath    string `json:"att_path"`
	SymtabPath string `json:"symtab_path"`
	CreatedAt  string `json:"created_at"`
}

// Catalog provides durable storage for compile records.
type Catalog struct {
	db *sql.DB
}

// Open creates or opens the catalog database at path. SQLite supports one
// writer at a time; the pool is pinned to a single connection so this
// process never contends with itself, and busy_timeout makes it wait for
// writers in other processes instead of failing with SQLITE_BUSY.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Record inserts a compile entry and returns it with a fresh run id and
// timestamp filled in.
func (c *Catalog) Record(ctx context.Context, e Entry) (Entry, error) {
	e.RunID = uuid.NewString()
	e.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO compile_runs
		(run_id, doc_id, rule_id, v_size, p_size, states, arcs, att_path, symtab_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.RunID, e.DocID, e.RuleID, e.VSize, e.PSize,
		e.States, e.Arcs, e.ATTPath, e.SymtabPath, e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record compile run: %w", err)
	}
	return e, nil
}

// List returns all entries, newest first.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT run_id, doc_id, rule_id, v_size, p_size, states, arcs, att_path, symtab_path, created_at
		FROM compile_runs
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list compile runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.RunID, &e.DocID, &e.RuleID, &e.VSize, &e.PSize,
			&e.States, &e.Arcs, &e.ATTPath, &e.SymtabPath, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan compile run: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry by run id.
func (c *Catalog) Get(ctx context.Context, runID string) (Entry, error) {
	var e Entry
	err := c.db.QueryRowContext(ctx, `
		SELECT run_id, doc_id, rule_id, v_size, p_size, states, arcs, att_path, symtab_path, created_at
		FROM compile_runs WHERE run_id = ?
	`, runID).Scan(
		&e.RunID, &e.DocID, &e.RuleID, &e.VSize, &e.PSize,
		&e.States, &e.Arcs, &e.ATTPath, &e.SymtabPath, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return Entry{}, fmt.Errorf("no compile run %s", runID)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get compile run: %w", err)
	}
	return e, nil
}
