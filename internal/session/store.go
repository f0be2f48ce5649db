// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session persists research sessions in SQLite and serves the
// research history: lookup, listing, full-text search, and export.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/knowtree/pkg/types"
)

const (
	defaultDBFile    = "knowtree.db"
	defaultListLimit = 20
)

// Store manages the session SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the session database at cfg.Path, creating
// the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBFile
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			tree TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS expansions (
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			subtopic TEXT NOT NULL,
			expansion TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(session_id, subtopic)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expansions_session_id ON expansions(session_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='sessions_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE sessions_fts USING fts5(topic, tree, content=sessions, content_rowid=rowid)`,
			`CREATE TRIGGER sessions_ai AFTER INSERT ON sessions BEGIN
				INSERT INTO sessions_fts(rowid, topic, tree) VALUES (new.rowid, new.topic, new.tree);
			END`,
			`CREATE TRIGGER sessions_ad AFTER DELETE ON sessions BEGIN
				INSERT INTO sessions_fts(sessions_fts, rowid, topic, tree) VALUES('delete', old.rowid, old.topic, old.tree);
			END`,
			`CREATE TRIGGER sessions_au AFTER UPDATE ON sessions BEGIN
				INSERT INTO sessions_fts(sessions_fts, rowid, topic, tree) VALUES('delete', old.rowid, old.topic, old.tree);
				INSERT INTO sessions_fts(rowid, topic, tree) VALUES (new.rowid, new.topic, new.tree);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Save writes a session and its expansions. A session without an ID is
// assigned a fresh UUID and creation time; UpdatedAt is always set to now.
// Existing expansions for the session are replaced by the session's map.
func (s *Store) Save(ctx context.Context, sess *types.Session) error {
	now := time.Now().UTC()
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now

	treeJSON, err := json.Marshal(sess.Tree)
	if err != nil {
		return fmt.Errorf("marshaling tree: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, topic, tree, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			topic=excluded.topic, tree=excluded.tree, updated_at=excluded.updated_at`,
		sess.ID, sess.Topic, string(treeJSON),
		sess.CreatedAt.Format(time.RFC3339Nano), sess.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expansions WHERE session_id = ?`, sess.ID); err != nil {
		return fmt.Errorf("deleting old expansions: %w", err)
	}

	for subtopic, exp := range sess.Expansions {
		expJSON, err := json.Marshal(exp)
		if err != nil {
			return fmt.Errorf("marshaling expansion %q: %w", subtopic, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expansions (session_id, subtopic, expansion, created_at) VALUES (?, ?, ?, ?)`,
			sess.ID, subtopic, string(expJSON), now.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("inserting expansion %q: %w", subtopic, err)
		}
	}

	return tx.Commit()
}

// Get loads a session and its expansions by ID.
func (s *Store) Get(ctx context.Context, id string) (*types.Session, error) {
	var (
		sess             types.Session
		treeJSON         string
		created, updated string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, topic, tree, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Topic, &treeJSON, &created, &updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s not found", id)
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	if err := json.Unmarshal([]byte(treeJSON), &sess.Tree); err != nil {
		return nil, fmt.Errorf("decoding tree: %w", err)
	}
	if sess.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if sess.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT subtopic, expansion FROM expansions WHERE session_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("loading expansions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var subtopic, expJSON string
		if err := rows.Scan(&subtopic, &expJSON); err != nil {
			return nil, fmt.Errorf("scanning expansion: %w", err)
		}
		var exp types.ExpandedSubtopic
		if err := json.Unmarshal([]byte(expJSON), &exp); err != nil {
			return nil, fmt.Errorf("decoding expansion %q: %w", subtopic, err)
		}
		if sess.Expansions == nil {
			sess.Expansions = make(map[string]types.ExpandedSubtopic)
		}
		sess.Expansions[subtopic] = exp
	}

	return &sess, rows.Err()
}

// Latest loads the most recently updated session.
func (s *Store) Latest(ctx context.Context) (*types.Session, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM sessions ORDER BY updated_at DESC, rowid DESC LIMIT 1`,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no sessions saved")
		}
		return nil, fmt.Errorf("finding latest session: %w", err)
	}
	return s.Get(ctx, id)
}

// Info is a summary row for session listings.
type Info struct {
	ID         string
	Topic      string
	Expansions int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// List returns session summaries, most recently updated first. A limit of
// zero or less uses the default (20).
func (s *Store) List(ctx context.Context, limit int) ([]Info, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.topic, s.created_at, s.updated_at,
			(SELECT count(*) FROM expansions e WHERE e.session_id = s.id)
		FROM sessions s
		ORDER BY s.updated_at DESC, s.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	return scanInfos(rows)
}

// Search runs a full-text query over session topics and tree text,
// ranked by relevance.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Info, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.topic, s.created_at, s.updated_at,
			(SELECT count(*) FROM expansions e WHERE e.session_id = s.id)
		FROM sessions_fts
		JOIN sessions s ON s.rowid = sessions_fts.rowid
		WHERE sessions_fts MATCH ?
		ORDER BY sessions_fts.rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching sessions: %w", err)
	}
	defer rows.Close()

	return scanInfos(rows)
}

// Delete removes a session; its expansions go with it via cascade.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

func scanInfos(rows *sql.Rows) ([]Info, error) {
	var infos []Info
	for rows.Next() {
		var (
			info             Info
			created, updated string
		)
		if err := rows.Scan(&info.ID, &info.Topic, &created, &updated, &info.Expansions); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var err error
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if info.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
