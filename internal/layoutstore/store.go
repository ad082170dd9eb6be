// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/layoutstore/store.go
// Summary: SQLite-backed persistence for SessionManifest, the
// persisted layout/session store, a session-serialization feature
// beyond what the distilled baseline names.
//
// Grounded on apps/texelterm/parser/search_index.go's SQLiteSearchIndex:
// same WAL-mode DSN pragmas, same schema-as-a-const-string-executed-
// once-at-open pattern, same "wrap multi-row writes in one
// transaction" discipline. Unlike search_index.go this store has no
// background batching — session saves are infrequent, synchronous
// writes are the right shape here.
package layoutstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/framegrace/texelation-core/internal/registry"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	global_cwd    TEXT NOT NULL DEFAULT '',
	default_shell TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tabs (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id          TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	position            INTEGER NOT NULL,
	name                TEXT NOT NULL,
	is_active           INTEGER NOT NULL DEFAULT 0,
	hide_floating_panes INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_tabs_session ON tabs(session_id);

CREATE TABLE IF NOT EXISTS panes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	tab_id      INTEGER NOT NULL REFERENCES tabs(id) ON DELETE CASCADE,
	floating    INTEGER NOT NULL,
	pane_kind   INTEGER NOT NULL,
	pane_num    INTEGER NOT NULL,
	x INTEGER, y INTEGER, cols INTEGER, rows INTEGER,
	is_stacked  INTEGER NOT NULL DEFAULT 0,
	is_pinned   INTEGER NOT NULL DEFAULT 0,
	run_json    TEXT NOT NULL DEFAULT '{}',
	title       TEXT NOT NULL DEFAULT '',
	is_focused  INTEGER NOT NULL DEFAULT 0,
	held        INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_panes_tab ON panes(tab_id);

CREATE TABLE IF NOT EXISTS client_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	client_id  INTEGER NOT NULL,
	tab_index  INTEGER NOT NULL,
	recorded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_client ON client_history(session_id, client_id, id);
`

// Store persists SessionManifests to a SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the database at path, applying
// the same WAL/synchronous/foreign_keys pragmas search_index.go uses for an
// embedded single-process store.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("layoutstore: create directory: %w", err)
		}
	}
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(ON)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("layoutstore: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("layoutstore: connect: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("layoutstore: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Save persists m, replacing any prior session with the same ID.
func (s *Store) Save(m SessionManifest) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("layoutstore: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions WHERE id = ?", m.ID); err != nil {
		return fmt.Errorf("layoutstore: clear prior session: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO sessions (id, name, global_cwd, default_shell) VALUES (?, ?, ?, ?)",
		m.ID, m.Name, m.GlobalCwd, m.DefaultShell,
	); err != nil {
		return fmt.Errorf("layoutstore: insert session: %w", err)
	}

	for pos, tab := range m.Tabs {
		res, err := tx.Exec(
			"INSERT INTO tabs (session_id, position, name, is_active, hide_floating_panes) VALUES (?, ?, ?, ?, ?)",
			m.ID, pos, tab.Name, boolToInt(tab.IsActive), boolToInt(tab.HideFloatingPanes),
		)
		if err != nil {
			return fmt.Errorf("layoutstore: insert tab %q: %w", tab.Name, err)
		}
		tabID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("layoutstore: read tab id: %w", err)
		}
		if err := insertPanes(tx, tabID, tab.TiledPanes, false); err != nil {
			return err
		}
		if err := insertPanes(tx, tabID, tab.FloatingPanes, true); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertPanes(tx *sql.Tx, tabID int64, panes []PaneManifest, floating bool) error {
	for _, p := range panes {
		runJSON, err := json.Marshal(p.Run)
		if err != nil {
			return fmt.Errorf("layoutstore: marshal run location: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO panes
				(tab_id, floating, pane_kind, pane_num, x, y, cols, rows, is_stacked, is_pinned, run_json, title, is_focused, held)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tabID, boolToInt(floating), int(p.Kind), p.Num,
			p.Geom.X, p.Geom.Y, p.Geom.Cols, p.Geom.Rows,
			boolToInt(p.Geom.IsStacked), boolToInt(p.Geom.IsPinned),
			string(runJSON), p.Title, boolToInt(p.IsFocused), boolToInt(p.Held),
		)
		if err != nil {
			return fmt.Errorf("layoutstore: insert pane %d: %w", p.Num, err)
		}
	}
	return nil
}

// Load reconstructs a SessionManifest by id. Returns sql.ErrNoRows if
// no session with that id exists.
func (s *Store) Load(id string) (SessionManifest, error) {
	var m SessionManifest
	m.ID = id
	err := s.db.QueryRow(
		"SELECT name, global_cwd, default_shell FROM sessions WHERE id = ?", id,
	).Scan(&m.Name, &m.GlobalCwd, &m.DefaultShell)
	if err != nil {
		return SessionManifest{}, err
	}

	tabRows, err := s.db.Query(
		"SELECT id, name, is_active, hide_floating_panes FROM tabs WHERE session_id = ? ORDER BY position ASC", id,
	)
	if err != nil {
		return SessionManifest{}, fmt.Errorf("layoutstore: query tabs: %w", err)
	}
	defer tabRows.Close()

	type tabRow struct {
		id       int64
		tab      TabManifest
	}
	var rows []tabRow
	for tabRows.Next() {
		var tr tabRow
		var isActive, hideFloating int
		if err := tabRows.Scan(&tr.id, &tr.tab.Name, &isActive, &hideFloating); err != nil {
			return SessionManifest{}, fmt.Errorf("layoutstore: scan tab: %w", err)
		}
		tr.tab.IsActive = isActive != 0
		tr.tab.HideFloatingPanes = hideFloating != 0
		rows = append(rows, tr)
	}
	if err := tabRows.Err(); err != nil {
		return SessionManifest{}, err
	}

	for i := range rows {
		tiled, floating, err := s.loadPanes(rows[i].id)
		if err != nil {
			return SessionManifest{}, err
		}
		rows[i].tab.TiledPanes = tiled
		rows[i].tab.FloatingPanes = floating
		m.Tabs = append(m.Tabs, rows[i].tab)
	}
	return m, nil
}

func (s *Store) loadPanes(tabID int64) (tiled, floating []PaneManifest, err error) {
	rows, err := s.db.Query(
		`SELECT floating, pane_kind, pane_num, x, y, cols, rows, is_stacked, is_pinned, run_json, title, is_focused, held
		FROM panes WHERE tab_id = ? ORDER BY id ASC`, tabID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("layoutstore: query panes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var isFloat, kind, stacked, pinned, focused, held int
		var runJSON string
		var p PaneManifest
		if err := rows.Scan(&isFloat, &kind, &p.Num, &p.Geom.X, &p.Geom.Y, &p.Geom.Cols, &p.Geom.Rows,
			&stacked, &pinned, &runJSON, &p.Title, &focused, &held); err != nil {
			return nil, nil, fmt.Errorf("layoutstore: scan pane: %w", err)
		}
		p.Kind = paneKindFromInt(kind)
		p.Geom.IsStacked = stacked != 0
		p.Geom.IsPinned = pinned != 0
		p.IsFocused = focused != 0
		p.Held = held != 0
		if err := json.Unmarshal([]byte(runJSON), &p.Run); err != nil {
			return nil, nil, fmt.Errorf("layoutstore: unmarshal run location: %w", err)
		}
		if isFloat != 0 {
			floating = append(floating, p)
		} else {
			tiled = append(tiled, p)
		}
	}
	return tiled, floating, rows.Err()
}

// List returns the id and name of every persisted session, newest
// insertion order undefined (SQLite rowid order).
func (s *Store) List() ([]SessionInfo, error) {
	rows, err := s.db.Query("SELECT id, name FROM sessions")
	if err != nil {
		return nil, fmt.Errorf("layoutstore: list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.Name); err != nil {
			return nil, fmt.Errorf("layoutstore: scan session: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a persisted session and all of its tabs/panes/history.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// RecordActiveTab appends one entry to a client's active-tab history
// for session id, the detail session_serialization.rs's per-client
// "focused tab" bookkeeping implies but never spells out on its own.
func (s *Store) RecordActiveTab(sessionID string, client registry.ClientID, tabIndex int, recordedAtUnix int64) error {
	_, err := s.db.Exec(
		"INSERT INTO client_history (session_id, client_id, tab_index, recorded_at) VALUES (?, ?, ?, ?)",
		sessionID, uint32(client), tabIndex, recordedAtUnix,
	)
	return err
}

// ActiveTabHistory returns up to limit of a client's most recent
// recorded active-tab indices for session id, newest first.
func (s *Store) ActiveTabHistory(sessionID string, client registry.ClientID, limit int) ([]int, error) {
	rows, err := s.db.Query(
		`SELECT tab_index FROM client_history
		WHERE session_id = ? AND client_id = ?
		ORDER BY id DESC LIMIT ?`,
		sessionID, uint32(client), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("layoutstore: query history: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("layoutstore: scan history: %w", err)
		}
		out = append(out, idx)
	}
	return out, rows.Err()
}

// SessionInfo is the lightweight row List returns.
type SessionInfo struct {
	ID   string
	Name string
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
