// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides the authoritative persistence layer for sessions
// and messages.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SCHEMA
// =============================================================================

// schema creates the two record tables. Message rows cascade with their
// owning session.
const schema = `
CREATE TABLE IF NOT EXISTS chat_sessions (
    id         TEXT PRIMARY KEY,
    owner      TEXT NOT NULL,
    title      TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_owner_updated
    ON chat_sessions(owner, updated_at DESC);

CREATE TABLE IF NOT EXISTS chat_messages (
    id         TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
    role       TEXT NOT NULL,
    content    TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session_created
    ON chat_messages(session_id, created_at ASC);
`

// =============================================================================
// SQLITE STORE
// =============================================================================

// SQLiteStore is the SessionStore implementation backed by a local SQLite
// database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and prepares the
// schema.
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &StoreError{Message: "failed to create database directory", Cause: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Message: "failed to open database", Cause: err}
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, &StoreError{Message: "failed to set pragma", Cause: err}
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StoreError{Message: "failed to create schema", Cause: err}
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// ListSessions returns the owner's sessions, most recently updated first.
func (s *SQLiteStore) ListSessions(ctx context.Context, owner string) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, title, created_at, updated_at
		FROM chat_sessions
		WHERE owner = ?
		ORDER BY updated_at DESC`, owner)
	if err != nil {
		return nil, &StoreError{Message: "failed to list sessions", Cause: err}
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var created, updated int64
		if err := rows.Scan(&rec.ID, &rec.Owner, &rec.Title, &created, &updated); err != nil {
			return nil, &StoreError{Message: "failed to scan session row", Cause: err}
		}
		rec.CreatedAt = time.Unix(0, created)
		rec.UpdatedAt = time.Unix(0, updated)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Message: "failed to read session rows", Cause: err}
	}

	return records, nil
}

// InsertSession creates a session and returns the stored record.
func (s *SQLiteStore) InsertSession(ctx context.Context, owner, title string) (SessionRecord, error) {
	now := time.Now()
	rec := SessionRecord{
		ID:        uuid.NewString(),
		Owner:     owner,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, owner, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Owner, rec.Title, now.UnixNano(), now.UnixNano())
	if err != nil {
		return SessionRecord{}, &StoreError{Message: "failed to insert session", Cause: err}
	}

	return rec, nil
}

// UpdateSessionTitle replaces the session title and bumps its updated time.
func (s *SQLiteStore) UpdateSessionTitle(ctx context.Context, id, title string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE chat_sessions SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UnixNano(), id)
	if err != nil {
		return &StoreError{Message: "failed to update session title", Cause: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return &StoreError{Message: "failed to read update result", Cause: err}
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteSession removes the session; its messages cascade.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, id)
	if err != nil {
		return &StoreError{Message: "failed to delete session", Cause: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return &StoreError{Message: "failed to read delete result", Cause: err}
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// =============================================================================
// MESSAGE OPERATIONS
// =============================================================================

// InsertMessage appends a message to a session and bumps the session's
// updated time in the same transaction.
func (s *SQLiteStore) InsertMessage(ctx context.Context, sessionID, role, content string) (MessageRecord, error) {
	now := time.Now()
	rec := MessageRecord{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MessageRecord{}, &StoreError{Message: "failed to begin transaction", Cause: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE chat_sessions SET updated_at = ? WHERE id = ?`,
		now.UnixNano(), sessionID)
	if err != nil {
		return MessageRecord{}, &StoreError{Message: "failed to touch session", Cause: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return MessageRecord{}, &StoreError{Message: "failed to read touch result", Cause: err}
	}
	if affected == 0 {
		return MessageRecord{}, ErrSessionNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Role, rec.Content, now.UnixNano())
	if err != nil {
		return MessageRecord{}, &StoreError{Message: "failed to insert message", Cause: err}
	}

	if err := tx.Commit(); err != nil {
		return MessageRecord{}, &StoreError{Message: "failed to commit message", Cause: err}
	}

	return rec, nil
}

// ListMessages returns every message for the given sessions in one batch,
// oldest first.
func (s *SQLiteStore) ListMessages(ctx context.Context, sessionIDs []string) ([]MessageRecord, error) {
	if len(sessionIDs) == 0 {
		return []MessageRecord{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sessionIDs)), ",")
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, session_id, role, content, created_at
		FROM chat_messages
		WHERE session_id IN (%s)
		ORDER BY created_at ASC`, placeholders)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StoreError{Message: "failed to list messages", Cause: err}
	}
	defer rows.Close()

	var records []MessageRecord
	for rows.Next() {
		var rec MessageRecord
		var created int64
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Role, &rec.Content, &created); err != nil {
			return nil, &StoreError{Message: "failed to scan message row", Cause: err}
		}
		rec.CreatedAt = time.Unix(0, created)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Message: "failed to read message rows", Cause: err}
	}

	return records, nil
}
