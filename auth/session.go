// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie set on login
const CookieName = "his.sid"

type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore keeps login sessions in the sessions table
type SessionStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionStore(db *sql.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl, now: time.Now}
}

// TTL is how long new sessions stay valid
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create starts a session for the user and returns it
func (s *SessionStore) Create(ctx context.Context, userID int64) (Session, error) {
	now := s.now().UTC()
	sess := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, sess.Token, sess.UserID, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	return sess, nil
}

// Lookup resolves a session token into the actor it belongs to.
// Expired sessions are removed and reported as ErrSessionExpired.
func (s *SessionStore) Lookup(ctx context.Context, token string) (Actor, error) {
	if _, err := uuid.Parse(token); err != nil {
		return Anonymous, ErrInvalidSession
	}

	var actor Actor
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.name, u.role, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1
	`, token).Scan(&actor.UserID, &actor.Username, &actor.Name, &actor.Role, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Anonymous, ErrInvalidSession
	}
	if err != nil {
		return Anonymous, fmt.Errorf("lookup session: %w", err)
	}

	if !s.now().Before(expiresAt) {
		if err := s.Delete(ctx, token); err != nil {
			slog.Error("failed to remove expired session", "error", err)
		}
		return Anonymous, ErrSessionExpired
	}

	return actor, nil
}

// Delete ends a session. Deleting an unknown token is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
