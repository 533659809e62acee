// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Prefix starts every generated client ID.
const Prefix = "HIS"

// ClientSequence is the sequences row that numbers clients.
const ClientSequence = "client"

var ErrSequenceMissing = errors.New("client sequence row missing")

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Generator hands out client IDs. Implementations must never return the
// same ID twice for the same store.
type Generator interface {
	NextClientID(ctx context.Context, q Querier) (string, error)
}

// Format renders HIS-<year>-<seq>, with seq zero-padded to three digits.
func Format(year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", Prefix, year, seq)
}

// SequenceGenerator increments a database counter to number clients.
// Run it on the same transaction as the insert that uses the ID.
type SequenceGenerator struct {
	Now func() time.Time
}

// NewSequenceGenerator takes the clock used for the year; nil means time.Now.
func NewSequenceGenerator(now func() time.Time) *SequenceGenerator {
	if now == nil {
		now = time.Now
	}
	return &SequenceGenerator{Now: now}
}

// NextClientID bumps the client counter and formats the result with the current year.
// The single UPDATE ... RETURNING is atomic, so concurrent callers never share a value.
func (g *SequenceGenerator) NextClientID(ctx context.Context, q Querier) (string, error) {
	var seq int64
	err := q.QueryRowContext(ctx, `
		UPDATE sequences SET value = value + 1
		WHERE name = $1
		RETURNING value
	`, ClientSequence).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSequenceMissing
	}
	if err != nil {
		return "", fmt.Errorf("next client sequence: %w", err)
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return Format(now().Year(), int(seq)), nil
}
