// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/his-registry/auth"
	"github.com/danielhkuo/his-registry/models"
)

// CreateVisit appends a visit record for a client in a program
func (s *Store) CreateVisit(ctx context.Context, actor auth.Actor, req models.CreateVisitRequest) (models.Visit, error) {
	if err := requireActor(actor); err != nil {
		return models.Visit{}, err
	}
	if err := req.Normalize(); err != nil {
		return models.Visit{}, validationError(err)
	}

	programID := req.ProgramID
	visit := models.Visit{
		ClientID:  req.ClientID,
		ProgramID: &programID,
		Date:      req.Date,
		Doctor:    req.Doctor,
		Purpose:   req.Purpose,
		CreatedAt: s.timestamp(),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireParents(ctx, tx, req.ClientID, req.ProgramID); err != nil {
			return err
		}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO visits (client_id, program_id, date, doctor, purpose, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, visit.ClientID, visit.ProgramID, visit.Date, visit.Doctor, visit.Purpose, visit.CreatedAt).Scan(&visit.ID)
		if err != nil {
			return fmt.Errorf("insert visit: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Visit{}, err
	}
	return visit, nil
}

// CreateNote appends a note written by actor. The program is optional.
func (s *Store) CreateNote(ctx context.Context, actor auth.Actor, req models.CreateNoteRequest) (models.Note, error) {
	if err := requireActor(actor); err != nil {
		return models.Note{}, err
	}
	if err := req.Normalize(); err != nil {
		return models.Note{}, validationError(err)
	}

	author := actor.Name
	if author == "" {
		author = actor.Username
	}
	note := models.Note{
		ClientID:  req.ClientID,
		ProgramID: req.ProgramID,
		Content:   req.Content,
		CreatedBy: author,
		CreatedAt: s.timestamp(),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if req.ProgramID != nil {
			if err := requireParents(ctx, tx, req.ClientID, *req.ProgramID); err != nil {
				return err
			}
		} else if _, err := getClient(ctx, tx, req.ClientID); err != nil {
			return err
		}

		err := tx.QueryRowContext(ctx, `
			INSERT INTO notes (client_id, program_id, content, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, note.ClientID, note.ProgramID, note.Content, note.CreatedBy, note.CreatedAt).Scan(&note.ID)
		if err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// nullableProgram scans the columns of a LEFT JOINed program
type nullableProgram struct {
	id          sql.NullInt64
	name        sql.NullString
	code        sql.NullString
	description sql.NullString
	info        sql.NullString
	createdAt   sql.NullTime
}

func (n *nullableProgram) dest() []any {
	return []any{&n.id, &n.name, &n.code, &n.description, &n.info, &n.createdAt}
}

func (n *nullableProgram) program() (*models.Program, error) {
	if !n.id.Valid {
		return nil, nil
	}
	tags, err := decodeRequiredInfo(n.info.String)
	if err != nil {
		return nil, err
	}
	return &models.Program{
		ID:           n.id.Int64,
		Name:         n.name.String,
		Code:         n.code.String,
		Description:  n.description.String,
		RequiredInfo: tags,
		CreatedAt:    n.createdAt.Time,
	}, nil
}

func visitsWithPrograms(ctx context.Context, q querier, clientID int64) ([]models.VisitWithProgram, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT v.id, v.client_id, v.program_id, v.date, v.doctor, v.purpose, v.created_at,
		       p.id, p.name, p.code, p.description, p.required_info, p.created_at
		FROM visits v
		LEFT JOIN programs p ON p.id = v.program_id
		WHERE v.client_id = $1
		ORDER BY v.date DESC, v.id DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("client visits: %w", err)
	}
	defer rows.Close()

	out := []models.VisitWithProgram{}
	for rows.Next() {
		var v models.VisitWithProgram
		var p nullableProgram
		dest := append([]any{&v.ID, &v.ClientID, &v.ProgramID, &v.Date, &v.Doctor, &v.Purpose, &v.CreatedAt}, p.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("client visits: %w", err)
		}
		if v.Program, err = p.program(); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("client visits: %w", err)
	}
	return out, nil
}

func notesWithPrograms(ctx context.Context, q querier, clientID int64) ([]models.NoteWithProgram, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT n.id, n.client_id, n.program_id, n.content, n.created_by, n.created_at,
		       p.id, p.name, p.code, p.description, p.required_info, p.created_at
		FROM notes n
		LEFT JOIN programs p ON p.id = n.program_id
		WHERE n.client_id = $1
		ORDER BY n.created_at DESC, n.id DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("client notes: %w", err)
	}
	defer rows.Close()

	out := []models.NoteWithProgram{}
	for rows.Next() {
		var n models.NoteWithProgram
		var p nullableProgram
		dest := append([]any{&n.ID, &n.ClientID, &n.ProgramID, &n.Content, &n.CreatedBy, &n.CreatedAt}, p.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("client notes: %w", err)
		}
		if n.Program, err = p.program(); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("client notes: %w", err)
	}
	return out, nil
}
