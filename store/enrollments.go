// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/his-registry/auth"
	"github.com/danielhkuo/his-registry/models"
)

const enrollmentColumns = `e.id, e.client_id, e.program_id, e.enroll_date, e.notes, e.status,
	e.symptom_severity, e.risk_level, e.follow_up_required, e.created_at`

func enrollmentDest(e *models.Enrollment) []any {
	return []any{
		&e.ID, &e.ClientID, &e.ProgramID, &e.EnrollDate, &e.Notes, &e.Status,
		&e.SymptomSeverity, &e.RiskLevel, &e.FollowUpRequired, &e.CreatedAt,
	}
}

func getEnrollment(ctx context.Context, q querier, id int64) (models.Enrollment, error) {
	var e models.Enrollment
	err := q.QueryRowContext(ctx, `SELECT `+enrollmentColumns+` FROM enrollments e WHERE e.id = $1`, id).
		Scan(enrollmentDest(&e)...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Enrollment{}, notFound("enrollment %d not found", id)
	}
	if err != nil {
		return models.Enrollment{}, fmt.Errorf("get enrollment: %w", err)
	}
	return e, nil
}

// requireParents reports which parent of a client/program reference is missing
func requireParents(ctx context.Context, q querier, clientID, programID int64) error {
	found, err := exists(ctx, q, `SELECT 1 FROM clients WHERE id = $1`, clientID)
	if err != nil {
		return fmt.Errorf("check client: %w", err)
	}
	if !found {
		return notFound("client %d not found", clientID)
	}

	found, err = exists(ctx, q, `SELECT 1 FROM programs WHERE id = $1`, programID)
	if err != nil {
		return fmt.Errorf("check program: %w", err)
	}
	if !found {
		return notFound("program %d not found", programID)
	}
	return nil
}

// CreateEnrollment enrolls a client in a program.
// The (client, program) unique constraint decides duplicates; its violation
// becomes a conflict and the existing enrollment is left as it was.
func (s *Store) CreateEnrollment(ctx context.Context, actor auth.Actor, req models.CreateEnrollmentRequest) (models.Enrollment, error) {
	if err := requireActor(actor); err != nil {
		return models.Enrollment{}, err
	}
	if err := req.Normalize(s.now()); err != nil {
		return models.Enrollment{}, validationError(err)
	}

	var enrollment models.Enrollment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireParents(ctx, tx, req.ClientID, req.ProgramID); err != nil {
			return err
		}

		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO enrollments
			(client_id, program_id, enroll_date, notes, status, symptom_severity, risk_level, follow_up_required, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`, req.ClientID, req.ProgramID, req.EnrollDate, req.Notes, req.Status,
			req.SymptomSeverity, req.RiskLevel, req.FollowUpRequired, s.timestamp()).Scan(&id)
		if isUniqueViolation(err) {
			return conflict("client already enrolled in program")
		}
		if err != nil {
			return fmt.Errorf("insert enrollment: %w", err)
		}

		enrollment, err = getEnrollment(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}

// DeleteEnrollment unenrolls a client. It reports whether a row was removed;
// a missing enrollment is not an error.
func (s *Store) DeleteEnrollment(ctx context.Context, actor auth.Actor, clientID, programID int64) (bool, error) {
	if err := requireActor(actor); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM enrollments WHERE client_id = $1 AND program_id = $2
	`, clientID, programID)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	return n > 0, nil
}

func (s *Store) ListEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+enrollmentColumns+` FROM enrollments e ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(enrollmentDest(&e)...); err != nil {
			return nil, fmt.Errorf("list enrollments: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// EnrollmentsByClientID returns the client's enrollments, each with its program
func (s *Store) EnrollmentsByClientID(ctx context.Context, clientID int64) ([]models.EnrollmentWithProgram, error) {
	found, err := exists(ctx, s.db, `SELECT 1 FROM clients WHERE id = $1`, clientID)
	if err != nil {
		return nil, fmt.Errorf("check client: %w", err)
	}
	if !found {
		return nil, notFound("client %d not found", clientID)
	}
	return enrollmentsWithPrograms(ctx, s.db, clientID)
}

func enrollmentsWithPrograms(ctx context.Context, q querier, clientID int64) ([]models.EnrollmentWithProgram, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+enrollmentColumns+`,
		       p.id, p.name, p.code, p.description, p.required_info, p.created_at
		FROM enrollments e
		JOIN programs p ON p.id = e.program_id
		WHERE e.client_id = $1
		ORDER BY e.id
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("client enrollments: %w", err)
	}
	defer rows.Close()

	out := []models.EnrollmentWithProgram{}
	for rows.Next() {
		var ep models.EnrollmentWithProgram
		var info string
		dest := append(enrollmentDest(&ep.Enrollment),
			&ep.Program.ID, &ep.Program.Name, &ep.Program.Code, &ep.Program.Description, &info, &ep.Program.CreatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("client enrollments: %w", err)
		}
		if ep.Program.RequiredInfo, err = decodeRequiredInfo(info); err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("client enrollments: %w", err)
	}
	return out, nil
}
