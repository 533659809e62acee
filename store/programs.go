// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/his-registry/auth"
	"github.com/danielhkuo/his-registry/models"
)

const programColumns = `id, name, code, description, required_info, created_at`

func scanProgram(sc scanner) (models.Program, error) {
	var p models.Program
	var info string
	if err := sc.Scan(&p.ID, &p.Name, &p.Code, &p.Description, &info, &p.CreatedAt); err != nil {
		return models.Program{}, err
	}
	tags, err := decodeRequiredInfo(info)
	if err != nil {
		return models.Program{}, err
	}
	p.RequiredInfo = tags
	return p, nil
}

func encodeRequiredInfo(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode required info: %w", err)
	}
	return string(b), nil
}

func decodeRequiredInfo(raw string) ([]string, error) {
	tags := []string{}
	if raw == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode required info: %w", err)
	}
	return tags, nil
}

func getProgram(ctx context.Context, q querier, id int64) (models.Program, error) {
	p, err := scanProgram(q.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Program{}, notFound("program %d not found", id)
	}
	if err != nil {
		return models.Program{}, fmt.Errorf("get program: %w", err)
	}
	return p, nil
}

// CreateProgram stores a program with its code upper-cased.
// Duplicate codes are reported before the insert so the message names the code.
func (s *Store) CreateProgram(ctx context.Context, actor auth.Actor, req models.CreateProgramRequest) (models.Program, error) {
	if err := requireActor(actor); err != nil {
		return models.Program{}, err
	}
	if err := req.Normalize(); err != nil {
		return models.Program{}, validationError(err)
	}

	info, err := encodeRequiredInfo(req.RequiredInfo)
	if err != nil {
		return models.Program{}, err
	}

	var program models.Program
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := exists(ctx, tx, `SELECT 1 FROM programs WHERE code = $1`, req.Code)
		if err != nil {
			return fmt.Errorf("check program code: %w", err)
		}
		if taken {
			return conflict("program code %s already exists", req.Code)
		}

		var id int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO programs (name, code, description, required_info, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, req.Name, req.Code, req.Description, info, s.timestamp()).Scan(&id)
		if isUniqueViolation(err) {
			return conflict("program code %s already exists", req.Code)
		}
		if err != nil {
			return fmt.Errorf("insert program: %w", err)
		}

		program, err = getProgram(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Program{}, err
	}
	return program, nil
}

func (s *Store) GetProgram(ctx context.Context, id int64) (models.Program, error) {
	return getProgram(ctx, s.db, id)
}

func (s *Store) ListPrograms(ctx context.Context) ([]models.Program, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+programColumns+` FROM programs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	programs := []models.Program{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("list programs: %w", err)
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// UpdateProgram applies the fields present in patch.
// A new code is normalized and must not belong to another program.
func (s *Store) UpdateProgram(ctx context.Context, actor auth.Actor, id int64, patch models.ProgramPatch) (models.Program, error) {
	if err := requireActor(actor); err != nil {
		return models.Program{}, err
	}
	if err := patch.Normalize(); err != nil {
		return models.Program{}, validationError(err)
	}

	u := &update{}
	u.setString("name", patch.Name)
	u.setString("code", patch.Code)
	u.setString("description", patch.Description)
	if patch.RequiredInfo.Set {
		info, err := encodeRequiredInfo(patch.RequiredInfo.Value)
		if err != nil {
			return models.Program{}, err
		}
		u.set("required_info", info)
	}

	var program models.Program
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getProgram(ctx, tx, id); err != nil {
			return err
		}

		if patch.Code.Set {
			taken, err := exists(ctx, tx, `SELECT 1 FROM programs WHERE code = $1 AND id <> $2`, patch.Code.Value, id)
			if err != nil {
				return fmt.Errorf("check program code: %w", err)
			}
			if taken {
				return conflict("program code %s already exists", patch.Code.Value)
			}
		}

		if !patch.Empty() {
			stmt := u.statement("programs", id)
			_, err := tx.ExecContext(ctx, stmt, u.args...)
			if isUniqueViolation(err) {
				return conflict("program code %s already exists", patch.Code.Value)
			}
			if err != nil {
				return fmt.Errorf("update program: %w", err)
			}
		}

		var err error
		program, err = getProgram(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Program{}, err
	}
	return program, nil
}

// DeleteProgram removes a program nobody is enrolled in.
// Visits and notes that referenced it keep their rows with no program.
func (s *Store) DeleteProgram(ctx context.Context, actor auth.Actor, id int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getProgram(ctx, tx, id); err != nil {
			return err
		}

		enrolled, err := count(ctx, tx, `SELECT COUNT(*) FROM enrollments WHERE program_id = $1`, id)
		if err != nil {
			return fmt.Errorf("count enrollments: %w", err)
		}
		if enrolled > 0 {
			return conflict("program %d has %d enrollment(s) and cannot be deleted", id, enrolled)
		}

		for _, table := range []string{"visits", "notes"} {
			if _, err := tx.ExecContext(ctx, `UPDATE `+table+` SET program_id = NULL WHERE program_id = $1`, id); err != nil {
				return fmt.Errorf("detach program %s: %w", table, err)
			}
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM programs WHERE id = $1`, id)
		if isForeignKeyViolation(err) {
			return conflict("program %d has enrollment(s) and cannot be deleted", id)
		}
		if err != nil {
			return fmt.Errorf("delete program: %w", err)
		}
		return nil
	})
}

// ProgramsWithEnrollmentCount lists every program with the number of enrollments in it.
// Programs without enrollments report zero.
func (s *Store) ProgramsWithEnrollmentCount(ctx context.Context) ([]models.ProgramWithCount, error) {
	programs, err := s.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT program_id, COUNT(*)
		FROM enrollments
		GROUP BY program_id
	`)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	defer rows.Close()

	counts := map[int64]int64{}
	for rows.Next() {
		var programID, n int64
		if err := rows.Scan(&programID, &n); err != nil {
			return nil, fmt.Errorf("count enrollments: %w", err)
		}
		counts[programID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}

	out := make([]models.ProgramWithCount, 0, len(programs))
	for _, p := range programs {
		out = append(out, models.ProgramWithCount{Program: p, EnrollmentCount: counts[p.ID]})
	}
	return out, nil
}
