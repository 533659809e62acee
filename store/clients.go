// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/his-registry/auth"
	"github.com/danielhkuo/his-registry/models"
)

const clientColumns = `id, client_id, name, dob, gender, phone, address, email, emergency_contact, status, created_at`

func scanClient(sc scanner) (models.Client, error) {
	var c models.Client
	err := sc.Scan(
		&c.ID, &c.ClientID, &c.Name, &c.DOB, &c.Gender, &c.Phone,
		&c.Address, &c.Email, &c.EmergencyContact, &c.Status, &c.CreatedAt,
	)
	return c, err
}

func getClient(ctx context.Context, q querier, id int64) (models.Client, error) {
	c, err := scanClient(q.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, notFound("client %d not found", id)
	}
	if err != nil {
		return models.Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func queryClients(ctx context.Context, q querier, query string, args ...any) ([]models.Client, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// CreateClient registers a client, generating a client ID when none is given.
// The sequence bump and the insert share one transaction. Generated IDs skip
// past values already taken by imported clients.
func (s *Store) CreateClient(ctx context.Context, actor auth.Actor, req models.CreateClientRequest) (models.Client, error) {
	if err := requireActor(actor); err != nil {
		return models.Client{}, err
	}
	if err := req.Normalize(); err != nil {
		return models.Client{}, validationError(err)
	}

	var client models.Client
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		clientID := req.ClientID
		if clientID == "" {
			generated, err := s.freeClientID(ctx, tx)
			if err != nil {
				return err
			}
			clientID = generated
		} else {
			taken, err := exists(ctx, tx, `SELECT 1 FROM clients WHERE client_id = $1`, clientID)
			if err != nil {
				return fmt.Errorf("check client id: %w", err)
			}
			if taken {
				return conflict("client ID %s already exists", clientID)
			}
		}

		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO clients (client_id, name, dob, gender, phone, address, email, emergency_contact, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, clientID, req.Name, req.DOB, req.Gender, req.Phone, req.Address,
			req.Email, req.EmergencyContact, req.Status, s.timestamp()).Scan(&id)
		if isUniqueViolation(err) {
			return conflict("client ID %s already exists", clientID)
		}
		if err != nil {
			return fmt.Errorf("insert client: %w", err)
		}

		client, err = getClient(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Client{}, err
	}

	return client, nil
}

// maxGeneratedIDAttempts bounds how many sequence values CreateClient skips
// past IDs that were imported by hand.
const maxGeneratedIDAttempts = 10

// freeClientID draws sequence values until one is not already in use.
// Skipped values are consumed along with the one that is returned.
func (s *Store) freeClientID(ctx context.Context, tx *sql.Tx) (string, error) {
	var clientID string
	for range maxGeneratedIDAttempts {
		var err error
		clientID, err = s.ids.NextClientID(ctx, tx)
		if err != nil {
			return "", fmt.Errorf("generate client id: %w", err)
		}

		taken, err := exists(ctx, tx, `SELECT 1 FROM clients WHERE client_id = $1`, clientID)
		if err != nil {
			return "", fmt.Errorf("check client id: %w", err)
		}
		if !taken {
			return clientID, nil
		}
	}
	return "", conflict("client ID %s already exists", clientID)
}

func (s *Store) GetClient(ctx context.Context, id int64) (models.Client, error) {
	return getClient(ctx, s.db, id)
}

func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := queryClients(ctx, s.db, `SELECT `+clientColumns+` FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// SearchClients matches name, client ID and phone, case-insensitively.
// A blank query returns no clients rather than all of them.
func (s *Store) SearchClients(ctx context.Context, query string) ([]models.Client, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Client{}, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	clients, err := queryClients(ctx, s.db, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE LOWER(name) LIKE $1 ESCAPE '\'
		   OR LOWER(client_id) LIKE $1 ESCAPE '\'
		   OR LOWER(phone) LIKE $1 ESCAPE '\'
		ORDER BY name, id
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	return clients, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// UpdateClient applies the fields present in patch and returns the updated client
func (s *Store) UpdateClient(ctx context.Context, actor auth.Actor, id int64, patch models.ClientPatch) (models.Client, error) {
	if err := requireActor(actor); err != nil {
		return models.Client{}, err
	}
	if err := patch.Normalize(); err != nil {
		return models.Client{}, validationError(err)
	}

	u := &update{}
	u.setString("name", patch.Name)
	u.setString("dob", patch.DOB)
	u.setString("gender", patch.Gender)
	u.setString("phone", patch.Phone)
	u.setString("address", patch.Address)
	u.setNullableString("email", patch.Email)
	u.setString("emergency_contact", patch.EmergencyContact)
	u.setString("status", patch.Status)

	var client models.Client
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if patch.Empty() {
			var err error
			client, err = getClient(ctx, tx, id)
			return err
		}

		stmt := u.statement("clients", id)
		res, err := tx.ExecContext(ctx, stmt, u.args...)
		if err != nil {
			return fmt.Errorf("update client: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("update client: %w", err)
		} else if n == 0 {
			return notFound("client %d not found", id)
		}

		client, err = getClient(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Client{}, err
	}
	return client, nil
}

// DeleteClient removes a client that has no active enrollments.
// Inactive enrollments, visits and notes go with it.
func (s *Store) DeleteClient(ctx context.Context, actor auth.Actor, id int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getClient(ctx, tx, id); err != nil {
			return err
		}

		active, err := count(ctx, tx, `
			SELECT COUNT(*) FROM enrollments WHERE client_id = $1 AND status = $2
		`, id, models.EnrollmentActive)
		if err != nil {
			return fmt.Errorf("count enrollments: %w", err)
		}
		if active > 0 {
			return conflict("client %d has %d active enrollment(s); unenroll first", id, active)
		}

		for _, table := range []string{"visits", "notes"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE client_id = $1`, id); err != nil {
				return fmt.Errorf("delete client %s: %w", table, err)
			}
		}
		// Active enrollments are never removed here, even one committed after the count.
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM enrollments WHERE client_id = $1 AND status <> $2
		`, id, models.EnrollmentActive); err != nil {
			return fmt.Errorf("delete client enrollments: %w", err)
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
		if isForeignKeyViolation(err) {
			return conflict("client %d has active enrollment(s); unenroll first", id)
		}
		if err != nil {
			return fmt.Errorf("delete client: %w", err)
		}
		return nil
	})
}
