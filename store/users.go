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

const userColumns = `id, username, password, name, email, role, created_at`

func scanUser(sc scanner) (models.User, error) {
	var u models.User
	err := sc.Scan(&u.ID, &u.Username, &u.Password, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	return u, err
}

// CreateUser registers a staff account. Users are never updated afterwards.
func (s *Store) CreateUser(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	if err := req.Normalize(); err != nil {
		return models.User{}, validationError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := exists(ctx, tx, `SELECT 1 FROM users WHERE username = $1`, req.Username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			return conflict("username %s already exists", req.Username)
		}

		var id int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (username, password, name, email, role, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, req.Username, hash, req.Name, req.Email, req.Role, s.timestamp()).Scan(&id)
		if isUniqueViolation(err) {
			return conflict("username %s already exists", req.Username)
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		user, err = scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, notFound("user %s not found", username)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// VerifyCredentials returns the user when the password matches.
// Unknown users and wrong passwords both yield auth.ErrInvalidCredentials.
func (s *Store) VerifyCredentials(ctx context.Context, username, password string) (models.User, error) {
	u, err := s.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return models.User{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if err := auth.CheckPassword(u.Password, password); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// ActorFor turns a user into the actor capability the store expects
func ActorFor(u models.User) auth.Actor {
	return auth.Actor{UserID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
}
