// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/his-registry/models"
)

// ClientDetails returns a client with its enrollments, visits and notes.
// Notes without a program are included with no program attached.
func (s *Store) ClientDetails(ctx context.Context, id int64) (models.ClientDetails, error) {
	client, err := getClient(ctx, s.db, id)
	if err != nil {
		return models.ClientDetails{}, err
	}

	details := models.ClientDetails{Client: client}

	if details.Enrollments, err = enrollmentsWithPrograms(ctx, s.db, id); err != nil {
		return models.ClientDetails{}, err
	}
	if details.Visits, err = visitsWithPrograms(ctx, s.db, id); err != nil {
		return models.ClientDetails{}, err
	}
	if details.Notes, err = notesWithPrograms(ctx, s.db, id); err != nil {
		return models.ClientDetails{}, err
	}

	return details, nil
}

// Stats returns the dashboard totals.
// activePrograms is every program and newEnrollments is every enrollment;
// neither is filtered by status or date.
func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM programs),
			(SELECT COUNT(*) FROM enrollments)
	`).Scan(&st.TotalClients, &st.ActivePrograms, &st.NewEnrollments)
	if err != nil {
		return models.Stats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}
