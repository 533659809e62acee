// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/his-registry/models"
	"github.com/danielhkuo/his-registry/store"
)

func TestCreateClientGeneratesID(t *testing.T) {
	s, actor := setup(t)

	first := mustClient(t, s, actor, clientReq("John Doe"))
	second := mustClient(t, s, actor, clientReq("Mary Major"))

	assert.Regexp(t, regexp.MustCompile(`^HIS-\d{4}-\d{3,}$`), first.ClientID)
	assert.Equal(t, "HIS-2024-001", first.ClientID)
	assert.Equal(t, "HIS-2024-002", second.ClientID)
	assert.Equal(t, models.ClientActive, first.Status)
	assert.Nil(t, first.Email)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestCreateClientKeepsProvidedID(t *testing.T) {
	s, actor := setup(t)

	req := clientReq("John Doe")
	req.ClientID = "EXT-42"
	req.Email = ptr("john@example.com")
	c := mustClient(t, s, actor, req)

	assert.Equal(t, "EXT-42", c.ClientID)
	require.NotNil(t, c.Email)
	assert.Equal(t, "john@example.com", *c.Email)

	_, err := s.CreateClient(context.Background(), actor, req)
	require.ErrorIs(t, err, store.ErrConflict)
	assert.Contains(t, err.Error(), "EXT-42")
}

func TestCreateClientSkipsImportedIDs(t *testing.T) {
	s, actor := setup(t)

	for _, id := range []string{"HIS-2024-001", "HIS-2024-002"} {
		req := clientReq("Imported " + id)
		req.ClientID = id
		mustClient(t, s, actor, req)
	}

	first := mustClient(t, s, actor, clientReq("John Doe"))
	second := mustClient(t, s, actor, clientReq("Mary Major"))

	assert.Equal(t, "HIS-2024-003", first.ClientID)
	assert.Equal(t, "HIS-2024-004", second.ClientID)
}

func TestCreateClientGeneratorCollision(t *testing.T) {
	s, actor := setup(t, store.WithGenerator(collidingGenerator{id: "HIS-2024-007"}))

	mustClient(t, s, actor, clientReq("John Doe"))

	_, err := s.CreateClient(context.Background(), actor, clientReq("Jane Roe"))
	require.ErrorIs(t, err, store.ErrConflict)

	clients, err := s.ListClients(context.Background())
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestCreateClientConcurrentIDsAreDistinct(t *testing.T) {
	s, actor := setup(t)

	const n = 10
	ids := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := s.CreateClient(context.Background(), actor, clientReq(fmt.Sprintf("Client %d", i)))
			ids[i], errs[i] = c.ClientID, err
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := range n {
		require.NoError(t, errs[i])
		assert.False(t, seen[ids[i]], "duplicate client id %s", ids[i])
		seen[ids[i]] = true
	}
}

func TestGetClientNotFound(t *testing.T) {
	s, _ := setup(t)
	_, err := s.GetClient(context.Background(), 999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSearchClients(t *testing.T) {
	s, actor := setup(t)
	ctx := context.Background()

	mustClient(t, s, actor, clientReq("John Doe"))
	other := clientReq("Mary Major")
	other.Phone = "777-1234"
	mustClient(t, s, actor, other)

	got, err := s.SearchClients(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = s.SearchClients(ctx, "jo")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "John Doe", got[0].Name)

	got, err = s.SearchClients(ctx, "777")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mary Major", got[0].Name)

	got, err = s.SearchClients(ctx, "his-2024")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.SearchClients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got, "wildcards are matched literally")
}

func TestSearchClientsFoldsNonASCII(t *testing.T) {
	s, actor := setup(t)
	ctx := context.Background()

	mustClient(t, s, actor, clientReq("ÉMILE Zola"))
	mustClient(t, s, actor, clientReq("John Doe"))

	for _, q := range []string{"émile", "ÉMILE", "Émile zola"} {
		got, err := s.SearchClients(ctx, q)
		require.NoError(t, err)
		require.Len(t, got, 1, "query %q", q)
		assert.Equal(t, "ÉMILE Zola", got[0].Name)
	}
}

func TestUpdateClient(t *testing.T) {
	s, actor := setup(t)
	ctx := context.Background()

	req := clientReq("John Doe")
	req.Email = ptr("john@example.com")
	c := mustClient(t, s, actor, req)

	t.Run("phone only", func(t *testing.T) {
		got, err := s.UpdateClient(ctx, actor, c.ID, models.ClientPatch{Phone: models.Some("555-9999")})
		require.NoError(t, err)
		assert.Equal(t, "555-9999", got.Phone)
		assert.Equal(t, c.Name, got.Name)
		assert.Equal(t, c.Address, got.Address)
		assert.Equal(t, c.ClientID, got.ClientID)
		require.NotNil(t, got.Email)
	})

	t.Run("null email clears it", func(t *testing.T) {
		got, err := s.UpdateClient(ctx, actor, c.ID, models.ClientPatch{Email: models.Optional[string]{Set: true, Null: true}})
		require.NoError(t, err)
		assert.Nil(t, got.Email)
	})

	t.Run("empty patch returns current", func(t *testing.T) {
		got, err := s.UpdateClient(ctx, actor, c.ID, models.ClientPatch{})
		require.NoError(t, err)
		assert.Equal(t, "555-9999", got.Phone)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := s.UpdateClient(ctx, actor, c.ID, models.ClientPatch{Status: models.Some("gone")})
		require.ErrorIs(t, err, store.ErrValidation)
	})

	t.Run("missing client", func(t *testing.T) {
		_, err := s.UpdateClient(ctx, actor, 999, models.ClientPatch{Phone: models.Some("1")})
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestDeleteClient(t *testing.T) {
	s, actor := setup(t)
	ctx := context.Background()

	c := mustClient(t, s, actor, clientReq("John Doe"))
	p := mustProgram(t, s, actor, "Malaria", "MAL")

	_, err := s.CreateEnrollment(ctx, actor, models.CreateEnrollmentRequest{ClientID: c.ID, ProgramID: p.ID})
	require.NoError(t, err)
	_, err = s.CreateNote(ctx, actor, models.CreateNoteRequest{ClientID: c.ID, Content: "first contact"})
	require.NoError(t, err)

	err = s.DeleteClient(ctx, actor, c.ID)
	require.ErrorIs(t, err, store.ErrConflict)

	removed, err := s.DeleteEnrollment(ctx, actor, c.ID, p.ID)
	require.NoError(t, err)
	require.True(t, removed)

	require.NoError(t, s.DeleteClient(ctx, actor, c.ID))

	_, err = s.GetClient(ctx, c.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.DeleteClient(ctx, actor, c.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteClientWithInactiveEnrollment(t *testing.T) {
	s, actor := setup(t)
	ctx := context.Background()

	c := mustClient(t, s, actor, clientReq("John Doe"))
	p := mustProgram(t, s, actor, "Malaria", "MAL")

	_, err := s.CreateEnrollment(ctx, actor, models.CreateEnrollmentRequest{
		ClientID: c.ID, ProgramID: p.ID, Status: models.EnrollmentCompleted,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteClient(ctx, actor, c.ID))

	// the completed enrollment went with the client, so the program is deletable
	require.NoError(t, s.DeleteProgram(ctx, actor, p.ID))
}

func TestDeleteClientRefusesEnrollmentAddedMidDelete(t *testing.T) {
	conn, s, actor := setupWithDB(t)
	ctx := context.Background()

	c := mustClient(t, s, actor, clientReq("John Doe"))
	p := mustProgram(t, s, actor, "Malaria", "MAL")
	_, err := s.CreateNote(ctx, actor, models.CreateNoteRequest{ClientID: c.ID, Content: "first contact"})
	require.NoError(t, err)

	// an active enrollment appears after the active-enrollment check has passed
	_, err = conn.Exec(fmt.Sprintf(`
		CREATE TRIGGER enroll_during_delete AFTER DELETE ON notes
		BEGIN
			INSERT INTO enrollments (client_id, program_id, enroll_date, status)
			VALUES (OLD.client_id, %d, '2024-03-05', 'active');
		END
	`, p.ID))
	require.NoError(t, err)

	err = s.DeleteClient(ctx, actor, c.ID)
	require.ErrorIs(t, err, store.ErrConflict)

	details, err := s.ClientDetails(ctx, c.ID)
	require.NoError(t, err, "client must survive a refused delete")
	assert.Len(t, details.Notes, 1)
}
