// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/his-registry/models"
	"github.com/danielhkuo/his-registry/testutil"
)

func TestCreateVisit(t *testing.T) {
	s, db, actor := setupTest(t)
	handler := NewRecordHandler(s)

	clientID := testutil.CreateTestClient(t, db, "HIS-2024-001", "John Doe")
	programID := testutil.CreateTestProgram(t, db, "Malaria", "MAL")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name: "valid visit",
			requestBody: models.CreateVisitRequest{
				ClientID: clientID, ProgramID: programID, Date: "2024-02-10", Doctor: "Dr. Mensah", Purpose: "Follow-up",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing program",
			requestBody: models.CreateVisitRequest{
				ClientID: clientID, ProgramID: 999, Date: "2024-02-10", Doctor: "Dr. Mensah", Purpose: "Follow-up",
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing doctor",
			requestBody:    models.CreateVisitRequest{ClientID: clientID, ProgramID: programID, Date: "2024-02-10", Purpose: "x"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.CreateVisit(w, jsonRequest(t, "POST", "/api/visits", tt.requestBody), actor)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestCreateNote(t *testing.T) {
	s, db, actor := setupTest(t)
	handler := NewRecordHandler(s)

	clientID := testutil.CreateTestClient(t, db, "HIS-2024-001", "John Doe")

	w := httptest.NewRecorder()
	handler.CreateNote(w, jsonRequest(t, "POST", "/api/notes", models.CreateNoteRequest{
		ClientID: clientID, Content: "Asked about side effects",
	}), actor)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var note models.Note
	testutil.AssertJSON(t, w, &note)
	if note.CreatedBy != actor.Name {
		t.Errorf("Expected createdBy %q, got %q", actor.Name, note.CreatedBy)
	}
	if note.ProgramID != nil {
		t.Errorf("Expected no program, got %d", *note.ProgramID)
	}

	w = httptest.NewRecorder()
	handler.CreateNote(w, jsonRequest(t, "POST", "/api/notes", `{"clientId":999,"content":"x"}`), actor)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetStats(t *testing.T) {
	s, db, _ := setupTest(t)
	handler := NewStatsHandler(s)

	clientID := testutil.CreateTestClient(t, db, "HIS-2024-001", "John Doe")
	programID := testutil.CreateTestProgram(t, db, "Malaria", "MAL")
	testutil.CreateTestProgram(t, db, "HIV Care", "HIV")
	testutil.Enroll(t, db, clientID, programID, models.EnrollmentCompleted)

	w := httptest.NewRecorder()
	handler.GetStats(w, httptest.NewRequest("GET", "/api/stats", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.Stats
	testutil.AssertJSON(t, w, &stats)
	want := models.Stats{TotalClients: 1, ActivePrograms: 2, NewEnrollments: 1}
	if stats != want {
		t.Errorf("Expected %+v, got %+v", want, stats)
	}
}
