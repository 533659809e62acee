// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/his-registry/models"
	"github.com/danielhkuo/his-registry/testutil"
)

func TestCreateEnrollment(t *testing.T) {
	s, db, actor := setupTest(t)
	handler := NewEnrollmentHandler(s)

	clientID := testutil.CreateTestClient(t, db, "HIS-2024-001", "John Doe")
	programID := testutil.CreateTestProgram(t, db, "Malaria", "MAL")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name: "valid enrollment",
			requestBody: models.CreateEnrollmentRequest{
				ClientID: clientID, ProgramID: programID, EnrollDate: "2024-01-15", FollowUpRequired: true,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate enrollment",
			requestBody:    models.CreateEnrollmentRequest{ClientID: clientID, ProgramID: programID},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "missing client",
			requestBody:    models.CreateEnrollmentRequest{ClientID: 999, ProgramID: programID},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing program",
			requestBody:    models.CreateEnrollmentRequest{ClientID: clientID, ProgramID: 999},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad risk level",
			requestBody:    `{"clientId":1,"programId":1,"riskLevel":"extreme"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "[]",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.CreateEnrollment(w, jsonRequest(t, "POST", "/api/enrollments", tt.requestBody), actor)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	// The duplicate must not have changed the original
	var followUp bool
	var date string
	err := db.QueryRow(`
		SELECT follow_up_required, enroll_date FROM enrollments WHERE client_id = $1 AND program_id = $2
	`, clientID, programID).Scan(&followUp, &date)
	if err != nil {
		t.Fatalf("Failed to query enrollment: %v", err)
	}
	if !followUp || date != "2024-01-15" {
		t.Errorf("Original enrollment changed: followUp=%v date=%s", followUp, date)
	}
}

func TestListEnrollments(t *testing.T) {
	s, db, _ := setupTest(t)
	handler := NewEnrollmentHandler(s)

	clientID := testutil.CreateTestClient(t, db, "HIS-2024-001", "John Doe")
	programID := testutil.CreateTestProgram(t, db, "Malaria", "MAL")
	testutil.Enroll(t, db, clientID, programID, models.EnrollmentActive)

	w := httptest.NewRecorder()
	handler.ListEnrollments(w, httptest.NewRequest("GET", "/api/enrollments", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var enrollments []models.Enrollment
	testutil.AssertJSON(t, w, &enrollments)
	if len(enrollments) != 1 || enrollments[0].ClientID != clientID {
		t.Errorf("Unexpected enrollments %+v", enrollments)
	}
}

func TestClientEnrollments(t *testing.T) {
	s, db, _ := setupTest(t)
	handler := NewEnrollmentHandler(s)

	clientID := testutil.CreateTestClient(t, db, "HIS-2024-001", "John Doe")
	programID := testutil.CreateTestProgram(t, db, "Malaria", "MAL")
	testutil.Enroll(t, db, clientID, programID, models.EnrollmentActive)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"existing client", strconv.FormatInt(clientID, 10), http.StatusOK},
		{"missing client", "999", http.StatusNotFound},
		{"invalid id", "x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/clients/"+tt.id+"/enrollments", nil)
			req.SetPathValue("clientId", tt.id)
			w := httptest.NewRecorder()

			handler.ClientEnrollments(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if w.Code == http.StatusOK {
				var got []models.EnrollmentWithProgram
				testutil.AssertJSON(t, w, &got)
				if len(got) != 1 || got[0].Program.Name != "Malaria" {
					t.Errorf("Unexpected enrollments %+v", got)
				}
			}
		})
	}
}

func TestDeleteEnrollment(t *testing.T) {
	s, db, actor := setupTest(t)
	handler := NewEnrollmentHandler(s)

	clientID := testutil.CreateTestClient(t, db, "HIS-2024-001", "John Doe")
	programID := testutil.CreateTestProgram(t, db, "Malaria", "MAL")
	testutil.Enroll(t, db, clientID, programID, models.EnrollmentActive)

	c := strconv.FormatInt(clientID, 10)
	p := strconv.FormatInt(programID, 10)

	tests := []struct {
		name           string
		clientID       string
		programID      string
		expectedStatus int
	}{
		{"enrolled", c, p, http.StatusNoContent},
		{"no longer enrolled", c, p, http.StatusNotFound},
		{"bad client id", "x", p, http.StatusBadRequest},
		{"bad program id", c, "0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", "/api/clients/"+tt.clientID+"/programs/"+tt.programID, nil)
			req.SetPathValue("clientId", tt.clientID)
			req.SetPathValue("programId", tt.programID)
			w := httptest.NewRecorder()

			handler.DeleteEnrollment(w, req, actor)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}
