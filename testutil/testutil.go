// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/his-registry/auth"
	"github.com/danielhkuo/his-registry/cliparse"
	"github.com/danielhkuo/his-registry/db"
)

// TestPassword is the password of every user made by CreateTestUser
const TestPassword = "password123"

// SetupTestDB creates a fresh sqlite database with the full schema.
// The file lives in t.TempDir and is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := GetTestConfig()
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "test.db")

	conn, err := db.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: cliparse.DatabaseSQLite,
		DatabaseURL:  ":memory:",
		SessionTTL:   time.Hour,
	}
}

// CreateTestUser inserts a staff user with TestPassword and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, username string) int64 {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var id int64
	err = conn.QueryRow(`
		INSERT INTO users (username, password, name, email, role, created_at)
		VALUES ($1, $2, $3, '', 'staff', $4)
		RETURNING id
	`, username, hash, "Test "+username, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// TestActor returns the actor for a freshly created user
func TestActor(t *testing.T, conn *sql.DB, username string) auth.Actor {
	t.Helper()

	id := CreateTestUser(t, conn, username)
	return auth.Actor{UserID: id, Username: username, Name: "Test " + username, Role: "staff"}
}

// SessionCookie starts a session for the user and returns the cookie to send
func SessionCookie(t *testing.T, conn *sql.DB, userID int64) *http.Cookie {
	t.Helper()

	sess, err := auth.NewSessionStore(conn, time.Hour).Create(context.Background(), userID)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return &http.Cookie{Name: auth.CookieName, Value: sess.Token}
}

// CreateTestProgram inserts a program and returns its ID
func CreateTestProgram(t *testing.T, conn *sql.DB, name, code string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO programs (name, code, description, required_info, created_at)
		VALUES ($1, $2, '', '[]', $3)
		RETURNING id
	`, name, code, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test program: %v", err)
	}

	return id
}

// CreateTestClient inserts an active client and returns its ID
func CreateTestClient(t *testing.T, conn *sql.DB, clientID, name string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO clients (client_id, name, dob, gender, phone, address, emergency_contact, status, created_at)
		VALUES ($1, $2, '1990-01-01', 'male', '555-0100', '1 Main St', '', 'active', $3)
		RETURNING id
	`, clientID, name, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}

	return id
}

// Enroll enrolls a client in a program with the given status
func Enroll(t *testing.T, conn *sql.DB, clientID, programID int64, status string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO enrollments (client_id, program_id, enroll_date, status, follow_up_required, created_at)
		VALUES ($1, $2, '2024-01-15', $3, FALSE, $4)
		RETURNING id
	`, clientID, programID, status, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to enroll test client: %v", err)
	}

	return id
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
