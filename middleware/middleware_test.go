// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/his-registry/auth"
	"github.com/danielhkuo/his-registry/models"
)

// captureLogs sends slog output to a buffer for the rest of the test
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	dec := json.NewDecoder(buf)
	for {
		var e map[string]any
		if err := dec.Decode(&e); err == io.EOF {
			return entries
		} else if err != nil {
			t.Fatalf("Failed to decode log line: %v", err)
		}
		entries = append(entries, e)
	}
}

func TestWithLogging(t *testing.T) {
	logs := captureLogs(t)

	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, http.StatusNotFound, "client 7 not found")
	})

	req := httptest.NewRequest("GET", "/api/clients/7", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	entries := logEntries(t, logs)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(entries))
	}

	started, completed := entries[0], entries[1]
	if started["remote"] != "203.0.113.9" {
		t.Errorf("Expected remote 203.0.113.9, got %v", started["remote"])
	}
	if completed["path"] != "/api/clients/7" {
		t.Errorf("Expected path /api/clients/7, got %v", completed["path"])
	}
	if completed["status"] != float64(http.StatusNotFound) {
		t.Errorf("Expected logged status 404, got %v", completed["status"])
	}
	if want := humanize.Bytes(uint64(w.Body.Len())); completed["size"] != want {
		t.Errorf("Expected logged size %q, got %v", want, completed["size"])
	}
}

func TestWithLogging_ImplicitOK(t *testing.T) {
	logs := captureLogs(t)

	// A handler that never writes still counts as 200
	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {})
	handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	entries := logEntries(t, logs)
	last := entries[len(entries)-1]
	if last["status"] != float64(http.StatusOK) {
		t.Errorf("Expected logged status 200, got %v", last["status"])
	}
	if last["size"] != "0 B" {
		t.Errorf("Expected logged size 0 B, got %v", last["size"])
	}
}

func TestJSONResponse(t *testing.T) {
	email := "jane@example.com"
	testCases := []struct {
		name       string
		statusCode int
		data       interface{}
		expected   string
	}{
		{
			name:       "stats",
			statusCode: http.StatusOK,
			data:       models.Stats{TotalClients: 3, ActivePrograms: 2, NewEnrollments: 1},
			expected:   `{"totalClients":3,"activePrograms":2,"newEnrollments":1}`,
		},
		{
			name:       "program with count",
			statusCode: http.StatusOK,
			data: []models.ProgramWithCount{{
				Program:         models.Program{ID: 1, Name: "Malaria", Code: "MAL", RequiredInfo: []string{}},
				EnrollmentCount: 4,
			}},
			expected: `"enrollmentCount":4`,
		},
		{
			name:       "client email",
			statusCode: http.StatusCreated,
			data:       models.Client{ID: 1, ClientID: "HIS-2024-001", Name: "Jane Roe", Email: &email},
			expected:   `"clientId":"HIS-2024-001"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSONResponse(w, tc.statusCode, tc.data)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
			}
			if body := w.Body.String(); !strings.Contains(body, tc.expected) {
				t.Errorf("Expected body to contain %s, got %s", tc.expected, body)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		statusCode int
		message    string
	}{
		{http.StatusBadRequest, "name is required"},
		{http.StatusUnauthorized, "Unauthorized"},
		{http.StatusConflict, "client already enrolled in program"},
	}

	for _, tc := range testCases {
		t.Run(http.StatusText(tc.statusCode), func(t *testing.T) {
			w := httptest.NewRecorder()

			ErrorResponse(w, tc.statusCode, tc.message)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}

			// Body carries only the message
			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if len(resp) != 1 || resp["message"] != tc.message {
				t.Errorf("Expected {\"message\": %q}, got %v", tc.message, resp)
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("patch keeps field presence", func(t *testing.T) {
		req := httptest.NewRequest("PATCH", "/api/clients/1", strings.NewReader(`{"phone":"555-0100","email":null}`))

		var patch models.ClientPatch
		if err := ParseJSONBody(req, &patch); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !patch.Phone.Set || patch.Phone.Value != "555-0100" {
			t.Errorf("Expected phone to be set, got %+v", patch.Phone)
		}
		if !patch.Email.Set || !patch.Email.Null {
			t.Errorf("Expected email to be an explicit null, got %+v", patch.Email)
		}
		if patch.Name.Set {
			t.Error("Expected absent name to stay unset")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/programs", strings.NewReader(`{invalid json}`))

		var parsed models.CreateProgramRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/enrollments", strings.NewReader(""))

		var parsed models.CreateEnrollmentRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for empty body")
		}
	})
}

func TestCORS(t *testing.T) {
	// The next handler starts a session, the way login does
	corsHandler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: auth.CookieName, Value: "token", HttpOnly: true})
		w.Write([]byte("handled"))
	}))

	t.Run("credentialed request echoes origin", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/login", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		// Browsers drop cookies when a credentialed response allows "*"
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("Expected origin to be echoed, got %q", got)
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Expected Access-Control-Allow-Credentials to be 'true'")
		}
		if !strings.Contains(w.Header().Get("Set-Cookie"), auth.CookieName+"=token") {
			t.Error("Expected the session cookie to pass through")
		}
	})

	t.Run("preflight for patch stops before the handler", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/clients/1", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "PATCH")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Body.Len() != 0 || w.Header().Get("Set-Cookie") != "" {
			t.Error("Preflight must not reach the handler")
		}
		methods := w.Header().Get("Access-Control-Allow-Methods")
		for _, m := range []string{"PATCH", "DELETE"} {
			if !strings.Contains(methods, m) {
				t.Errorf("Expected %s in allowed methods, got %q", m, methods)
			}
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Content-Type") {
			t.Error("Expected Content-Type in allowed headers")
		}
	})

	t.Run("same-origin request", func(t *testing.T) {
		w := httptest.NewRecorder()
		corsHandler.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", nil))

		if w.Body.String() != "handled" {
			t.Error("Expected next handler to be called")
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("Expected Access-Control-Allow-Origin to default to '*'")
		}
	})
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		header     string
		value      string
		remoteAddr string
		expectedIP string
	}{
		{"proxy chain uses first hop", "X-Forwarded-For", "203.0.113.9, 10.0.0.1", "10.0.0.2:443", "203.0.113.9"},
		{"nginx real ip", "X-Real-IP", "203.0.113.50", "10.0.0.2:443", "203.0.113.50"},
		{"direct connection", "", "", "192.168.1.50:54321", "192.168.1.50"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/clients", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}

			if got := GetClientIP(req); got != tc.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tc.expectedIP, got)
			}
		})
	}
}
