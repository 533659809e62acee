// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, size,
duration_ms). Sizes are rendered with go-humanize.

# Authentication

RequireAuth resolves the session cookie into an auth.Actor and hands it to
the wrapped function. Missing, unknown and expired sessions get
401 {"message":"Unauthorized"} and the function is never called:

	mux.HandleFunc("POST /api/clients", middleware.WithLogging(
		middleware.RequireAuth(sessions, h.CreateClient)))

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Reflects the request origin and allows credentials so the session cookie
is sent by browsers.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreateClientRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

GetClientIP returns the original client IP (handles X-Forwarded-For,
X-Real-IP) and is what request logs record as "remote".
*/
package middleware
