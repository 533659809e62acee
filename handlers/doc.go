// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the HIS registry API.

# Handler Types

Each handler is a struct around the shared *store.Store:

  - ClientHandler: Client registration, lookup, search, update, delete
  - ProgramHandler: Program catalogue and enrollment counts
  - EnrollmentHandler: Enrolling and unenrolling clients
  - RecordHandler: Visit and note history
  - StatsHandler: Dashboard totals
  - AuthHandler: Registration, login, logout and the current user

Handlers are created via constructor functions:

	clientHandler := handlers.NewClientHandler(s)

# Authenticated Handlers

Handlers that change data take the caller as a third argument and are
mounted behind middleware.RequireAuth:

	func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request, actor auth.Actor)

The actor is handed straight to the store, which refuses the anonymous
actor.

# Errors

Store errors map to status codes by kind:

	store.ErrValidation   → 400
	store.ErrNotFound     → 404
	store.ErrConflict     → 409
	store.ErrUnauthorized → 401

Anything else is logged and answered with 500 and a generic message.
Malformed path IDs get 400 "Invalid ID" and unparsable bodies get
400 "Invalid JSON". Every error body is {"message": "..."}.
*/
package handlers
