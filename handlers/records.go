// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/his-registry/auth"
	"github.com/danielhkuo/his-registry/middleware"
	"github.com/danielhkuo/his-registry/models"
	"github.com/danielhkuo/his-registry/store"
)

// RecordHandler appends visits and notes to a client's history
type RecordHandler struct {
	store *store.Store
}

func NewRecordHandler(s *store.Store) *RecordHandler {
	return &RecordHandler{store: s}
}

// CreateVisit handles POST /api/visits
func (h *RecordHandler) CreateVisit(w http.ResponseWriter, r *http.Request, actor auth.Actor) {
	var req models.CreateVisitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	visit, err := h.store.CreateVisit(r.Context(), actor, req)
	if err != nil {
		writeStoreError(w, "create visit", err)
		return
	}

	slog.Info("visit recorded", "client", visit.ClientID, "visit_id", visit.ID)

	middleware.JSONResponse(w, http.StatusCreated, visit)
}

// CreateNote handles POST /api/notes
func (h *RecordHandler) CreateNote(w http.ResponseWriter, r *http.Request, actor auth.Actor) {
	var req models.CreateNoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	note, err := h.store.CreateNote(r.Context(), actor, req)
	if err != nil {
		writeStoreError(w, "create note", err)
		return
	}

	slog.Info("note added", "client", note.ClientID, "note_id", note.ID)

	middleware.JSONResponse(w, http.StatusCreated, note)
}
