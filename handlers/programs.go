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

type ProgramHandler struct {
	store *store.Store
}

func NewProgramHandler(s *store.Store) *ProgramHandler {
	return &ProgramHandler{store: s}
}

// ListPrograms handles GET /api/programs
func (h *ProgramHandler) ListPrograms(w http.ResponseWriter, r *http.Request, _ auth.Actor) {
	programs, err := h.store.ListPrograms(r.Context())
	if err != nil {
		writeStoreError(w, "list programs", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, programs)
}

// ProgramStats handles GET /api/programs/stats
func (h *ProgramHandler) ProgramStats(w http.ResponseWriter, r *http.Request, _ auth.Actor) {
	programs, err := h.store.ProgramsWithEnrollmentCount(r.Context())
	if err != nil {
		writeStoreError(w, "program stats", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, programs)
}

// GetProgram handles GET /api/programs/{id}
func (h *ProgramHandler) GetProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	program, err := h.store.GetProgram(r.Context(), id)
	if err != nil {
		writeStoreError(w, "get program", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, program)
}

// CreateProgram handles POST /api/programs
func (h *ProgramHandler) CreateProgram(w http.ResponseWriter, r *http.Request, actor auth.Actor) {
	var req models.CreateProgramRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	program, err := h.store.CreateProgram(r.Context(), actor, req)
	if err != nil {
		writeStoreError(w, "create program", err)
		return
	}

	slog.Info("program created", "program_id", program.ID, "code", program.Code, "by", actor.Username)

	middleware.JSONResponse(w, http.StatusCreated, program)
}

// UpdateProgram handles PATCH /api/programs/{id}
func (h *ProgramHandler) UpdateProgram(w http.ResponseWriter, r *http.Request, actor auth.Actor) {
	id, ok := parseID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var patch models.ProgramPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	program, err := h.store.UpdateProgram(r.Context(), actor, id, patch)
	if err != nil {
		writeStoreError(w, "update program", err)
		return
	}

	slog.Info("program updated", "program_id", program.ID, "by", actor.Username)

	middleware.JSONResponse(w, http.StatusOK, program)
}

// DeleteProgram handles DELETE /api/programs/{id}
func (h *ProgramHandler) DeleteProgram(w http.ResponseWriter, r *http.Request, actor auth.Actor) {
	id, ok := parseID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	if err := h.store.DeleteProgram(r.Context(), actor, id); err != nil {
		writeStoreError(w, "delete program", err)
		return
	}

	slog.Info("program deleted", "program_id", id, "by", actor.Username)

	w.WriteHeader(http.StatusNoContent)
}
