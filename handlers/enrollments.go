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

type EnrollmentHandler struct {
	store *store.Store
}

func NewEnrollmentHandler(s *store.Store) *EnrollmentHandler {
	return &EnrollmentHandler{store: s}
}

// ListEnrollments handles GET /api/enrollments
func (h *EnrollmentHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.store.ListEnrollments(r.Context())
	if err != nil {
		writeStoreError(w, "list enrollments", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, enrollments)
}

// ClientEnrollments handles GET /api/clients/{clientId}/enrollments
func (h *EnrollmentHandler) ClientEnrollments(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseID(r, "clientId")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	enrollments, err := h.store.EnrollmentsByClientID(r.Context(), clientID)
	if err != nil {
		writeStoreError(w, "client enrollments", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, enrollments)
}

// CreateEnrollment handles POST /api/enrollments
func (h *EnrollmentHandler) CreateEnrollment(w http.ResponseWriter, r *http.Request, actor auth.Actor) {
	var req models.CreateEnrollmentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	enrollment, err := h.store.CreateEnrollment(r.Context(), actor, req)
	if err != nil {
		writeStoreError(w, "create enrollment", err)
		return
	}

	slog.Info("client enrolled",
		"client", enrollment.ClientID,
		"program", enrollment.ProgramID,
		"by", actor.Username,
	)

	middleware.JSONResponse(w, http.StatusCreated, enrollment)
}

// DeleteEnrollment handles DELETE /api/clients/{clientId}/programs/{programId}
func (h *EnrollmentHandler) DeleteEnrollment(w http.ResponseWriter, r *http.Request, actor auth.Actor) {
	clientID, ok := parseID(r, "clientId")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	programID, ok := parseID(r, "programId")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	removed, err := h.store.DeleteEnrollment(r.Context(), actor, clientID, programID)
	if err != nil {
		writeStoreError(w, "delete enrollment", err)
		return
	}
	if !removed {
		middleware.ErrorResponse(w, http.StatusNotFound, "Enrollment not found")
		return
	}

	slog.Info("client unenrolled", "client", clientID, "program", programID, "by", actor.Username)

	w.WriteHeader(http.StatusNoContent)
}
