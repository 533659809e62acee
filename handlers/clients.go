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

type ClientHandler struct {
	store *store.Store
}

func NewClientHandler(s *store.Store) *ClientHandler {
	return &ClientHandler{store: s}
}

// ListClients handles GET /api/clients.
// With a search parameter it searches; a blank search matches nothing.
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	var (
		clients []models.Client
		err     error
	)
	if r.URL.Query().Has("search") {
		clients, err = h.store.SearchClients(r.Context(), r.URL.Query().Get("search"))
	} else {
		clients, err = h.store.ListClients(r.Context())
	}
	if err != nil {
		writeStoreError(w, "list clients", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, clients)
}

// GetClient handles GET /api/clients/{id}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	client, err := h.store.GetClient(r.Context(), id)
	if err != nil {
		writeStoreError(w, "get client", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, client)
}

// GetClientDetails handles GET /api/clients/{id}/details
func (h *ClientHandler) GetClientDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	details, err := h.store.ClientDetails(r.Context(), id)
	if err != nil {
		writeStoreError(w, "client details", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, details)
}

// CreateClient handles POST /api/clients
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request, actor auth.Actor) {
	var req models.CreateClientRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	client, err := h.store.CreateClient(r.Context(), actor, req)
	if err != nil {
		writeStoreError(w, "create client", err)
		return
	}

	slog.Info("client created", "client_id", client.ClientID, "by", actor.Username)

	middleware.JSONResponse(w, http.StatusCreated, client)
}

// UpdateClient handles PATCH /api/clients/{id}
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request, actor auth.Actor) {
	id, ok := parseID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var patch models.ClientPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	client, err := h.store.UpdateClient(r.Context(), actor, id, patch)
	if err != nil {
		writeStoreError(w, "update client", err)
		return
	}

	slog.Info("client updated", "client_id", client.ClientID, "by", actor.Username)

	middleware.JSONResponse(w, http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clients/{id}
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request, actor auth.Actor) {
	id, ok := parseID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	if err := h.store.DeleteClient(r.Context(), actor, id); err != nil {
		writeStoreError(w, "delete client", err)
		return
	}

	slog.Info("client deleted", "id", id, "by", actor.Username)

	w.WriteHeader(http.StatusNoContent)
}
