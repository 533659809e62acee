// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/his-registry/middleware"
	"github.com/danielhkuo/his-registry/store"
)

// parseID reads a positive integer path value
func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeStoreError maps store error kinds to status codes.
// Anything unrecognized is logged and answered with a generic 500.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	var serr *store.Error
	if errors.As(err, &serr) {
		switch {
		case errors.Is(err, store.ErrValidation):
			middleware.ErrorResponse(w, http.StatusBadRequest, serr.Message)
			return
		case errors.Is(err, store.ErrNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, serr.Message)
			return
		case errors.Is(err, store.ErrConflict):
			middleware.ErrorResponse(w, http.StatusConflict, serr.Message)
			return
		case errors.Is(err, store.ErrUnauthorized):
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
	}

	slog.Error("request failed", "op", op, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
}
