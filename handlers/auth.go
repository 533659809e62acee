// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/his-registry/auth"
	"github.com/danielhkuo/his-registry/cliparse"
	"github.com/danielhkuo/his-registry/middleware"
	"github.com/danielhkuo/his-registry/models"
	"github.com/danielhkuo/his-registry/store"
)

type AuthHandler struct {
	store    *store.Store
	sessions *auth.SessionStore
	cfg      cliparse.Config
}

func NewAuthHandler(s *store.Store, sessions *auth.SessionStore, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{store: s, sessions: sessions, cfg: cfg}
}

// Register handles POST /api/register and logs the new user in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.store.CreateUser(r.Context(), req)
	if err != nil {
		writeStoreError(w, "register", err)
		return
	}

	if err := h.startSession(w, r, user.ID); err != nil {
		slog.Error("failed to start session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("user registered", "username", user.Username)

	middleware.JSONResponse(w, http.StatusCreated, user)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.store.VerifyCredentials(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		writeStoreError(w, "login", err)
		return
	}

	if err := h.startSession(w, r, user.ID); err != nil {
		slog.Error("failed to start session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("user logged in", "username", user.Username)

	middleware.JSONResponse(w, http.StatusOK, user)
}

// Logout handles POST /api/logout. It succeeds with or without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			slog.Error("failed to end session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// CurrentUser handles GET /api/user
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request, actor auth.Actor) {
	user, err := h.store.GetUserByUsername(r.Context(), actor.Username)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err != nil {
		writeStoreError(w, "current user", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	sess, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
