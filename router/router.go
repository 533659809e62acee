// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/his-registry/auth"
	"github.com/danielhkuo/his-registry/cliparse"
	"github.com/danielhkuo/his-registry/handlers"
	"github.com/danielhkuo/his-registry/middleware"
	"github.com/danielhkuo/his-registry/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, opts ...store.Option) *http.ServeMux {
	mux := http.NewServeMux()

	s := store.New(db, opts...)
	sessions := auth.NewSessionStore(db, cfg.SessionTTL)
	protect := func(fn func(http.ResponseWriter, *http.Request, auth.Actor)) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(sessions, fn))
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(s, sessions, cfg)
	programHandler := handlers.NewProgramHandler(s)
	clientHandler := handlers.NewClientHandler(s)
	enrollmentHandler := handlers.NewEnrollmentHandler(s)
	recordHandler := handlers.NewRecordHandler(s)
	statsHandler := handlers.NewStatsHandler(s)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts and sessions
	mux.HandleFunc("POST /api/register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /api/logout", middleware.WithLogging(authHandler.Logout))
	mux.HandleFunc("GET /api/user", protect(authHandler.CurrentUser))

	// Programs
	mux.HandleFunc("GET /api/programs", protect(programHandler.ListPrograms))
	mux.HandleFunc("GET /api/programs/stats", protect(programHandler.ProgramStats))
	mux.HandleFunc("GET /api/programs/{id}", middleware.WithLogging(programHandler.GetProgram))
	mux.HandleFunc("POST /api/programs", protect(programHandler.CreateProgram))
	mux.HandleFunc("PATCH /api/programs/{id}", protect(programHandler.UpdateProgram))
	mux.HandleFunc("DELETE /api/programs/{id}", protect(programHandler.DeleteProgram))

	// Clients
	mux.HandleFunc("GET /api/clients", middleware.WithLogging(clientHandler.ListClients))
	mux.HandleFunc("GET /api/clients/{id}", middleware.WithLogging(clientHandler.GetClient))
	mux.HandleFunc("GET /api/clients/{id}/details", middleware.WithLogging(clientHandler.GetClientDetails))
	mux.HandleFunc("POST /api/clients", protect(clientHandler.CreateClient))
	mux.HandleFunc("PATCH /api/clients/{id}", protect(clientHandler.UpdateClient))
	mux.HandleFunc("DELETE /api/clients/{id}", protect(clientHandler.DeleteClient))

	// Enrollments
	mux.HandleFunc("GET /api/enrollments", middleware.WithLogging(enrollmentHandler.ListEnrollments))
	mux.HandleFunc("GET /api/clients/{clientId}/enrollments", middleware.WithLogging(enrollmentHandler.ClientEnrollments))
	mux.HandleFunc("POST /api/enrollments", protect(enrollmentHandler.CreateEnrollment))
	mux.HandleFunc("DELETE /api/clients/{clientId}/programs/{programId}", protect(enrollmentHandler.DeleteEnrollment))

	// Visit and note history
	mux.HandleFunc("POST /api/visits", protect(recordHandler.CreateVisit))
	mux.HandleFunc("POST /api/notes", protect(recordHandler.CreateNote))

	// Dashboard
	mux.HandleFunc("GET /api/stats", middleware.WithLogging(statsHandler.GetStats))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("his-registry API v1"))
	})

	return mux
}
