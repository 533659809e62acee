// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the HIS registry API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

Store options (a fixed clock, a custom client ID generator) can be passed
through for tests.

# Endpoints

Health:

	GET /health

Accounts:

	POST /api/register - Create a staff user and log in
	POST /api/login    - Start a session
	POST /api/logout   - End the session
	GET  /api/user     - Current user (session)

Programs:

	GET    /api/programs       - List (session)
	GET    /api/programs/stats - List with enrollment counts (session)
	GET    /api/programs/{id}  - Get one
	POST   /api/programs       - Create (session)
	PATCH  /api/programs/{id}  - Update (session)
	DELETE /api/programs/{id}  - Delete if nobody is enrolled (session)

Clients:

	GET    /api/clients?search=     - List, or search when search is given
	GET    /api/clients/{id}         - Get one
	GET    /api/clients/{id}/details - Client with enrollments, visits and notes
	POST   /api/clients              - Register (session)
	PATCH  /api/clients/{id}         - Update (session)
	DELETE /api/clients/{id}         - Delete if not actively enrolled (session)

Enrollments:

	GET    /api/enrollments                                - List
	GET    /api/clients/{clientId}/enrollments             - A client's enrollments
	POST   /api/enrollments                                - Enroll (session)
	DELETE /api/clients/{clientId}/programs/{programId}    - Unenroll (session)

History and dashboard:

	POST /api/visits - Record a visit (session)
	POST /api/notes  - Add a note (session)
	GET  /api/stats  - Dashboard totals

# Handler Initialization

The router builds one store.Store and one auth.SessionStore and shares them
between handlers. Routes marked (session) are wrapped with
middleware.RequireAuth, which passes the resolved auth.Actor to the handler.
*/
package router
