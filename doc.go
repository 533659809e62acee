// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the HIS registry API server.

The registry keeps a clinic's clients, the health programs it runs, and
who is enrolled in what, along with each client's visit and note history.
Staff log in with a username and password; reads of client data are open,
writes need a session.

# Starting the Server

With no configuration the server uses a local sqlite file:

	go run .

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Settings come from flags, then the environment, then a .env file:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): sqlite file path (default: his.db) or PostgreSQL connection string
  - SESSION_TTL (-session-ttl): Session lifetime (default: 24h)
  - SECURE_COOKIES (-secure-cookies): Mark the session cookie Secure
  - -env: dotenv file to load (default: .env)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (clients, programs, enrollments, history, accounts)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, session gate, JSON helpers
  - store: Registry rules and queries
  - identity: Client ID generation
  - models: Domain, request and patch types with validation
  - auth: Passwords, sessions and the actor capability
  - db: Connection setup and schema creation
  - cliparse: Configuration parsing

On SIGINT or SIGTERM the server stops accepting connections and waits up to
30 seconds for in-flight requests.

See package documentation for each component.
*/
package main
