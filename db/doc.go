// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open(ctx, cfg)

  - postgres: github.com/lib/pq, DatabaseURL is the connection string
  - sqlite: modernc.org/sqlite, DatabaseURL is a file path

SQLite connections get foreign_keys, busy_timeout, WAL and NORMAL synchronous
pragmas, and the pool is limited to a single connection.
lower() is replaced on sqlite connections with a Unicode-aware version so
case-insensitive search behaves the same on both databases.

# Schema Creation

CreateSchema initializes all required tables for the chosen dialect:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes,
and seeds the client sequence row only when missing.

# Tables

  - users: Staff accounts (bcrypt password hashes)
  - sessions: Login sessions keyed by random token
  - sequences: Named counters used for client ID generation
  - programs: Health programs, code is unique
  - clients: Registered clients, client_id is unique
  - enrollments: Client participation in programs
  - visits: Append-only visit records
  - notes: Append-only clinical notes

# Relationships

	users    1──* sessions
	clients  1──* enrollments *──1 programs
	clients  1──* visits      *──1 programs (nullable)
	clients  1──* notes       *──1 programs (nullable)

enrollments has UNIQUE (client_id, program_id). Enrollment foreign keys do not
cascade; the store refuses to delete a parent that still has enrollments.
Visit and note program references are cleared when a program is deleted.
*/
package db
