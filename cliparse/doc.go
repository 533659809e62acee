// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: Postgres connection string or sqlite file path (default for sqlite: his.db)
  - SessionTTL: How long a login session stays valid (default: 24h)
  - SecureCookies: Whether the session cookie carries the Secure attribute

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--session-ttl     Session lifetime
	--secure-cookies  true/false
	--env             Dotenv file (default .env)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	SESSION_TTL    → --session-ttl
	SECURE_COOKIES → --secure-cookies

Before the environment is read, the dotenv file named by --env is loaded.
Variables already present in the environment are never overwritten by it,
and a missing file is not an error.

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_TYPE is neither sqlite nor postgres
  - DATABASE_TYPE is postgres and no DATABASE_URL is given
  - PORT, SESSION_TTL or SECURE_COOKIES cannot be parsed
*/
package cliparse
