// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity assigns human-readable client IDs.

# Format

	identity.Format(2026, 7) // "HIS-2026-007"

Sequences above 999 simply widen ("HIS-2026-1000").

# Generators

The store depends on the Generator interface so tests can substitute their
own numbering. SequenceGenerator is the production implementation: it runs

	UPDATE sequences SET value = value + 1 WHERE name = 'client' RETURNING value

on the caller's transaction. The row lock taken by the UPDATE serializes
concurrent client creation, so the read-then-insert race of a "max id + 1"
scheme cannot occur. The year comes from the generator's Now function.
*/
package identity
