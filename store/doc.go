// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the registry's data layer.

It owns every read and write against clients, programs, enrollments,
visits, notes and users, and enforces the registry's rules:

  - program codes are stored upper-cased and are unique regardless of case
  - a client is enrolled in a program at most once
  - programs with enrollments cannot be deleted
  - clients with active enrollments cannot be deleted
  - client IDs are generated inside the insert transaction

Mutations take an auth.Actor; the anonymous actor is rejected with
ErrUnauthorized before anything is written.

Failures are returned as *Error values that unwrap to one of ErrValidation,
ErrNotFound, ErrConflict or ErrUnauthorized. Anything else is an internal
error whose message is not meant for clients.
*/
package store
