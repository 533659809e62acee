// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, login sessions, and the Actor capability.

# Actors

Every mutating store operation takes an Actor:

	actor, err := sessions.Lookup(ctx, token)
	client, err := st.CreateClient(ctx, actor, req)

Actor.Authenticated reports whether the actor came from a valid session.
Anonymous is the zero Actor; the store refuses mutations on its behalf.
Roles are carried along but not enforced.

# Passwords

Passwords are hashed with bcrypt at the default cost:

	hash, err := auth.HashPassword("correct horse")
	err = auth.CheckPassword(hash, attempt) // ErrInvalidCredentials on mismatch

# Sessions

Sessions live in the sessions table, keyed by a random UUID token that is
sent to the browser in the CookieName cookie:

	sessions := auth.NewSessionStore(db, cfg.SessionTTL)
	sess, err := sessions.Create(ctx, user.ID)
	actor, err := sessions.Lookup(ctx, sess.Token)
	err = sessions.Delete(ctx, sess.Token)

Lookup returns ErrInvalidSession for unknown or malformed tokens and
ErrSessionExpired (after deleting the row) for expired ones.
*/
package auth
