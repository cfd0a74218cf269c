// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session stores per-user dialogue state.

# Model

A Session is the user's current dialogue position: a State naming the
step they are on and a Draft accumulating their answers. The zero value
is the Idle session, so an absent record and a fresh start look the same
to callers.

# Store

Store is the persistence interface, keyed by Telegram user id:

	type Store interface {
		Get(ctx context.Context, userID int64) (Session, error)
		Put(ctx context.Context, userID int64, s Session) error
		Clear(ctx context.Context, userID int64) error
	}

Two implementations are provided. MemoryStore keeps sessions in a
process-local map and is the default. RedisStore keeps them in Redis so
several bot processes can share one session space; it JSON-encodes the
session under "session:<id>" with a long housekeeping TTL.
*/
package session
