// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: Telegram identities, upserted on first contact
  - polls: poll metadata, lifecycle flags, privacy flag
  - poll_options: fixed option set per poll
  - votes: one row per (poll, voter), enforced by a UNIQUE constraint
  - poll_participants: membership rows for private polls

# Relationships

	users 1──* polls (creator)
	polls 1──* poll_options
	polls 1──* votes
	polls 1──* poll_participants

All foreign keys use ON DELETE CASCADE, so deleting a poll removes its
options, votes, and participant rows in one statement.

# The uniqueness constraint

votes(poll_id, user_id) UNIQUE is the enforcement mechanism for the
one-vote-per-user rule. The vote insert uses ON CONFLICT DO NOTHING and
inspects the affected row count, so two concurrent votes from the same
user cannot both land regardless of in-process checks.
*/
package db
