// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements the poll domain: lifecycle, voting, access
control, and statistics, all backed by PostgreSQL.

# Service

Service is the single entry point, created with the database handle and
the admin allowlist:

	svc := polls.NewService(dbConn, cfg.AdminIDs)

Every method takes a context and is bounded by an internal query timeout.

# Poll Lifecycle

	CreatePoll   validates bounds and writes poll, options, and participants atomically
	EndPoll      irreversibly deactivates a poll, keeping its data for statistics
	DeletePoll   removes the poll and every dependent row
	DeactivateExpired flips the active flag on polls past their end time

Creation bounds: title up to 200 characters, 2-10 options, duration 1-720
hours. Violations return *ValidationError.

# Voting

CastVote enforces, in order: the poll exists, it has not ended, the voter
may see it, the voter has not voted, and the option belongs to the poll.
The one-vote-per-user rule is ultimately the votes table's
UNIQUE(poll_id, user_id) constraint, so concurrent duplicates lose the
race no matter how many processes run.

# Access Control

A poll is managed by its creator or by any id on the admin allowlist.
Private polls are visible only to their participants; the creator is
always a participant.

# Errors

Expected failures are sentinel errors (ErrPollNotFound, ErrPollClosed,
ErrForbidden, ErrDuplicateVote, ErrInvalidOption, ErrAlreadyEnded).
Database failures wrap ErrStoreUnavailable. Callers branch with errors.Is
and errors.As.

# Statistics

Aggregate and AggregateVisible return per-poll vote counts and
percentages. Options with zero votes are included, and percentages are
computed over the poll's total.
*/
package polls
