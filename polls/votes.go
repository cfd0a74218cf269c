// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"log/slog"
	"time"
)

// HasVoted reports whether the user already has a vote recorded for the poll.
func (s *Service) HasVoted(ctx context.Context, pollID, voterID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2)
	`, pollID, voterID).Scan(&exists)
	if err != nil {
		return false, storeErr("check vote", err)
	}
	return exists, nil
}

// CastVote records one vote for the named option. Preconditions, each its
// own error: the poll exists, is still open, the voter may see it, the voter
// has not voted yet, and the option text matches one of the poll's options.
//
// The final insert goes through the votes(poll_id, user_id) uniqueness
// constraint with ON CONFLICT DO NOTHING, so two concurrent votes from the
// same user resolve to exactly one row; the loser of the race gets
// ErrDuplicateVote. The in-process HasVoted check alone would not be safe -
// sessions of different users share no lock.
func (s *Service) CastVote(ctx context.Context, pollID, voterID int64, optionText string) error {
	poll, err := s.FetchPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if poll.Ended(time.Now()) {
		slog.Warn("vote rejected", "poll_id", pollID, "user_id", voterID, "reason", "closed")
		return ErrPollClosed
	}

	if poll.IsPrivate {
		ok, err := s.IsParticipant(ctx, pollID, voterID)
		if err != nil {
			return err
		}
		if !ok && poll.CreatorID != voterID {
			slog.Warn("vote rejected", "poll_id", pollID, "user_id", voterID, "reason", "not a participant")
			return ErrForbidden
		}
	}

	voted, err := s.HasVoted(ctx, pollID, voterID)
	if err != nil {
		return err
	}
	if voted {
		slog.Warn("vote rejected", "poll_id", pollID, "user_id", voterID, "reason", "duplicate")
		return ErrDuplicateVote
	}

	options, err := s.FetchOptions(ctx, pollID)
	if err != nil {
		return err
	}
	var optionID int64
	for _, opt := range options {
		if opt.Text == optionText {
			optionID = opt.ID
			break
		}
	}
	if optionID == 0 {
		return ErrInvalidOption
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO votes (poll_id, user_id, option_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (poll_id, user_id) DO NOTHING
	`, pollID, voterID, optionID)
	if err != nil {
		return storeErr("insert vote", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("insert vote", err)
	}
	if affected == 0 {
		// Lost a race against a concurrent vote by the same user.
		slog.Warn("vote rejected", "poll_id", pollID, "user_id", voterID, "reason", "duplicate")
		return ErrDuplicateVote
	}

	slog.Info("vote recorded", "poll_id", pollID, "user_id", voterID, "option", optionText)
	return nil
}

// IsParticipant reports private-poll membership.
func (s *Service) IsParticipant(ctx context.Context, pollID, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM poll_participants WHERE poll_id = $1 AND user_id = $2)
	`, pollID, userID).Scan(&exists)
	if err != nil {
		return false, storeErr("check participant", err)
	}
	return exists, nil
}
