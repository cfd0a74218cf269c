// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bot

import (
	"context"
	"strconv"
	"time"

	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/polls"
	"github.com/danielhkuo/pollbooth/session"
)

func (e *Engine) enterVote(ctx context.Context, userID int64) []models.Reply {
	visible, err := e.svc.ListVisiblePolls(ctx, userID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if len(visible) == 0 {
		return reply("There are no active polls you can vote in.", models.MenuMain)
	}

	sess := session.Session{State: session.StateChoosingPoll}
	if err := e.put(ctx, userID, sess); err != nil {
		return e.abort(ctx, userID, err)
	}
	return []models.Reply{
		{Text: formatPollList("Available polls:", visible)},
		{Text: "Enter the id of the poll you want to vote in:", Menu: models.MenuCancel},
	}
}

func (e *Engine) stChoosingPoll(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	pollID, err := strconv.ParseInt(text, 10, 64)
	if err != nil || pollID <= 0 {
		return reply("Enter a numeric poll id.", models.MenuCancel)
	}

	poll, err := e.svc.FetchPoll(ctx, pollID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if poll.Ended(time.Now()) {
		return e.abort(ctx, userID, polls.ErrPollClosed)
	}
	if poll.IsPrivate && poll.CreatorID != userID {
		ok, err := e.svc.IsParticipant(ctx, pollID, userID)
		if err != nil {
			return e.abort(ctx, userID, err)
		}
		if !ok {
			return e.abort(ctx, userID, polls.ErrForbidden)
		}
	}
	voted, err := e.svc.HasVoted(ctx, pollID, userID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if voted {
		return e.abort(ctx, userID, polls.ErrDuplicateVote)
	}

	options, err := e.svc.FetchOptions(ctx, pollID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if len(options) == 0 {
		return e.abort(ctx, userID, polls.ErrInvalidOption)
	}

	sess.Draft.PollID = pollID
	sess.State = session.StateChoosingOption
	if err := e.put(ctx, userID, sess); err != nil {
		return e.abort(ctx, userID, err)
	}

	labels := make([]string, len(options))
	for i, opt := range options {
		labels[i] = opt.Text
	}
	return []models.Reply{{
		Text:    "Poll: " + poll.Title + "\nChoose an option:",
		Menu:    models.MenuChoices,
		Choices: labels,
	}}
}

func (e *Engine) stChoosingOption(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	if err := e.svc.CastVote(ctx, sess.Draft.PollID, userID, text); err != nil {
		return e.abort(ctx, userID, err)
	}
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return e.abort(ctx, userID, err)
	}
	return reply("Thanks! Your vote for '"+text+"' has been recorded.", models.MenuMain)
}
