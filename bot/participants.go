// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/polls"
	"github.com/danielhkuo/pollbooth/session"
)

func (e *Engine) enterAddParticipants(ctx context.Context, userID int64) []models.Reply {
	private, err := e.svc.ListPrivatePollsByCreator(ctx, userID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if len(private) == 0 {
		return reply("You have no private polls.", models.MenuMain)
	}

	sess := session.Session{State: session.StateChoosingPrivatePoll}
	if err := e.put(ctx, userID, sess); err != nil {
		return e.abort(ctx, userID, err)
	}
	return []models.Reply{
		{Text: formatPollList("Your private polls:", private)},
		{Text: "Enter the id of the poll to add participants to:", Menu: models.MenuCancel},
	}
}

func (e *Engine) stChoosingPrivatePoll(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	pollID, err := strconv.ParseInt(text, 10, 64)
	if err != nil || pollID <= 0 {
		return reply("Enter a numeric poll id.", models.MenuCancel)
	}

	poll, err := e.svc.FetchPoll(ctx, pollID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if !poll.IsPrivate {
		return reply(fmt.Sprintf("Poll #%d is not private. Choose one of your private polls.", pollID), models.MenuCancel)
	}
	ok, err := e.svc.CanManage(ctx, pollID, userID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if !ok {
		return e.abort(ctx, userID, polls.ErrForbidden)
	}

	users, err := e.svc.ListUsers(ctx)
	if err != nil {
		return e.abort(ctx, userID, err)
	}

	sess.Draft.PollID = pollID
	sess.State = session.StateEnteringParticipants
	if err := e.put(ctx, userID, sess); err != nil {
		return e.abort(ctx, userID, err)
	}
	return []models.Reply{
		{Text: formatUsers(users)},
		{Text: "Enter participant ids, comma-separated (e.g. 123456, 789012):", Menu: models.MenuCancel},
	}
}

func (e *Engine) stEnteringParticipants(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	ids, err := parseIDList(text)
	if err != nil {
		return reply("Enter numeric user ids, comma-separated.", models.MenuCancel)
	}

	if err := e.svc.AddParticipants(ctx, sess.Draft.PollID, userID, ids); err != nil {
		var ve *polls.ValidationError
		if errors.As(err, &ve) {
			return reply("Invalid input: "+ve.Reason, models.MenuCancel)
		}
		return e.abort(ctx, userID, err)
	}
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return e.abort(ctx, userID, err)
	}
	return reply("Participants added to the private poll.", models.MenuMain)
}
