// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/polls"
	"github.com/danielhkuo/pollbooth/session"
)

func (e *Engine) enterManage(ctx context.Context, userID int64) []models.Reply {
	manageable, err := e.svc.ListManageablePolls(ctx, userID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if len(manageable) == 0 {
		return reply("You have no polls to manage.", models.MenuMain)
	}

	sess := session.Session{State: session.StateChoosingPollToManage}
	if err := e.put(ctx, userID, sess); err != nil {
		return e.abort(ctx, userID, err)
	}
	return []models.Reply{
		{Text: formatPollList("Your polls:", manageable)},
		{Text: "Enter the id of the poll to manage:", Menu: models.MenuCancel},
	}
}

func (e *Engine) stChoosingPollToManage(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	pollID, err := strconv.ParseInt(text, 10, 64)
	if err != nil || pollID <= 0 {
		return reply("Enter a numeric poll id.", models.MenuCancel)
	}

	poll, err := e.svc.FetchPoll(ctx, pollID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	ok, err := e.svc.CanManage(ctx, pollID, userID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if !ok {
		return e.abort(ctx, userID, polls.ErrForbidden)
	}

	status := "Poll is active"
	if poll.Ended(time.Now()) {
		status = "Poll has ended"
	}

	sess.Draft.PollID = pollID
	sess.State = session.StateConfirmingAction
	if err := e.put(ctx, userID, sess); err != nil {
		return e.abort(ctx, userID, err)
	}
	text = fmt.Sprintf("Poll #%d: %s\n%s\nChoose an action:", pollID, poll.Title, status)
	return reply(text, models.MenuConfirm)
}

func (e *Engine) stConfirmingAction(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	pollID := sess.Draft.PollID

	switch text {
	case LabelDelete:
		if err := e.svc.DeletePoll(ctx, pollID, userID); err != nil {
			return e.abort(ctx, userID, err)
		}
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return e.abort(ctx, userID, err)
		}
		return reply(fmt.Sprintf("Poll #%d deleted.", pollID), models.MenuMain)

	case LabelEnd:
		if err := e.svc.EndPoll(ctx, pollID, userID); err != nil {
			return e.abort(ctx, userID, err)
		}
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return e.abort(ctx, userID, err)
		}
		return reply(fmt.Sprintf("Poll #%d ended.", pollID), models.MenuMain)

	default:
		return reply("Choose Delete, End, or Cancel.", models.MenuConfirm)
	}
}
