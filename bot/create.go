// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/polls"
	"github.com/danielhkuo/pollbooth/session"
)

const (
	promptOptions  = "Enter the answer options, comma-separated (e.g. Yes, No, Abstain):"
	promptDuration = "Enter the poll duration in hours (1-720):"
)

func (e *Engine) enterCreate(ctx context.Context, userID int64) []models.Reply {
	sess := session.Session{State: session.StateAwaitingPrivacy}
	if err := e.put(ctx, userID, sess); err != nil {
		return e.abort(ctx, userID, err)
	}
	return reply("Do you want a public or a private poll?", models.MenuPrivacy)
}

func (e *Engine) stPrivacy(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	if text != LabelPublic && text != LabelPrivate {
		return reply("Please choose Public or Private.", models.MenuPrivacy)
	}

	sess.Draft.IsPrivate = text == LabelPrivate
	sess.State = session.StateAwaitingTitle
	if err := e.put(ctx, userID, sess); err != nil {
		return e.abort(ctx, userID, err)
	}
	return reply("Enter the poll title:", models.MenuCancel)
}

func (e *Engine) stTitle(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	if text == "" {
		return reply("Title must not be empty.", models.MenuCancel)
	}
	if utf8.RuneCountInString(text) > polls.MaxTitleLen {
		return reply(fmt.Sprintf("Title is too long (max %d characters).", polls.MaxTitleLen), models.MenuCancel)
	}

	sess.Draft.Title = text
	if sess.Draft.IsPrivate {
		sess.State = session.StateAwaitingParticipants
		if err := e.put(ctx, userID, sess); err != nil {
			return e.abort(ctx, userID, err)
		}
		users, err := e.svc.ListUsers(ctx)
		if err != nil {
			return e.abort(ctx, userID, err)
		}
		return []models.Reply{
			{Text: formatUsers(users)},
			{Text: "Enter participant ids, comma-separated (e.g. 123456, 789012):", Menu: models.MenuCancel},
		}
	}

	sess.State = session.StateAwaitingOptions
	if err := e.put(ctx, userID, sess); err != nil {
		return e.abort(ctx, userID, err)
	}
	return reply(promptOptions, models.MenuCancel)
}

func (e *Engine) stParticipants(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	ids, err := parseIDList(text)
	if err != nil {
		return reply("Enter numeric user ids, comma-separated.", models.MenuCancel)
	}

	sess.Draft.ParticipantIDs = ids
	sess.State = session.StateAwaitingOptions
	if err := e.put(ctx, userID, sess); err != nil {
		return e.abort(ctx, userID, err)
	}
	return reply(promptOptions, models.MenuCancel)
}

func (e *Engine) stOptions(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	options := splitList(text)
	if len(options) < polls.MinOptions {
		return reply(fmt.Sprintf("At least %d options are required.", polls.MinOptions), models.MenuCancel)
	}
	if len(options) > polls.MaxOptions {
		return reply(fmt.Sprintf("No more than %d options are allowed.", polls.MaxOptions), models.MenuCancel)
	}

	sess.Draft.Options = options
	sess.State = session.StateAwaitingDuration
	if err := e.put(ctx, userID, sess); err != nil {
		return e.abort(ctx, userID, err)
	}
	return reply(promptDuration, models.MenuCancel)
}

func (e *Engine) stDuration(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	hours, err := strconv.Atoi(text)
	if err != nil || hours < polls.MinDurationHours || hours > polls.MaxDurationHours {
		return reply(fmt.Sprintf("Enter a number from %d to %d.", polls.MinDurationHours, polls.MaxDurationHours), models.MenuCancel)
	}

	pollID, err := e.svc.CreatePoll(ctx, polls.CreatePollParams{
		Title:          sess.Draft.Title,
		Options:        sess.Draft.Options,
		DurationHours:  hours,
		CreatorID:      userID,
		IsPrivate:      sess.Draft.IsPrivate,
		ParticipantIDs: sess.Draft.ParticipantIDs,
	})
	if err != nil {
		var ve *polls.ValidationError
		if errors.As(err, &ve) {
			// Recoverable: keep the state and let the user retry or cancel.
			return reply("Invalid input: "+ve.Reason, models.MenuCancel)
		}
		return e.abort(ctx, userID, err)
	}

	poll, err := e.svc.FetchPoll(ctx, pollID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return e.abort(ctx, userID, err)
	}

	text = fmt.Sprintf("Poll created!\nID: #%d\nTitle: %s\nOptions: %s\nEnds: %s",
		pollID, poll.Title, strings.Join(sess.Draft.Options, ", "), poll.EndTime.Format(timeFormat))
	return reply(text, models.MenuMain)
}

// splitList splits comma-separated input, trimming whitespace and dropping
// empty entries.
func splitList(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseIDList parses comma-separated numeric user ids.
func parseIDList(text string) ([]int64, error) {
	parts := splitList(text)
	if len(parts) == 0 {
		return nil, errors.New("empty id list")
	}
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
