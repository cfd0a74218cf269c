// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/polls"
	"github.com/danielhkuo/pollbooth/session"
)

// Engine is the dialogue session manager: it resolves each inbound message
// against the user's current session state and dispatches to the matching
// step handler. It produces replies; sending them is the transport's job.
//
// The caller must serialize messages per user (the Telegram transport runs
// one worker per chat). Different users may call concurrently.
type Engine struct {
	svc      *polls.Service
	sessions session.Store
}

func New(svc *polls.Service, sessions session.Store) *Engine {
	return &Engine{svc: svc, sessions: sessions}
}

// HandleMessage processes one inbound message and returns the replies to
// send. It never returns an error: failures become user-facing messages and
// reset the session, so one user's broken flow cannot affect anyone else.
func (e *Engine) HandleMessage(ctx context.Context, userID int64, username, text string) []models.Reply {
	text = strings.TrimSpace(text)

	sess, err := e.sessions.Get(ctx, userID)
	if err != nil {
		slog.Error("session load failed", "user_id", userID, "error", err)
		return reply("Something went wrong. Please try again.", models.MenuMain)
	}

	// Cancel and /start work from any state and discard the draft.
	switch text {
	case CmdCancel:
		if err := e.sessions.Clear(ctx, userID); err != nil {
			slog.Error("session clear failed", "user_id", userID, "error", err)
		}
		return reply("Action cancelled.", models.MenuMain)
	case CmdStart:
		if err := e.sessions.Clear(ctx, userID); err != nil {
			slog.Error("session clear failed", "user_id", userID, "error", err)
		}
		return e.cmdStart(ctx, userID, username)
	}

	if sess.State == session.StateIdle {
		return e.handleCommand(ctx, userID, text)
	}
	return e.handleState(ctx, userID, sess, text)
}

func (e *Engine) cmdStart(ctx context.Context, userID int64, username string) []models.Reply {
	if err := e.svc.UpsertUser(ctx, userID, username); err != nil {
		return e.abort(ctx, userID, err)
	}
	return reply("Choose an action:", models.MenuMain)
}

func (e *Engine) handleCommand(ctx context.Context, userID int64, text string) []models.Reply {
	switch text {
	case CmdCreatePoll:
		return e.enterCreate(ctx, userID)
	case CmdVote:
		return e.enterVote(ctx, userID)
	case CmdManage:
		return e.enterManage(ctx, userID)
	case CmdAddParticipants:
		return e.enterAddParticipants(ctx, userID)
	case CmdStats:
		return e.cmdStats(ctx, userID)
	case CmdShowUsers:
		return e.cmdShowUsers(ctx, userID)
	case CmdHelp:
		return reply(helpText, models.MenuMain)
	default:
		return reply(unrecognizedText, models.MenuMain)
	}
}

func (e *Engine) handleState(ctx context.Context, userID int64, sess session.Session, text string) []models.Reply {
	switch sess.State {
	case session.StateAwaitingPrivacy:
		return e.stPrivacy(ctx, userID, sess, text)
	case session.StateAwaitingTitle:
		return e.stTitle(ctx, userID, sess, text)
	case session.StateAwaitingParticipants:
		return e.stParticipants(ctx, userID, sess, text)
	case session.StateAwaitingOptions:
		return e.stOptions(ctx, userID, sess, text)
	case session.StateAwaitingDuration:
		return e.stDuration(ctx, userID, sess, text)
	case session.StateChoosingPoll:
		return e.stChoosingPoll(ctx, userID, sess, text)
	case session.StateChoosingOption:
		return e.stChoosingOption(ctx, userID, sess, text)
	case session.StateChoosingPollToManage:
		return e.stChoosingPollToManage(ctx, userID, sess, text)
	case session.StateConfirmingAction:
		return e.stConfirmingAction(ctx, userID, sess, text)
	case session.StateChoosingPrivatePoll:
		return e.stChoosingPrivatePoll(ctx, userID, sess, text)
	case session.StateEnteringParticipants:
		return e.stEnteringParticipants(ctx, userID, sess, text)
	default:
		slog.Error("unknown session state", "user_id", userID, "state", sess.State.String())
		return e.abort(ctx, userID, nil)
	}
}

// put persists the session mid-flow. A store failure aborts the flow.
func (e *Engine) put(ctx context.Context, userID int64, sess session.Session) error {
	return e.sessions.Put(ctx, userID, sess)
}

// abort resets the user to Idle and reports the failure in plain language.
// The partial draft is discarded, never persisted.
func (e *Engine) abort(ctx context.Context, userID int64, err error) []models.Reply {
	if err != nil {
		slog.Warn("dialogue aborted", "user_id", userID, "error", err)
	}
	if cerr := e.sessions.Clear(ctx, userID); cerr != nil {
		slog.Error("session clear failed", "user_id", userID, "error", cerr)
	}
	return reply(userMessage(err), models.MenuMain)
}

// userMessage maps an error kind to the message shown to the user. Internal
// details never leak; the generic message covers anything unexpected.
func userMessage(err error) string {
	switch {
	case errors.Is(err, polls.ErrPollNotFound):
		return "Poll not found."
	case errors.Is(err, polls.ErrPollClosed), errors.Is(err, polls.ErrAlreadyEnded):
		return "This poll has already ended."
	case errors.Is(err, polls.ErrForbidden):
		return "You are not allowed to do that."
	case errors.Is(err, polls.ErrDuplicateVote):
		return "You have already voted in this poll."
	case errors.Is(err, polls.ErrInvalidOption):
		return "That option is not offered by this poll."
	case errors.Is(err, polls.ErrStoreUnavailable):
		return "The service is temporarily unavailable. Please try again."
	}
	var ve *polls.ValidationError
	if errors.As(err, &ve) {
		return "Invalid input: " + ve.Reason
	}
	return "Something went wrong. Please try again."
}

func reply(text string, menu models.Menu) []models.Reply {
	return []models.Reply{{Text: text, Menu: menu}}
}
