// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "context"

// State is the user's position inside a dialogue flow. Every flow starts and
// ends at StateIdle; Cancel returns there from anywhere.
type State int

const (
	StateIdle State = iota

	// Poll-creation flow
	StateAwaitingPrivacy
	StateAwaitingTitle
	StateAwaitingParticipants
	StateAwaitingOptions
	StateAwaitingDuration

	// Voting flow
	StateChoosingPoll
	StateChoosingOption

	// Management flow
	StateChoosingPollToManage
	StateConfirmingAction

	// Participant-addition flow
	StateChoosingPrivatePoll
	StateEnteringParticipants
)

var stateNames = map[State]string{
	StateIdle:                 "idle",
	StateAwaitingPrivacy:      "awaiting_privacy",
	StateAwaitingTitle:        "awaiting_title",
	StateAwaitingParticipants: "awaiting_participants",
	StateAwaitingOptions:      "awaiting_options",
	StateAwaitingDuration:     "awaiting_duration",
	StateChoosingPoll:         "choosing_poll",
	StateChoosingOption:       "choosing_option",
	StateChoosingPollToManage: "choosing_poll_to_manage",
	StateConfirmingAction:     "confirming_action",
	StateChoosingPrivatePoll:  "choosing_private_poll",
	StateEnteringParticipants: "entering_participants",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Draft accumulates partial input across the steps of a flow. It is never
// persisted to the poll store; cancellation simply discards it.
type Draft struct {
	Title          string   `json:"title,omitempty"`
	Options        []string `json:"options,omitempty"`
	IsPrivate      bool     `json:"is_private,omitempty"`
	ParticipantIDs []int64  `json:"participant_ids,omitempty"`
	PollID         int64    `json:"poll_id,omitempty"`
}

// Session is one user's dialogue position plus their draft. The zero value
// is an idle session with an empty draft.
type Session struct {
	State State `json:"state"`
	Draft Draft `json:"draft"`
}

// Store holds sessions keyed by Telegram user id. Get returns the zero
// session for users with no stored one. Implementations must be safe for
// concurrent use by workers of different users; per-user call ordering is
// the transport's job.
type Store interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Put(ctx context.Context, userID int64, s Session) error
	Clear(ctx context.Context, userID int64) error
}
