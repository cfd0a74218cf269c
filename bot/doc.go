// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package bot implements the dialogue engine: a per-user state machine that
turns free-form Telegram messages into poll operations.

# Engine

The Engine resolves each inbound message against the user's session state
and dispatches to the step handler for that state:

	engine := bot.New(svc, sessions)
	replies := engine.HandleMessage(ctx, userID, username, text)

HandleMessage never returns an error; failures become user-facing
messages and reset the session to Idle.

# Flows

From the Idle state the main menu commands start multi-step flows:

  - Create Poll: privacy → title → participants (private only) → options → duration
  - Vote: choose poll → choose option
  - Manage Polls: choose poll → Delete or End
  - Add Participants: choose private poll → enter ids
  - Statistics, Show Users, Help: single-step, no state

Cancel and /start work from any state and discard the draft in progress.

# Input Handling

Invalid input (a malformed id, an out-of-range duration) re-prompts
within the current state. Domain failures (poll gone, access denied,
duplicate vote) abort the flow: the session resets to Idle and the user
sees a plain-language message.

# Concurrency

The caller must serialize messages per user; the telegram package runs
one worker per user for exactly this reason. Different users are handled
concurrently.
*/
package bot
