// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain and reply types shared across layers.

# Domain Types

  - User: a known Telegram user (upserted on /start)
  - Poll: poll metadata, privacy, and lifecycle state
  - PollOption: one option, in creation order
  - Vote: one user's vote in one poll
  - PollStats, OptionStats: aggregated results with percentages

Poll.Ended reports whether a poll no longer accepts votes, either because
it was ended explicitly or because its end time passed.

# Reply Types

Reply is what the dialogue engine hands the transport: message text plus
the Menu to show. Menu names a keyboard layout (main menu, cancel-only,
privacy choice, manage confirmation, or per-poll option choices); the
transport decides how to render it.

# Constants

Roles:

	RoleUser  = "user"
	RoleAdmin = "admin"
*/
package models
