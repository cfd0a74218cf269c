// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package telegram is the transport layer: it long-polls the Telegram Bot
API, feeds messages to the dialogue engine, and sends the replies back
with the right keyboard.

# Ordering

Each user gets a dedicated worker goroutine with a bounded queue, so one
user's messages are processed strictly in arrival order while different
users run in parallel. A user flooding their own queue gets messages
dropped; nobody else stalls.

# Sending

Replies longer than Telegram's 4096-character limit are split into
rune-safe chunks. When a reply carries a menu, the keyboard is attached
to the final chunk.

# Logging

Every handled message is logged with a generated trace id plus the user
and chat ids, so one interaction can be followed through the log.
*/
package telegram
