// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pollbooth Telegram bot.

Pollbooth is a conversational polling bot: users create polls, vote, and
read results entirely through a guided Telegram dialogue with reply
keyboards. Each user gets exactly one vote per poll, enforced by the
database.

# Starting the Bot

The bot requires environment variables or CLI flags for configuration:

	BOT_TOKEN=... DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -d "postgres://..." -bot-token "..."

# Configuration

Required settings:

  - BOT_TOKEN (-bot-token): Telegram bot API token
  - DATABASE_URL (-d): PostgreSQL connection string

Optional settings:

  - ADMIN_IDS (-admin-ids): Comma-separated Telegram ids that may manage any poll
  - SESSION_BACKEND (-s): "memory" (default) or "redis"
  - REDIS_URL (-redis-url): Redis connection string, required for the redis backend
  - SWEEP_INTERVAL (-sweep-interval): Expired-poll sweep period (default: 10m)

A .env file in the working directory is loaded if present; real environment
variables take precedence.

# Architecture

The bot is layered with dependency injection:

  - telegram: Long-poll transport, per-user workers, reply keyboards
  - bot: Dialogue engine driving the per-user session state machine
  - polls: Poll lifecycle, voting, access control, statistics
  - session: Dialogue session storage (memory or Redis)
  - models: Domain and reply types
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
