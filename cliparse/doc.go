// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - BotToken: Telegram bot API token (required)
  - DatabaseURL: PostgreSQL connection string (required)
  - AdminIDs: Telegram ids allowed to manage any poll
  - SessionBackend: "memory" or "redis" (default: memory)
  - RedisURL: Redis connection string (required for redis backend)
  - SweepInterval: Expired-poll sweep period (default: 10m)

# CLI Flags

	-bot-token       Telegram bot token (prefer env)
	-d               Database URL
	-admin-ids       Comma-separated admin Telegram ids
	-s               Session backend
	-redis-url       Redis URL
	-sweep-interval  Sweep interval (e.g. 10m)

# Environment Variables

Flags fall back to environment variables:

	BOT_TOKEN       → -bot-token
	DATABASE_URL    → -d
	ADMIN_IDS       → -admin-ids
	SESSION_BACKEND → -s
	REDIS_URL       → -redis-url
	SWEEP_INTERVAL  → -sweep-interval

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - BOT_TOKEN must be provided
  - DATABASE_URL must be provided
  - REDIS_URL must be provided when the backend is redis
*/
package cliparse
