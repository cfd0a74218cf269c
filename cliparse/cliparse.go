package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken       string
	DatabaseURL    string
	AdminIDs       []int64
	SessionBackend string // "memory" or "redis"
	RedisURL       string
	SweepInterval  time.Duration
}

// ParseFlags validates flags and fills in environment fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var adminIDs string
	var sweep string

	fs := flag.NewFlagSet("pollbooth", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.SessionBackend, "s", "", "Session backend (memory or redis)")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL (required for -s redis)")
	fs.StringVar(&adminIDs, "admin-ids", "", "Comma-separated admin Telegram ids")
	fs.StringVar(&sweep, "sweep-interval", "", "Expired-poll sweep interval (e.g. 10m)")

	// Secret (prefer env variable, but allow CLI for dev)
	fs.StringVar(&cfg.BotToken, "bot-token", "", "Telegram bot token (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.BotToken == "" {
		cfg.BotToken = os.Getenv("BOT_TOKEN")
	}
	if cfg.BotToken == "" {
		return Config{}, errors.New("bot token required (use -bot-token or BOT_TOKEN env)")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.SessionBackend == "" {
		cfg.SessionBackend = os.Getenv("SESSION_BACKEND")
		if cfg.SessionBackend == "" {
			cfg.SessionBackend = "memory"
		}
	}
	if cfg.SessionBackend != "memory" && cfg.SessionBackend != "redis" {
		return Config{}, errors.New("session backend must be memory or redis")
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if cfg.SessionBackend == "redis" && cfg.RedisURL == "" {
		return Config{}, errors.New("REDIS_URL required for redis session backend")
	}

	if adminIDs == "" {
		adminIDs = os.Getenv("ADMIN_IDS")
	}
	ids, err := parseAdminIDs(adminIDs)
	if err != nil {
		return Config{}, err
	}
	cfg.AdminIDs = ids

	if sweep == "" {
		sweep = os.Getenv("SWEEP_INTERVAL")
	}
	if sweep == "" {
		cfg.SweepInterval = 10 * time.Minute
	} else {
		d, err := time.ParseDuration(sweep)
		if err != nil || d <= 0 {
			return Config{}, errors.New("invalid sweep interval")
		}
		cfg.SweepInterval = d
	}

	return cfg, nil
}

// parseAdminIDs splits a comma-separated allowlist. Empty input means no
// admins, which leaves poll management creator-only.
func parseAdminIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.New("invalid ADMIN_IDS entry: " + part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
