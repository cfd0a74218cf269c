package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/pollbooth/bot"
	"github.com/danielhkuo/pollbooth/cliparse"
	"github.com/danielhkuo/pollbooth/db"
	"github.com/danielhkuo/pollbooth/polls"
	"github.com/danielhkuo/pollbooth/session"
	"github.com/danielhkuo/pollbooth/telegram"
)

func main() {
	// Load .env if present; real env vars win
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		slog.Error("session store setup failed", "backend", cfg.SessionBackend, "error", err)
		os.Exit(1)
	}
	slog.Info("Session store ready", "backend", cfg.SessionBackend)

	svc := polls.NewService(dbConn, cfg.AdminIDs)
	engine := bot.New(svc, sessions)

	tg, err := telegram.New(cfg.BotToken, engine)
	if err != nil {
		slog.Error("telegram setup failed", "error", err)
		os.Exit(1)
	}

	go sweepExpired(ctx, svc, cfg.SweepInterval)

	slog.Info("Listening for updates", "admins", len(cfg.AdminIDs))
	if err := tg.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("Bot stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot stopped")
}

func newSessionStore(ctx context.Context, cfg cliparse.Config) (session.Store, error) {
	if cfg.SessionBackend != "redis" {
		return session.NewMemoryStore(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return session.NewRedisStore(client), nil
}

// sweepExpired periodically deactivates polls whose end time has passed, so
// they drop out of the voting lists even with no traffic touching them.
func sweepExpired(ctx context.Context, svc *polls.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.DeactivateExpired(ctx)
			if err != nil {
				slog.Warn("expired poll sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired polls deactivated", "count", n)
			}
		}
	}
}
