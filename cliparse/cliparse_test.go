// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	os.Setenv("BOT_TOKEN", "123:abc")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("ADMIN_IDS", "100, 200,300")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.BotToken != "123:abc" {
		t.Errorf("expected token from env, got %q", cfg.BotToken)
	}
	if len(cfg.AdminIDs) != 3 || cfg.AdminIDs[0] != 100 || cfg.AdminIDs[2] != 300 {
		t.Errorf("unexpected admin ids: %v", cfg.AdminIDs)
	}
	if cfg.SessionBackend != "memory" {
		t.Errorf("expected default memory backend, got %q", cfg.SessionBackend)
	}
	if cfg.SweepInterval != 10*time.Minute {
		t.Errorf("expected default sweep interval, got %v", cfg.SweepInterval)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://env")
	os.Setenv("BOT_TOKEN", "env-token")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-d", "postgres://cli", "-bot-token", "cli-token", "-sweep-interval", "1m"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.DatabaseURL != "postgres://cli" {
		t.Errorf("CLI should override env: got %q", cfg.DatabaseURL)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("expected 1m sweep interval, got %v", cfg.SweepInterval)
	}
}

func TestParseFlags_Required(t *testing.T) {
	os.Clearenv()

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected error with no token or database URL")
	}

	if _, err := ParseFlags([]string{"-bot-token", "t"}); err == nil {
		t.Error("expected error with no database URL")
	}

	_, err := ParseFlags([]string{"-bot-token", "t", "-d", "postgres://x", "-s", "redis"})
	if err == nil {
		t.Error("expected error for redis backend without REDIS_URL")
	}
}

func TestParseFlags_BadAdminIDs(t *testing.T) {
	os.Clearenv()

	_, err := ParseFlags([]string{"-bot-token", "t", "-d", "postgres://x", "-admin-ids", "1,abc"})
	if err == nil {
		t.Error("expected error for non-numeric admin id")
	}
}
