package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tdsdesk/internal/adapters/messaging/whatsapp"
	"tdsdesk/internal/adapters/oracle"
	"tdsdesk/internal/core/prompts"
	"tdsdesk/internal/platform/config"
	perr "tdsdesk/internal/platform/errors"
)

func TestStoreConfig_OptionalBackendsFollowAddresses(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://u:p@localhost/db")
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "9")
	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "")
	t.Setenv("SERVICE_REDIS_ADDR", "localhost:6379")
	t.Setenv("SERVICE_REDIS_DB", "2")

	cfg := StoreConfig(config.New(), "api")
	if !cfg.PG.Enabled || cfg.PG.MaxConns != 9 || cfg.PG.URL == "" {
		t.Fatalf("pg config = %+v", cfg.PG)
	}
	if cfg.CH.Enabled {
		t.Fatal("clickhouse should stay off without a dsn")
	}
	if !cfg.RDS.Enabled || cfg.RDS.DB != 2 {
		t.Fatalf("redis config = %+v", cfg.RDS)
	}
	if cfg.AppName != AppName {
		t.Fatalf("app name = %q", cfg.AppName)
	}
}

func TestNewOracle_DisabledWithoutKey(t *testing.T) {
	t.Setenv("ORACLE_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	o := NewOracle(context.Background(), config.New(), prompts.Default())
	if _, ok := o.(oracle.Disabled); !ok {
		t.Fatalf("oracle = %T, want oracle.Disabled", o)
	}
	if _, err := o.ExtractIdentifier(context.Background(), "x"); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}

func TestNewSender_FallsBackToLogSender(t *testing.T) {
	t.Setenv("WHATSAPP_TOKEN", "")
	t.Setenv("WHATSAPP_PHONE_ID", "")
	if _, ok := NewSender(config.New()).(whatsapp.LogSender); !ok {
		t.Fatal("expected LogSender without credentials")
	}

	t.Setenv("WHATSAPP_TOKEN", "tok")
	t.Setenv("WHATSAPP_PHONE_ID", "123")
	if _, ok := NewSender(config.New()).(*whatsapp.Client); !ok {
		t.Fatal("expected a client with credentials")
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("TDSDESK_BOOT_MARKER=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TDSDESK_BOOT_MARKER", "")
	if err := os.Unsetenv("TDSDESK_BOOT_MARKER"); err != nil {
		t.Fatal(err)
	}

	if err := LoadEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadEnv err: %v", err)
	}
	if got := os.Getenv("TDSDESK_BOOT_MARKER"); got != "from-file" {
		t.Fatalf("marker = %q", got)
	}
}
