// Package bootstrap builds the process level dependencies shared by the binaries
package bootstrap

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"tdsdesk/internal/adapters/messaging/whatsapp"
	"tdsdesk/internal/adapters/oracle"
	"tdsdesk/internal/adapters/oracle/gemini"
	"tdsdesk/internal/core/prompts"
	"tdsdesk/internal/platform/config"
	"tdsdesk/internal/platform/logger"
	"tdsdesk/internal/platform/store"
	"tdsdesk/internal/platform/store/migrate"
	adom "tdsdesk/internal/services/assistant/domain"
	idom "tdsdesk/internal/services/interactions/domain"

	"github.com/joho/godotenv"
)

// AppName tags database sessions and the service name
const AppName = "tdsdesk"

// Oracle answers questions and analyzes text
type Oracle interface {
	adom.Oracle
	idom.Analyzer
}

// LoadEnv reads .env files into the environment; missing files are ignored
// variables already set in the environment win
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// StoreConfig reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_*
// clickhouse and redis are enabled only when their address is set
func StoreConfig(root config.Conf, tag string) store.Config {
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	rdCfg := root.Prefix("SERVICE_REDIS_")

	chURL := chCfg.MayString("DBURL", "")
	rdAddr := rdCfg.MayString("ADDR", "")

	return store.Config{
		AppName: AppName,
		PG: store.PGConfig{
			Enabled:        true,
			URL:            pgCfg.MustString("DBURL"),
			MaxConns:       int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:    pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:         pgCfg.MayBool("LOG_SQL", false),
			ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 20),
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: AppName,
			ClientTag:  tag,
		},
		RDS: store.RedisConfig{
			Enabled:  rdAddr != "",
			Addr:     rdAddr,
			Password: rdCfg.MayString("PASSWORD", ""),
			DB:       rdCfg.MayInt("DB", 0),
		},
	}
}

// OpenStore opens the configured backends and applies migrations when asked
func OpenStore(ctx context.Context, root config.Conf, tag string, migrateDefault bool) (*store.Store, error) {
	l := logger.Get()
	st, err := store.Open(ctx, StoreConfig(root, tag), store.WithLogger(*l))
	if err != nil {
		return nil, err
	}
	if root.Prefix("SERVICE_PGSQL_").MayBool("MIGRATE", migrateDefault) {
		applied, err := migrate.Up(ctx, st.PG)
		if err != nil {
			_ = st.Close(ctx)
			return nil, err
		}
		l.Info().Int("applied", len(applied)).Msg("schema up to date")
	}
	return st, nil
}

// Catalog loads PROMPTS_FILE over the embedded prompts
func Catalog(root config.Conf) (*prompts.Catalog, error) {
	return prompts.Load(root.MayString("PROMPTS_FILE", ""))
}

// NewOracle builds the Gemini backed oracle from ORACLE_*
// without an API key every call fails with an unavailable error
func NewOracle(ctx context.Context, root config.Conf, catalog *prompts.Catalog) Oracle {
	oc := root.Prefix("ORACLE_")
	key := oc.MayString("API_KEY", root.MayString("GOOGLE_API_KEY", ""))
	if strings.TrimSpace(key) == "" {
		logger.Get().Error().Msg("ORACLE_API_KEY is not set, questions will fail until it is configured")
		return oracle.Disabled{Reason: "ORACLE_API_KEY is not set"}
	}

	model, err := gemini.New(ctx, gemini.Options{
		APIKey:  key,
		Model:   oc.MayString("MODEL", gemini.DefaultModel),
		BaseURL: oc.MayString("BASE_URL", ""),
	})
	if err != nil {
		logger.Get().Error().Err(err).Msg("oracle client failed")
		return oracle.Disabled{Reason: err.Error()}
	}
	logger.Get().Info().Str("model", model.Name()).Msg("oracle ready")
	return oracle.New(model, catalog, oracle.Options{
		Timeout: oc.MayDuration("TIMEOUT", 0),
		Retries: oc.MayInt("RETRIES", 0),
	})
}

// NewSender builds the WhatsApp client from WHATSAPP_*
// without credentials answers are only logged
func NewSender(root config.Conf) adom.SenderPort {
	wc := root.Prefix("WHATSAPP_")
	c, err := whatsapp.NewClient(whatsapp.Options{
		BaseURL:       wc.MayString("BASE_URL", ""),
		Token:         wc.MayString("TOKEN", ""),
		PhoneNumberID: wc.MayString("PHONE_ID", ""),
		Timeout:       wc.MayDuration("TIMEOUT", 0),
		RPS:           wc.MayFloat64("RPS", 0),
	})
	if err != nil {
		logger.Get().Warn().Err(err).Msg("whatsapp delivery disabled, answers are logged only")
		return whatsapp.LogSender{}
	}
	return c
}
