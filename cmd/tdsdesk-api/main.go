// @title         TDS Desk API
// @version       0.1.0
// @description   Parts counter assistant: product questions, WhatsApp webhook and interaction history

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tdsdesk/internal/bootstrap"
	"tdsdesk/internal/core/version"
	"tdsdesk/internal/platform/config"
	"tdsdesk/internal/platform/logger"
	phttp "tdsdesk/internal/platform/net/http"

	"tdsdesk/internal/services/api"
)

func main() {
	// .env first so LOG_* from it reach the logger
	envErr := bootstrap.LoadEnv()
	l := logger.Get()
	if envErr != nil {
		l.Panic().Err(envErr).Msg("load .env failed")
	}

	l.Info().Str("build", version.Info().String()).Msg("starting")

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// postgres is required, clickhouse and redis follow their addresses
	st, err := bootstrap.OpenStore(ctx, root, "api", true)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	catalog, err := bootstrap.Catalog(root)
	if err != nil {
		l.Panic().Err(err).Msg("prompts catalog failed")
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(root.Prefix("CORE_"))

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", nil),
			Oracle:         bootstrap.NewOracle(ctx, root, catalog),
			Replies:        catalog,
			Sender:         bootstrap.NewSender(root),
		},
	)

	// serve until SIGINT or SIGTERM
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
