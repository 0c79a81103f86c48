package modkit

import (
	"tdsdesk/internal/platform/config"
	"tdsdesk/internal/platform/logger"
	"tdsdesk/internal/platform/store"

	"github.com/redis/go-redis/v9"
)

// Deps are the shared handles every module may use; disabled backends are nil
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	PG    store.TxRunner
	CH    store.Clickhouse
	Redis *redis.Client
}
