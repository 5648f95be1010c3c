package store

import (
	"time"

	"campaigntracker/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled          bool
	URL              string
	MaxConns         int32
	LogSQL           bool
	SlowQueryMs      int
	StatementTimeout time.Duration

	// boot guard: ping attempts with capped exponential backoff
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}

// RedisConfig configures redis connectivity
type RedisConfig struct {
	Enabled bool
	URL     string
}

// FromConfig reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_*;
// clickhouse and redis stay disabled when their url is empty
func FromConfig(root config.Conf, app, role string) Config {
	pgc := root.Prefix("SERVICE_PGSQL_")
	chc := root.Prefix("SERVICE_CLICKHOUSE_")
	rc := root.Prefix("SERVICE_REDIS_")

	chURL := chc.MayString("DBURL", "")
	redisURL := rc.MayString("URL", "")
	return Config{
		AppName: app,
		PG: PGConfig{
			Enabled:          true,
			URL:              pgc.MustString("DBURL"),
			MaxConns:         int32(pgc.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:      pgc.MayInt("SLOW_MS", 500),
			LogSQL:           pgc.MayBool("LOG_SQL", false),
			StatementTimeout: pgc.MayDuration("STATEMENT_TIMEOUT", 0),
		},
		CH: CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: app,
			ClientTag:  role,
		},
		RDS: RedisConfig{
			Enabled: redisURL != "",
			URL:     redisURL,
		},
	}
}
