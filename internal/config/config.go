package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string // Postgres DSN; when empty, SQLitePath is used
	SQLitePath          string
	RedisURL            string
	IngestKeyHash       string // bcrypt hash guarding the reconcile endpoint; empty disables the check
	FrontendURLEndsWith string
	PruneGrace          time.Duration
	CacheTTL            time.Duration
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	sqlitePath := viper.GetString("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "listings.db"
	}

	grace := viper.GetInt("PRUNE_GRACE_MINUTES")
	if grace <= 0 {
		grace = 60
	}
	cacheTTL := viper.GetInt("CACHE_TTL_SECONDS")
	if cacheTTL <= 0 {
		cacheTTL = 300
	}

	return &Config{
		Env:                 env,
		Port:                port,
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		SQLitePath:          sqlitePath,
		RedisURL:            viper.GetString("REDIS_URL"),
		IngestKeyHash:       viper.GetString("INGEST_KEY_HASH"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		PruneGrace:          time.Duration(grace) * time.Minute,
		CacheTTL:            time.Duration(cacheTTL) * time.Second,
	}, nil
}
