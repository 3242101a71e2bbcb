package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "AGGREGATOR_DB_DSN"
	EnvDBHost = "AGGREGATOR_DB_HOST"
	EnvDBUser = "AGGREGATOR_DB_USER"
	EnvDBName = "AGGREGATOR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App    AppConfig
	DB     DBConfig
	Ingest IngestConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AGGREGATOR_APP_ENV" required:"true"`
	Port         string `envconfig:"AGGREGATOR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGGREGATOR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGGREGATOR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN       string `envconfig:"AGGREGATOR_DB_DSN"`
	UseSQLite bool   `envconfig:"AGGREGATOR_USE_SQLITE" default:"false"`
	// SQLitePath only matters when UseSQLite is set; defaults to an on-disk
	// file so saved reports survive a restart during local runs.
	SQLitePath  string `envconfig:"AGGREGATOR_SQLITE_PATH" default:"aggregator.db"`
	AutoMigrate bool   `envconfig:"AGGREGATOR_AUTO_MIGRATE" default:"false"`

	LegacyHost     string `envconfig:"AGGREGATOR_DB_HOST"`
	LegacyPort     int    `envconfig:"AGGREGATOR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AGGREGATOR_DB_USER"`
	LegacyPassword string `envconfig:"AGGREGATOR_DB_PASSWORD"`
	LegacyName     string `envconfig:"AGGREGATOR_DB_NAME"`
	LegacySSLMode  string `envconfig:"AGGREGATOR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGGREGATOR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGGREGATOR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGGREGATOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGGREGATOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type IngestConfig struct {
	MaxUploadMB int `envconfig:"AGGREGATOR_MAX_UPLOAD_MB" default:"50"`
}

// MaxUploadBytes returns the upload cap in bytes.
func (i IngestConfig) MaxUploadBytes() int64 {
	if i.MaxUploadMB <= 0 {
		return 0
	}
	return int64(i.MaxUploadMB) << 20
}

func (db *DBConfig) ensureDSN() error {
	if db.UseSQLite || db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
