package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SHOP"

	EnvAppEnv      = "SHOP_APP_ENV"
	EnvPort        = "SHOP_APP_PORT"
	EnvLogLevel    = "SHOP_LOG_LEVEL"
	EnvLogFormat   = "SHOP_LOG_FORMAT"
	EnvDBDriver    = "SHOP_DB_DRIVER"
	EnvDBDSN       = "SHOP_DB_DSN"
	EnvDBHost      = "SHOP_DB_HOST"
	EnvDBPort      = "SHOP_DB_PORT"
	EnvDBUser      = "SHOP_DB_USER"
	EnvDBPassword  = "SHOP_DB_PASSWORD"
	EnvDBName      = "SHOP_DB_NAME"
	EnvRedisURL    = "SHOP_REDIS_URL"
	EnvCacheTTL    = "SHOP_PRODUCT_CACHE_TTL"
	EnvUploadDir   = "SHOP_UPLOAD_DIR"
	EnvMaxUploadMB = "SHOP_UPLOAD_MAX_MB"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	Upload UploadConfig
}

// Load reads the configuration from the environment. Call godotenv first if a
// .env file should be honoured.
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
	Env       string `envconfig:"SHOP_APP_ENV" default:"dev"`
	Port      string `envconfig:"SHOP_APP_PORT" default:"3000"`
	LogLevel  string `envconfig:"SHOP_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"SHOP_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"SHOP_DB_DRIVER" default:"postgres"`
	DSN    string `envconfig:"SHOP_DB_DSN"`

	Host     string `envconfig:"SHOP_DB_HOST"`
	Port     int    `envconfig:"SHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"SHOP_DB_USER"`
	Password string `envconfig:"SHOP_DB_PASSWORD"`
	Name     string `envconfig:"SHOP_DB_NAME"`
	SSLMode  string `envconfig:"SHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOP_DB_MAX_OPEN_CONNS" default:"100"`
	MaxIdleConns    int           `envconfig:"SHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	SlowQuery       time.Duration `envconfig:"SHOP_DB_SLOW_QUERY" default:"1s"`
}

func (db *DBConfig) ensureDSN() error {
	driver := strings.ToLower(strings.TrimSpace(db.Driver))
	switch driver {
	case DriverPostgres, DriverSQLite:
		db.Driver = driver
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}

	if strings.TrimSpace(db.DSN) != "" {
		return nil
	}
	if db.Driver == DriverSQLite {
		db.DSN = "file:shop.db?cache=shared"
		return nil
	}
	if db.Host == "" || db.User == "" || db.Name == "" {
		return fmt.Errorf("%s or %s/%s/%s is required", EnvDBDSN, EnvDBHost, EnvDBUser, EnvDBName)
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(db.User, db.Password),
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   "/" + db.Name,
	}
	q := u.Query()
	q.Set("sslmode", db.SSLMode)
	u.RawQuery = q.Encode()
	db.DSN = u.String()
	return nil
}

// RedisConfig is optional; an empty URL disables the product cache.
type RedisConfig struct {
	URL      string        `envconfig:"SHOP_REDIS_URL"`
	CacheTTL time.Duration `envconfig:"SHOP_PRODUCT_CACHE_TTL" default:"5m"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type UploadConfig struct {
	Dir   string `envconfig:"SHOP_UPLOAD_DIR" default:"./uploads"`
	MaxMB int    `envconfig:"SHOP_UPLOAD_MAX_MB" default:"10"`
}
