package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
)

type Config struct {
	App     AppConfig
	Cart    CartConfig
	Storage StorageConfig
	Redis   RedisConfig
	DB      DBConfig
	Jobs    JobsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Jobs.validate(); err != nil {
		return nil, err
	}
	switch cfg.Storage.Driver {
	case enums.StorageDriverPostgres:
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	case enums.StorageDriverSQLite:
		if strings.TrimSpace(cfg.DB.SQLitePath) == "" {
			return nil, fmt.Errorf("%s is required for the sqlite storage driver", EnvDBSQLitePath)
		}
	case enums.StorageDriverRedis:
		if cfg.Redis.URL == "" && cfg.Redis.Address == "" {
			return nil, fmt.Errorf("either %s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"CART_APP_ENV" required:"true"`
	Port         string   `envconfig:"CART_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"CART_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"CART_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"CART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CartConfig carries the behavioural knobs of the cart store.
type CartConfig struct {
	MaxQuantityPerItem int    `envconfig:"CART_MAX_QUANTITY_PER_ITEM" default:"99"`
	MinQuantityPerItem int    `envconfig:"CART_MIN_QUANTITY_PER_ITEM" default:"1"`
	StorageKey         string `envconfig:"CART_STORAGE_KEY" default:"ecom-cart"`
	PlaceholderImage   string `envconfig:"CART_PLACEHOLDER_IMAGE" default:"/placeholder-product.svg"`
	CatalogPath        string `envconfig:"CART_CATALOG_PATH"`
}

func (c CartConfig) validate() error {
	if c.MinQuantityPerItem < 1 {
		return fmt.Errorf("%s must be at least 1", EnvMinQuantity)
	}
	if c.MaxQuantityPerItem < c.MinQuantityPerItem {
		return fmt.Errorf("%s must be >= %s", EnvMaxQuantity, EnvMinQuantity)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("%s must not be empty", EnvStorageKey)
	}
	return nil
}

type StorageConfig struct {
	Driver  enums.StorageDriver `envconfig:"CART_STORAGE_DRIVER" default:"memory"`
	Timeout time.Duration       `envconfig:"CART_STORAGE_TIMEOUT" default:"2s"`
	TTL     time.Duration       `envconfig:"CART_STORAGE_TTL" default:"720h"`
}

func (s *StorageConfig) validate() error {
	driver, err := enums.ParseStorageDriver(string(s.Driver))
	if err != nil {
		return fmt.Errorf("%s: %w", EnvStorageDriver, err)
	}
	s.Driver = driver
	if s.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvStorageTimeout)
	}
	return nil
}

// JobsConfig schedules the in-process housekeeping jobs.
type JobsConfig struct {
	Enabled        bool          `envconfig:"CART_JOBS_ENABLED" default:"true"`
	Interval       time.Duration `envconfig:"CART_JOBS_INTERVAL" default:"1h"`
	SessionIdleTTL time.Duration `envconfig:"CART_SESSION_IDLE_TTL" default:"2h"`
}

func (j JobsConfig) validate() error {
	if !j.Enabled {
		return nil
	}
	if j.Interval <= 0 {
		return fmt.Errorf("%s must be positive", EnvJobsInterval)
	}
	if j.SessionIdleTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionIdleTTL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CART_REDIS_URL"`
	Address      string        `envconfig:"CART_REDIS_ADDR"`
	Password     string        `envconfig:"CART_REDIS_PASSWORD"`
	DB           int           `envconfig:"CART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CART_REDIS_READ_TIMEOUT" default:"2s"`
	WriteTimeout time.Duration `envconfig:"CART_REDIS_WRITE_TIMEOUT" default:"2s"`
}

type DBConfig struct {
	DSN         string `envconfig:"CART_DB_DSN"`
	SQLitePath  string `envconfig:"CART_DB_SQLITE_PATH" default:"cart.db"`
	AutoMigrate bool   `envconfig:"CART_DB_AUTO_MIGRATE" default:"false"`

	LegacyHost     string `envconfig:"CART_DB_HOST"`
	LegacyPort     int    `envconfig:"CART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CART_DB_USER"`
	LegacyPassword string `envconfig:"CART_DB_PASSWORD"`
	LegacyName     string `envconfig:"CART_DB_NAME"`
	LegacySSLMode  string `envconfig:"CART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CART_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CART_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
