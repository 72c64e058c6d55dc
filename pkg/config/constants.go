package config

const (
	EnvPrefix = "CART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "CART_APP_ENV"
	EnvPort           = "CART_APP_PORT"
	EnvLogLevel       = "CART_LOG_LEVEL"
	EnvMaxQuantity    = "CART_MAX_QUANTITY_PER_ITEM"
	EnvMinQuantity    = "CART_MIN_QUANTITY_PER_ITEM"
	EnvStorageKey     = "CART_STORAGE_KEY"
	EnvCatalogPath    = "CART_CATALOG_PATH"
	EnvStorageDriver  = "CART_STORAGE_DRIVER"
	EnvStorageTimeout = "CART_STORAGE_TIMEOUT"
	EnvStorageTTL     = "CART_STORAGE_TTL"
	EnvRedisURL       = "CART_REDIS_URL"
	EnvRedisAddr      = "CART_REDIS_ADDR"
	EnvDBDSN          = "CART_DB_DSN"
	EnvDBHost         = "CART_DB_HOST"
	EnvDBUser         = "CART_DB_USER"
	EnvDBName         = "CART_DB_NAME"
	EnvDBSQLitePath   = "CART_DB_SQLITE_PATH"
	EnvDBAutoMigrate  = "CART_DB_AUTO_MIGRATE"
	EnvPlaceholderImg = "CART_PLACEHOLDER_IMAGE"
	EnvCORSOrigins    = "CART_CORS_ALLOWED_ORIGINS"
	EnvJobsInterval   = "CART_JOBS_INTERVAL"
	EnvSessionIdleTTL = "CART_SESSION_IDLE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
