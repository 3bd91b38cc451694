package config

// EnvPrefix is handed to envconfig; every field carries an explicit envconfig tag.
const EnvPrefix = "MODA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	EnvAppEnv   = "MODA_APP_ENV"
	EnvPort     = "MODA_APP_PORT"
	EnvLogLevel = "MODA_LOG_LEVEL"

	EnvCatalogAPIURL       = "MODA_CATALOG_API_URL"
	EnvCatalogForceOffline = "MODA_CATALOG_FORCE_OFFLINE"
	EnvCatalogDatasetPath  = "MODA_CATALOG_DATASET_PATH"
	EnvCatalogHTTPTimeout  = "MODA_CATALOG_HTTP_TIMEOUT"

	EnvCartStorage = "MODA_CART_STORAGE"
	EnvCartFileDir = "MODA_CART_FILE_DIR"

	EnvOrdersShippingFee = "MODA_ORDERS_SHIPPING_FEE"

	EnvDBDSN        = "MODA_DB_DSN"
	EnvDBDriver     = "MODA_DB_DRIVER"
	EnvDBSQLitePath = "MODA_DB_SQLITE_PATH"
	EnvDBHost       = "MODA_DB_HOST"
	EnvDBUser       = "MODA_DB_USER"
	EnvDBName       = "MODA_DB_NAME"

	EnvRedisURL = "MODA_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
