package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	Catalog      CatalogConfig
	Cart         CartConfig
	Orders       OrdersConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MODA_APP_ENV" default:"dev"`
	Port         string `envconfig:"MODA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MODA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MODA_LOG_WARN_STACK" default:"false"`
	// CORSOrigins is a comma separated list of storefront UI origins.
	CORSOrigins []string `envconfig:"MODA_CORS_ORIGINS" default:"http://localhost:4200"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig drives the product source chain.
type CatalogConfig struct {
	APIBaseURL   string `envconfig:"MODA_CATALOG_API_URL" default:"http://localhost:3000"`
	ForceOffline bool   `envconfig:"MODA_CATALOG_FORCE_OFFLINE" default:"false"`
	// DatasetPath overrides the dataset embedded in the binary when set.
	DatasetPath  string        `envconfig:"MODA_CATALOG_DATASET_PATH"`
	HTTPTimeout  time.Duration `envconfig:"MODA_CATALOG_HTTP_TIMEOUT" default:"10s"`
	RetryBackoff time.Duration `envconfig:"MODA_CATALOG_RETRY_BACKOFF" default:"200ms"`
}

type CartConfig struct {
	StorageDriver string `envconfig:"MODA_CART_STORAGE" default:"file"`
	FileDir       string `envconfig:"MODA_CART_FILE_DIR" default:".moda"`
	StorageKey    string `envconfig:"MODA_CART_STORAGE_KEY" default:"moda_cart"`
	MaxProfiles   int    `envconfig:"MODA_CART_MAX_PROFILES" default:"1024"`
}

func (c CartConfig) validate() error {
	switch c.StorageDriver {
	case StorageFile, StorageMemory, StorageRedis, StorageSQL:
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s, %s, %s", EnvCartStorage, StorageFile, StorageMemory, StorageRedis, StorageSQL)
}

type OrdersConfig struct {
	APIBaseURL    string `envconfig:"MODA_ORDERS_API_URL" default:"http://localhost:3000"`
	ShippingFee   string `envconfig:"MODA_ORDERS_SHIPPING_FEE" default:"10000"`
	DefaultUserID int64  `envconfig:"MODA_ORDERS_DEFAULT_USER_ID" default:"1"`

	HTTPTimeout  time.Duration `envconfig:"MODA_ORDERS_HTTP_TIMEOUT" default:"10s"`
	RetryBackoff time.Duration `envconfig:"MODA_ORDERS_RETRY_BACKOFF" default:"200ms"`
}

// FlatShipping parses the configured shipping fee, falling back to zero on bad input.
func (o OrdersConfig) FlatShipping() decimal.Decimal {
	fee, err := decimal.NewFromString(strings.TrimSpace(o.ShippingFee))
	if err != nil || fee.IsNegative() {
		return decimal.Zero
	}
	return fee
}

type DBConfig struct {
	DSN    string `envconfig:"MODA_DB_DSN"`
	Driver string `envconfig:"MODA_DB_DRIVER" default:"sqlite"`

	SQLitePath string `envconfig:"MODA_DB_SQLITE_PATH" default:".moda/moda.db"`

	LegacyHost     string `envconfig:"MODA_DB_HOST"`
	LegacyPort     int    `envconfig:"MODA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MODA_DB_USER"`
	LegacyPassword string `envconfig:"MODA_DB_PASSWORD"`
	LegacyName     string `envconfig:"MODA_DB_NAME"`
	LegacySSLMode  string `envconfig:"MODA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MODA_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MODA_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"MODA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MODA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"MODA_REDIS_URL"`
	Address      string        `envconfig:"MODA_REDIS_ADDR"`
	Password     string        `envconfig:"MODA_REDIS_PASSWORD"`
	DB           int           `envconfig:"MODA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MODA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MODA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MODA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MODA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MODA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MODA_AUTO_MIGRATE" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	switch strings.ToLower(db.Driver) {
	case DBDriverSQLite:
		if db.SQLitePath == "" {
			return fmt.Errorf("%s is required for the sqlite driver", EnvDBSQLitePath)
		}
		db.DSN = db.SQLitePath
		return nil
	case DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, db.Driver)
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
