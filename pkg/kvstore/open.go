package kvstore

import (
	"fmt"

	"github.com/angelmondragon/moda-storefront/pkg/config"
	"github.com/angelmondragon/moda-storefront/pkg/db"
	pkgredis "github.com/angelmondragon/moda-storefront/pkg/redis"
)

// Backends carries the optional infrastructure a driver may need.
type Backends struct {
	Redis *pkgredis.Client
	DB    *db.Client
}

// Open builds the Store selected by MODA_CART_STORAGE.
func Open(cfg config.CartConfig, backends Backends) (Store, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return NewMemory(), nil
	case config.StorageFile, "":
		return NewFile(cfg.FileDir)
	case config.StorageRedis:
		if backends.Redis == nil {
			return nil, fmt.Errorf("kvstore: %s storage needs a redis client", cfg.StorageDriver)
		}
		return NewRedis(backends.Redis)
	case config.StorageSQL:
		if backends.DB == nil {
			return nil, fmt.Errorf("kvstore: %s storage needs a database client", cfg.StorageDriver)
		}
		return NewSQL(backends.DB.DB())
	default:
		return nil, fmt.Errorf("kvstore: unknown storage driver %q", cfg.StorageDriver)
	}
}
