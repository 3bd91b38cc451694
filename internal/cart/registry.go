package cart

import (
	"context"
	"regexp"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
	"github.com/angelmondragon/moda-storefront/pkg/kvstore"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
	"github.com/angelmondragon/moda-storefront/pkg/metrics"
)

// DefaultProfile is used when a caller does not name a device profile.
const DefaultProfile = "default"

var profileRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// NormalizeProfile maps an empty id to DefaultProfile and rejects ids that are not
// safe to embed in a storage key.
func NormalizeProfile(profile string) (string, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return DefaultProfile, nil
	}
	if !profileRe.MatchString(profile) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "Perfil inválido").
			WithDetails(map[string]any{"profile": profile})
	}
	return profile, nil
}

// StorageKey is baseKey for the default profile and baseKey:profile otherwise.
func StorageKey(baseKey, profile string) string {
	if profile == DefaultProfile {
		return baseKey
	}
	return baseKey + ":" + profile
}

// DefaultMaxProfiles bounds how many profile stores a Registry keeps in memory.
const DefaultMaxProfiles = 1024

// Registry lazily creates one Store per profile over a shared key-value store.
// Past the profile limit the least recently used store without subscribers is
// dropped; its lines are already persisted and reload on next use.
type Registry struct {
	kv      kvstore.Store
	baseKey string
	logg    *logger.Logger
	metrics *metrics.CartMetrics
	limit   int

	mu     sync.Mutex
	clock  uint64
	stores map[string]*registryEntry
}

type registryEntry struct {
	store    *Store
	lastUsed uint64
}

type RegistryOption func(*Registry)

// WithMaxProfiles caps the cached stores; n <= 0 keeps DefaultMaxProfiles.
func WithMaxProfiles(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.limit = n
		}
	}
}

func NewRegistry(kv kvstore.Store, baseKey string, logg *logger.Logger, m *metrics.CartMetrics, opts ...RegistryOption) *Registry {
	r := &Registry{
		kv:      kv,
		baseKey: baseKey,
		logg:    logg,
		metrics: m,
		limit:   DefaultMaxProfiles,
		stores:  map[string]*registryEntry{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the cart of profile, loading it on first use.
func (r *Registry) Store(ctx context.Context, profile string) (*Store, error) {
	profile, err := NormalizeProfile(profile)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock++
	if e, ok := r.stores[profile]; ok {
		e.lastUsed = r.clock
		return e.store, nil
	}
	if r.logg != nil {
		ctx = r.logg.WithProfile(ctx, profile)
	}
	s := NewStore(ctx, r.kv, StorageKey(r.baseKey, profile), r.logg, r.metrics)
	r.stores[profile] = &registryEntry{store: s, lastUsed: r.clock}
	r.evictLocked()
	return s, nil
}

// Len reports how many profile stores are cached.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

func (r *Registry) evictLocked() {
	for len(r.stores) > r.limit {
		victim := ""
		var oldest uint64
		for profile, e := range r.stores {
			if e.lastUsed == r.clock || e.store.subscriberCount() > 0 {
				continue
			}
			if victim == "" || e.lastUsed < oldest {
				victim, oldest = profile, e.lastUsed
			}
		}
		if victim == "" {
			// every cached store is live
			return
		}
		delete(r.stores, victim)
	}
}
