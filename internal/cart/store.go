// Package cart holds the persisted shopping cart of a device profile and the
// services built on top of it.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/moda-storefront/pkg/kvstore"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
	"github.com/angelmondragon/moda-storefront/pkg/metrics"
)

// Store is the canonical line list of one profile. Every mutation is persisted and
// published to all subscribers before it returns. Storage failures are logged and
// never reported; the in-memory state stays authoritative.
//
// Subscriber callbacks may read the store but must not mutate it or subscribe.
type Store struct {
	key     string
	kv      kvstore.Store
	logg    *logger.Logger
	metrics *metrics.CartMetrics

	// publishMu serializes mutate, persist and notify.
	publishMu sync.Mutex

	mu     sync.RWMutex
	lines  []Line
	subs   map[uint64]func([]Line)
	nextID uint64
}

// NewStore loads the lines saved under key. Absent or unreadable data yields an
// empty cart.
func NewStore(ctx context.Context, kv kvstore.Store, key string, logg *logger.Logger, m *metrics.CartMetrics) *Store {
	s := &Store{
		key:     key,
		kv:      kv,
		logg:    logg,
		metrics: m,
		subs:    map[uint64]func([]Line){},
	}
	s.lines = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []Line {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []Line{}
	}
	if err != nil {
		s.storageFailure(ctx, "read", err)
		return []Line{}
	}
	lines, err := decodeLines(raw)
	if err != nil {
		s.storageFailure(ctx, "read", err)
		return []Line{}
	}
	return lines
}

// AddItem increments an existing line or appends a new one. A non-positive
// quantity counts as 1.
func (s *Store) AddItem(ctx context.Context, variantID int64, quantity int, productID *int64, meta *Meta) {
	if quantity <= 0 {
		quantity = 1
	}
	s.mutate(ctx, "add", func(lines []Line) []Line {
		for i := range lines {
			if lines[i].VariantID == variantID {
				lines[i].Quantity += quantity
				return lines
			}
		}
		line := Line{VariantID: variantID, Quantity: quantity, UnitPrice: decimal.Zero}
		if productID != nil {
			id := *productID
			line.ProductID = &id
		}
		if meta != nil {
			line.Name = meta.Name
			line.ImageURL = meta.ImageURL
			line.Size = meta.Size
			line.Color = meta.Color
			line.UnitPrice = meta.UnitPrice
			if meta.Stock != nil {
				stock := *meta.Stock
				line.Stock = &stock
			}
		}
		return append(lines, line)
	})
}

// SetQuantity overwrites a line's quantity; a quantity ≤ 0 removes it. An unknown
// variant leaves the lines untouched but is still saved and published.
func (s *Store) SetQuantity(ctx context.Context, variantID int64, quantity int) {
	s.mutate(ctx, "set", func(lines []Line) []Line {
		for i := range lines {
			if lines[i].VariantID != variantID {
				continue
			}
			if quantity <= 0 {
				return append(lines[:i], lines[i+1:]...)
			}
			lines[i].Quantity = quantity
			return lines
		}
		return lines
	})
}

// RemoveItem deletes the line for variantID if present.
func (s *Store) RemoveItem(ctx context.Context, variantID int64) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	if _, ok := s.line(variantID); !ok {
		return
	}
	s.apply(ctx, "remove", func(lines []Line) []Line {
		for i := range lines {
			if lines[i].VariantID == variantID {
				return append(lines[:i], lines[i+1:]...)
			}
		}
		return lines
	})
}

func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, "clear", func([]Line) []Line { return []Line{} })
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLines(s.lines)
}

// Line returns a copy of the line for variantID.
func (s *Store) Line(variantID int64) (Line, bool) {
	return s.line(variantID)
}

func (s *Store) line(variantID int64) (Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lines {
		if l.VariantID == variantID {
			return l.clone(), true
		}
	}
	return Line{}, false
}

// Total is Σ unitPrice × quantity, unrounded.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalOf(s.lines)
}

// Count is Σ quantity.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return countOf(s.lines)
}

func (s *Store) mutate(ctx context.Context, op string, fn func([]Line) []Line) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.apply(ctx, op, fn)
}

// apply must be called with publishMu held.
func (s *Store) apply(ctx context.Context, op string, fn func([]Line) []Line) {
	s.mu.Lock()
	s.lines = fn(cloneLines(s.lines))
	snapshot := cloneLines(s.lines)
	subs := make([]func([]Line), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.metrics.IncMutation(op)
	s.persist(ctx, snapshot)
	for _, fn := range subs {
		fn(cloneLines(snapshot))
	}
}

func (s *Store) persist(ctx context.Context, lines []Line) {
	raw, err := encodeLines(lines)
	if err == nil {
		err = s.kv.Set(ctx, s.key, raw)
	}
	if err != nil {
		s.storageFailure(ctx, "write", err)
	}
}

func (s *Store) storageFailure(ctx context.Context, direction string, err error) {
	s.metrics.IncStorageFailure(direction)
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"storage_key": s.key,
		"direction":   direction,
		"error":       err.Error(),
	})
	s.logg.Warn(ctx, "cart storage failure ignored")
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.clone()
	}
	return out
}

func totalOf(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func countOf(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
