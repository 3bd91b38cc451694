package cart

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/moda-storefront/pkg/kvstore"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
)

type failingKV struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingKV) Get(context.Context, string) (string, error) { return "", f.getErr }
func (f *failingKV) Set(context.Context, string, string) error {
	f.sets++
	return f.setErr
}
func (f *failingKV) Delete(context.Context, string) error { return nil }

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard})
}

func newMemoryStore(t *testing.T) (*Store, kvstore.Store) {
	t.Helper()
	kv := kvstore.NewMemory()
	return NewStore(context.Background(), kv, "moda_cart", quietLogger(), nil), kv
}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestAddItemSumsRepeatedAdds(t *testing.T) {
	t.Parallel()
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	for _, q := range []int{2, 3, 1} {
		s.AddItem(ctx, 7, q, nil, &Meta{UnitPrice: price(10)})
	}

	lines := s.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0].Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", lines[0].Quantity)
	}
}

func TestAddItemDefaults(t *testing.T) {
	t.Parallel()
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	s.AddItem(ctx, 1, 0, nil, nil)
	s.AddItem(ctx, 2, -4, nil, nil)

	lines := s.Lines()
	if len(lines) != 2 || lines[0].Quantity != 1 || lines[1].Quantity != 1 {
		t.Fatalf("expected two lines of quantity 1, got %+v", lines)
	}
	if !lines[0].UnitPrice.IsZero() {
		t.Fatalf("expected zero price without metadata, got %s", lines[0].UnitPrice)
	}
}

func TestSetQuantity(t *testing.T) {
	t.Parallel()
	s, _ := newMemoryStore(t)
	ctx := context.Background()
	s.AddItem(ctx, 1, 1, nil, nil)
	s.AddItem(ctx, 2, 1, nil, nil)

	s.SetQuantity(ctx, 1, 4)
	if l, _ := s.Line(1); l.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", l.Quantity)
	}

	s.SetQuantity(ctx, 1, 0)
	if _, ok := s.Line(1); ok {
		t.Fatalf("expected line removed at quantity 0")
	}
	if len(s.Lines()) != 1 {
		t.Fatalf("expected the other line to survive")
	}
}

func TestSetQuantityUnknownVariantStillPublishes(t *testing.T) {
	t.Parallel()
	kv := &failingKV{getErr: kvstore.ErrNotFound}
	s := NewStore(context.Background(), kv, "k", quietLogger(), nil)

	var calls int
	s.Subscribe(func([]Line) { calls++ })
	s.SetQuantity(context.Background(), 99, 3)

	if calls != 2 {
		t.Fatalf("expected initial call plus one publish, got %d", calls)
	}
	if kv.sets != 1 {
		t.Fatalf("expected one save, got %d", kv.sets)
	}
	if len(s.Lines()) != 0 {
		t.Fatalf("expected cart to stay empty")
	}
}

func TestRemoveItemAndClear(t *testing.T) {
	t.Parallel()
	s, _ := newMemoryStore(t)
	ctx := context.Background()
	s.AddItem(ctx, 1, 1, nil, nil)
	s.AddItem(ctx, 2, 1, nil, nil)

	s.RemoveItem(ctx, 1)
	s.RemoveItem(ctx, 42)
	if lines := s.Lines(); len(lines) != 1 || lines[0].VariantID != 2 {
		t.Fatalf("unexpected lines after remove: %+v", lines)
	}

	s.Clear(ctx)
	if len(s.Lines()) != 0 || s.Count() != 0 {
		t.Fatalf("expected empty cart after clear")
	}
}

func TestTotalAndCount(t *testing.T) {
	t.Parallel()
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	if !s.Total().IsZero() {
		t.Fatalf("empty cart total must be 0")
	}

	s.AddItem(ctx, 1, 2, nil, &Meta{UnitPrice: decimal.RequireFromString("19.99")})
	s.AddItem(ctx, 2, 3, nil, &Meta{UnitPrice: price(100)})

	if want := decimal.RequireFromString("339.98"); !s.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, s.Total())
	}
	if s.Count() != 5 {
		t.Fatalf("expected count 5, got %d", s.Count())
	}
}

func TestStorePersistsAndReloads(t *testing.T) {
	t.Parallel()
	s, kv := newMemoryStore(t)
	ctx := context.Background()
	productID := int64(3)
	stock := 4
	s.AddItem(ctx, 31, 2, &productID, &Meta{Name: "Chaqueta", Size: "M", Color: "Negro", UnitPrice: price(300), Stock: &stock})

	reloaded := NewStore(ctx, kv, "moda_cart", quietLogger(), nil)
	lines := reloaded.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one persisted line, got %d", len(lines))
	}
	l := lines[0]
	if l.VariantID != 31 || l.Quantity != 2 || l.Name != "Chaqueta" || *l.ProductID != 3 || *l.Stock != 4 {
		t.Fatalf("unexpected reloaded line %+v", l)
	}
	if !l.UnitPrice.Equal(price(300)) {
		t.Fatalf("expected price 300, got %s", l.UnitPrice)
	}
}

func TestStoreLoadDefaultsAndCorruptData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := kvstore.NewMemory()

	_ = kv.Set(ctx, "partial", `[{"variantId":5},{"variantId":6,"cantidad":2,"precio":1500},{"variantId":5,"cantidad":3}]`)
	lines := NewStore(ctx, kv, "partial", quietLogger(), nil).Lines()
	if len(lines) != 2 {
		t.Fatalf("expected duplicates merged into 2 lines, got %+v", lines)
	}
	if lines[0].Quantity != 4 || !lines[0].UnitPrice.IsZero() {
		t.Fatalf("expected defaults applied and merged, got %+v", lines[0])
	}

	_ = kv.Set(ctx, "corrupt", `{not json`)
	if got := NewStore(ctx, kv, "corrupt", quietLogger(), nil).Lines(); len(got) != 0 {
		t.Fatalf("expected empty cart for corrupt data, got %+v", got)
	}

	failing := &failingKV{getErr: errors.New("disk gone")}
	if got := NewStore(ctx, failing, "k", quietLogger(), nil).Lines(); len(got) != 0 {
		t.Fatalf("expected empty cart when storage read fails")
	}
}

func TestStoreSwallowsWriteFailures(t *testing.T) {
	t.Parallel()
	kv := &failingKV{getErr: kvstore.ErrNotFound, setErr: errors.New("quota exceeded")}
	s := NewStore(context.Background(), kv, "k", quietLogger(), nil)

	var published []Line
	s.Subscribe(func(lines []Line) { published = lines })
	s.AddItem(context.Background(), 1, 2, nil, nil)

	if s.Count() != 2 || len(published) != 1 {
		t.Fatalf("memory must stay authoritative: count=%d published=%+v", s.Count(), published)
	}
}

func TestSubscribeReceivesSnapshotsSynchronously(t *testing.T) {
	t.Parallel()
	s, _ := newMemoryStore(t)
	ctx := context.Background()
	s.AddItem(ctx, 1, 1, nil, nil)

	var got [][]Line
	sub := s.Subscribe(func(lines []Line) {
		got = append(got, lines)
		// reads from a callback are allowed
		_ = s.Total()
	})
	if len(got) != 1 || len(got[0]) != 1 {
		t.Fatalf("expected immediate snapshot, got %+v", got)
	}

	s.AddItem(ctx, 2, 1, nil, nil)
	if len(got) != 2 || len(got[1]) != 2 {
		t.Fatalf("expected publish before AddItem returned, got %d snapshots", len(got))
	}

	got[1][0].Quantity = 100
	if l, _ := s.Line(1); l.Quantity != 1 {
		t.Fatalf("subscribers must receive copies")
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	s.Clear(ctx)
	if len(got) != 2 {
		t.Fatalf("expected no notification after unsubscribe")
	}
}

func TestWatchDeliversLatestSnapshot(t *testing.T) {
	t.Parallel()
	s, _ := newMemoryStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch := s.Watch(ctx)
	first := <-ch
	if len(first) != 0 {
		t.Fatalf("expected empty initial snapshot")
	}

	s.AddItem(context.Background(), 1, 1, nil, nil)
	s.AddItem(context.Background(), 2, 1, nil, nil)
	latest := <-ch
	if len(latest) != 2 {
		t.Fatalf("expected latest snapshot with 2 lines, got %d", len(latest))
	}

	cancel()
	for range ch {
	}
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	t.Parallel()
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(ctx, 1, 1, nil, nil)
		}()
	}
	wg.Wait()

	if l, _ := s.Line(1); l.Quantity != 50 {
		t.Fatalf("expected 50, got %d", l.Quantity)
	}
}
