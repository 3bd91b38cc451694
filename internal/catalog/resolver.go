package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/moda-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
	"github.com/angelmondragon/moda-storefront/pkg/metrics"
)

// Options are injected by the caller; nothing is read from globals.
type Options struct {
	// ForceOffline skips every source that needs the network.
	ForceOffline bool
}

// Result is a resolved listing plus where it came from. Degraded is set when the
// items are placeholders; Message then carries the error that forced it.
type Result struct {
	Page
	Source   enums.CatalogSource `json:"source"`
	Degraded bool                `json:"degraded"`
	Message  string              `json:"message,omitempty"`
}

// Resolver walks an ordered chain of sources until one answers.
type Resolver struct {
	sources []Source
	opts    Options
	logg    *logger.Logger
	metrics *metrics.CatalogMetrics
}

func NewResolver(sources []Source, opts Options, logg *logger.Logger, m *metrics.CatalogMetrics) *Resolver {
	return &Resolver{sources: sources, opts: opts, logg: logg, metrics: m}
}

// Chain returns the sources that will be consulted, in order.
func (r *Resolver) Chain() []Source {
	chain := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		if r.opts.ForceOffline && s.Online() {
			continue
		}
		chain = append(chain, s)
	}
	return chain
}

// ListProducts never fails while some source in the chain answers.
func (r *Resolver) ListProducts(ctx context.Context, q Query) (Result, error) {
	q = q.Normalize()
	start := time.Now()
	defer func() { r.metrics.ObserveDuration("list", time.Since(start)) }()

	var lastErr *SourceError
	for _, src := range r.Chain() {
		page, err := src.ListProducts(ctx, q)
		if err != nil {
			lastErr = r.recordFailure(ctx, "list", src, err)
			continue
		}

		r.metrics.IncResolved("list", src.Name().String())
		res := Result{Page: page, Source: src.Name()}
		if p, ok := src.(placeholder); ok && p.Placeholder() {
			res.Degraded = true
			if lastErr != nil {
				res.Message = lastErr.Message
			}
		}
		return res, nil
	}
	return Result{}, exhausted(lastErr)
}

// GetProduct consults the same chain. An id unknown to every source that answered
// is a not-found error.
func (r *Resolver) GetProduct(ctx context.Context, id int64) (Product, enums.CatalogSource, error) {
	start := time.Now()
	defer func() { r.metrics.ObserveDuration("get", time.Since(start)) }()

	var (
		lastErr  *SourceError
		notFound bool
	)
	for _, src := range r.Chain() {
		p, err := src.GetProduct(ctx, id)
		if errors.Is(err, ErrProductNotFound) {
			notFound = true
			continue
		}
		if err != nil {
			lastErr = r.recordFailure(ctx, "get", src, err)
			continue
		}
		r.metrics.IncResolved("get", src.Name().String())
		return p, src.Name(), nil
	}
	if notFound {
		return Product{}, "", pkgerrors.New(pkgerrors.CodeNotFound, MsgProductNotFound)
	}
	return Product{}, "", exhausted(lastErr)
}

func (r *Resolver) recordFailure(ctx context.Context, op string, src Source, err error) *SourceError {
	var se *SourceError
	if !errors.As(err, &se) {
		se = newSourceError(src.Name(), KindTransport, err)
	}
	r.metrics.IncFallback(src.Name().String(), string(se.Kind))
	if r.logg != nil {
		fields := map[string]any{
			"operation":   op,
			"source":      src.Name().String(),
			"source_kind": string(se.Kind),
			"error":       err.Error(),
		}
		r.logg.Warn(r.logg.WithFields(ctx, fields), "catalog source failed, falling back")
	}
	return se
}

func exhausted(lastErr *SourceError) error {
	if lastErr == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, MsgTransport)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, lastErr.Message)
}
