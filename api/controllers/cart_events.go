package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/angelmondragon/moda-storefront/api/middleware"
	"github.com/angelmondragon/moda-storefront/api/responses"
	"github.com/angelmondragon/moda-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
)

const (
	cartEventName     = "cart"
	sseHeartbeatEvery = 25 * time.Second
)

// CartEvents streams the cart as server-sent events: one "cart" event per
// published snapshot, starting with the current one.
func CartEvents(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		ctx := r.Context()
		views, err := svc.Watch(ctx, middleware.ProfileFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		heartbeat := time.NewTicker(sseHeartbeatEvery)
		defer heartbeat.Stop()

		seq := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				flusher.Flush()
			case view, open := <-views:
				if !open {
					return
				}
				payload, err := json.Marshal(view)
				if err != nil {
					if logg != nil {
						logg.Error(ctx, "cart.events.encode_failed", err)
					}
					continue
				}
				seq++
				if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", seq, cartEventName, payload); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
