package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/angelmondragon/moda-storefront/pkg/kvstore"
)

func TestRequestIDKeepsValidCallerID(t *testing.T) {
	var seen string
	h := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(RequestIDHeader)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123" {
		t.Fatalf("expected caller id, got %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "has space")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "has space" || len(seen) != 36 {
		t.Fatalf("expected generated uuid, got %q", seen)
	}
}

func TestShopperResolvesProfileAndUser(t *testing.T) {
	var profile string
	var user int64
	h := Shopper(nil, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile = ProfileFromContext(r.Context())
		user = UserIDFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if profile != "default" || user != 1 {
		t.Fatalf("expected defaults, got %q/%d", profile, user)
	}

	req := httptest.NewRequest(http.MethodGet, "/?profile=tablet", nil)
	req.Header.Set(UserHeader, "42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if profile != "tablet" || user != 42 {
		t.Fatalf("expected tablet/42, got %q/%d", profile, user)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserHeader, "-3")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad user, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ProfileHeader, "../etc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad profile, got %d", rec.Code)
	}
}

func TestRecovererWritesInternalError(t *testing.T) {
	h := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("panic value leaked: %s", rec.Body.String())
	}
}

func TestLoggingRecorderFlushes(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	var w http.ResponseWriter = rec
	if _, ok := w.(http.Flusher); !ok {
		t.Fatal("statusRecorder must implement http.Flusher")
	}
	_, _ = rec.Write([]byte("hola"))
	if rec.status != http.StatusOK || rec.bytes != 4 {
		t.Fatalf("unexpected recorder state %d/%d", rec.status, rec.bytes)
	}
}

func idempotentHandler(calls *int32, status int) http.Handler {
	return Idempotency(kvstore.NewMemory(), 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"call":%d,"echo":%s}`, n, body)
	}))
}

func postWithKey(h http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyReplaysSuccessfulResponse(t *testing.T) {
	var calls int32
	h := idempotentHandler(&calls, http.StatusCreated)

	first := postWithKey(h, "k1", `{"a":1}`)
	second := postWithKey(h, "k1", `{"a":1}`)
	if calls != 1 {
		t.Fatalf("expected handler once, got %d", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Fatalf("expected replay, got %d %s", second.Code, second.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatal("expected replay header")
	}

	conflict := postWithKey(h, "k1", `{"a":2}`)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected 409 on body mismatch, got %d", conflict.Code)
	}

	postWithKey(h, "", `{"a":1}`)
	postWithKey(h, "", `{"a":1}`)
	if calls != 3 {
		t.Fatalf("requests without key must pass through, got %d calls", calls)
	}
}

func TestIdempotencyDoesNotRememberFailures(t *testing.T) {
	var calls int32
	h := idempotentHandler(&calls, http.StatusServiceUnavailable)

	postWithKey(h, "k2", `{}`)
	postWithKey(h, "k2", `{}`)
	if calls != 2 {
		t.Fatalf("failed responses must not be replayed, got %d calls", calls)
	}
}

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, error) { return "", errors.New("redis down") }
func (brokenKV) Set(context.Context, string, string) error   { return nil }
func (brokenKV) Delete(context.Context, string) error        { return nil }

func TestIdempotencyStorageFailure(t *testing.T) {
	h := Idempotency(brokenKV{}, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := postWithKey(h, "k3", `{}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
