package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/moda-storefront/internal/catalog"
	"github.com/angelmondragon/moda-storefront/pkg/config"
	"github.com/angelmondragon/moda-storefront/pkg/enums"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubCatalog struct {
	result catalog.Result
	query  catalog.Query
}

func (s *stubCatalog) ListProducts(_ context.Context, q catalog.Query) (catalog.Result, error) {
	s.query = q
	return s.result, nil
}

func (s *stubCatalog) GetProduct(context.Context, int64) (catalog.Product, enums.CatalogSource, error) {
	return catalog.Product{}, "", errors.New("unused")
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	cfg := &config.Config{}
	handler := HealthReady(cfg, nil, map[string]Pinger{
		"db":    stubPinger{},
		"redis": stubPinger{err: errors.New("connection refused")},
		"none":  nil,
	})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Details struct {
				Checks map[string]string `json:"checks"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Details.Checks["redis"] != "down" || envelope.Error.Details.Checks["db"] != "up" {
		t.Fatalf("unexpected checks %v", envelope.Error.Details.Checks)
	}
	if _, ok := envelope.Error.Details.Checks["none"]; ok {
		t.Fatal("nil pingers must be skipped")
	}
}

func TestProductsListDegradedSample(t *testing.T) {
	svc := &stubCatalog{result: catalog.Result{
		Page: catalog.Page{
			Items: []catalog.Product{{ID: 9001, Name: "Producto de ejemplo", Price: decimal.NewFromInt(1)}},
			Page:  1,
			Size:  20,
			Total: 3,
		},
		Source:   enums.CatalogSourceSample,
		Degraded: true,
		Message:  catalog.MsgUnavailable,
	}}
	handler := ProductsList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2&size=48&q=%20vestido%20&color=Rojo", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.query.Page != 2 || svc.query.PageSize != 48 || svc.query.SearchText != "vestido" || svc.query.Color != "Rojo" {
		t.Fatalf("unexpected query %+v", svc.query)
	}

	var envelope struct {
		Data struct {
			Source     string `json:"source"`
			Degraded   bool   `json:"degraded"`
			Message    string `json:"message"`
			Pagination struct {
				TotalPages int  `json:"total_pages"`
				HasNext    bool `json:"has_next"`
			} `json:"pagination"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Source != "sample" || !envelope.Data.Degraded || envelope.Data.Message != catalog.MsgUnavailable {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
	if envelope.Data.Pagination.TotalPages != 1 || envelope.Data.Pagination.HasNext {
		t.Fatalf("unexpected pagination %+v", envelope.Data.Pagination)
	}
}
