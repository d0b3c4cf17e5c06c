package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogdomain "github.com/smallbiznis/storefront/internal/catalog/domain"
	"github.com/smallbiznis/storefront/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler, cacheTTL time.Duration) (catalogdomain.Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := New(Params{
		Cfg: config.Config{
			CatalogBaseURL:  srv.URL,
			CatalogTimeout:  time.Second,
			CatalogCacheTTL: cacheTTL,
		},
		Log: zap.NewNop(),
	})
	return svc, srv
}

func TestGetPricingSource(t *testing.T) {
	var gotPath string
	svc, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"product_id":"prd_1",
			"name":"Tax Suite Pro",
			"subscription_durations":[{"label":"1 Year","price_inr":999}],
			"lifetime_price":2499
		}}`))
	}), time.Minute)

	src, err := svc.GetPricingSource(context.Background(), "prd_1")
	require.NoError(t, err)
	assert.Equal(t, "/v1/products/prd_1/pricing", gotPath)
	assert.Equal(t, "Tax Suite Pro", src.Name)
	require.Len(t, src.SubscriptionDurations, 1)
	assert.Equal(t, 999.0, src.SubscriptionDurations[0].PriceINR)
	assert.Equal(t, 2499.0, src.LifetimePrice)
}

func TestGetPricingSourceCaches(t *testing.T) {
	var hits atomic.Int64
	svc, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"data":{"product_id":"prd_1","name":"Tax Suite Pro"}}`))
	}), time.Minute)

	_, err := svc.GetPricingSource(context.Background(), "prd_1")
	require.NoError(t, err)
	_, err = svc.GetPricingSource(context.Background(), "prd_1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), hits.Load())
}

func TestGetPricingSourceNotFound(t *testing.T) {
	svc, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), time.Minute)

	_, err := svc.GetPricingSource(context.Background(), "prd_missing")
	assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
}

func TestGetPricingSourceServerError(t *testing.T) {
	svc, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), time.Minute)

	_, err := svc.GetPricingSource(context.Background(), "prd_1")
	assert.ErrorIs(t, err, catalogdomain.ErrCatalogUnavailable)
}

func TestGetPricingSourceUnreachable(t *testing.T) {
	svc, srv := newTestClient(t, http.NotFoundHandler(), time.Minute)
	srv.Close()

	_, err := svc.GetPricingSource(context.Background(), "prd_1")
	assert.ErrorIs(t, err, catalogdomain.ErrCatalogUnavailable)
}

func TestGetPricingSourceMalformedBody(t *testing.T) {
	svc, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":`))
	}), time.Minute)

	_, err := svc.GetPricingSource(context.Background(), "prd_1")
	assert.ErrorIs(t, err, catalogdomain.ErrCatalogUnavailable)
}

func TestGetPricingSourceBlankProduct(t *testing.T) {
	svc, _ := newTestClient(t, http.NotFoundHandler(), time.Minute)

	_, err := svc.GetPricingSource(context.Background(), "   ")
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidProduct)
}

func TestGetPricingSourceFillsProductID(t *testing.T) {
	svc, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"name":"No ID"}}`))
	}), time.Minute)

	src, err := svc.GetPricingSource(context.Background(), "prd_9")
	require.NoError(t, err)
	assert.Equal(t, "prd_9", src.ProductID)
}
