package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

func newTestOracle(baseURL string) *coinGeckoOracle {
	return &coinGeckoOracle{
		client:     &fasthttp.Client{},
		baseURL:    baseURL,
		timeout:    2 * time.Second,
		retryDelay: time.Millisecond,
		logger:     zap.NewNop(),
		prices:     cache.New(time.Minute, time.Minute),
		sleep:      func(time.Duration) {},
	}
}

func TestGetPricesBatchedCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/v3/simple/price", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"usd":97000.5},"ethereum":{"usd":2600.25}}`))
	}))
	defer srv.Close()

	oracle := newTestOracle(srv.URL)
	prices := oracle.GetPrices(context.Background(), []string{"bitcoin", "ethereum"})

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 97000.5, prices["bitcoin"])
	assert.Equal(t, 2600.25, prices["ethereum"])

	// Second lookup is served from cache, no extra HTTP call.
	prices = oracle.GetPrices(context.Background(), []string{"bitcoin", "ethereum"})
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 97000.5, prices["bitcoin"])
}

func TestGetPricesRetriesOnceOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"solana":{"usd":180.0}}`))
	}))
	defer srv.Close()

	oracle := newTestOracle(srv.URL)
	prices := oracle.GetPrices(context.Background(), []string{"solana"})

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 180.0, prices["solana"])
}

func TestGetPricesFallsBackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	oracle := newTestOracle(srv.URL)
	prices := oracle.GetPrices(context.Background(), []string{"bitcoin", "tron", "no-such-asset"})

	assert.Equal(t, FallbackPrice("bitcoin"), prices["bitcoin"])
	assert.Equal(t, FallbackPrice("tron"), prices["tron"])
	assert.Equal(t, 0.0, prices["no-such-asset"])
}

func TestGetPricesFallsBackOnAllZeroPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":{"usd":0}}`))
	}))
	defer srv.Close()

	oracle := newTestOracle(srv.URL)
	prices := oracle.GetPrices(context.Background(), []string{"bitcoin"})

	require.Contains(t, prices, "bitcoin")
	assert.Equal(t, FallbackPrice("bitcoin"), prices["bitcoin"])
}

func TestGetPricesEmptyIDs(t *testing.T) {
	oracle := newTestOracle("http://127.0.0.1:0")
	assert.Empty(t, oracle.GetPrices(context.Background(), nil))
}
