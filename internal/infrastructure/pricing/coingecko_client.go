// Package pricing implements the USD price oracle on top of the CoinGecko
// simple/price API, with a static fallback table and a short-lived cache.
package pricing

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"wallet_analyzer/internal/app/port"
	"wallet_analyzer/internal/config"
	"wallet_analyzer/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// coinGeckoOracle is the implementation of port.PriceOracle.
type coinGeckoOracle struct {
	client     *fasthttp.Client
	baseURL    string
	timeout    time.Duration
	retryDelay time.Duration
	logger     *zap.Logger
	prices     *cache.Cache
	sleep      func(time.Duration) // overridable in tests
}

// NewCoinGeckoOracle creates a new price oracle backed by CoinGecko.
func NewCoinGeckoOracle(cfg config.CoinGeckoConfig, logger *zap.Logger) port.PriceOracle {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	return &coinGeckoOracle{
		client:     &fasthttp.Client{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		retryDelay: time.Duration(cfg.RetryDelayMillis) * time.Millisecond,
		logger:     logger.Named("CoinGeckoOracle"),
		prices:     cache.New(ttl, 10*time.Minute),
		sleep:      time.Sleep,
	}
}

// GetPrices fetches the current USD price for each asset identifier in one
// batched call. A rate-limit response is retried once after a fixed backoff;
// any other failure, or a response with no usable prices, falls back to the
// static table. The result always contains every requested identifier.
func (o *coinGeckoOracle) GetPrices(ctx context.Context, ids []string) map[string]float64 {
	result := make(map[string]float64, len(ids))
	if len(ids) == 0 {
		return result
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if cached, found := o.prices.Get(id); found {
			if p, ok := cached.(float64); ok {
				result[id] = p
				continue
			}
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return result
	}
	sort.Strings(missing)

	fetched, err := o.fetchWithRetry(ctx, missing)
	if err != nil {
		o.logger.Warn("CoinGecko unavailable, using fallback prices", zap.Error(err))
		metrics.PriceFallbacks.Inc()
		for _, id := range missing {
			result[id] = FallbackPrice(id)
		}
		return result
	}

	for _, id := range missing {
		price := fetched[id]
		result[id] = price
		if price > 0 {
			o.prices.Set(id, price, cache.DefaultExpiration)
		}
	}
	return result
}

func (o *coinGeckoOracle) fetchWithRetry(ctx context.Context, ids []string) (map[string]float64, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		prices, retryable, err := o.fetchOnce(ctx, ids)
		if err == nil {
			return prices, nil
		}
		lastErr = err
		if !retryable || attempt > 0 {
			break
		}
		o.logger.Debug("CoinGecko rate limited, retrying after backoff",
			zap.Duration("delay", o.retryDelay))
		o.sleep(o.retryDelay)
	}
	return nil, lastErr
}

// fetchOnce performs one simple/price call. The second return value reports
// whether the failure was a rate limit (the only retryable case).
func (o *coinGeckoOracle) fetchOnce(ctx context.Context, ids []string) (map[string]float64, bool, error) {
	requestURL := fmt.Sprintf("%s/api/v3/simple/price?ids=%s&vs_currencies=usd",
		o.baseURL, url.QueryEscape(strings.Join(ids, ",")))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := o.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, false, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := o.client.DoTimeout(req, resp, o.timeout); err != nil {
			return nil, false, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	if resp.StatusCode() == fasthttp.StatusTooManyRequests {
		return nil, true, fmt.Errorf("CoinGecko rate limited (status %d)", resp.StatusCode())
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, false, fmt.Errorf("CoinGecko request failed with status %d", resp.StatusCode())
	}

	var body map[string]map[string]float64
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal CoinGecko response: %w", err)
	}

	prices := make(map[string]float64, len(body))
	anyUsable := false
	for id, quotes := range body {
		price := quotes["usd"]
		prices[id] = price
		if price > 0 {
			anyUsable = true
		}
	}
	if !anyUsable {
		return nil, false, fmt.Errorf("CoinGecko response contained no usable prices")
	}
	return prices, false, nil
}
