// Package chains implements the per-family chain providers and the factory
// that resolves them by chain identifier.
package chains

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"wallet_analyzer/internal/config"
	"wallet_analyzer/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// etherscanResponse is the envelope every Etherscan-compatible endpoint
// returns. Result is a list on success and an error string otherwise.
type etherscanResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Result  jsoniter.RawMessage `json:"result"`
}

// etherscanTx covers both normal (txlist) and token (tokentx) transfer rows.
// Etherscan serializes every numeric field as a decimal string.
type etherscanTx struct {
	BlockNumber  string `json:"blockNumber"`
	TimeStamp    string `json:"timeStamp"`
	Hash         string `json:"hash"`
	From         string `json:"from"`
	To           string `json:"to"`
	Value        string `json:"value"`
	GasUsed      string `json:"gasUsed"`
	GasPrice     string `json:"gasPrice"`
	FunctionName string `json:"functionName"`
	TokenSymbol  string `json:"tokenSymbol"`
	TokenName    string `json:"tokenName"`
	TokenDecimal string `json:"tokenDecimal"`
}

// EtherscanClient talks to an Etherscan-compatible explorer API. The V2
// unified endpoint multiplexes every EVM chain through one base URL and a
// chainid parameter; the Routescan variant for Avalanche uses its own base
// and key and takes no chainid.
type EtherscanClient struct {
	http           *resty.Client
	apiKey         string
	includeChainID bool
	limiter        *rate.Limiter
	logger         *zap.Logger
}

// NewEtherscanClient creates a client for the Etherscan V2 unified API.
// Outbound calls share one rate limiter sized for the free-tier budget.
func NewEtherscanClient(cfg config.EtherscanConfig, logger *zap.Logger) *EtherscanClient {
	return &EtherscanClient{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond),
		apiKey:         cfg.APIKey,
		includeChainID: true,
		limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst),
		logger:         logger.Named("EtherscanClient"),
	}
}

// NewRoutescanClient creates a client for the Routescan Avalanche explorer.
func NewRoutescanClient(cfg config.RoutescanConfig, timeout time.Duration, logger *zap.Logger) *EtherscanClient {
	return &EtherscanClient{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(timeout),
		apiKey:         cfg.APIKey,
		includeChainID: false,
		limiter:        rate.NewLimiter(rate.Limit(2), 2),
		logger:         logger.Named("RoutescanClient"),
	}
}

// Call performs one explorer API call. A credential rejection is returned as
// *entity.AuthError so the orchestrator can surface an actionable warning;
// every other non-OK status is left for the caller to interpret (Etherscan
// reports "no transactions found" through the same status field).
func (c *EtherscanClient) Call(ctx context.Context, evmChainID int64, params map[string]string) (*etherscanResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	query := make(map[string]string, len(params)+2)
	for k, v := range params {
		query[k] = v
	}
	if c.includeChainID {
		query["chainid"] = strconv.FormatInt(evmChainID, 10)
	}
	if c.apiKey != "" {
		query["apikey"] = c.apiKey
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("explorer request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("explorer request failed with status %d", resp.StatusCode())
	}

	var envelope etherscanResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal explorer response: %w", err)
	}

	if envelope.Status == "0" {
		var msg string
		if json.Unmarshal(envelope.Result, &msg) == nil && strings.Contains(msg, "API Key") {
			return nil, &entity.AuthError{
				Provider:    "etherscan",
				Remediation: "set ETHERSCAN_API_KEY (get a free key at https://etherscan.io/apis)",
			}
		}
	}
	return &envelope, nil
}

// transactions decodes a txlist/tokentx result. Status "0" with a non-auth
// result means zero activity, which is not an error.
func (r *etherscanResponse) transactions() []etherscanTx {
	if r.Status != "1" || len(r.Result) == 0 {
		return nil
	}
	var txs []etherscanTx
	if err := json.Unmarshal(r.Result, &txs); err != nil {
		return nil
	}
	return txs
}
