package chains

import (
	"context"
	encjson "encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"wallet_analyzer/internal/config"
)

// alchemyNetworks maps chain identifiers to Alchemy network slugs. Chains
// absent here (fantom, bsc) have no Alchemy coverage and fall back to the
// explorer-only path.
var alchemyNetworks = map[string]string{
	"ethereum":  "eth-mainnet",
	"polygon":   "polygon-mainnet",
	"arbitrum":  "arb-mainnet",
	"optimism":  "opt-mainnet",
	"base":      "base-mainnet",
	"avalanche": "avax-mainnet",
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result encjson.RawMessage `json:"result"`
	Error  *rpcError          `json:"error,omitempty"`
	ID     int                `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type alchemyTokenBalance struct {
	ContractAddress string `json:"contractAddress"`
	TokenBalance    string `json:"tokenBalance"`
}

type alchemyTokenMetadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals *int   `json:"decimals"`
}

// AlchemyClient queries Alchemy's token API over JSON-RPC. One call returns
// every ERC-20 balance for an address, and metadata lookups are batched into
// a single HTTP request — materially cheaper than one balance query per
// token.
type AlchemyClient struct {
	http        *resty.Client
	apiKey      string
	maxHoldings int
	logger      *zap.Logger
}

// NewAlchemyClient creates a client when an API key is configured; returns
// nil otherwise, which disables the Alchemy path entirely.
func NewAlchemyClient(cfg config.AlchemyConfig, logger *zap.Logger) *AlchemyClient {
	if cfg.APIKey == "" {
		return nil
	}
	return &AlchemyClient{
		http: resty.New().
			SetTimeout(time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond),
		apiKey:      cfg.APIKey,
		maxHoldings: cfg.MaxTokenHoldings,
		logger:      logger.Named("AlchemyClient"),
	}
}

// SupportsChain reports whether Alchemy covers the chain identifier.
func (c *AlchemyClient) SupportsChain(chainID string) bool {
	_, ok := alchemyNetworks[chainID]
	return ok
}

func (c *AlchemyClient) endpoint(chainID string) (string, bool) {
	slug, ok := alchemyNetworks[chainID]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("https://%s.g.alchemy.com/v2/%s", slug, c.apiKey), true
}

// NativeBalance fetches the current native balance in wei.
func (c *AlchemyClient) NativeBalance(ctx context.Context, chainID, address string) (*big.Int, error) {
	url, ok := c.endpoint(chainID)
	if !ok {
		return nil, fmt.Errorf("alchemy does not support chain %s", chainID)
	}

	var rpcResp rpcResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(rpcRequest{JSONRPC: "2.0", Method: "eth_getBalance", Params: []any{address, "latest"}, ID: 1}).
		SetResult(&rpcResp).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("eth_getBalance failed with status %d", resp.StatusCode())
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("eth_getBalance RPC error: %s", rpcResp.Error.Message)
	}

	var hexBalance string
	if err := json.Unmarshal(rpcResp.Result, &hexBalance); err != nil {
		return nil, fmt.Errorf("failed to decode eth_getBalance result: %w", err)
	}
	balance, err := hexutil.DecodeBig(hexBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance %q: %w", hexBalance, err)
	}
	return balance, nil
}

// TokenBalances fetches every non-zero ERC-20 balance in one call, capped at
// the configured holdings limit.
func (c *AlchemyClient) TokenBalances(ctx context.Context, chainID, address string) ([]alchemyTokenBalance, error) {
	url, ok := c.endpoint(chainID)
	if !ok {
		return nil, fmt.Errorf("alchemy does not support chain %s", chainID)
	}

	var rpcResp rpcResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(rpcRequest{JSONRPC: "2.0", Method: "alchemy_getTokenBalances", Params: []any{address, "erc20"}, ID: 1}).
		SetResult(&rpcResp).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("alchemy_getTokenBalances request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("alchemy_getTokenBalances failed with status %d", resp.StatusCode())
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("alchemy_getTokenBalances RPC error: %s", rpcResp.Error.Message)
	}

	var result struct {
		TokenBalances []alchemyTokenBalance `json:"tokenBalances"`
	}
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode token balances: %w", err)
	}

	nonZero := make([]alchemyTokenBalance, 0, len(result.TokenBalances))
	for _, tb := range result.TokenBalances {
		if tb.TokenBalance == "" || tb.TokenBalance == "0x0" {
			continue
		}
		raw, err := hexutil.DecodeBig(tb.TokenBalance)
		if err != nil || raw.Sign() <= 0 {
			continue
		}
		nonZero = append(nonZero, tb)
		if len(nonZero) == c.maxHoldings {
			break
		}
	}
	return nonZero, nil
}

// TokenMetadataBatch fetches metadata for several contracts in one batched
// HTTP request. The i-th result corresponds to the i-th contract; entries
// Alchemy could not resolve come back zero-valued.
func (c *AlchemyClient) TokenMetadataBatch(ctx context.Context, chainID string, contracts []string) ([]alchemyTokenMetadata, error) {
	url, ok := c.endpoint(chainID)
	if !ok {
		return nil, fmt.Errorf("alchemy does not support chain %s", chainID)
	}
	if len(contracts) == 0 {
		return nil, nil
	}

	batch := make([]rpcRequest, len(contracts))
	for i, contract := range contracts {
		batch[i] = rpcRequest{JSONRPC: "2.0", Method: "alchemy_getTokenMetadata", Params: []any{contract}, ID: i}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(batch).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("alchemy_getTokenMetadata batch request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("alchemy_getTokenMetadata batch failed with status %d", resp.StatusCode())
	}

	var rpcResponses []rpcResponse
	if err := json.Unmarshal(resp.Body(), &rpcResponses); err != nil {
		// A batch-level error comes back as a single object instead of a list.
		var single rpcResponse
		if err2 := json.Unmarshal(resp.Body(), &single); err2 != nil {
			return nil, fmt.Errorf("failed to decode metadata batch response: %w", err)
		}
		rpcResponses = []rpcResponse{single}
	}

	// Responses may arrive out of order; match them back by request ID.
	byID := make(map[int]rpcResponse, len(rpcResponses))
	for _, r := range rpcResponses {
		byID[r.ID] = r
	}

	metadata := make([]alchemyTokenMetadata, len(contracts))
	for i := range contracts {
		r, ok := byID[i]
		if !ok || r.Error != nil || len(r.Result) == 0 {
			continue
		}
		var meta alchemyTokenMetadata
		if err := json.Unmarshal(r.Result, &meta); err != nil {
			c.logger.Debug("Failed to decode token metadata entry",
				zap.String("chain", chainID), zap.Int("index", i), zap.Error(err))
			continue
		}
		metadata[i] = meta
	}
	return metadata, nil
}
