package insights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet_analyzer/internal/config"
	"wallet_analyzer/internal/domain/entity"
)

func reportFixture() *entity.WalletReport {
	age := 900
	return &entity.WalletReport{
		Address:                "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045",
		AddressType:            "evm",
		ChainsAnalyzed:         []string{"ethereum", "polygon"},
		ChainsWithActivity:     []string{"ethereum"},
		TotalTransactions:      42,
		TotalReceivedUSD:       1000,
		TotalSentUSD:           400,
		NetFlowUSD:             600,
		TotalCurrentBalanceUSD: 250,
		WalletAgeDays:          &age,
		TopChainsByTransactions: []entity.TopChain{
			{Chain: "ethereum", Transactions: 42, VolumeUSD: 1400, CurrentBalanceUSD: 250},
		},
	}
}

func newTestAgent(baseURL, provider string) *agent {
	return &agent{
		http:      resty.New().SetTimeout(2 * time.Second),
		baseURL:   baseURL,
		provider:  provider,
		model:     "test-model",
		maxTokens: 256,
		apiKey:    "test-key",
		logger:    zap.NewNop(),
	}
}

func TestNewAgentDisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewAgent(config.InsightsConfig{Provider: "anthropic"}, zap.NewNop()))
}

func TestGenerateInsightsAnthropic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"An active multi-chain wallet."}]}`))
	}))
	defer srv.Close()

	text, err := newTestAgent(srv.URL, "anthropic").GenerateInsights(context.Background(), reportFixture())
	require.NoError(t, err)
	assert.Equal(t, "An active multi-chain wallet.", text)
}

func TestGenerateInsightsOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"A dormant wallet."}}]}`))
	}))
	defer srv.Close()

	text, err := newTestAgent(srv.URL, "openai").GenerateInsights(context.Background(), reportFixture())
	require.NoError(t, err)
	assert.Equal(t, "A dormant wallet.", text)
}

func TestGenerateInsightsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestAgent(srv.URL, "anthropic").GenerateInsights(context.Background(), reportFixture())
	assert.Error(t, err)
}

func TestBuildPromptCarriesAggregates(t *testing.T) {
	prompt := buildPrompt(reportFixture())
	assert.Contains(t, prompt, "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	assert.Contains(t, prompt, "Total transactions: 42")
	assert.Contains(t, prompt, "net flow: $600.00")
	assert.Contains(t, prompt, "Wallet age: 900 days")
	assert.Contains(t, prompt, "- ethereum: 42 transactions")
}
