package chains

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const btcAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"

func bitcoinFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rawaddr/"+btcAddress, r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"n_tx": 2,
			"total_received": 50000000,
			"total_sent": 30000000,
			"final_balance": 20000000,
			"txs": [
				{"hash":"tx-in","time":1700000000,"block_height":820000,
				 "inputs":[{"prev_out":{"addr":"1SenderSenderSenderSenderSender","value":50000000}}],
				 "out":[{"addr":"` + btcAddress + `","value":50000000}]},
				{"hash":"tx-out","time":1710000000,"block_height":830000,
				 "inputs":[{"prev_out":{"addr":"` + btcAddress + `","value":30000000}}],
				 "out":[{"addr":"1ReceiverReceiverReceiverReceiver","value":29990000}]}
			]
		}`))
	}))
}

func TestBitcoinGetTransactions(t *testing.T) {
	srv := bitcoinFixtureServer(t)
	defer srv.Close()

	provider := NewBitcoinProvider(srv.URL, 2*time.Second, 100, zap.NewNop())
	txs, err := provider.GetTransactions(context.Background(), btcAddress)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "tx-in", txs[0].Hash)
	assert.True(t, txs[0].IsIncoming)
	assert.Equal(t, 0.5, txs[0].Value)
	assert.Equal(t, btcAddress, txs[0].ToAddress)
	assert.Equal(t, "1SenderSenderSenderSenderSender", txs[0].FromAddress)

	assert.Equal(t, "tx-out", txs[1].Hash)
	assert.False(t, txs[1].IsIncoming)
	assert.Equal(t, 0.3, txs[1].Value)
	assert.Equal(t, btcAddress, txs[1].FromAddress)
}

func TestBitcoinGetChainSummary(t *testing.T) {
	srv := bitcoinFixtureServer(t)
	defer srv.Close()

	provider := NewBitcoinProvider(srv.URL, 2*time.Second, 100, zap.NewNop())
	summary, err := provider.GetChainSummary(context.Background(), btcAddress, 100000)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, "bitcoin", summary.Chain)
	assert.Equal(t, "BTC", summary.NativeSymbol)
	assert.Equal(t, 2, summary.TotalTransactions)
	assert.Equal(t, 1, summary.IncomingTransactions)
	assert.Equal(t, 1, summary.OutgoingTransactions)
	assert.Equal(t, 0.5, summary.TotalReceived)
	assert.Equal(t, 50000.0, summary.TotalReceivedUSD)
	assert.Equal(t, 0.3, summary.TotalSent)
	assert.Equal(t, 30000.0, summary.TotalSentUSD)
	assert.Equal(t, 0.2, summary.NativeBalance)
	assert.Equal(t, 20000.0, summary.NativeBalanceUSD)
	require.NotNil(t, summary.FirstTransactionDate)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *summary.FirstTransactionDate)
	assert.Equal(t, time.Unix(1710000000, 0).UTC(), *summary.LastTransactionDate)
}

func TestBitcoinNormalizeTieIsOutgoing(t *testing.T) {
	provider := NewBitcoinProvider("http://127.0.0.1:0", time.Second, 100, zap.NewNop()).(*BitcoinProvider)

	tx := bitcoinTx{
		Hash:   "tx-tie",
		Inputs: []bitcoinInput{{PrevOut: bitcoinOutput{Addr: btcAddress, Value: 40000000}}},
		Out:    []bitcoinOutput{{Addr: btcAddress, Value: 40000000}},
	}

	normalized := provider.normalize(tx, btcAddress)
	assert.False(t, normalized.IsIncoming)
	assert.Equal(t, 0.4, normalized.Value)
	assert.Equal(t, btcAddress, normalized.FromAddress)
}

func TestBitcoinGetChainSummaryNoActivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"n_tx":0,"total_received":0,"total_sent":0,"final_balance":0,"txs":[]}`))
	}))
	defer srv.Close()

	provider := NewBitcoinProvider(srv.URL, 2*time.Second, 100, zap.NewNop())
	summary, err := provider.GetChainSummary(context.Background(), btcAddress, 100000)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestBitcoinGetChainSummaryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := NewBitcoinProvider(srv.URL, 2*time.Second, 100, zap.NewNop())
	summary, err := provider.GetChainSummary(context.Background(), btcAddress, 100000)
	assert.Error(t, err)
	assert.Nil(t, summary)
}
