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

const trxAddress = "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"

func tronFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("TRON-PRO-API-KEY"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/accounts/" + trxAddress + "/transactions":
			assert.Equal(t, "200", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"success":true,"data":[
				{"txID":"trx-in","block_timestamp":1710000000000,"blockNumber":60000000,
				 "raw_data":{"contract":[{"type":"TransferContract","parameter":{"value":
					{"amount":5000000,"owner_address":"TSenderSenderSenderSenderSenderXYZ","to_address":"` + trxAddress + `"}}}]}},
				{"txID":"trx-out","block_timestamp":1700000000000,
				 "raw_data":{"contract":[{"type":"TransferContract","parameter":{"value":
					{"amount":2000000,"owner_address":"` + trxAddress + `","to_address":"TReceiverReceiverReceiverReceiver"}}}]}}
			]}`))
		case "/v1/accounts/" + trxAddress:
			w.Write([]byte(`{"data":[{"balance":12500000}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestTronGetTransactions(t *testing.T) {
	srv := tronFixtureServer(t)
	defer srv.Close()

	provider := NewTronProvider(srv.URL, "test-key", 2*time.Second, 200, zap.NewNop())
	txs, err := provider.GetTransactions(context.Background(), trxAddress)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "trx-in", txs[0].Hash)
	assert.Equal(t, "tron", txs[0].Chain)
	assert.True(t, txs[0].IsIncoming)
	assert.Equal(t, 5.0, txs[0].Value)
	require.NotNil(t, txs[0].Timestamp)
	assert.Equal(t, time.UnixMilli(1710000000000).UTC(), *txs[0].Timestamp)

	assert.Equal(t, "trx-out", txs[1].Hash)
	assert.False(t, txs[1].IsIncoming)
	assert.Equal(t, 2.0, txs[1].Value)
}

func TestTronGetChainSummary(t *testing.T) {
	srv := tronFixtureServer(t)
	defer srv.Close()

	provider := NewTronProvider(srv.URL, "test-key", 2*time.Second, 200, zap.NewNop())
	summary, err := provider.GetChainSummary(context.Background(), trxAddress, 0.13)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, "tron", summary.Chain)
	assert.Equal(t, "TRX", summary.NativeSymbol)
	assert.Equal(t, 2, summary.TotalTransactions)
	assert.Equal(t, 1, summary.IncomingTransactions)
	assert.Equal(t, 1, summary.OutgoingTransactions)
	assert.Equal(t, 5.0, summary.TotalReceived)
	assert.Equal(t, 0.65, summary.TotalReceivedUSD)
	assert.Equal(t, 2.0, summary.TotalSent)
	assert.Equal(t, 0.26, summary.TotalSentUSD)
	assert.Equal(t, 12.5, summary.NativeBalance)
	require.NotNil(t, summary.FirstTransactionDate)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), *summary.FirstTransactionDate)
}

func TestTronGetChainSummaryNoActivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	provider := NewTronProvider(srv.URL, "", 2*time.Second, 200, zap.NewNop())
	summary, err := provider.GetChainSummary(context.Background(), trxAddress, 0.13)
	require.NoError(t, err)
	assert.Nil(t, summary)
}
