package addressing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wallet_analyzer/internal/domain/entity"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    entity.AddressFamily
	}{
		{"evm", "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", entity.AddressFamilyEVM},
		{"evm lowercase", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", entity.AddressFamilyEVM},
		{"evm with whitespace", "  0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045  ", entity.AddressFamilyEVM},
		{"bitcoin legacy", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", entity.AddressFamilyBitcoin},
		{"bitcoin p2sh", "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", entity.AddressFamilyBitcoin},
		{"bitcoin bech32", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", entity.AddressFamilyBitcoin},
		{"tron", "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", entity.AddressFamilyTron},
		{"solana", "DYw8jCTfwHNRJhhmFcbXvVDTqWMEVFBX6ZKUmG5CNSKK", entity.AddressFamilySolana},
		{"empty", "", entity.AddressFamilyUnknown},
		{"garbage", "not-an-address", entity.AddressFamilyUnknown},
		{"evm missing prefix", "d8dA6BF26964aF9D7eEd9e03E53415D37aA96045", entity.AddressFamilyUnknown},
		{"evm short", "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA9604", entity.AddressFamilyUnknown},
		{"base58 too short", "2FMteXHtmX9a5S", entity.AddressFamilyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.address))
		})
	}
}

// A Tron-shaped address is also valid generic base58 in the 32-44 range;
// precedence must pick Tron, never Solana.
func TestClassifyTronPrecedesSolana(t *testing.T) {
	addr := "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"
	assert.Len(t, addr, 34)
	assert.True(t, isBase58(addr))
	assert.Equal(t, entity.AddressFamilyTron, Classify(addr))
}

func TestDefaultChains(t *testing.T) {
	evm := DefaultChains(entity.AddressFamilyEVM)
	assert.Equal(t, []string{
		"ethereum", "polygon", "bsc", "arbitrum",
		"optimism", "avalanche", "base", "fantom",
	}, evm)

	assert.Equal(t, []string{"solana"}, DefaultChains(entity.AddressFamilySolana))
	assert.Equal(t, []string{"bitcoin"}, DefaultChains(entity.AddressFamilyBitcoin))
	assert.Equal(t, []string{"tron"}, DefaultChains(entity.AddressFamilyTron))
	assert.Nil(t, DefaultChains(entity.AddressFamilyUnknown))

	// Mutating the returned slice must not leak into the registry.
	evm[0] = "mutated"
	assert.Equal(t, "ethereum", entity.EVMChainIDs[0])
}
