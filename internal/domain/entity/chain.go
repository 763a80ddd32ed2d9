package entity

// ChainDefinition describes one supported chain: identity, display metadata,
// and the identifiers external data sources key on.
type ChainDefinition struct {
	ID           string
	Name         string
	NativeSymbol string
	EVMChainID   int64 // 0 for non-EVM chains
	CoinGeckoID  string
}

// Chains is the registry of every supported chain, keyed by chain identifier.
var Chains = map[string]ChainDefinition{
	"ethereum":  {ID: "ethereum", Name: "Ethereum", NativeSymbol: "ETH", EVMChainID: 1, CoinGeckoID: "ethereum"},
	"polygon":   {ID: "polygon", Name: "Polygon", NativeSymbol: "POL", EVMChainID: 137, CoinGeckoID: "polygon-ecosystem-token"},
	"bsc":       {ID: "bsc", Name: "BNB Chain", NativeSymbol: "BNB", EVMChainID: 56, CoinGeckoID: "binancecoin"},
	"arbitrum":  {ID: "arbitrum", Name: "Arbitrum", NativeSymbol: "ETH", EVMChainID: 42161, CoinGeckoID: "ethereum"},
	"optimism":  {ID: "optimism", Name: "Optimism", NativeSymbol: "ETH", EVMChainID: 10, CoinGeckoID: "ethereum"},
	"avalanche": {ID: "avalanche", Name: "Avalanche", NativeSymbol: "AVAX", EVMChainID: 43114, CoinGeckoID: "avalanche-2"},
	"base":      {ID: "base", Name: "Base", NativeSymbol: "ETH", EVMChainID: 8453, CoinGeckoID: "ethereum"},
	"fantom":    {ID: "fantom", Name: "Fantom", NativeSymbol: "FTM", EVMChainID: 250, CoinGeckoID: "fantom"},
	"solana":    {ID: "solana", Name: "Solana", NativeSymbol: "SOL", CoinGeckoID: "solana"},
	"bitcoin":   {ID: "bitcoin", Name: "Bitcoin", NativeSymbol: "BTC", CoinGeckoID: "bitcoin"},
	"tron":      {ID: "tron", Name: "Tron", NativeSymbol: "TRX", CoinGeckoID: "tron"},
}

// EVMChainIDs lists the EVM chains in their default scan order.
var EVMChainIDs = []string{
	"ethereum", "polygon", "bsc", "arbitrum",
	"optimism", "avalanche", "base", "fantom",
}

// IsEVMChain reports whether the chain identifier belongs to the EVM family.
func IsEVMChain(chainID string) bool {
	def, ok := Chains[chainID]
	return ok && def.EVMChainID != 0
}
