package chains

import (
	"time"

	"go.uber.org/zap"

	"wallet_analyzer/internal/app/port"
	"wallet_analyzer/internal/config"
	"wallet_analyzer/internal/domain/entity"
)

type factory struct {
	providers map[string]port.ChainProvider
}

// NewFactory wires one provider per supported chain. EVM chains share the
// Etherscan V2 client and its rate limiter; Avalanche switches to Routescan
// when a Snowtrace key is configured. Alchemy enrichment applies wherever it
// has coverage and a key exists.
func NewFactory(cfg *config.Config, logger *zap.Logger) port.ProviderFactory {
	etherscan := NewEtherscanClient(cfg.Etherscan, logger)
	alchemy := NewAlchemyClient(cfg.Alchemy, logger)

	providers := make(map[string]port.ChainProvider, len(entity.Chains))
	for _, def := range entity.Chains {
		if def.EVMChainID == 0 {
			continue
		}
		explorer := etherscan
		if def.ID == "avalanche" && cfg.Routescan.APIKey != "" {
			explorer = NewRoutescanClient(cfg.Routescan,
				time.Duration(cfg.Etherscan.RequestTimeoutMillis)*time.Millisecond, logger)
		}
		providers[def.ID] = NewEVMProvider(def, explorer, alchemy, logger)
	}

	providers["solana"] = NewSolanaProvider(cfg.Solana.RPCURL,
		time.Duration(cfg.Solana.RequestTimeoutMillis)*time.Millisecond,
		cfg.Solana.SignatureLimit, logger)
	providers["bitcoin"] = NewBitcoinProvider(cfg.Bitcoin.BaseURL,
		time.Duration(cfg.Bitcoin.RequestTimeoutMillis)*time.Millisecond,
		cfg.Bitcoin.TransactionLimit, logger)
	providers["tron"] = NewTronProvider(cfg.Tron.BaseURL, cfg.Tron.APIKey,
		time.Duration(cfg.Tron.RequestTimeoutMillis)*time.Millisecond,
		cfg.Tron.TransactionLimit, logger)

	return &factory{providers: providers}
}

// Provider resolves the provider for a chain identifier.
func (f *factory) Provider(chainID string) (port.ChainProvider, bool) {
	p, ok := f.providers[chainID]
	return p, ok
}
