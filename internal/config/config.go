package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the analyzer. Provider
// credentials are read from the environment exactly once, here, and carried
// in the struct; providers never touch the environment themselves.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Etherscan EtherscanConfig `yaml:"etherscan"`
	Routescan RoutescanConfig `yaml:"routescan"`
	Alchemy   AlchemyConfig   `yaml:"alchemy"`
	Solana    SolanaConfig    `yaml:"solana"`
	Bitcoin   BitcoinConfig   `yaml:"bitcoin"`
	Tron      TronConfig      `yaml:"tron"`
	CoinGecko CoinGeckoConfig `yaml:"coinGecko"`
	Insights  InsightsConfig  `yaml:"insights"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// EtherscanConfig holds the Etherscan V2 unified API configuration. One base
// URL and one key cover every EVM chain via the chainid parameter.
type EtherscanConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"-"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RateLimitPerSec      int    `yaml:"rateLimitPerSec"`
	RateLimitBurst       int    `yaml:"rateLimitBurst"`
}

// RoutescanConfig holds the alternate Avalanche explorer configuration, used
// only when a Snowtrace key is present.
type RoutescanConfig struct {
	BaseURL string `yaml:"baseURL"`
	APIKey  string `yaml:"-"`
}

// AlchemyConfig holds the Alchemy token/balance API configuration.
type AlchemyConfig struct {
	APIKey               string `yaml:"-"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MaxTokenHoldings     int    `yaml:"maxTokenHoldings"`
}

// SolanaConfig holds the Solana JSON-RPC configuration.
type SolanaConfig struct {
	RPCURL               string `yaml:"rpcURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	SignatureLimit       int    `yaml:"signatureLimit"`
}

// BitcoinConfig holds the blockchain.info explorer configuration.
type BitcoinConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	TransactionLimit     int    `yaml:"transactionLimit"`
}

// TronConfig holds the TronGrid API configuration.
type TronConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"-"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	TransactionLimit     int    `yaml:"transactionLimit"`
}

// CoinGeckoConfig holds the price oracle configuration.
type CoinGeckoConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RetryDelayMillis     int64  `yaml:"retryDelayMillis"`
	CacheTTLMinutes      int    `yaml:"cacheTTLMinutes"`
}

// InsightsConfig selects and configures the AI narrative provider.
type InsightsConfig struct {
	Provider             string `yaml:"provider"`
	Model                string `yaml:"model"`
	MaxTokens            int    `yaml:"maxTokens"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	APIKey               string `yaml:"-"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig loads configuration from a YAML file, fills defaults, and
// overlays secrets from the environment. A missing file is not fatal: the
// analyzer runs on defaults plus environment credentials.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		logrus.Warnf("Config file %s not found, using defaults", path)
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
		logrus.Infof("Loaded configuration from %s", path)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}

	if c.Etherscan.BaseURL == "" {
		c.Etherscan.BaseURL = "https://api.etherscan.io/v2/api"
	}
	if c.Etherscan.RequestTimeoutMillis == 0 {
		c.Etherscan.RequestTimeoutMillis = 30000
	}
	if c.Etherscan.RateLimitPerSec == 0 {
		c.Etherscan.RateLimitPerSec = 5 // free tier budget
	}
	if c.Etherscan.RateLimitBurst == 0 {
		c.Etherscan.RateLimitBurst = 5
	}

	if c.Routescan.BaseURL == "" {
		c.Routescan.BaseURL = "https://api.routescan.io/v2/network/mainnet/evm/43114/etherscan/api"
	}

	if c.Alchemy.RequestTimeoutMillis == 0 {
		c.Alchemy.RequestTimeoutMillis = 30000
	}
	if c.Alchemy.MaxTokenHoldings == 0 {
		c.Alchemy.MaxTokenHoldings = 30
	}

	if c.Solana.RPCURL == "" {
		c.Solana.RPCURL = "https://api.mainnet-beta.solana.com"
	}
	if c.Solana.RequestTimeoutMillis == 0 {
		c.Solana.RequestTimeoutMillis = 30000
	}
	if c.Solana.SignatureLimit == 0 {
		c.Solana.SignatureLimit = 1000
	}

	if c.Bitcoin.BaseURL == "" {
		c.Bitcoin.BaseURL = "https://blockchain.info"
	}
	if c.Bitcoin.RequestTimeoutMillis == 0 {
		c.Bitcoin.RequestTimeoutMillis = 30000
	}
	if c.Bitcoin.TransactionLimit == 0 {
		c.Bitcoin.TransactionLimit = 100
	}

	if c.Tron.BaseURL == "" {
		c.Tron.BaseURL = "https://api.trongrid.io"
	}
	if c.Tron.RequestTimeoutMillis == 0 {
		c.Tron.RequestTimeoutMillis = 30000
	}
	if c.Tron.TransactionLimit == 0 {
		c.Tron.TransactionLimit = 200
	}

	if c.CoinGecko.BaseURL == "" {
		c.CoinGecko.BaseURL = "https://api.coingecko.com"
	}
	if c.CoinGecko.RequestTimeoutMillis == 0 {
		c.CoinGecko.RequestTimeoutMillis = 10000
	}
	if c.CoinGecko.RetryDelayMillis == 0 {
		c.CoinGecko.RetryDelayMillis = 2000
	}
	if c.CoinGecko.CacheTTLMinutes == 0 {
		c.CoinGecko.CacheTTLMinutes = 5
	}

	if c.Insights.Provider == "" {
		c.Insights.Provider = "anthropic"
	}
	if c.Insights.MaxTokens == 0 {
		c.Insights.MaxTokens = 4096
	}
	if c.Insights.RequestTimeoutMillis == 0 {
		c.Insights.RequestTimeoutMillis = 60000
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = ":" + v
	}
	c.Etherscan.APIKey = os.Getenv("ETHERSCAN_API_KEY")
	c.Routescan.APIKey = os.Getenv("SNOWTRACE_API_KEY")
	c.Alchemy.APIKey = os.Getenv("ALCHEMY_API_KEY")
	c.Tron.APIKey = os.Getenv("TRONGRID_API_KEY")
	if v := os.Getenv("SOLANA_RPC_URL"); v != "" {
		c.Solana.RPCURL = v
	}

	if v := os.Getenv("AI_PROVIDER"); v != "" {
		c.Insights.Provider = v
	}
	switch c.Insights.Provider {
	case "openai":
		c.Insights.APIKey = os.Getenv("OPENAI_API_KEY")
		if v := os.Getenv("OPENAI_MODEL"); v != "" {
			c.Insights.Model = v
		}
		if c.Insights.Model == "" {
			c.Insights.Model = "gpt-4o"
		}
	default:
		c.Insights.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if v := os.Getenv("CLAUDE_MODEL"); v != "" {
			c.Insights.Model = v
		}
		if c.Insights.Model == "" {
			c.Insights.Model = "claude-sonnet-4-6"
		}
	}
}
