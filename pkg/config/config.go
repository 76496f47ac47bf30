package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the monitor daemon configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Ethereum EthereumConfig `mapstructure:"ethereum"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Poller   PollerConfig   `mapstructure:"poller"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Shutdown ShutdownConfig `mapstructure:"shutdown"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// EthereumConfig contains Ethereum client settings
type EthereumConfig struct {
	RPCURL           string        `mapstructure:"rpc_url"`
	ChainID          int64         `mapstructure:"chain_id"`
	CampaignContract string        `mapstructure:"campaign_contract"`
	SenderPrivateKey string        `mapstructure:"sender_private_key"`
	GasLimit         uint64        `mapstructure:"gas_limit"`
	MaxGasPrice      string        `mapstructure:"max_gas_price"`
	ConfirmTimeout   time.Duration `mapstructure:"confirm_timeout"`
}

// LedgerConfig contains transaction ledger persistence settings
type LedgerConfig struct {
	// Backend selects the storage port: "file", "badger" or "memory".
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// PollerConfig contains receipt poller settings
type PollerConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
	RetentionDays int           `mapstructure:"retention_days"`
}

// BackendConfig contains the off-chain donation ledger API settings
type BackendConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ShutdownConfig contains graceful shutdown settings
type ShutdownConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Ethereum defaults
	viper.SetDefault("ethereum.gas_limit", 300000)
	viper.SetDefault("ethereum.confirm_timeout", "0") // no hard timeout on confirmation

	// Ledger defaults
	viper.SetDefault("ledger.backend", "file")
	viper.SetDefault("ledger.path", "data/transactions.json")

	// Poller defaults
	viper.SetDefault("poller.interval", "15s")
	viper.SetDefault("poller.purge_interval", "24h")
	viper.SetDefault("poller.retention_days", 30)

	// Backend defaults
	viper.SetDefault("backend.request_timeout", "10s")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_path", "stdout")

	// Shutdown defaults
	viper.SetDefault("shutdown.timeout", "30s")
}

func validate(config *Config) error {
	if config.Ethereum.RPCURL == "" {
		return fmt.Errorf("ethereum.rpc_url is required")
	}
	if config.Ethereum.CampaignContract == "" {
		return fmt.Errorf("ethereum.campaign_contract is required")
	}
	if config.Ethereum.ChainID == 0 {
		return fmt.Errorf("ethereum.chain_id is required")
	}
	switch config.Ledger.Backend {
	case "file", "badger":
		if config.Ledger.Path == "" {
			return fmt.Errorf("ledger.path is required for %s backend", config.Ledger.Backend)
		}
	case "memory":
	default:
		return fmt.Errorf("unknown ledger backend: %s", config.Ledger.Backend)
	}
	if config.Poller.Interval <= 0 {
		return fmt.Errorf("poller.interval must be positive")
	}
	return nil
}
