package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/identity"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadHost        string        `mapstructure:"read_host"`
	ReadPort        int           `mapstructure:"read_port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL             string        `mapstructure:"url"`
	StreamName      string        `mapstructure:"stream_name"`
	MaxReconnects   int           `mapstructure:"max_reconnects"`
	ReconnectWait   time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName  string        `mapstructure:"connection_name"`
	DuplicateWindow time.Duration `mapstructure:"duplicate_window"`
}

// LedgerConfig holds the connection to the SupplyChain contract
type LedgerConfig struct {
	RPCURL          string `mapstructure:"rpc_url"`
	WebSocketURL    string `mapstructure:"websocket_url"`
	ContractAddress string `mapstructure:"contract_address"`
	// ABIPath overrides the built-in contract ABI
	ABIPath   string `mapstructure:"abi_path"`
	ChainID   int64  `mapstructure:"chain_id"`
	ChainName string `mapstructure:"chain_name"`

	// StartBlock is the block the event emitter starts following from when it has no cursor
	StartBlock uint64 `mapstructure:"start_block"`

	GasMultiplier       float64       `mapstructure:"gas_multiplier"`
	DefaultGasLimit     uint64        `mapstructure:"default_gas_limit"`
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval"`
	ReceiptTimeout      time.Duration `mapstructure:"receipt_timeout"`
	LogStepSize         uint64        `mapstructure:"log_step_size"`
	QueryTimeout        time.Duration `mapstructure:"query_timeout"`

	// RPCRateLimit caps RPC calls per second; 0 disables pacing
	RPCRateLimit int `mapstructure:"rpc_rate_limit"`

	BlockHeadTTL         time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow time.Duration `mapstructure:"block_head_stale_window"`
	BlockTimestampCache  int           `mapstructure:"block_timestamp_cache"`
}

// Validate checks the settings every ledger client needs
func (c *LedgerConfig) Validate() error {
	if c.RPCURL == "" && c.WebSocketURL == "" {
		return errors.New("ledger.rpc_url or ledger.websocket_url is required")
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("ledger.contract_address is not a valid address: %q", c.ContractAddress)
	}
	if c.GasMultiplier < 1 {
		return fmt.Errorf("ledger.gas_multiplier must be at least 1, got %v", c.GasMultiplier)
	}
	return nil
}

// RoleCredential holds the key or address configured for one role
type RoleCredential struct {
	PrivateKey string `mapstructure:"private_key"`
	Address    string `mapstructure:"address"`
}

// IdentitiesConfig holds the role identities this process drives
type IdentitiesConfig struct {
	Farmer      RoleCredential `mapstructure:"farmer"`
	Distributor RoleCredential `mapstructure:"distributor"`
	Retailer    RoleCredential `mapstructure:"retailer"`
	Consumer    RoleCredential `mapstructure:"consumer"`
}

// Credentials returns the configured roles; roles with neither key nor address are left out
func (c IdentitiesConfig) Credentials() map[domain.Role]identity.Credential {
	credentials := make(map[domain.Role]identity.Credential)
	for role, cred := range map[domain.Role]RoleCredential{
		domain.RoleFarmer:      c.Farmer,
		domain.RoleDistributor: c.Distributor,
		domain.RoleRetailer:    c.Retailer,
		domain.RoleConsumer:    c.Consumer,
	} {
		if cred.PrivateKey == "" && cred.Address == "" {
			continue
		}
		credentials[role] = identity.Credential{
			PrivateKey: cred.PrivateKey,
			Address:    cred.Address,
		}
	}
	return credentials
}

// HopConfig holds orchestrator behaviour
type HopConfig struct {
	// AutoAdvance lets a Retailer hop assign the Consumer slot when it is empty
	AutoAdvance bool `mapstructure:"auto_advance"`
	// AutoAdvanceTarget is the Consumer address used by auto-advance; empty uses the Consumer identity
	AutoAdvanceTarget string `mapstructure:"auto_advance_target"`
}

// GateConfig holds role progression settings
type GateConfig struct {
	Enforce bool `mapstructure:"enforce"`
}

// HistoryConfig holds history reconstruction settings
type HistoryConfig struct {
	WorkerPoolSize int `mapstructure:"worker_pool_size"`
	// FromBlock is the first block searched when rebuilding a history, at most the contract's deployment block
	FromBlock uint64 `mapstructure:"from_block"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// CursorConfig controls how often the emitter persists its block cursor
type CursorConfig struct {
	SaveEvery uint64        `mapstructure:"save_every"` // blocks
	SaveDelay time.Duration `mapstructure:"save_delay"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
	Identities IdentitiesConfig `mapstructure:"identities"`
	Hop        HopConfig        `mapstructure:"hop"`
	Gate       GateConfig       `mapstructure:"gate"`
	History    HistoryConfig    `mapstructure:"history"`
}

// EmitterConfig holds configuration for the event emitter
type EmitterConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Ledger     LedgerConfig   `mapstructure:"ledger"`
	Cursor     CursorConfig   `mapstructure:"cursor"`
}

func setLedgerDefaults(v *viper.Viper) {
	v.SetDefault("ledger.rpc_url", "http://127.0.0.1:8545")
	v.SetDefault("ledger.chain_id", 1337)
	v.SetDefault("ledger.chain_name", "ganache")
	v.SetDefault("ledger.gas_multiplier", domain.DEFAULT_GAS_MULTIPLIER)
	v.SetDefault("ledger.default_gas_limit", domain.DEFAULT_GAS_LIMIT)
	v.SetDefault("ledger.receipt_poll_interval", "1s")
	v.SetDefault("ledger.receipt_timeout", "2m")
	v.SetDefault("ledger.log_step_size", 5000)
	v.SetDefault("ledger.query_timeout", "30s")
	v.SetDefault("ledger.block_head_ttl", "2s")
	v.SetDefault("ledger.block_head_stale_window", "1m")
	v.SetDefault("ledger.block_timestamp_cache", 4096)
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 180) // hops wait for confirmations
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("hop.auto_advance", true)
	v.SetDefault("gate.enforce", false)
	v.SetDefault("history.worker_pool_size", 8)
	v.SetDefault("history.from_block", 0)
	setLedgerDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadEmitterConfig loads configuration for the event emitter
func LoadEmitterConfig(configFile string, envPath string) (*EmitterConfig, error) {
	v := configureViper("event-emitter", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "SUPPLY_CHAIN_EVENTS")
	v.SetDefault("nats.connection_name", "supply-chain-event-emitter")
	v.SetDefault("nats.duplicate_window", "10m")
	v.SetDefault("cursor.save_every", 2)
	v.SetDefault("cursor.save_delay", "30s")
	setLedgerDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config EmitterConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// readConfig reads the config file; a missing file falls back to environment variables
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("SUPPLY_CHAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.duplicate_window",
		// Ledger
		"ledger.rpc_url",
		"ledger.websocket_url",
		"ledger.contract_address",
		"ledger.abi_path",
		"ledger.chain_id",
		"ledger.chain_name",
		"ledger.start_block",
		"ledger.gas_multiplier",
		"ledger.default_gas_limit",
		"ledger.receipt_poll_interval",
		"ledger.receipt_timeout",
		"ledger.log_step_size",
		"ledger.query_timeout",
		"ledger.rpc_rate_limit",
		"ledger.block_head_ttl",
		"ledger.block_head_stale_window",
		"ledger.block_timestamp_cache",
		// Identities
		"identities.farmer.private_key",
		"identities.farmer.address",
		"identities.distributor.private_key",
		"identities.distributor.address",
		"identities.retailer.private_key",
		"identities.retailer.address",
		"identities.consumer.private_key",
		"identities.consumer.address",
		// Hop, gate and history
		"hop.auto_advance",
		"hop.auto_advance_target",
		"gate.enforce",
		"history.worker_pool_size",
		"history.from_block",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Emitter cursor
		"cursor.save_every",
		"cursor.save_delay",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ReadDSN returns the read-replica database connection string.
// If ReadPort is not configured, it falls back to Port.
func (c *DatabaseConfig) ReadDSN() string {
	if c.ReadHost == "" {
		return ""
	}

	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.ReadHost, port, c.User, c.Password, c.DBName, c.SSLMode)
}
