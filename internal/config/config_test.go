package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	if content == "" {
		return filepath.Join(tmpDir, "nonexistent.yaml")
	}
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: 127.0.0.1
  port: 9090
  allowed_origins: ["http://localhost:3000"]
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: supplychain
auth:
  api_keys: ["k1", "k2"]
ledger:
  rpc_url: "http://127.0.0.1:7545"
  contract_address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
  chain_id: 5777
  gas_multiplier: 1.5
  receipt_timeout: 45s
  rpc_rate_limit: 20
  start_block: 1200
identities:
  farmer:
    private_key: "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
  consumer:
    address: "0x90F79bf6EB2c4f870365E785982E1f101E93b906"
hop:
  auto_advance: false
gate:
  enforce: true
history:
  worker_pool_size: 4
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
				assert.Equal(t, "supplychain", cfg.Database.DBName)
				assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.APIKeys)
				assert.Equal(t, "http://127.0.0.1:7545", cfg.Ledger.RPCURL)
				assert.Equal(t, int64(5777), cfg.Ledger.ChainID)
				assert.Equal(t, 1.5, cfg.Ledger.GasMultiplier)
				assert.Equal(t, 45*time.Second, cfg.Ledger.ReceiptTimeout)
				assert.Equal(t, 20, cfg.Ledger.RPCRateLimit)
				assert.False(t, cfg.Hop.AutoAdvance)
				assert.True(t, cfg.Gate.Enforce)
				assert.Equal(t, 4, cfg.History.WorkerPoolSize)
				assert.Equal(t, uint64(1200), cfg.Ledger.StartBlock)
				// the emitter start block never narrows history
				assert.Equal(t, uint64(0), cfg.History.FromBlock)
				assert.NoError(t, cfg.Ledger.Validate())

				credentials := cfg.Identities.Credentials()
				assert.Len(t, credentials, 2)
				assert.NotEmpty(t, credentials[domain.RoleFarmer].PrivateKey)
				assert.Equal(t, "0x90F79bf6EB2c4f870365E785982E1f101E93b906", credentials[domain.RoleConsumer].Address)
			},
		},
		{
			name: "config with defaults",
			configFile: `
ledger:
  contract_address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.False(t, cfg.Debug)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 180, cfg.Server.WriteTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, "http://127.0.0.1:8545", cfg.Ledger.RPCURL)
				assert.Equal(t, int64(1337), cfg.Ledger.ChainID)
				assert.Equal(t, domain.DEFAULT_GAS_MULTIPLIER, cfg.Ledger.GasMultiplier)
				assert.Equal(t, uint64(domain.DEFAULT_GAS_LIMIT), cfg.Ledger.DefaultGasLimit)
				assert.Equal(t, time.Second, cfg.Ledger.ReceiptPollInterval)
				assert.Equal(t, 2*time.Minute, cfg.Ledger.ReceiptTimeout)
				assert.Equal(t, uint64(5000), cfg.Ledger.LogStepSize)
				assert.True(t, cfg.Hop.AutoAdvance)
				assert.False(t, cfg.Gate.Enforce)
				assert.Equal(t, 8, cfg.History.WorkerPoolSize)
				assert.Empty(t, cfg.Identities.Credentials())
			},
		},
		{
			name:       "missing config file",
			configFile: "",
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.Equal(t, 8080, cfg.Server.Port)
			},
		},
		{
			name: "invalid value",
			configFile: `
server:
  port: invalid
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadAPIConfig(writeConfig(t, tt.configFile), t.TempDir())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadEmitterConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *EmitterConfig)
	}{
		{
			name: "valid config file",
			configFile: `
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_STREAM"
  max_reconnects: 5
  reconnect_wait: "5s"
ledger:
  websocket_url: "ws://127.0.0.1:8545"
  contract_address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
  start_block: 12
cursor:
  save_every: 10
  save_delay: 1m
`,
			validate: func(t *testing.T, cfg *EmitterConfig) {
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, "TEST_STREAM", cfg.NATS.StreamName)
				assert.Equal(t, 5, cfg.NATS.MaxReconnects)
				assert.Equal(t, 5*time.Second, cfg.NATS.ReconnectWait)
				assert.Equal(t, "ws://127.0.0.1:8545", cfg.Ledger.WebSocketURL)
				assert.Equal(t, uint64(12), cfg.Ledger.StartBlock)
				assert.Equal(t, uint64(10), cfg.Cursor.SaveEvery)
				assert.Equal(t, time.Minute, cfg.Cursor.SaveDelay)
			},
		},
		{
			name:       "config with defaults",
			configFile: "nats:\n  url: nats://localhost:4222\n",
			validate: func(t *testing.T, cfg *EmitterConfig) {
				assert.Equal(t, 10, cfg.NATS.MaxReconnects)
				assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
				assert.Equal(t, "SUPPLY_CHAIN_EVENTS", cfg.NATS.StreamName)
				assert.Equal(t, 10*time.Minute, cfg.NATS.DuplicateWindow)
				assert.Equal(t, uint64(2), cfg.Cursor.SaveEvery)
				assert.Equal(t, 30*time.Second, cfg.Cursor.SaveDelay)
			},
		},
		{
			name:        "invalid value",
			configFile:  "cursor:\n  save_every: lots\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadEmitterConfig(writeConfig(t, tt.configFile), t.TempDir())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLedgerConfig_Validate(t *testing.T) {
	valid := LedgerConfig{
		RPCURL:          "http://127.0.0.1:8545",
		ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		GasMultiplier:   1.2,
	}

	tests := []struct {
		name    string
		mutate  func(*LedgerConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*LedgerConfig) {}},
		{name: "websocket only", mutate: func(c *LedgerConfig) { c.RPCURL = ""; c.WebSocketURL = "ws://x" }},
		{name: "no endpoint", mutate: func(c *LedgerConfig) { c.RPCURL = "" }, wantErr: "rpc_url"},
		{name: "bad contract", mutate: func(c *LedgerConfig) { c.ContractAddress = "0x123" }, wantErr: "contract_address"},
		{name: "low multiplier", mutate: func(c *LedgerConfig) { c.GasMultiplier = 0.9 }, wantErr: "gas_multiplier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
		readDSN  string
	}{
		{
			name: "complete config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				DBName:   "testdb",
				SSLMode:  "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "read replica falls back to primary port",
			config: DatabaseConfig{
				Host:     "primary",
				Port:     5433,
				ReadHost: "replica",
				User:     "user",
				Password: "p@ssw0rd!",
				DBName:   "db",
				SSLMode:  "disable",
			},
			expected: "host=primary port=5433 user=user password=p@ssw0rd! dbname=db sslmode=disable",
			readDSN:  "host=replica port=5433 user=user password=p@ssw0rd! dbname=db sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
			assert.Equal(t, tt.readDSN, tt.config.ReadDSN())
		})
	}
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()

	envDir := filepath.Join(tmpDir, "env")
	require.NoError(t, os.MkdirAll(envDir, 0750))

	// Viper uses the SUPPLY_CHAIN_ prefix
	envContent := `SUPPLY_CHAIN_DEBUG=true
SUPPLY_CHAIN_DATABASE_HOST=env-host
SUPPLY_CHAIN_DATABASE_PORT=3306
SUPPLY_CHAIN_LEDGER_CONTRACT_ADDRESS=0x5FbDB2315678afecb367f032d93F642f64180aa3
SUPPLY_CHAIN_IDENTITIES_RETAILER_ADDRESS=0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC
SUPPLY_CHAIN_GATE_ENFORCE=true
`
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env"), []byte(envContent), 0600))

	// per-service overlay wins over .env
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env.api.local"),
		[]byte("SUPPLY_CHAIN_DATABASE_HOST=local-host\n"), 0600))

	configPath := filepath.Join(tmpDir, "config.yaml")
	configFile := `
debug: false
database:
  host: file-host
  port: 5432
gate:
  enforce: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configFile), 0600))

	keys := []string{
		"SUPPLY_CHAIN_DEBUG",
		"SUPPLY_CHAIN_DATABASE_HOST",
		"SUPPLY_CHAIN_DATABASE_PORT",
		"SUPPLY_CHAIN_LEDGER_CONTRACT_ADDRESS",
		"SUPPLY_CHAIN_IDENTITIES_RETAILER_ADDRESS",
		"SUPPLY_CHAIN_GATE_ENFORCE",
	}
	t.Cleanup(func() {
		for _, key := range keys {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := LoadAPIConfig(configPath, envDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "local-host", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", cfg.Ledger.ContractAddress)
	assert.True(t, cfg.Gate.Enforce)
	assert.Equal(t, "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
		cfg.Identities.Credentials()[domain.RoleRetailer].Address)
}
