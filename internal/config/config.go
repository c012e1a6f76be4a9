package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
)

// Environment variables with defaults
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8000"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`

	// WriteTimeout must exceed LEDGER_TIMEOUT: issue requests hold the
	// connection open while the commit transaction is mined
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT,default=120s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RateLimitRPS    int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst  int32         `env:"RATE_LIMIT_BURST,default=200"`
	MaxRequestBytes int64         `env:"MAX_REQUEST_BYTES,default=65536"`

	// symmetric key used to encrypt verification payloads.
	// KEY_HEX takes precedence; KEY_PATH points at an "oct" JWK file
	// (generate one with the keygen tool).
	KeyHex  string `env:"KEY_HEX"`
	KeyPath string `env:"KEY_PATH"`

	// ledger (blockchain contract) settings
	RPCURL           string        `env:"RPC_URL,required=true"`
	ContractAddress  string        `env:"CONTRACT_ADDRESS,required=true"`
	IssuerAddress    string        `env:"ISSUER_ADDRESS,required=true"`
	IssuerPrivateKey string        `env:"ISSUER_PRIVATE_KEY,required=true"`
	ChainID          int64         `env:"CHAIN_ID,default=137"`
	GasLimit         uint64        `env:"GAS_LIMIT,default=1000000"`
	LedgerTimeout    time.Duration `env:"LEDGER_TIMEOUT,default=90s"`

	// verification link settings
	VerifyBaseURL string `env:"VERIFY_BASE_URL,default=https://verify.certs365.io/"`
	ExplorerTxURL string `env:"EXPLORER_TX_URL,default=https://polygonscan.com/tx/"`

	// optional issuance log database - leave DATABASE_URL unset to disable
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS,default=4"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS,default=0"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME,default=60m"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=30m"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT,default=5s"`
	DatabasePingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT,default=10s"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig checks for required env variables
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}

	if cfg.KeyHex == "" && cfg.KeyPath == "" {
		return fmt.Errorf("one of KEY_HEX or KEY_PATH must be set")
	}

	if !strings.HasPrefix(cfg.RPCURL, "http://") && !strings.HasPrefix(cfg.RPCURL, "https://") &&
		!strings.HasPrefix(cfg.RPCURL, "ws://") && !strings.HasPrefix(cfg.RPCURL, "wss://") {
		return fmt.Errorf("RPC_URL must be an http(s) or ws(s) URL, got %s", cfg.RPCURL)
	}

	if cfg.ChainID < 1 {
		return fmt.Errorf("CHAIN_ID must be a positive chain ID, got %d", cfg.ChainID)
	}

	if cfg.LedgerTimeout < time.Second {
		return fmt.Errorf("LEDGER_TIMEOUT must be at least 1s, got %s", cfg.LedgerTimeout)
	}

	if cfg.WriteTimeout <= cfg.LedgerTimeout {
		return fmt.Errorf("WRITE_TIMEOUT (%s) must be greater than LEDGER_TIMEOUT (%s)",
			cfg.WriteTimeout, cfg.LedgerTimeout)
	}

	// Database pool settings only matter when the issuance log is enabled
	if cfg.DatabaseURL != "" {
		if cfg.DBMaxConnections < 1 {
			return fmt.Errorf("DB_MAX_CONNECTIONS must be at least 1")
		}
		if cfg.DBMinConnections < 0 {
			return fmt.Errorf("DB_MIN_CONNECTIONS must be 0 or greater")
		}
		if cfg.DBMinConnections > cfg.DBMaxConnections {
			return fmt.Errorf("DB_MIN_CONNECTIONS (%d) cannot be greater than DB_MAX_CONNECTIONS (%d)",
				cfg.DBMinConnections, cfg.DBMaxConnections)
		}
	}

	return nil
}
