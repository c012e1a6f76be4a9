package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/certs365/certify-server/internal/certify"
	"github.com/certs365/certify-server/internal/config"
	certifycrypto "github.com/certs365/certify-server/internal/crypto"
	"github.com/certs365/certify-server/internal/ledger"
	"github.com/certs365/certify-server/internal/logger"
	"github.com/certs365/certify-server/internal/qr"
	"github.com/certs365/certify-server/internal/server"
	"github.com/certs365/certify-server/internal/store"
	"github.com/certs365/certify-server/internal/version"
)

//	@title			certify-server
//	@description	certify-server issues course certificates anchored on a blockchain ledger and verifies the encrypted QR payloads printed on them
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	Individual endpoints document their specific business logic errors.
//	@description
//	@description	## Request Limits
//	@description	All endpoints are protected by:
//	@description	- **Rate limiting**: Configurable requests per second (see env vars) - default 100 rps (set to 0 to disable)
//	@description	- **Request size limits**: Configurable (see env vars) - default 64KB
//	@description
//	@description	Check the X-Max-Request-Size response header for the configured limit.
//	@description
//	@description	## Authentication & Authorization
//	@description
//	@description	The certificate APIs do not require credentials to be sent with the request.
//	@description	The issue endpoint is expected to sit behind a private network or gateway;
//	@description	the verify endpoint is public - possession of a decryptable payload is the proof of authenticity.
//	@description
//	@license.name	MIT

//	@servers.url			https://api.certs365.io
//	@servers.description	Production server
//	@servers.url			http://localhost:8000
//	@servers.description	Development server

//	@accept		json
//	@produce	json

//	@tag.name			Certificate
//	@tag.description	Certificate issuance and verification endpoints

//	@tag.name			Common
//	@tag.description	Server API endpoints (health, readiness, version)

func main() {
	cmd := &cobra.Command{
		Use:   "certify-server",
		Short: "Certificate issuance and verification server",
		Long:  `certify-server anchors certificate hashes on a blockchain contract and serves encrypted QR verification payloads`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("RPC_URL", cfg.RPCURL),
		slog.String("CONTRACT_ADDRESS", cfg.ContractAddress),
		slog.Int64("CHAIN_ID", cfg.ChainID),
		slog.String("VERIFY_BASE_URL", cfg.VerifyBaseURL),
	)

	key, err := loadVerificationKey(cfg)
	if err != nil {
		appLogger.Error("Failed to load verification key", slog.String("error", err.Error()))
		os.Exit(1)
	}

	codec, err := certifycrypto.NewCodec(key)
	if err != nil {
		appLogger.Error("Failed to create payload codec", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ledgerClient, err := ledger.NewClient(ledger.Config{
		RPCURL:           cfg.RPCURL,
		ContractAddress:  cfg.ContractAddress,
		IssuerAddress:    cfg.IssuerAddress,
		IssuerPrivateKey: cfg.IssuerPrivateKey,
		ChainID:          cfg.ChainID,
		GasLimit:         cfg.GasLimit,
		Timeout:          cfg.LedgerTimeout,
	})
	if err != nil {
		appLogger.Error("Failed to create ledger client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer ledgerClient.Close()

	// the issuance audit log is optional
	var pool *pgxpool.Pool
	var recorder certify.IssuanceRecorder
	if cfg.DatabaseURL != "" {
		pool, err = connectDatabase(cfg, appLogger)
		if err != nil {
			appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}

		if err := store.RunMigrations(pool); err != nil {
			appLogger.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		recorder = store.NewIssuanceLog(pool)
		appLogger.Info("issuance audit log enabled")
	}

	issuer := certify.NewIssuer(
		ledgerClient,
		codec,
		qr.NewEncoder(256),
		recorder,
		cfg.VerifyBaseURL,
		cfg.ExplorerTxURL,
	)
	verifier := certify.NewVerifier(codec)

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(pool, cfg, appLogger, issuer, verifier)
	if err != nil {
		appLogger.Error("Failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer srv.DatabaseShutdown()

	if err := srv.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}

// loadVerificationKey resolves the symmetric key for encrypting verification
// payloads. KEY_HEX takes precedence over KEY_PATH.
func loadVerificationKey(cfg *config.ServerEnvironment) ([]byte, error) {
	if cfg.KeyHex != "" {
		return certifycrypto.ParseSymmetricKeyHex(cfg.KeyHex)
	}

	dir, filename := filepath.Split(cfg.KeyPath)
	if dir == "" {
		dir = "."
	}
	return certifycrypto.ReadSymmetricKeyFromJWKFile(dir, filename)
}

func connectDatabase(cfg *config.ServerEnvironment, appLogger *slog.Logger) (*pgxpool.Pool, error) {
	dbCtx, dbCancel := context.WithTimeout(context.Background(), cfg.DatabasePingTimeout)
	defer dbCancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.DBMaxConnections
	poolConfig.MinConns = cfg.DBMinConnections
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout

	pool, err := pgxpool.NewWithConfig(dbCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err = pool.Ping(dbCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database via pool: %w", err)
	}

	appLogger.Info("connected to PostgreSQL")
	return pool, nil
}
