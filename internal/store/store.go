// Package store persists issuance receipts to PostgreSQL.
//
// The audit log is optional and write-only: it records which certificate
// numbers were anchored and under which transaction, for operational
// reconciliation against the chain. Certificate field values and encrypted
// payloads are never stored, and verification never reads from it.
package store

import (
	"context"
	"embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/certs365/certify-server/internal/certify"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// IssuanceLog records issuance receipts in the issuance_log table.
type IssuanceLog struct {
	pool *pgxpool.Pool
}

func NewIssuanceLog(pool *pgxpool.Pool) *IssuanceLog {
	return &IssuanceLog{pool: pool}
}

// RecordIssuance inserts one receipt row. Failures are reported to the
// caller, which treats the audit log as best-effort.
func (l *IssuanceLog) RecordIssuance(ctx context.Context, rec certify.IssuanceRecord) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO issuance_log (id, certificate_number, combined_hash, transaction_hash)
		 VALUES ($1, $2, $3, $4)`,
		uuid.New(), rec.CertificateNumber, rec.CombinedHash, rec.TransactionHash,
	)
	if err != nil {
		return fmt.Errorf("could not record issuance of %s: %w", rec.CertificateNumber, err)
	}
	return nil
}

// RunMigrations applies the embedded schema migrations against the pool's
// database.
func RunMigrations(pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
