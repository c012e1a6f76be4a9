package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/certs365/certify-server/internal/certify"
)

var _ certify.Ledger = (*Client)(nil)

// a syntactically valid secp256k1 private key for parse tests
const testPrivateKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func testConfig() Config {
	return Config{
		RPCURL:           "http://localhost:8545",
		ContractAddress:  "0x1f9090aaE28b8a3dCeaDf281B0F12828e676c326",
		IssuerAddress:    "0x0000000000000000000000000000000000000001",
		IssuerPrivateKey: testPrivateKeyHex,
		ChainID:          137,
		GasLimit:         1000000,
		Timeout:          time.Second,
	}
}

func TestNewClientRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"invalid contract address", func(cfg *Config) { cfg.ContractAddress = "not-an-address" }},
		{"invalid issuer address", func(cfg *Config) { cfg.IssuerAddress = "0x123" }},
		{"invalid private key", func(cfg *Config) { cfg.IssuerPrivateKey = "zz" }},
		{"key does not match issuer address", func(cfg *Config) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			if _, err := NewClient(cfg); err == nil {
				t.Fatal("NewClient() expected error, got nil")
			}
		})
	}
}

func TestVerifyOutputUnpacking(t *testing.T) {
	// unpacking is exercised directly to avoid dialing an RPC endpoint
	parsed, err := parseRegistryABI()
	if err != nil {
		t.Fatalf("parseRegistryABI() error = %v", err)
	}
	client := &Client{abi: parsed}

	tests := []struct {
		name       string
		exists     bool
		number     string
		wantExists bool
		wantNumber string
	}{
		{"recorded hash", true, "C-1", true, "C-1"},
		{"unknown hash", false, "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := client.abi.Methods["verifyCertificate"].Outputs.Pack(tt.exists, tt.number)
			if err != nil {
				t.Fatalf("Outputs.Pack() error = %v", err)
			}

			exists, number, err := client.unpackVerifyOutput(output)
			if err != nil {
				t.Fatalf("unpackVerifyOutput() error = %v", err)
			}
			if exists != tt.wantExists || number != tt.wantNumber {
				t.Errorf("unpackVerifyOutput() = (%v, %q), want (%v, %q)",
					exists, number, tt.wantExists, tt.wantNumber)
			}
		})
	}
}

func TestVerifyOutputUnpackingRejectsGarbage(t *testing.T) {
	parsed, err := parseRegistryABI()
	if err != nil {
		t.Fatalf("parseRegistryABI() error = %v", err)
	}
	client := &Client{abi: parsed}

	if _, _, err := client.unpackVerifyOutput([]byte("truncated")); err == nil {
		t.Fatal("unpackVerifyOutput() expected error for malformed output, got nil")
	}
}

// malformed hashes are rejected before any RPC traffic - neither method may
// reach the endpoint with a value that is not a SHA-256 hex digest
func TestMalformedHashNeverReachesLedger(t *testing.T) {
	parsed, err := parseRegistryABI()
	if err != nil {
		t.Fatalf("parseRegistryABI() error = %v", err)
	}
	// no RPC client: any call that got past validation would panic
	client := &Client{abi: parsed, timeout: time.Second}

	badHashes := []string{"", "abc123", "not-a-hash", strings.Repeat("z", 64)}

	for _, hash := range badHashes {
		if _, _, err := client.Verify(context.Background(), hash); err == nil {
			t.Errorf("Verify(%q) expected error for malformed hash, got nil", hash)
		}
		if _, err := client.Issue(context.Background(), "C-1", hash); err == nil {
			t.Errorf("Issue(%q) expected error for malformed hash, got nil", hash)
		}
	}
}

func TestRetryOnce(t *testing.T) {
	t.Run("first attempt succeeds", func(t *testing.T) {
		calls := 0
		result, err := retryOnce(context.Background(), func() (int, error) {
			calls++
			return 7, nil
		})
		if err != nil || result != 7 {
			t.Fatalf("retryOnce() = (%d, %v), want (7, nil)", result, err)
		}
		if calls != 1 {
			t.Errorf("fn called %d times, want 1", calls)
		}
	})

	t.Run("second attempt succeeds", func(t *testing.T) {
		calls := 0
		result, err := retryOnce(context.Background(), func() (int, error) {
			calls++
			if calls == 1 {
				return 0, errors.New("transient")
			}
			return 7, nil
		})
		if err != nil || result != 7 {
			t.Fatalf("retryOnce() = (%d, %v), want (7, nil)", result, err)
		}
		if calls != 2 {
			t.Errorf("fn called %d times, want 2", calls)
		}
	})

	t.Run("no retry after context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		_, err := retryOnce(ctx, func() (int, error) {
			calls++
			return 0, errors.New("transient")
		})
		if err == nil {
			t.Fatal("retryOnce() expected error, got nil")
		}
		if calls != 1 {
			t.Errorf("fn called %d times after cancellation, want 1", calls)
		}
	})
}
