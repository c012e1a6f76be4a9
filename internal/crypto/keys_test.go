package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestParseSymmetricKeyHex(t *testing.T) {
	key, err := GenerateSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateSymmetricKey() error = %v", err)
	}

	parsed, err := ParseSymmetricKeyHex(hex.EncodeToString(key))
	if err != nil {
		t.Fatalf("ParseSymmetricKeyHex() error = %v", err)
	}
	if !bytes.Equal(parsed, key) {
		t.Error("ParseSymmetricKeyHex() did not round trip the key")
	}

	tests := []struct {
		name   string
		keyHex string
	}{
		{"not hex", "zzzz"},
		{"too short", "deadbeef"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSymmetricKeyHex(tt.keyHex); err == nil {
				t.Errorf("ParseSymmetricKeyHex(%q) expected error, got nil", tt.keyHex)
			}
		})
	}
}

func TestSymmetricKeyJWKFileRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	key, err := GenerateSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateSymmetricKey() error = %v", err)
	}

	if err := SaveSymmetricKeyToJWKFile(key, "payload-key-1", tmpDir, "payload.private.jwk"); err != nil {
		t.Fatalf("SaveSymmetricKeyToJWKFile() error = %v", err)
	}

	loaded, err := ReadSymmetricKeyFromJWKFile(tmpDir, "payload.private.jwk")
	if err != nil {
		t.Fatalf("ReadSymmetricKeyFromJWKFile() error = %v", err)
	}

	if !bytes.Equal(loaded, key) {
		t.Error("JWK file round trip did not restore the key")
	}

	// missing file
	if _, err := ReadSymmetricKeyFromJWKFile(tmpDir, "nonexistent.jwk"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestSymmetricKeyToJWKValidation(t *testing.T) {
	key, err := GenerateSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateSymmetricKey() error = %v", err)
	}

	if _, err := SymmetricKeyToJWK(key, ""); err == nil {
		t.Error("SymmetricKeyToJWK() expected error for empty keyID, got nil")
	}

	if _, err := SymmetricKeyToJWK([]byte("short"), "kid"); err == nil {
		t.Error("SymmetricKeyToJWK() expected error for short key, got nil")
	}
}
