package certify

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/certs365/certify-server/internal/crypto"
)

func testCodec(t *testing.T) *crypto.Codec {
	t.Helper()
	codec, err := crypto.NewCodec(bytes.Repeat([]byte{0x42}, crypto.KeySize))
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	return codec
}

// a payload produced by the issuance workflow verifies as PASSED with the
// original field values
func TestVerifyIssuedPayload(t *testing.T) {
	ledger := newFakeLedger()
	qr := &fakeQREncoder{}
	issuer := testIssuer(t, ledger, qr, nil)

	if _, err := issuer.Issue(context.Background(), testRequest); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// extract the encrypted payload from the QR verification link, as a
	// scanner would
	link, err := url.Parse(qr.lastText)
	if err != nil {
		t.Fatalf("QR text is not a URL: %v", err)
	}
	query := link.Query()

	verifier := NewVerifier(testCodec(t))
	response := verifier.Verify(context.Background(), VerifyRequest{
		EncryptedData: query.Get("q"),
		IV:            query.Get("iv"),
	})

	if response.Status != StatusPassed {
		t.Fatalf("Verify() status = %q, want %q", response.Status, StatusPassed)
	}
	if response.Message != "Verified" {
		t.Errorf("Verify() message = %q, want Verified", response.Message)
	}
	if response.Data == nil {
		t.Fatal("Verify() returned no data on PASSED")
	}
	if response.Data.Name != "Alice" {
		t.Errorf("Name = %q, want Alice", response.Data.Name)
	}
	if response.Data.CertificateNumber != "C-1" {
		t.Errorf("Certificate Number = %q, want C-1", response.Data.CertificateNumber)
	}
	// dates in the payload are canonical
	if response.Data.GrantDate != "01/02/24" {
		t.Errorf("Grant Date = %q, want canonical 01/02/24", response.Data.GrantDate)
	}
	if response.Data.PolygonURL != "https://polygonscan.com/tx/0xabc123" {
		t.Errorf("Polygon URL = %q, want the explorer link", response.Data.PolygonURL)
	}
}

func TestVerifyGarbagePayload(t *testing.T) {
	verifier := NewVerifier(testCodec(t))

	tests := []struct {
		name          string
		encryptedData string
		iv            string
	}{
		{"random base64", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x99}, 32)), base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x17}, 16))},
		{"not base64", "!!!not-base64!!!", "!!!also-not!!!"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := verifier.Verify(context.Background(), VerifyRequest{
				EncryptedData: tt.encryptedData,
				IV:            tt.iv,
			})

			if response.Status != StatusFailed {
				t.Errorf("Verify() status = %q, want %q", response.Status, StatusFailed)
			}
			if response.Message != "Not Verified" {
				t.Errorf("Verify() message = %q, want Not Verified", response.Message)
			}
			if response.Data != nil {
				t.Error("Verify() leaked data on FAILED")
			}
		})
	}
}

// flipping one byte of ciphertext or IV yields FAILED, never a crash
func TestVerifyTamperedPayload(t *testing.T) {
	codec := testCodec(t)
	payload, err := codec.Encrypt([]byte(`{"Certificate_Number":"C-1","name":"Alice"}`))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	verifier := NewVerifier(codec)

	flipByte := func(b64 string) string {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			t.Fatalf("test payload is not base64: %v", err)
		}
		raw[0] ^= 0x01
		return base64.StdEncoding.EncodeToString(raw)
	}

	tests := []struct {
		name string
		req  VerifyRequest
	}{
		{"tampered ciphertext", VerifyRequest{EncryptedData: flipByte(payload.Ciphertext), IV: payload.IV}},
		{"tampered iv", VerifyRequest{EncryptedData: payload.Ciphertext, IV: flipByte(payload.IV)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := verifier.Verify(context.Background(), tt.req)
			if response.Status != StatusFailed {
				t.Errorf("Verify() status = %q, want %q", response.Status, StatusFailed)
			}
		})
	}
}

// absent payload fields default to empty strings rather than failing
func TestVerifyPartialPayload(t *testing.T) {
	codec := testCodec(t)
	payload, err := codec.Encrypt([]byte(`{"name":"Bob"}`))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	verifier := NewVerifier(codec)
	response := verifier.Verify(context.Background(), VerifyRequest{
		EncryptedData: payload.Ciphertext,
		IV:            payload.IV,
	})

	if response.Status != StatusPassed {
		t.Fatalf("Verify() status = %q, want %q", response.Status, StatusPassed)
	}
	if response.Data.Name != "Bob" {
		t.Errorf("Name = %q, want Bob", response.Data.Name)
	}
	if response.Data.CertificateNumber != "" || response.Data.PolygonURL != "" {
		t.Errorf("absent fields should default to empty strings: %+v", response.Data)
	}
}
