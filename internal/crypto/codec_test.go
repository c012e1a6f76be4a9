package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	key := bytes.Repeat([]byte{0x42}, KeySize)
	codec, err := NewCodec(key)
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	return codec
}

func TestNewCodecRejectsBadKeySize(t *testing.T) {
	_, err := NewCodec([]byte("short key"))
	if err == nil {
		t.Fatal("NewCodec() expected error for short key, got nil")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	codec := testCodec(t)

	plaintext := []byte(`{"Certificate_Number":"C-1","name":"Alice"}`)

	payload, err := codec.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	decrypted, err := codec.Decrypt(payload.Ciphertext, payload.IV)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}

	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round trip mismatch: got %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptGeneratesFreshIV(t *testing.T) {
	codec := testCodec(t)

	plaintext := []byte("same plaintext both times")

	first, err := codec.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	second, err := codec.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if first.IV == second.IV {
		t.Error("Encrypt() reused an IV across two calls")
	}
	if first.Ciphertext == second.Ciphertext {
		t.Error("Encrypt() produced identical ciphertext for two calls with the same plaintext")
	}
}

func TestDecryptFailureModes(t *testing.T) {
	codec := testCodec(t)

	payload, err := codec.Encrypt([]byte("some payload"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	tests := []struct {
		name       string
		ciphertext string
		iv         string
	}{
		{"malformed base64 ciphertext", "not-base64!!!", payload.IV},
		{"malformed base64 iv", payload.Ciphertext, "not-base64!!!"},
		{"wrong iv length", payload.Ciphertext, base64.StdEncoding.EncodeToString([]byte("short"))},
		{"empty ciphertext", "", payload.IV},
		{"partial block", base64.StdEncoding.EncodeToString([]byte("stub")), payload.IV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decrypt(tt.ciphertext, tt.iv)
			if err == nil {
				t.Fatal("Decrypt() expected error, got nil")
			}

			var cryptoErr *CryptoError
			if !errors.As(err, &cryptoErr) {
				t.Fatalf("Decrypt() error is not a CryptoError: %T", err)
			}
			if cryptoErr.Code() != ErrCodeDecryption {
				t.Errorf("Decrypt() error code = %v, want %v", cryptoErr.Code(), ErrCodeDecryption)
			}
		})
	}
}

// flipping a byte of the ciphertext must never silently return the original
// plaintext. Tampering with the final block usually breaks the padding; in
// the rare case a stray padding byte still validates, the recovered
// plaintext is garbage - either way the original bytes are unrecoverable.
func TestDecryptTamperedCiphertext(t *testing.T) {
	codec := testCodec(t)

	plaintext := []byte("tamper detection payload")
	payload, err := codec.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(payload.Ciphertext)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	decrypted, err := codec.Decrypt(tampered, payload.IV)
	if err == nil && bytes.Equal(decrypted, plaintext) {
		t.Error("Decrypt() returned the original plaintext for tampered ciphertext")
	}
	if err != nil {
		var cryptoErr *CryptoError
		if !errors.As(err, &cryptoErr) || cryptoErr.Code() != ErrCodeDecryption {
			t.Errorf("Decrypt() error = %v, want a decryption-coded CryptoError", err)
		}
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	codec := testCodec(t)

	payload, err := codec.Encrypt([]byte("issued by the real server"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	otherKey := bytes.Repeat([]byte{0x07}, KeySize)
	otherCodec, err := NewCodec(otherKey)
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	decrypted, err := otherCodec.Decrypt(payload.Ciphertext, payload.IV)
	if err == nil && strings.Contains(string(decrypted), "issued by the real server") {
		// padding can occasionally validate by chance under the wrong key,
		// but the recovered plaintext must never match
		t.Error("Decrypt() recovered the plaintext under the wrong key")
	}
}

func TestPKCS7Padding(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{"valid single byte pad", append(bytes.Repeat([]byte{'a'}, 15), 0x01), false},
		{"valid full block pad", bytes.Repeat([]byte{16}, 16), false},
		{"zero pad byte", append(bytes.Repeat([]byte{'a'}, 15), 0x00), true},
		{"pad byte too large", append(bytes.Repeat([]byte{'a'}, 15), 0x20), true},
		{"inconsistent padding", append(bytes.Repeat([]byte{'a'}, 14), 0x01, 0x02), true},
		{"not block aligned", []byte("odd"), true},
		{"empty", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := unpadPKCS7(tt.data, 16)
			if (err != nil) != tt.wantErr {
				t.Errorf("unpadPKCS7() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	// pad then unpad restores the original for every length in one block
	for n := 0; n <= 16; n++ {
		data := bytes.Repeat([]byte{'x'}, n)
		out, err := unpadPKCS7(padPKCS7(data, 16), 16)
		if err != nil {
			t.Fatalf("unpadPKCS7(padPKCS7()) error for length %d: %v", n, err)
		}
		if !bytes.Equal(out, data) {
			t.Errorf("pad/unpad round trip failed for length %d", n)
		}
	}
}
