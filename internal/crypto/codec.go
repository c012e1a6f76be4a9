// this file implements the symmetric codec used for verification payloads
//
// payloads are encrypted with AES-256-CBC under a fixed process-wide key and
// a fresh random IV per encryption. Ciphertext and IV are base64 encoded so
// they can be embedded in a URL query string and presented back by a verifier
// later - possession of the key is what makes a payload decryptable, so a
// successful decrypt is treated as proof the payload was produced by this
// service.

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// KeySize is the required symmetric key length in bytes (AES-256).
const KeySize = 32

// EncryptedPayload holds the output of one encryption call.
// Both fields are standard base64.
type EncryptedPayload struct {
	Ciphertext string
	IV         string
}

// Codec encrypts and decrypts verification payloads with a fixed AES-256 key.
// The key is read-only after construction so a single Codec is safe for
// concurrent use.
type Codec struct {
	key []byte
}

// NewCodec creates a Codec from a 32-byte AES-256 key.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) != KeySize {
		return nil, NewKeyManagementError(fmt.Sprintf("key must be %d bytes, got %d", KeySize, len(key)))
	}
	c := &Codec{key: make([]byte, KeySize)}
	copy(c.key, key)
	return c, nil
}

// Encrypt encrypts plaintext with AES-256-CBC and a fresh random IV.
//
// The IV is never reused across calls: CBC mode leaks plaintext structure if
// two messages are encrypted under the same key/IV pair.
func (c *Codec) Encrypt(plaintext []byte) (EncryptedPayload, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return EncryptedPayload{}, WrapInternalError(err, "failed to create cipher")
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return EncryptedPayload{}, WrapInternalError(err, "failed to generate IV")
	}

	padded := padPKCS7(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return EncryptedPayload{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		IV:         base64.StdEncoding.EncodeToString(iv),
	}, nil
}

// Decrypt reverses Encrypt.
//
// Every failure mode - malformed base64, wrong IV length, ciphertext not a
// multiple of the block size, padding validation failure - returns an error
// with code ErrCodeDecryption so callers can map it to a "Not Verified"
// outcome without inspecting the cause.
func (c *Codec) Decrypt(ciphertextB64, ivB64 string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, WrapDecryptionError(err, "ciphertext is not valid base64")
	}

	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil {
		return nil, WrapDecryptionError(err, "IV is not valid base64")
	}

	if len(iv) != aes.BlockSize {
		return nil, NewDecryptionError(fmt.Sprintf("IV must be %d bytes, got %d", aes.BlockSize, len(iv)))
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, NewDecryptionError("ciphertext length is not a multiple of the block size")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, WrapInternalError(err, "failed to create cipher")
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpadPKCS7(plaintext, aes.BlockSize)
	if err != nil {
		return nil, err
	}

	return unpadded, nil
}

// padPKCS7 pads data to a multiple of blockSize per PKCS#7.
func padPKCS7(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// unpadPKCS7 validates and strips PKCS#7 padding.
func unpadPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, NewDecryptionError("invalid padded data length")
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, NewDecryptionError("invalid padding")
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, NewDecryptionError("invalid padding")
		}
	}

	return data[:len(data)-padLen], nil
}
