// this file contains functions to generate and manage the symmetric
// encryption key used for verification payloads
//
// the key can be supplied to the server as a hex string (KEY_HEX) or as an
// "oct" JWK file (KEY_PATH) generated with the keygen tool
//
// keys are saved in JWK format (https://datatracker.ietf.org/doc/html/rfc7517)

package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lestrrat-go/jwx/v3/jwk"
)

// GenerateSymmetricKey generates a new random AES-256 key.
func GenerateSymmetricKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, WrapInternalError(err, "failed to generate key")
	}
	return key, nil
}

// ParseSymmetricKeyHex parses a hex-encoded AES-256 key.
func ParseSymmetricKeyHex(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, WrapKeyManagementError(err, "key is not valid hex")
	}
	if len(key) != KeySize {
		return nil, NewKeyManagementError(fmt.Sprintf("key must be %d bytes, got %d", KeySize, len(key)))
	}
	return key, nil
}

// SymmetricKeyToJWK converts a raw symmetric key to an "oct" JWK.
func SymmetricKeyToJWK(key []byte, keyID string) (jwk.Key, error) {
	if len(key) != KeySize {
		return nil, NewKeyManagementError(fmt.Sprintf("key must be %d bytes, got %d", KeySize, len(key)))
	}
	if keyID == "" {
		return nil, NewKeyManagementError("keyID is required")
	}

	jwkKey, err := jwk.Import(key)
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to create JWK from symmetric key")
	}

	if err := jwkKey.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, WrapKeyManagementError(err, "failed to set key ID")
	}

	if err := jwkKey.Set(jwk.KeyUsageKey, jwk.ForEncryption); err != nil {
		return nil, WrapKeyManagementError(err, "failed to set key usage")
	}

	return jwkKey, nil
}

// SaveSymmetricKeyToJWKFile saves a symmetric key to a JWK file.
// note the file contents are the key material itself, so the file is written
// with mode 0600.
//
// Parameters:
//   - baseDir: The base directory to scope file access (e.g., "./keys")
//   - filename: The filename within the base directory (e.g., "payload.private.jwk")
func SaveSymmetricKeyToJWKFile(key []byte, keyID, baseDir, filename string) error {
	jwkKey, err := SymmetricKeyToJWK(key, keyID)
	if err != nil {
		return err
	}

	jwkSet := jwk.NewSet()
	if err := jwkSet.AddKey(jwkKey); err != nil {
		return WrapKeyManagementError(err, "failed to add key to JWK set")
	}

	jsonBytes, err := json.MarshalIndent(jwkSet, "", "  ")
	if err != nil {
		return WrapKeyManagementError(err, "failed to marshal JWK set")
	}

	root, err := os.OpenRoot(baseDir)
	if err != nil {
		return WrapKeyManagementError(err, fmt.Sprintf("failed to open root directory %s", baseDir))
	}
	defer root.Close()

	if err := root.WriteFile(filename, jsonBytes, 0600); err != nil {
		return WrapKeyManagementError(err, "failed to write file")
	}

	return nil
}

// ReadSymmetricKeyFromJWKFile loads a symmetric key from a JWK file.
//
// Parameters:
//   - baseDir: The base directory to scope file access (e.g., "./keys")
//   - filename: The filename within the base directory (e.g., "payload.private.jwk")
func ReadSymmetricKeyFromJWKFile(baseDir, filename string) ([]byte, error) {
	root, err := os.OpenRoot(baseDir)
	if err != nil {
		return nil, WrapKeyManagementError(err, fmt.Sprintf("failed to open root directory %s", baseDir))
	}
	defer root.Close()

	jsonBytes, err := root.ReadFile(filename)
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to read file")
	}

	jwkSet, err := jwk.Parse(jsonBytes)
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to parse JWK set")
	}

	if jwkSet.Len() == 0 {
		return nil, NewKeyManagementError("JWK set is empty")
	}

	jwkKey, ok := jwkSet.Key(0)
	if !ok {
		return nil, NewKeyManagementError("failed to get key from JWK set")
	}

	var raw []byte
	if err := jwk.Export(jwkKey, &raw); err != nil {
		return nil, WrapKeyManagementError(err, "failed to export key")
	}

	if len(raw) != KeySize {
		return nil, NewKeyManagementError(fmt.Sprintf("key must be %d bytes, got %d", KeySize, len(raw)))
	}

	return raw, nil
}
