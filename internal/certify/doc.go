// Package certify implements the certificate fingerprinting and verification
// protocol: canonicalizing certificate fields, hashing them into the combined
// digest anchored on-chain, building the encrypted verification link issued
// as a QR code, and verifying payloads presented back by a scanner.
//
// The package owns the issuance and verification workflows; the ledger
// (blockchain contract) and QR codec are external collaborators reached
// through the Ledger and QREncoder interfaces.
package certify
