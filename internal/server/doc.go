// Package server provides the HTTP server for the certificate issuance and
// verification service.
//
// The server is configured through environment variables
// (see internal/config/config.go for details)
//
// The package wires up
//   - the certificate API handlers (internal/certify/handlers)
//   - common infrastructure handlers (health, readiness, version)
//
// middleware is in internal/server/middleware
package server
