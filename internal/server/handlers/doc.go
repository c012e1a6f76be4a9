// Package handlers provides general infrastructure HTTP handlers
// (health, readiness, version).
//
// The certificate API handlers live in internal/certify/handlers.
package handlers
