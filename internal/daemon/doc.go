// Package daemon owns the lifecycle of a serving Studivio process.
//
// It builds the HTTP API, the ingestion pipeline, and the revocation backend
// from configuration, takes a flock on the data directory so only one server
// runs per database, and runs the revoked-token purger alongside the server.
// Request handling lives in the api package; the daemon focuses on startup,
// shutdown, and wiring.
package daemon
