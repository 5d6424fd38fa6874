// Package services defines shared utilities consumed by the ingestion pipeline,
// the HTTP handlers, and the external service gateways.
//
// Key responsibilities:
//   - Context helpers that stamp request identifiers, the authenticated user,
//     and the ingestion state for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the validation/auth/not-found/upstream/storage taxonomy and map
//     them onto HTTP status codes.
//
// Use these helpers when wiring new handlers or gateways so error handling and
// observability stay uniform across the service.
package services
