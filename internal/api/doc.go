// Package api serves the Studivio HTTP interface.
//
// Routes are mounted on a chi router with request-id, recoverer, CORS, and
// structured access-log middleware. JSON bodies are decoded and encoded with
// go-chi/render and validated with validator/v10.
//
// # Route groups
//
// Public: "/", "/endpoints", "/Register", "/Login".
//
// Bearer-protected: "/Logout", "/protected", "/notes", "/tasks", and the
// ingestion routes "/summariser/pdf", "/whisper/audio", "/summariser/youtube".
//
// Todos are public unless todos_require_auth is set, in which case they are
// stamped with the caller and guarded by owner checks like notes.
//
// # Error bodies
//
// CRUD routes answer with {"message": ...} (or {"Message": ...} for the
// account routes), ingestion routes with {"error": ...}, and bearer failures
// with {"msg": ...}. Those shapes are what existing clients parse.
//
// # Ownership
//
// The store never filters by owner on single-record reads. Handlers load the
// record first, answer 404 when it is absent, and 403 when the caller does
// not own it.
package api
