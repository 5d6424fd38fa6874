// Package auth issues and verifies access tokens, hashes passwords, and keeps
// the list of revoked tokens.
//
// Tokens are HS256 JWTs whose subject is the username and whose jti is a
// random UUID. Logout revokes the jti until the token's own expiry; after that
// the signature check rejects the token anyway, so revocation entries are
// purged (SQLite) or expire on their own (Redis).
package auth
