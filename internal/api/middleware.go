package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"studivio/internal/auth"
	"studivio/internal/logging"
	"studivio/internal/services"
)

const requestIDHeader = "X-Request-ID"

type claimsKey struct{}

// requestID tags each request with a correlation id, reusing a well-formed
// incoming header when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := services.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger := logging.WithContext(r.Context(), s.logger)
		attrs := []logging.Attr{
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Int("bytes", ww.BytesWritten()),
			logging.Duration("duration", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			logging.WarnWithContext(logger, "request completed", "request_failed", append(attrs,
				logging.String(logging.FieldErrorHint, "see the preceding error for the cause"),
				logging.String(logging.FieldImpact, "client received a server error"),
			)...)
			return
		}
		logger.Info("request completed", logging.Args(attrs...)...)
	})
}

// answerOptions acknowledges any OPTIONS request the CORS handler let
// through, so every route accepts a bare OPTIONS.
func answerOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests without a valid, unrevoked bearer token and
// stores the claims and username on the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if strings.TrimSpace(header) == "" {
			writeAuthError(w, r, "Missing Authorization Header")
			return
		}
		token, ok := auth.BearerToken(header)
		if !ok {
			writeAuthError(w, r, "Missing 'Bearer' type in 'Authorization' header")
			return
		}
		claims, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrRevoked):
				writeAuthError(w, r, "Token has been revoked")
			case errors.Is(err, auth.ErrTokenExpired):
				writeAuthError(w, r, "Token has expired")
			case errors.Is(err, services.ErrAuth):
				writeAuthError(w, r, "Invalid token")
			default:
				s.requestLogger(r).Error("token verification failed", logging.Error(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, render.M{"msg": "Token verification failed"})
			}
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		ctx = services.WithUser(ctx, claims.Username())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeAuthError(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, render.M{"msg": msg})
}

func claimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

// currentUser returns the authenticated username, or "" on public routes.
func currentUser(r *http.Request) string {
	user, _ := services.UserFromContext(r.Context())
	return user
}

func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	return logging.WithContext(r.Context(), s.logger)
}
