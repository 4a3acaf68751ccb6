package api

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/zapponejosh/liturgy-api/internal/config"
	"github.com/zapponejosh/liturgy-api/internal/database"
	"github.com/zapponejosh/liturgy-api/internal/logger"
)

// Middleware is a function that wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// ChainMiddleware chains multiple middleware functions together.
func ChainMiddleware(middlewares ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// RequestIDMiddleware adds a unique request ID to each request.
// A well-formed incoming X-Request-ID is kept.
func RequestIDMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if _, err := ulid.ParseStrict(requestID); err != nil {
				requestID = ulid.Make().String()
			}
			r.Header.Set("X-Request-ID", requestID)
			w.Header().Set("X-Request-ID", requestID)
			ctx := logger.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware logs HTTP requests with structured logging.
func LoggingMiddleware(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap ResponseWriter to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			log.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", r.Header.Get("X-Request-ID")),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// CORSMiddleware adds CORS headers to responses.
func CORSMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RecoveryMiddleware recovers from panics and returns a 500 error.
func RecoveryMiddleware(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic recovered",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("request_id", r.Header.Get("X-Request-ID")),
					)
					WriteInternalError(w, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// =============================================================================
// Authentication
// =============================================================================

type userContextKey struct{}

// bootstrapAdminID identifies the principal behind ADMIN_API_KEY. It has no
// row in the users table.
const bootstrapAdminID = "bootstrap-admin"

func bootstrapAdmin() *database.User {
	return &database.User{
		ID:       bootstrapAdminID,
		Username: "admin",
		Role:     database.RoleAdmin,
		Active:   true,
	}
}

// AuthMiddleware resolves the X-API-Key header to a user. The configured
// admin key authenticates as a built-in admin; every other key is looked up
// in the database.
func AuthMiddleware(db *database.DB, cfg *config.Config, log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				WriteUnauthorized(w, "Missing API key")
				return
			}

			var user *database.User
			if cfg.AdminAPIKey != "" && subtle.ConstantTimeCompare([]byte(apiKey), []byte(cfg.AdminAPIKey)) == 1 {
				user = bootstrapAdmin()
			} else {
				u, err := db.AuthenticateAPIKey(r.Context(), apiKey)
				if err != nil {
					if !database.IsNotFound(err) {
						logger.Error(r.Context(), "api key lookup failed", err)
						WriteInternalError(w, "Failed to authenticate")
						return
					}
					log.Warn("invalid API key attempt",
						slog.String("remote_addr", r.RemoteAddr),
						slog.String("path", r.URL.Path),
					)
					WriteUnauthorized(w, "Invalid API key")
					return
				}
				user = u
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			ctx = logger.WithUserID(ctx, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated users whose role is below required.
// It must run after AuthMiddleware.
func RequireRole(required database.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				WriteUnauthorized(w, "Authentication required")
				return
			}
			if !user.Role.Can(required) {
				WriteForbidden(w, "Requires "+string(required)+" role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser returns the authenticated user, or nil outside AuthMiddleware.
func GetUser(r *http.Request) *database.User {
	user, _ := r.Context().Value(userContextKey{}).(*database.User)
	return user
}

func isBootstrapAdmin(u *database.User) bool {
	return u != nil && u.ID == bootstrapAdminID
}
