package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"recruit-backend/internal/apperr"
	"recruit-backend/internal/domain"
	"recruit-backend/internal/logger"
	"recruit-backend/internal/ratelimit"
	"recruit-backend/internal/security"
	"recruit-backend/internal/service"
)

type contextKey int

const (
	sessionContextKey contextKey = iota
	claimsContextKey
)

// SessionFrom returns the resolved applicant session stored by SessionAuth.
func SessionFrom(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionContextKey).(*domain.Session)
	return s
}

// ClaimsFrom returns the staff claims stored by AdminAuth.
func ClaimsFrom(ctx context.Context) *security.StaffClaims {
	c, _ := ctx.Value(claimsContextKey).(*security.StaffClaims)
	return c
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// clientKey identifies the caller for rate limiting: an explicit visitor
// identifier wins, then the first forwarded hop, then the peer address.
func clientKey(r *http.Request) string {
	if visitor := r.Header.Get("X-Visitor-Id"); visitor != "" {
		return visitor
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit enforces a fixed-window limit per (class, client key). Counter
// failures are logged and the request admitted; rate limiting is protective,
// not load-bearing.
func RateLimit(limiter ratelimit.Limiter, class string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("%s:%s", class, clientKey(r))
			count, resetAt, err := limiter.Consume(r.Context(), key, window)
			if err != nil {
				logger.WarnContext(r.Context(), "Rate limit counter unavailable", "class", class, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if count > limit {
				retryAfter := int((time.Until(resetAt) + time.Second - 1) / time.Second)
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeError(w, apperr.New(http.StatusTooManyRequests, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionAuth resolves the bearer token into an applicant session.
func SessionAuth(sessions service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessions.Resolve(r.Context(), bearerToken(r))
			if err != nil {
				writeError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth validates a staff JWT and requires the admin role.
func AdminAuth(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, apperr.Unauthorized("MISSING_TOKEN"))
				return
			}
			claims, err := tokens.ValidateToken(token)
			if err != nil {
				writeError(w, apperr.Unauthorized("invalid token"))
				return
			}
			if !claims.HasRole(security.RoleAdmin) {
				writeError(w, apperr.Forbidden("admin role required"))
				return
			}
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recover converts handler panics into 500 responses.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "Handler panic", "path", r.URL.Path, "panic", rec)
				writeError(w, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
