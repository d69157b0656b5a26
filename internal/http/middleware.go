package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
)

// SessionAuthenticator resolves opaque session identifiers into sessions.
// *service.AuthService satisfies it; tests substitute fakes.
type SessionAuthenticator interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// Middleware is a standard http.Handler decorator.
type Middleware func(http.Handler) http.Handler

// respWriter captures the status code written by a handler.
// Status defaults to 200 because Write without WriteHeader implies it.
type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Logging logs one line per request with method, path, status, and duration.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// Recover converts handler panics into 500 responses.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic in handler",
						"method", r.Method,
						"path", r.URL.Path,
						"panic", rec,
					)
					WriteError(w, ErrorParams{
						Code:    http.StatusInternalServerError,
						ErrCode: "internal_error",
						Err:     errors.New("internal server error"),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionCookieName is the cookie carrying the opaque session identifier.
const SessionCookieName = "session_id"

// sessionIDFromRequest extracts the session identifier from the session
// cookie or, failing that, from an Authorization: Bearer header. API clients
// use the header; the browser uses the cookie.
func sessionIDFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authz := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authz, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// resolveSession looks up the request's session. A missing identifier, an
// unknown session, and an expired session all resolve to nil.
func resolveSession(r *http.Request, auth SessionAuthenticator) *domainauth.Session {
	id := sessionIDFromRequest(r)
	if id == "" {
		return nil
	}
	session, err := auth.GetSession(r.Context(), id)
	if err != nil || session == nil {
		return nil
	}
	return session
}

// RequireAuth rejects unauthenticated requests with 401 and stores the
// resolved session in the request context for downstream handlers.
func RequireAuth(auth SessionAuthenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := resolveSession(r, auth)
			if session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))
		})
	}
}

// RequireRole rejects authenticated requests whose role is outside the given
// set. Must run inside RequireAuth; an absent session is treated as 401
// rather than panicking.
func RequireRole(roles ...domainauth.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			if !session.HasRole(roles...) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_role",
					Err:     errors.New("role does not permit this operation"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireModule gates a route on the role/module policy table. Runs after
// RequireAuth so the session is already in context.
func RequireModule(policy *domainauth.Policy, module domainauth.Module) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			if !policy.CanAccess(session.User.Role, module) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "module_access_denied",
					Err:     errors.New("module is not accessible to this role"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middleware left to right: the first element is outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// guard is the auth → module evaluation every protected route goes through.
func guard(auth SessionAuthenticator, policy *domainauth.Policy, module domainauth.Module, h http.Handler) http.Handler {
	return Chain(h, RequireAuth(auth), RequireModule(policy, module))
}
