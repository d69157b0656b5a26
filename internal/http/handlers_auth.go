package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/service"
)

// AuthServiceInterface defines the auth operations the handlers need.
// *service.AuthService satisfies it; tests substitute fakes.
type AuthServiceInterface interface {
	SessionAuthenticator
	PasswordLogin(ctx context.Context, identifier, secret string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for session establishment and teardown.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Policy       *domainauth.Policy
	CookieDomain string
	Logger       *slog.Logger
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionEnvelope is the JSON view of an established session. Modules is the
// display copy of the policy table for the session role; the server re-checks
// access on every request regardless of what the client renders.
type sessionEnvelope struct {
	Authenticated bool                `json:"authenticated"`
	User          *domainauth.User    `json:"user,omitempty"`
	Modules       []domainauth.Module `json:"modules,omitempty"`
	ExpiresAt     *time.Time          `json:"expires_at,omitempty"`
}

func (h *AuthHandlers) envelope(session *domainauth.Session) sessionEnvelope {
	if session == nil {
		return sessionEnvelope{Authenticated: false}
	}
	user := session.User
	expires := session.ExpiresAt
	return sessionEnvelope{
		Authenticated: true,
		User:          &user,
		Modules:       h.Policy.ModulesFor(user.Role),
		ExpiresAt:     &expires,
	}
}

// Login handles POST /auth/login.
// Credential failures are reported uniformly so callers cannot probe which
// part of the credential pair was wrong.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	session, err := h.Svc.PasswordLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_credentials",
				Err:     service.ErrInvalidCredentials,
			})
			return
		}
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     errors.New("login failed"),
		})
		return
	}

	h.setSessionCookie(w, r, session)
	WriteJSON(w, http.StatusOK, h.envelope(session))
}

// Status handles GET /auth/status. Always 200; an absent or expired session
// yields {"authenticated": false} rather than an error.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := resolveSession(r, h.Svc)
	WriteJSON(w, http.StatusOK, h.envelope(session))
}

// Logout handles POST /auth/logout. Logout is idempotent: an unknown or
// already-cleared session still clears the cookie and returns 204.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if id := sessionIDFromRequest(r); id != "" {
		if err := h.Svc.Logout(r.Context(), id); err != nil {
			h.logger().WarnContext(r.Context(), "logout cleanup failed", "error", err)
		}
	}
	h.clearSessionCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, session *domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
