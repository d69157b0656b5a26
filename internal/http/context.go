package httpx

import (
	"context"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across
// packages. All handlers and middleware go through the helpers below.
type sessionKey struct{}

// SetSessionInContext returns a child context carrying the session.
// A nil session leaves ctx unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session from the request context and a
// boolean indicating presence.
func SessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if s, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && s != nil {
		return s, true
	}
	return nil, false
}

// UserFromContext returns the authenticated user, or the zero User when the
// request carries no session.
func UserFromContext(ctx context.Context) domainauth.User {
	if s, ok := SessionFromContext(ctx); ok {
		return s.User
	}
	return domainauth.User{}
}
