package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
)

// fakeAuth resolves sessions from an in-memory map.
type fakeAuth struct {
	sessions map[string]*domainauth.Session
}

func newFakeAuth(sessions ...*domainauth.Session) *fakeAuth {
	f := &fakeAuth{sessions: map[string]*domainauth.Session{}}
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return f
}

func (f *fakeAuth) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, errors.New("session not found")
}

func (f *fakeAuth) PasswordLogin(_ context.Context, _, _ string) (*domainauth.Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuth) Logout(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func testSession(id string, role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{
		ID: id,
		User: domainauth.User{
			ID:    "idp-" + id,
			Email: id + "@hrnova.example",
			Role:  role,
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// okHandler records whether it ran and echoes the context user's email.
func okHandler(ran *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		WriteJSON(w, http.StatusOK, map[string]string{"email": UserFromContext(r.Context()).Email})
	})
}

func TestRequireAuth_NoCredentials(t *testing.T) {
	var ran bool
	h := RequireAuth(newFakeAuth())(okHandler(&ran))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication_required", decodeEnvelope(t, rec)["error"])
	assert.False(t, ran)
}

func TestRequireAuth_UnknownSession(t *testing.T) {
	var ran bool
	h := RequireAuth(newFakeAuth())(okHandler(&ran))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "ghost"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ran)
}

func TestRequireAuth_CookieSession(t *testing.T) {
	var ran bool
	h := RequireAuth(newFakeAuth(testSession("s1", domainauth.RoleEmployee)))(okHandler(&ran))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ran)
	assert.Equal(t, "s1@hrnova.example", decodeEnvelope(t, rec)["email"])
}

func TestRequireAuth_BearerToken(t *testing.T) {
	var ran bool
	h := RequireAuth(newFakeAuth(testSession("s1", domainauth.RoleEmployee)))(okHandler(&ran))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer s1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ran)
}

func TestRequireRole(t *testing.T) {
	auth := newFakeAuth(
		testSession("admin", domainauth.RoleSystemAdmin),
		testSession("emp", domainauth.RoleEmployee),
	)

	var ran bool
	h := Chain(okHandler(&ran),
		RequireAuth(auth),
		RequireRole(domainauth.RoleSystemAdmin, domainauth.RoleHrAdmin),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "emp"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "insufficient_role", decodeEnvelope(t, rec)["error"])
	assert.False(t, ran)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "admin"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ran)
}

func TestRequireRole_WithoutAuthIs401(t *testing.T) {
	var ran bool
	h := RequireRole(domainauth.RoleSystemAdmin)(okHandler(&ran))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ran)
}

func TestRequireModule(t *testing.T) {
	auth := newFakeAuth(
		testSession("emp", domainauth.RoleEmployee),
		testSession("hr", domainauth.RoleHrAdmin),
	)
	policy := domainauth.DefaultPolicy()

	var ran bool
	h := guard(auth, policy, domainauth.ModuleCoreHR, okHandler(&ran))

	// employees have no CoreHR grant
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "emp"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "module_access_denied", decodeEnvelope(t, rec)["error"])
	assert.False(t, ran)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "hr"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ran)
}

func TestRequireModule_AuthRunsBeforeModuleCheck(t *testing.T) {
	var ran bool
	h := guard(newFakeAuth(), domainauth.DefaultPolicy(), domainauth.ModuleAdmin, okHandler(&ran))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// an unauthenticated caller learns nothing about module grants
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication_required", decodeEnvelope(t, rec)["error"])
}

func TestRecover(t *testing.T) {
	h := Recover(testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeEnvelope(t, rec)["error"])
}

func TestLogging_PreservesStatus(t *testing.T) {
	h := Logging(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
