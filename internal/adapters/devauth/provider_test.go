package devauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(Config{
		Users: []string{
			"ana@hrnova.example:ana-pass:SysAdmin",
			"bob@hrnova.example:bob-pass:Manager,Everyone",
			"eve@hrnova.example:eve-pass:",
		},
		SigningSecret:   "test-secret",
		SessionDuration: time.Hour,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Users: []string{"a@b:pw:"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signing secret")

	_, err = NewProvider(Config{SigningSecret: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one user")

	_, err = NewProvider(Config{SigningSecret: "s", Users: []string{"nosecret"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed user entry")
}

func TestProvider_SignIn_Success(t *testing.T) {
	p := newTestProvider(t)

	res, err := p.SignIn(context.Background(), "ana@hrnova.example", "ana-pass")
	require.NoError(t, err)

	assert.Equal(t, "ana@hrnova.example", res.Claims.Subject)
	assert.Equal(t, "ana@hrnova.example", res.Claims.Email)
	assert.Equal(t, "ana", res.Claims.GivenName)
	assert.Equal(t, []string{"SysAdmin"}, res.Claims.Groups)
	assert.NotEmpty(t, res.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.Claims.ExpiresAt, 5*time.Second)
}

func TestProvider_SignIn_MultipleGroups(t *testing.T) {
	p := newTestProvider(t)

	res, err := p.SignIn(context.Background(), "bob@hrnova.example", "bob-pass")
	require.NoError(t, err)
	assert.Equal(t, []string{"Manager", "Everyone"}, res.Claims.Groups)
}

func TestProvider_SignIn_InvalidCredentials(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	_, err := p.SignIn(ctx, "ana@hrnova.example", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@hrnova.example", "ana-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProvider_CurrentSession_RoundTrip(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	res, err := p.SignIn(ctx, "bob@hrnova.example", "bob-pass")
	require.NoError(t, err)

	claims, err := p.CurrentSession(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Claims.Subject, claims.Subject)
	assert.Equal(t, res.Claims.Email, claims.Email)
	assert.Equal(t, res.Claims.Groups, claims.Groups)
	assert.WithinDuration(t, res.Claims.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestProvider_CurrentSession_TamperedToken(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	res, err := p.SignIn(ctx, "ana@hrnova.example", "ana-pass")
	require.NoError(t, err)

	_, err = p.CurrentSession(ctx, res.Token+"x")
	assert.Error(t, err)

	other, err := NewProvider(Config{
		Users:         []string{"ana@hrnova.example:ana-pass:"},
		SigningSecret: "different-secret",
	})
	require.NoError(t, err)

	_, err = other.CurrentSession(ctx, res.Token)
	assert.Error(t, err)
}

func TestProvider_SignOut_RevokesToken(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	res, err := p.SignIn(ctx, "eve@hrnova.example", "eve-pass")
	require.NoError(t, err)
	assert.Empty(t, res.Claims.Groups)

	_, err = p.CurrentSession(ctx, res.Token)
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, res.Token))

	_, err = p.CurrentSession(ctx, res.Token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")
}

func TestProvider_CurrentSession_ExpiredToken(t *testing.T) {
	p, err := NewProvider(Config{
		Users:           []string{"ana@hrnova.example:ana-pass:"},
		SigningSecret:   "test-secret",
		SessionDuration: -time.Minute,
	})
	require.NoError(t, err)
	ctx := context.Background()

	res, err := p.SignIn(ctx, "ana@hrnova.example", "ana-pass")
	require.NoError(t, err)

	_, err = p.CurrentSession(ctx, res.Token)
	assert.Error(t, err)
}
