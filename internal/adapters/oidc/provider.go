// Package oidc implements the identity-provider port against a hosted
// OIDC service using the resource-owner password grant.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/ports"
	"golang.org/x/oauth2"
)

// Provider implements ports.IdentityProvider using OIDC/OAuth2.
// The bearer token handed to callers is the verified ID token; CurrentSession
// re-verifies it against the provider's JWKS on every call.
type Provider struct {
	config     *oauth2.Config
	revokeURL  string
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	RevokeURL    string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// DiscoveryDocument represents the OIDC discovery document.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
	RevocationEndpoint    string `json:"revocation_endpoint"`
}

// NewProvider creates a new OIDC provider.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{
		revokeURL:  config.RevokeURL,
		httpClient: httpClient,
	}

	// Initialize go-oidc provider and verifier (single discovery fetch)
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       strings.Fields(config.Scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// SignIn submits the credentials via the password grant and returns the
// normalized claims together with the verified ID token.
func (p *Provider) SignIn(ctx context.Context, identifier, secret string) (ports.SignInResult, error) {
	if identifier == "" {
		return ports.SignInResult{}, errors.New("identifier is required")
	}
	if secret == "" {
		return ports.SignInResult{}, errors.New("secret is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.PasswordCredentialsToken(ctx, identifier, secret)
	if err != nil {
		return ports.SignInResult{}, fmt.Errorf("password grant: %w", err)
	}

	rawID, err := getIDTokenFromToken(token)
	if err != nil {
		return ports.SignInResult{}, err
	}

	claims, err := p.verifyAndMap(ctx, rawID)
	if err != nil {
		return ports.SignInResult{}, err
	}

	return ports.SignInResult{Claims: claims, Token: rawID}, nil
}

// CurrentSession verifies the bearer token and returns the claims it asserts.
func (p *Provider) CurrentSession(ctx context.Context, token string) (domainauth.Claims, error) {
	if token == "" {
		return domainauth.Claims{}, errors.New("token is required")
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	return p.verifyAndMap(ctx, token)
}

// SignOut revokes the token at the provider's revocation endpoint.
// A provider without a configured revocation endpoint is a no-op.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	if p.revokeURL == "" {
		return nil
	}
	if token == "" {
		return errors.New("token is required")
	}

	form := url.Values{
		"token":         {token},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.revokeURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("revoke token: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (p *Provider) verifyAndMap(ctx context.Context, rawID string) (domainauth.Claims, error) {
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Claims{}, fmt.Errorf("verify id_token: %w", err)
	}
	var raw idTokenClaims
	if claimsErr := idTok.Claims(&raw); claimsErr != nil {
		return domainauth.Claims{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	c := mapIDTokenClaims(raw)
	c.ExpiresAt = idTok.Expiry
	return c, nil
}

// idTokenClaims is a superset of the standard OIDC and Cognito claim shapes.
type idTokenClaims struct {
	Sub           string   `json:"sub"`
	Email         string   `json:"email"`
	GivenName     string   `json:"given_name"`
	FamilyName    string   `json:"family_name"`
	Groups        []string `json:"groups"`
	CognitoGroups []string `json:"cognito:groups"`
	Username      string   `json:"cognito:username"`
}

// mapIDTokenClaims maps raw id token claims into the normalized shape using
// precedence rules. Cognito group claims win over plain "groups".
func mapIDTokenClaims(raw idTokenClaims) domainauth.Claims {
	groups := raw.CognitoGroups
	if len(groups) == 0 {
		groups = raw.Groups
	}
	return domainauth.Claims{
		Subject:    firstNonEmpty(raw.Sub, raw.Username),
		Email:      raw.Email,
		GivenName:  raw.GivenName,
		FamilyName: raw.FamilyName,
		Groups:     groups,
	}
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
