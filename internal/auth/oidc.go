package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Config carries the OIDC client registration. IssuerURL is the provider's
// base URL (for Azure AD: https://login.microsoftonline.com/<tenant>/v2.0).
type Config struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Scopes beyond openid/profile/email, e.g. an API scope.
	ExtraScopes []string
}

// Authenticator drives the authorization-code flow against the identity
// provider and verifies the ID tokens it returns.
type Authenticator struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauthCfg oauth2.Config
}

// NewAuthenticator discovers the provider's endpoints from the issuer URL.
func NewAuthenticator(ctx context.Context, cfg Config) (*Authenticator, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider at %s: %w", cfg.IssuerURL, err)
	}

	scopes := append([]string{oidc.ScopeOpenID, "profile", "email"}, cfg.ExtraScopes...)
	return &Authenticator{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauthCfg: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
	}, nil
}

// AuthCodeURL builds the provider sign-in URL for a login redirect.
func (a *Authenticator) AuthCodeURL(state, nonce string) string {
	return a.oauthCfg.AuthCodeURL(state, oidc.Nonce(nonce))
}

// Exchange trades the authorization code for provider tokens.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// VerifyIDToken validates the ID token inside the token response, checks the
// nonce, and returns the raw claim set.
func (a *Authenticator) VerifyIDToken(ctx context.Context, token *oauth2.Token, nonce string) (map[string]interface{}, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("token response did not include an id_token")
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}
	if nonce != "" && idToken.Nonce != nonce {
		return nil, errors.New("ID token nonce does not match the login request")
	}

	claims := map[string]interface{}{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to extract ID token claims: %w", err)
	}
	return claims, nil
}
