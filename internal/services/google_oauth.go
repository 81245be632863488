package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

var ErrMissingIDToken = errors.New("token response did not include an id_token")

// GoogleOAuth drives the authorization-code leg of Google sign-in.
type GoogleOAuth struct {
	config oauth2.Config
}

func NewGoogleOAuth(cfg *config.Config) *GoogleOAuth {
	return &GoogleOAuth{config: oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     endpoints.Google,
	}}
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// ExchangeIDToken trades an authorization code for the raw ID token.
func (g *GoogleOAuth) ExchangeIDToken(ctx context.Context, code string) (string, error) {
	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	idToken, ok := tok.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", ErrMissingIDToken
	}
	return idToken, nil
}

// NewOAuthState returns a random value for the OAuth state parameter.
func NewOAuthState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
