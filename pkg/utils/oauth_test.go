package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/jakechorley/random-duties/internal/config"
)

func testOAuthClient() *config.OAuthClientConfig {
	return &config.OAuthClientConfig{
		Installed: config.OAuthInstalled{
			ClientID:                "client-id.apps.googleusercontent.com",
			ProjectID:               "duties",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}
}

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	auth, err := NewAuthenticator(testOAuthClient(), "test", []string{ScopeSheetsReadonly}, zap.NewNop())
	require.NoError(t, err)
	return auth
}

func TestRequiredScopes(t *testing.T) {
	cfg := &config.Config{}
	assert.Empty(t, RequiredScopes(cfg))

	cfg.Availability.SheetID = "sheet"
	assert.Equal(t, []string{ScopeSheetsReadonly}, RequiredScopes(cfg))

	cfg.Notify.Recipients = []string{"team@example.com"}
	assert.Equal(t, []string{ScopeSheetsReadonly, ScopeGmailSend}, RequiredScopes(cfg))
}

func TestNewAuthenticator(t *testing.T) {
	auth := newTestAuthenticator(t)

	assert.Equal(t, "http://localhost:3000/oauth/callback", auth.oauthConfig.RedirectURL)
	assert.Equal(t, []string{ScopeSheetsReadonly}, auth.oauthConfig.Scopes)
	assert.Equal(t, "token-test.json", filepath.Base(auth.tokenPath()))

	_, err := NewAuthenticator(testOAuthClient(), "test", nil, zap.NewNop())
	assert.Error(t, err)
}

func TestAuthenticator_TokenFileRoundTrip(t *testing.T) {
	auth := newTestAuthenticator(t)

	token, err := auth.loadToken()
	require.NoError(t, err)
	assert.Nil(t, token)

	saved := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: time.Now().Add(time.Hour).Round(time.Second)}
	require.NoError(t, auth.saveToken(saved))

	info, err := os.Stat(auth.tokenPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFilePerms), info.Mode().Perm())

	loaded, err := auth.loadToken()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, saved.Expiry.Equal(loaded.Expiry))

	require.NoError(t, auth.deleteToken())
	require.NoError(t, auth.deleteToken())

	loaded, err = auth.loadToken()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestAuthenticator_CorruptTokenFile(t *testing.T) {
	auth := newTestAuthenticator(t)

	require.NoError(t, os.MkdirAll(auth.tokenDir, tokenDirPerms))
	require.NoError(t, os.WriteFile(auth.tokenPath(), []byte("not json"), tokenFilePerms))

	_, err := auth.loadToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse token file")
}

func TestMissingScopes(t *testing.T) {
	granted := []string{ScopeSheetsReadonly, "openid"}

	assert.Empty(t, missingScopes(granted, []string{ScopeSheetsReadonly}))
	assert.Equal(t, []string{ScopeGmailSend}, missingScopes(granted, []string{ScopeSheetsReadonly, ScopeGmailSend}))
}
