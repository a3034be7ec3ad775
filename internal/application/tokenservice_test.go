package application_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/certpanel/internal/application"
	"github.com/ericfisherdev/certpanel/internal/domain/port/driven"
)

// tokenClient is a mock client tagged with the token it was built for.
type tokenClient struct {
	mockCertificateAPI
	token string
}

func newTokenService(store driven.CredentialStore, envToken string, storageEnabled bool) (*application.TokenService, *application.CertificateAPIProvider) {
	provider := application.NewCertificateAPIProvider()
	factory := func(token string) (driven.CertificateAPI, error) {
		return &tokenClient{token: token}, nil
	}
	return application.NewTokenService(store, provider, factory, envToken, storageEnabled, slog.Default()), provider
}

func clientToken(t *testing.T, provider *application.CertificateAPIProvider) string {
	t.Helper()
	client, ok := provider.Get().(*tokenClient)
	require.True(t, ok, "provider should hold a client")
	return client.token
}

func TestTokenService_ResolvePrefersStoredToken(t *testing.T) {
	store := newMemCredentialStore()
	require.NoError(t, store.Set(context.Background(), application.APITokenService, "stored-tok"))
	svc, provider := newTokenService(store, "env-tok", true)

	require.NoError(t, svc.Resolve(context.Background()))

	assert.Equal(t, "stored-tok", clientToken(t, provider))
	assert.Equal(t, application.TokenSourceStored, svc.Status().Source)
}

func TestTokenService_ResolveFallsBackToEnv(t *testing.T) {
	svc, provider := newTokenService(newMemCredentialStore(), "env-tok", true)

	require.NoError(t, svc.Resolve(context.Background()))

	assert.Equal(t, "env-tok", clientToken(t, provider))
	assert.Equal(t, application.TokenSourceEnv, svc.Status().Source)
}

func TestTokenService_ResolveIgnoresStoreErrors(t *testing.T) {
	store := newMemCredentialStore()
	store.getErr = errors.New("decrypt failed")
	svc, provider := newTokenService(store, "env-tok", true)

	require.NoError(t, svc.Resolve(context.Background()))
	assert.Equal(t, "env-tok", clientToken(t, provider))
}

func TestTokenService_ResolveWithoutAnyToken(t *testing.T) {
	svc, provider := newTokenService(newMemCredentialStore(), "", true)

	require.NoError(t, svc.Resolve(context.Background()))

	assert.False(t, provider.HasClient())
	status := svc.Status()
	assert.False(t, status.Configured)
	assert.Empty(t, status.Masked)
}

func TestTokenService_SaveInstallsClient(t *testing.T) {
	store := newMemCredentialStore()
	svc, provider := newTokenService(store, "", true)

	require.NoError(t, svc.Save(context.Background(), "  new-token-1234  "))

	assert.Equal(t, "new-token-1234", clientToken(t, provider))
	stored, _ := store.Get(context.Background(), application.APITokenService)
	assert.Equal(t, "new-token-1234", stored)

	status := svc.Status()
	assert.True(t, status.Configured)
	assert.Equal(t, "****1234", status.Masked)
	assert.True(t, status.StorageEnabled)
}

func TestTokenService_SaveRejectsBlank(t *testing.T) {
	svc, _ := newTokenService(newMemCredentialStore(), "", true)

	assert.ErrorIs(t, svc.Save(context.Background(), "   "), application.ErrBlankToken)
}

func TestTokenService_SaveRequiresStorage(t *testing.T) {
	svc, provider := newTokenService(newMemCredentialStore(), "", false)

	err := svc.Save(context.Background(), "tok")

	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
	assert.False(t, provider.HasClient())
}

func TestTokenService_ClearFallsBackToEnv(t *testing.T) {
	svc, provider := newTokenService(newMemCredentialStore(), "env-tok", true)
	require.NoError(t, svc.Save(context.Background(), "stored-tok"))

	require.NoError(t, svc.Clear(context.Background()))

	assert.Equal(t, "env-tok", clientToken(t, provider))
}

func TestTokenService_ClearWithoutEnvDisablesClient(t *testing.T) {
	svc, provider := newTokenService(newMemCredentialStore(), "", true)
	require.NoError(t, svc.Save(context.Background(), "stored-tok"))

	require.NoError(t, svc.Clear(context.Background()))

	assert.False(t, provider.HasClient())
}

func TestTokenService_FactoryError(t *testing.T) {
	provider := application.NewCertificateAPIProvider()
	factory := func(string) (driven.CertificateAPI, error) { return nil, errors.New("bad base url") }
	svc := application.NewTokenService(newMemCredentialStore(), provider, factory, "env-tok", false, slog.Default())

	err := svc.Resolve(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad base url")
}

func TestTokenService_StoredCredentials(t *testing.T) {
	store := newMemCredentialStore()
	svc, _ := newTokenService(store, "", true)
	require.NoError(t, svc.Save(context.Background(), "stored-token-9876"))
	require.NoError(t, store.Set(context.Background(), "smtp_relay", "relay-pass"))

	creds, err := svc.StoredCredentials(context.Background())
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, application.APITokenService, creds[0].Service)
	assert.Equal(t, "****9876", creds[0].MaskedValue())
	assert.Equal(t, "smtp_relay", creds[1].Service)
}

func TestTokenService_StoredCredentialsSkipsDisabledStorage(t *testing.T) {
	store := newMemCredentialStore()
	svc, _ := newTokenService(store, "env-tok", false)

	creds, err := svc.StoredCredentials(context.Background())
	require.NoError(t, err)
	assert.Nil(t, creds)
	assert.Zero(t, store.listCalls)
}

func TestTokenService_StoredCredentialsWrapsStoreError(t *testing.T) {
	store := newMemCredentialStore()
	store.listErr = errors.New("cipher: message authentication failed")
	svc, _ := newTokenService(store, "", true)

	_, err := svc.StoredCredentials(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.listErr)
	assert.Contains(t, err.Error(), "list stored credentials")
}
