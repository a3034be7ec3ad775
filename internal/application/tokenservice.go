package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/certpanel/internal/domain/model"
	"github.com/ericfisherdev/certpanel/internal/domain/port/driven"
)

// APITokenService is the credential store key of the certificates API token.
const APITokenService = "certificates_api"

// ErrBlankToken is returned when an empty token is submitted.
var ErrBlankToken = errors.New("token must not be blank")

// ClientFactory builds a certificates API client for a bearer token.
type ClientFactory func(token string) (driven.CertificateAPI, error)

// TokenStatus describes the active API token for the settings page.
type TokenStatus struct {
	Configured     bool
	Source         TokenSource
	Masked         string
	StorageEnabled bool
}

// TokenService resolves, stores and clears the bearer token used against the
// certificates backend, swapping the client held by the provider.
// A stored token takes priority over the environment token.
type TokenService struct {
	store          driven.CredentialStore
	provider       *CertificateAPIProvider
	newClient      ClientFactory
	envToken       string
	storageEnabled bool
	logger         *slog.Logger
}

// NewTokenService creates a TokenService. storageEnabled is false when the
// credential store has no encryption key; Save then fails with
// driven.ErrEncryptionKeyNotSet.
func NewTokenService(
	store driven.CredentialStore,
	provider *CertificateAPIProvider,
	newClient ClientFactory,
	envToken string,
	storageEnabled bool,
	logger *slog.Logger,
) *TokenService {
	return &TokenService{
		store:          store,
		provider:       provider,
		newClient:      newClient,
		envToken:       strings.TrimSpace(envToken),
		storageEnabled: storageEnabled,
		logger:         logger,
	}
}

// Resolve picks the active token at startup and installs its client.
// A failing credential read is logged and the environment token is used.
func (s *TokenService) Resolve(ctx context.Context) error {
	if s.storageEnabled {
		stored, err := s.store.Get(ctx, APITokenService)
		if err != nil {
			s.logger.Warn("failed to read stored api token, falling back to environment", "error", err)
		} else if stored != "" {
			return s.install(stored, TokenSourceStored)
		}
	}

	if s.envToken != "" {
		return s.install(s.envToken, TokenSourceEnv)
	}

	s.provider.Replace(nil, "", TokenSourceNone)
	s.logger.Info("no certificates api token configured, backend calls disabled until one is saved")
	return nil
}

// Save stores token and switches the provider to a client using it.
func (s *TokenService) Save(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrBlankToken
	}
	if !s.storageEnabled {
		return driven.ErrEncryptionKeyNotSet
	}

	if err := s.store.Set(ctx, APITokenService, token); err != nil {
		return fmt.Errorf("store api token: %w", err)
	}
	return s.install(token, TokenSourceStored)
}

// Clear removes the stored token and falls back to the environment token, if any.
func (s *TokenService) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, APITokenService); err != nil {
		return fmt.Errorf("delete api token: %w", err)
	}

	if s.envToken != "" {
		return s.install(s.envToken, TokenSourceEnv)
	}
	s.provider.Replace(nil, "", TokenSourceNone)
	return nil
}

// Status reports the active token for display.
func (s *TokenService) Status() TokenStatus {
	token, source := s.provider.Token()
	status := TokenStatus{
		Configured:     s.provider.HasClient(),
		Source:         source,
		StorageEnabled: s.storageEnabled,
	}
	if status.Configured {
		status.Masked = model.MaskSecret(token)
	}
	return status
}

// StoredCredentials lists the credentials held in encrypted storage, sorted by
// service. It returns nil without touching the store when storage is disabled.
func (s *TokenService) StoredCredentials(ctx context.Context) ([]model.Credential, error) {
	if !s.storageEnabled {
		return nil, nil
	}

	creds, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored credentials: %w", err)
	}
	return creds, nil
}

func (s *TokenService) install(token string, source TokenSource) error {
	client, err := s.newClient(token)
	if err != nil {
		return fmt.Errorf("create certificates api client: %w", err)
	}
	s.provider.Replace(client, token, source)
	s.logger.Info("certificates api client configured", "token_source", string(source))
	return nil
}
