package application

import (
	"sync"

	"github.com/ericfisherdev/certpanel/internal/domain/port/driven"
)

// TokenSource records where the active API token came from.
type TokenSource string

const (
	TokenSourceNone   TokenSource = ""
	TokenSourceEnv    TokenSource = "environment"
	TokenSourceStored TokenSource = "stored"
)

// CertificateAPIProvider enables runtime hot-swap of the certificates API
// client. It holds a mutex-protected reference to the current client and the
// token it was built with, so token updates from the settings page take effect
// without restarting the application.
type CertificateAPIProvider struct {
	mu     sync.RWMutex
	client driven.CertificateAPI
	token  string
	source TokenSource
}

// NewCertificateAPIProvider creates a provider with no client. Callers install
// one with Replace once a token has been resolved.
func NewCertificateAPIProvider() *CertificateAPIProvider {
	return &CertificateAPIProvider{}
}

// Get returns the current client, or nil when no token is configured.
func (p *CertificateAPIProvider) Get() driven.CertificateAPI {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// Token returns the bearer token of the current client and its source.
func (p *CertificateAPIProvider) Token() (string, TokenSource) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token, p.source
}

// Replace swaps the current client. Pass a nil client to disable backend calls.
func (p *CertificateAPIProvider) Replace(client driven.CertificateAPI, token string, source TokenSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
	p.token = token
	p.source = source
	if client == nil {
		p.token = ""
		p.source = TokenSourceNone
	}
}

// HasClient returns true if a non-nil client is currently held.
func (p *CertificateAPIProvider) HasClient() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client != nil
}
