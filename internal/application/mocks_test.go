package application_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ericfisherdev/certpanel/internal/domain/model"
	"github.com/ericfisherdev/certpanel/internal/domain/port/driven"
)

// mockCertificateAPI implements driven.CertificateAPI for service tests.
type mockCertificateAPI struct {
	certs []model.Certificate
	err   error

	listAllCalls   int
	listedCourse   string
	createdReq     *model.TemplateRequest
	issuedCourse   string
	issuedStudent  string
	deletedID      string
	mutationCalled bool
}

func (m *mockCertificateAPI) ListAll(_ context.Context) ([]model.Certificate, error) {
	m.listAllCalls++
	return m.certs, m.err
}

func (m *mockCertificateAPI) ListByCourse(_ context.Context, courseID string) ([]model.Certificate, error) {
	m.listedCourse = courseID
	return m.certs, m.err
}

func (m *mockCertificateAPI) CreateTemplate(_ context.Context, req model.TemplateRequest) error {
	m.mutationCalled = true
	m.createdReq = &req
	return m.err
}

func (m *mockCertificateAPI) Issue(_ context.Context, courseID, studentID string) error {
	m.mutationCalled = true
	m.issuedCourse = courseID
	m.issuedStudent = studentID
	return m.err
}

func (m *mockCertificateAPI) Delete(_ context.Context, id string) error {
	m.mutationCalled = true
	m.deletedID = id
	return m.err
}

// mockActionStore implements driven.ActionStore for service tests.
type mockActionStore struct {
	recorded []model.AdminAction
	err      error
}

func (m *mockActionStore) Record(_ context.Context, action model.AdminAction) (model.AdminAction, error) {
	if m.err != nil {
		return model.AdminAction{}, m.err
	}
	action.ID = int64(len(m.recorded) + 1)
	m.recorded = append(m.recorded, action)
	return action, nil
}

func (m *mockActionStore) ListRecent(_ context.Context, limit int) ([]model.AdminAction, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.AdminAction, 0, limit)
	for i := len(m.recorded) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.recorded[i])
	}
	return out, nil
}

// memCredentialStore is an in-memory driven.CredentialStore.
type memCredentialStore struct {
	mu     sync.Mutex
	values    map[string]string
	getErr    error
	listErr   error
	listCalls int
}

func newMemCredentialStore() *memCredentialStore {
	return &memCredentialStore{values: map[string]string{}}
}

func (m *memCredentialStore) Set(_ context.Context, service, plaintext string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[service] = plaintext
	return nil
}

func (m *memCredentialStore) Get(_ context.Context, service string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[service], nil
}

func (m *memCredentialStore) List(_ context.Context) ([]model.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var creds []model.Credential
	for service, value := range m.values {
		creds = append(creds, model.Credential{
			Service:   service,
			Value:     value,
			UpdatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		})
	}
	sort.Slice(creds, func(i, j int) bool { return creds[i].Service < creds[j].Service })
	return creds, nil
}

func (m *memCredentialStore) Delete(_ context.Context, service string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, service)
	return nil
}

var (
	_ driven.CertificateAPI  = (*mockCertificateAPI)(nil)
	_ driven.ActionStore     = (*mockActionStore)(nil)
	_ driven.CredentialStore = (*memCredentialStore)(nil)
)
