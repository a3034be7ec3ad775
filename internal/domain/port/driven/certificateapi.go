// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/certpanel/internal/domain/model"
)

// Sentinel errors returned by CertificateAPI implementations and the services
// that resolve them.
var (
	// ErrNoToken indicates no bearer token is configured for the backend.
	ErrNoToken = errors.New("certificates api token not configured")

	// ErrUnauthorized indicates the backend rejected the bearer token.
	ErrUnauthorized = errors.New("certificates api rejected credentials")

	// ErrCertificateNotFound indicates the backend has no such certificate.
	ErrCertificateNotFound = errors.New("certificate not found")
)

// CertificateAPI defines the driven port for the external certificates backend.
// Listing methods return the full set for the scope; the backend does not page.
type CertificateAPI interface {
	// ListAll returns every certificate across all students.
	ListAll(ctx context.Context) ([]model.Certificate, error)
	// ListByCourse returns the certificates of a single course.
	ListByCourse(ctx context.Context, courseID string) ([]model.Certificate, error)

	// CreateTemplate creates a certificate template.
	CreateTemplate(ctx context.Context, req model.TemplateRequest) error
	// Issue issues a certificate for the student in the course.
	Issue(ctx context.Context, courseID, studentID string) error
	// Delete removes the certificate with the given ID.
	Delete(ctx context.Context, id string) error
}
