// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ericfisherdev/certpanel/internal/domain/model"
	"github.com/ericfisherdev/certpanel/internal/domain/port/driven"
)

// Validation errors returned by CertificateService mutations.
var (
	ErrMissingIssueTarget = errors.New("course ID and student ID are required")
	ErrMissingCertificate = errors.New("certificate ID is required")
	ErrNoArtifact         = errors.New("certificate preview not available")
)

// ListQuery selects and narrows the certificates shown on the dashboard.
type ListQuery struct {
	View     model.ViewMode
	CourseID string
	Search   string
	Status   model.StatusFilter
}

// NewListQuery builds a ListQuery from raw request values, applying defaults.
func NewListQuery(view, courseID, search, status string) ListQuery {
	return ListQuery{
		View:     model.ParseViewMode(view),
		CourseID: strings.TrimSpace(courseID),
		Search:   search,
		Status:   model.ParseStatusFilter(status),
	}
}

// Listing is the result of one dashboard fetch.
type Listing struct {
	Query ListQuery
	// Fetched is the full set returned by the backend, in backend order.
	Fetched []model.Certificate
	// Visible is Fetched narrowed by the search term and status filter.
	Visible []model.Certificate
	Stats   model.CertificateStats
	// AwaitingCourse is set for the course view when no course ID was given;
	// nothing is fetched in that case.
	AwaitingCourse bool
}

// CertificateService orchestrates backend calls for the dashboard. Every call
// fetches from the backend; nothing is held between requests.
type CertificateService struct {
	provider   *CertificateAPIProvider
	actions    driven.ActionStore
	apiBaseURL string
	now        func() time.Time
	logger     *slog.Logger
}

// NewCertificateService creates a CertificateService. apiBaseURL is the
// backend origin that relative certificate artifact paths resolve against.
func NewCertificateService(
	provider *CertificateAPIProvider,
	actions driven.ActionStore,
	apiBaseURL string,
	logger *slog.Logger,
) *CertificateService {
	return &CertificateService{
		provider:   provider,
		actions:    actions,
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		now:        time.Now,
		logger:     logger,
	}
}

// SetClock replaces the time source used for the monthly stats.
func (s *CertificateService) SetClock(now func() time.Time) {
	s.now = now
}

// List fetches the certificates for the query's view and computes the
// visible rows and stats. Returns driven.ErrNoToken when no API token is set.
func (s *CertificateService) List(ctx context.Context, q ListQuery) (*Listing, error) {
	listing := &Listing{
		Query:   q,
		Fetched: []model.Certificate{},
		Visible: []model.Certificate{},
	}

	if q.View == model.ViewModeCourse && q.CourseID == "" {
		listing.AwaitingCourse = true
		return listing, nil
	}

	api := s.provider.Get()
	if api == nil {
		return nil, driven.ErrNoToken
	}

	var (
		certs []model.Certificate
		err   error
	)
	if q.View == model.ViewModeCourse {
		certs, err = api.ListByCourse(ctx, q.CourseID)
	} else {
		certs, err = api.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list certificates (%s view): %w", q.View, err)
	}

	if certs != nil {
		listing.Fetched = certs
	}
	listing.Visible = FilterCertificates(listing.Fetched, q.Search, q.Status)
	listing.Stats = ComputeStats(listing.Fetched, s.now())

	return listing, nil
}

// CreateTemplate creates a certificate template titled title. HTML is stripped
// from title and description. A blank title is a no-op and reports created=false.
// courseID binds the template to a course; empty means no course.
func (s *CertificateService) CreateTemplate(ctx context.Context, title, description, courseID string) (bool, error) {
	title = stripHTML(title)
	if title == "" {
		return false, nil
	}

	api := s.provider.Get()
	if api == nil {
		return false, driven.ErrNoToken
	}

	req := model.TemplateRequest{
		Title:       title,
		Description: stripHTML(description),
	}
	if courseID = strings.TrimSpace(courseID); courseID != "" {
		req.CourseID = &courseID
	}

	err := api.CreateTemplate(ctx, req)
	s.record(ctx, model.ActionKindCreateTemplate, title, req.Description, err)
	if err != nil {
		return false, err
	}
	return true, nil
}

// Issue issues a certificate for the student in the course.
func (s *CertificateService) Issue(ctx context.Context, courseID, studentID string) error {
	courseID = strings.TrimSpace(courseID)
	studentID = strings.TrimSpace(studentID)
	if courseID == "" || studentID == "" {
		return ErrMissingIssueTarget
	}

	api := s.provider.Get()
	if api == nil {
		return driven.ErrNoToken
	}

	err := api.Issue(ctx, courseID, studentID)
	s.record(ctx, model.ActionKindIssue, courseID+"/"+studentID, "", err)
	return err
}

// Delete removes the certificate with the given ID.
func (s *CertificateService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrMissingCertificate
	}

	api := s.provider.Get()
	if api == nil {
		return driven.ErrNoToken
	}

	err := api.Delete(ctx, id)
	s.record(ctx, model.ActionKindDelete, id, "", err)
	return err
}

// ArtifactURL resolves a certificate artifact path against the backend
// origin. Only relative paths are accepted; an empty path yields ErrNoArtifact.
func (s *CertificateService) ArtifactURL(artifactPath string) (string, error) {
	artifactPath = strings.TrimSpace(artifactPath)
	if artifactPath == "" {
		return "", ErrNoArtifact
	}

	u, err := url.Parse(artifactPath)
	if err != nil {
		return "", fmt.Errorf("parse artifact path: %w", err)
	}
	if u.IsAbs() || u.Host != "" || strings.HasPrefix(artifactPath, "//") {
		return "", fmt.Errorf("artifact path %q must be relative", artifactPath)
	}

	return s.apiBaseURL + "/" + strings.TrimLeft(artifactPath, "/"), nil
}

// RecentActions returns the latest audit entries, newest first.
func (s *CertificateService) RecentActions(ctx context.Context, limit int) ([]model.AdminAction, error) {
	actions, err := s.actions.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent actions: %w", err)
	}
	return actions, nil
}

// record appends an audit entry for a mutation attempt. Failures to record
// are logged and never returned to the caller.
func (s *CertificateService) record(ctx context.Context, kind model.ActionKind, target, detail string, actionErr error) {
	action := model.AdminAction{
		Kind:      kind,
		Target:    target,
		Succeeded: actionErr == nil,
		Detail:    detail,
		CreatedAt: s.now().UTC(),
	}
	if actionErr != nil {
		s.logger.Error("certificate action failed", "kind", string(kind), "target", target, "error", actionErr)
		action.Detail = actionErr.Error()
	}

	if _, err := s.actions.Record(ctx, action); err != nil {
		s.logger.Warn("failed to record admin action", "kind", string(kind), "target", target, "error", err)
	}
}
