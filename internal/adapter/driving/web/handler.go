// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/certpanel/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/certpanel/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/certpanel/internal/application"
	"github.com/ericfisherdev/certpanel/internal/domain/model"
	"github.com/ericfisherdev/certpanel/internal/domain/port/driven"
)

const recentActionLimit = 10

// Outcome messages shown as flash banners after a redirect.
const (
	msgNotLoggedIn      = "You are not logged in. Please log in first."
	msgAuthRequired     = "Authentication required. Please log in."
	msgLoadFailed       = "Failed to load certificates. Please try again."
	msgTemplateCreated  = "Certificate template created successfully."
	msgTemplateFailed   = "Failed to create certificate template."
	msgIssueFailed      = "Failed to issue certificate."
	msgIssueIncomplete  = "Course ID and student ID are required."
	msgDeleted          = "Certificate deleted successfully"
	msgDeleteFailed     = "Failed to delete certificate."
	msgPreviewMissing   = "Certificate preview not available"
	msgExportFailed     = "Failed to export certificates."
	msgTokenSaved       = "API token saved."
	msgTokenBlank       = "API token must not be empty."
	msgTokenStorageOff  = "Token storage is disabled. Set CERTPANEL_SECRET_KEY to enable it."
	msgTokenSaveFailed  = "Failed to save API token."
	msgTokenCleared     = "Stored API token removed."
	msgTokenClearFailed = "Failed to remove stored API token."
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	certSvc  *application.CertificateService
	tokenSvc *application.TokenService
	location *time.Location
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	certSvc *application.CertificateService,
	tokenSvc *application.TokenService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		certSvc:  certSvc,
		tokenSvc: tokenSvc,
		location: time.Local,
		logger:   logger,
	}
}

// Dashboard renders the certificate list with stats, filters and forms.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	csrf := csrfToken(w, r)
	flash := popFlash(w, r)
	query, filtersOpen := listQueryFromRequest(r)

	listing, err := h.certSvc.List(r.Context(), query)
	page := toDashboardViewModel(query, filtersOpen, listing)
	page.CSRFToken = csrf
	if err != nil {
		page.ErrorMessage = msgLoadFailed
		if isAuthError(err) {
			page.ErrorMessage = msgAuthRequired
		} else {
			h.logger.Error("failed to load certificates", "view", string(query.View), "course", query.CourseID, "error", err)
		}
	}

	actions, err := h.certSvc.RecentActions(r.Context(), recentActionLimit)
	if err != nil {
		h.logger.Warn("failed to load recent actions", "error", err)
	} else {
		page.Actions = toActionViewModels(actions, h.location)
	}

	h.render(w, r, templates.Layout("Certificates", flash, pages.Dashboard(page)))
}

// ExportCSV downloads the visible certificates as CSV.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "text/csv; charset=utf-8", application.CSVExportFilename, application.WriteCSV)
}

// ExportXLSX downloads the visible certificates as an Excel workbook.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		application.XLSXExportFilename, application.WriteXLSX)
}

// export lists with the request's query and streams the visible rows through
// write. The body is buffered so a write failure can still redirect.
func (h *Handler) export(
	w http.ResponseWriter,
	r *http.Request,
	contentType, filename string,
	write func(w io.Writer, certs []model.Certificate) error,
) {
	query, _ := listQueryFromRequest(r)
	back := withQuery("/", queryValues(query, false))

	listing, err := h.certSvc.List(r.Context(), query)
	if err != nil {
		h.flashError(w, r, back, err, msgExportFailed)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, listing.Visible); err != nil {
		h.logger.Error("failed to write export", "file", filename, "error", err)
		setFlash(w, msgExportFailed, true)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// CreateTemplate creates a certificate template from the form. A blank title
// returns to the dashboard without a message.
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	back := returnTo(r)

	created, err := h.certSvc.CreateTemplate(r.Context(),
		r.PostFormValue("title"), r.PostFormValue("description"), r.PostFormValue("course_id"))
	switch {
	case err != nil:
		h.flashError(w, r, back, err, msgTemplateFailed)
		return
	case created:
		setFlash(w, msgTemplateCreated, false)
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}

// IssueCertificate issues a certificate for the posted course and student.
func (h *Handler) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	back := returnTo(r)
	courseID := strings.TrimSpace(r.PostFormValue("course_id"))
	studentID := strings.TrimSpace(r.PostFormValue("student_id"))

	if err := h.certSvc.Issue(r.Context(), courseID, studentID); err != nil {
		if errors.Is(err, application.ErrMissingIssueTarget) {
			setFlash(w, msgIssueIncomplete, true)
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}
		h.flashError(w, r, back, err, msgIssueFailed)
		return
	}

	setFlash(w, fmt.Sprintf("Certificate issued for student %s in course %s", studentID, courseID), false)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// DeleteCertificate deletes the certificate named in the path.
func (h *Handler) DeleteCertificate(w http.ResponseWriter, r *http.Request) {
	back := returnTo(r)

	if err := h.certSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.flashError(w, r, back, err, msgDeleteFailed)
		return
	}

	setFlash(w, msgDeleted, false)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// ViewCertificate redirects to the certificate artifact on the backend. A
// missing artifact returns to the dashboard view named by the return parameter.
func (h *Handler) ViewCertificate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	target, err := h.certSvc.ArtifactURL(query.Get("path"))
	if err != nil {
		if !errors.Is(err, application.ErrNoArtifact) {
			h.logger.Warn("rejected certificate artifact path", "error", err)
		}
		setFlash(w, msgPreviewMissing, true)
		http.Redirect(w, r, safeReturn(query.Get("return")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// Settings renders the API token management page.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	csrf := csrfToken(w, r)
	flash := popFlash(w, r)

	creds, err := h.tokenSvc.StoredCredentials(r.Context())
	if err != nil {
		h.logger.Warn("failed to list stored credentials", "error", err)
	}
	page := toSettingsViewModel(h.tokenSvc.Status(), creds, csrf, h.location)
	page.CredentialsError = err != nil

	h.render(w, r, templates.Layout("Settings", flash, pages.Settings(page)))
}

// SaveToken stores the posted API token and swaps the backend client.
func (h *Handler) SaveToken(w http.ResponseWriter, r *http.Request) {
	err := h.tokenSvc.Save(r.Context(), r.PostFormValue("token"))
	switch {
	case err == nil:
		setFlash(w, msgTokenSaved, false)
	case errors.Is(err, application.ErrBlankToken):
		setFlash(w, msgTokenBlank, true)
	case errors.Is(err, driven.ErrEncryptionKeyNotSet):
		setFlash(w, msgTokenStorageOff, true)
	default:
		h.logger.Error("failed to save api token", "error", err)
		setFlash(w, msgTokenSaveFailed, true)
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// ClearToken removes the stored API token.
func (h *Handler) ClearToken(w http.ResponseWriter, r *http.Request) {
	if err := h.tokenSvc.Clear(r.Context()); err != nil {
		h.logger.Error("failed to clear api token", "error", err)
		setFlash(w, msgTokenClearFailed, true)
	} else {
		setFlash(w, msgTokenCleared, false)
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// flashError maps a mutation failure to its user-facing message and redirects.
func (h *Handler) flashError(w http.ResponseWriter, r *http.Request, back string, err error, fallback string) {
	msg := fallback
	if errors.Is(err, driven.ErrNoToken) {
		msg = msgNotLoggedIn
	} else {
		h.logger.Error("certificate request failed", "path", r.URL.Path, "error", err)
	}
	setFlash(w, msg, true)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func isAuthError(err error) bool {
	return errors.Is(err, driven.ErrNoToken) || errors.Is(err, driven.ErrUnauthorized)
}

// listQueryFromRequest reads the dashboard query parameters.
func listQueryFromRequest(r *http.Request) (application.ListQuery, bool) {
	q := r.URL.Query()
	return application.NewListQuery(q.Get("view"), q.Get("course"), q.Get("q"), q.Get("status")),
		q.Get("filters") == "open"
}

// returnTo reads the posted return path.
func returnTo(r *http.Request) string {
	return safeReturn(r.PostFormValue("return"))
}

// safeReturn accepts only local paths, falling back to the dashboard.
func safeReturn(back string) string {
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") || strings.HasPrefix(back, "/\\") {
		return "/"
	}
	return back
}
