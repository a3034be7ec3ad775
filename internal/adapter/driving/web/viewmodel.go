package web

import (
	"net/url"
	"strings"
	"time"

	vm "github.com/ericfisherdev/certpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/certpanel/internal/application"
	"github.com/ericfisherdev/certpanel/internal/domain/model"
)

const (
	issueDateLayout  = "Jan 2, 2006"
	actionTimeLayout = "Jan 2, 15:04"
)

// toCertificateRowViewModel converts a domain Certificate to a table row.
// returnTo is the dashboard URL the View link falls back to when the
// certificate has no artifact.
func toCertificateRowViewModel(c model.Certificate, returnTo string) vm.CertificateRowViewModel {
	issueDate := "Not issued"
	if c.IssueDate != nil {
		issueDate = c.IssueDate.Format(issueDateLayout)
	}

	row := vm.CertificateRowViewModel{
		ID:           c.ID,
		StudentName:  c.StudentName,
		StudentID:    c.StudentID,
		CourseName:   c.CourseName,
		CourseID:     c.CourseID,
		Grade:        c.Grade,
		StatusLabel:  c.Status.Label(),
		BadgeClass:   "badge badge-" + c.Status.BadgeColor(),
		IssueDate:    issueDate,
		CredentialID: c.CredentialID,
		CanView:      c.IsIssued(),
		CanIssue:     c.CanIssue(),
		DeleteURL:    "/certificates/" + url.PathEscape(c.ID) + "/delete",
	}
	if row.Grade == model.UnknownID {
		row.Grade = ""
	}

	if row.CanView {
		artifact := ""
		if c.CertificateURL != nil {
			artifact = *c.CertificateURL
		}
		v := url.Values{"path": {artifact}}
		if back := safeReturn(returnTo); back != "/" {
			v.Set("return", back)
		}
		row.ViewURL = "/certificates/view?" + v.Encode()
	}

	return row
}

// toFiltersViewModel mirrors the query back into the filter form.
func toFiltersViewModel(q application.ListQuery, open bool) vm.FiltersViewModel {
	return vm.FiltersViewModel{
		Search:    q.Search,
		View:      string(q.View),
		CourseID:  q.CourseID,
		Status:    string(q.Status),
		Open:      open,
		ToggleURL: withQuery("/", queryValues(q, !open)),
	}
}

// toDashboardViewModel builds the dashboard page state from a listing.
// A nil listing renders the table area empty.
func toDashboardViewModel(q application.ListQuery, filtersOpen bool, listing *application.Listing) vm.DashboardViewModel {
	current := withQuery("/", queryValues(q, filtersOpen))
	exportQuery := queryValues(q, false)

	page := vm.DashboardViewModel{
		Filters:       toFiltersViewModel(q, filtersOpen),
		Rows:          []vm.CertificateRowViewModel{},
		ExportCSVURL:  withQuery("/export/"+application.CSVExportFilename, exportQuery),
		ExportXLSXURL: withQuery("/export/"+application.XLSXExportFilename, exportQuery),
		ReturnTo:      current,
		RetryURL:      current,
		Actions:       []vm.ActionViewModel{},
	}

	if listing == nil {
		return page
	}

	page.Stats = vm.StatsViewModel{
		Total:     listing.Stats.Total,
		Active:    listing.Stats.Active,
		ThisMonth: listing.Stats.ThisMonth,
	}
	page.FetchedCount = len(listing.Fetched)
	page.AwaitingCourse = listing.AwaitingCourse
	for _, c := range listing.Visible {
		page.Rows = append(page.Rows, toCertificateRowViewModel(c, current))
	}

	return page
}

// toActionViewModels converts audit entries for the activity panel.
func toActionViewModels(actions []model.AdminAction, loc *time.Location) []vm.ActionViewModel {
	out := make([]vm.ActionViewModel, 0, len(actions))
	for _, a := range actions {
		out = append(out, vm.ActionViewModel{
			KindLabel:  actionKindLabel(a.Kind),
			Target:     a.Target,
			Succeeded:  a.Succeeded,
			DetailHTML: RenderMarkdown(a.Detail),
			When:       a.CreatedAt.In(loc).Format(actionTimeLayout),
		})
	}
	return out
}

func actionKindLabel(k model.ActionKind) string {
	switch k {
	case model.ActionKindCreateTemplate:
		return "Template created"
	case model.ActionKindIssue:
		return "Certificate issued"
	case model.ActionKindDelete:
		return "Certificate deleted"
	default:
		return strings.ReplaceAll(string(k), "_", " ")
	}
}

// toSettingsViewModel converts the token status and stored credentials for
// the settings page. Credential values leave this function masked.
func toSettingsViewModel(status application.TokenStatus, creds []model.Credential, csrf string, loc *time.Location) vm.SettingsViewModel {
	page := vm.SettingsViewModel{
		CSRFToken:         csrf,
		TokenConfigured:   status.Configured,
		TokenSource:       string(status.Source),
		MaskedToken:       status.Masked,
		StorageEnabled:    status.StorageEnabled,
		StoredCredentials: make([]vm.CredentialViewModel, 0, len(creds)),
	}
	for _, c := range creds {
		page.StoredCredentials = append(page.StoredCredentials, vm.CredentialViewModel{
			Service:   c.Service,
			Masked:    c.MaskedValue(),
			UpdatedAt: c.UpdatedAt.In(loc).Format(actionTimeLayout),
		})
	}
	return page
}

// queryValues encodes a ListQuery in the dashboard's URL parameters.
// Defaults are omitted to keep links short.
func queryValues(q application.ListQuery, filtersOpen bool) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.View != model.ViewModeStudent {
		v.Set("view", string(q.View))
	}
	if q.CourseID != "" {
		v.Set("course", q.CourseID)
	}
	if q.Status != model.StatusFilterAll {
		v.Set("status", string(q.Status))
	}
	if filtersOpen {
		v.Set("filters", "open")
	}
	return v
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
