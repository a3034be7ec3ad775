package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/certpanel/internal/application"
	"github.com/ericfisherdev/certpanel/internal/domain/model"
)

func TestToCertificateRowViewModel(t *testing.T) {
	issued := time.Date(2025, 12, 24, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		cert      model.Certificate
		wantBadge string
		wantLabel string
		wantDate  string
		wantView  string
	}{
		{
			name:      "issued with artifact",
			cert:      model.Certificate{ID: "a1", Status: model.CertificateStatusIssued, IssueDate: &issued, CertificateURL: ptr("certs/a1.pdf")},
			wantBadge: "badge badge-green",
			wantLabel: "Issued",
			wantDate:  "Dec 24, 2025",
			wantView:  "/certificates/view?path=certs%2Fa1.pdf",
		},
		{
			name:      "issued without artifact still offers view",
			cert:      model.Certificate{ID: "a2", Status: model.CertificateStatusIssued},
			wantBadge: "badge badge-green",
			wantLabel: "Issued",
			wantDate:  "Not issued",
			wantView:  "/certificates/view?path=",
		},
		{
			name:      "pending",
			cert:      model.Certificate{ID: "a3", Status: model.CertificateStatusPending},
			wantBadge: "badge badge-yellow",
			wantLabel: "Pending",
			wantDate:  "Not issued",
		},
		{
			name:      "unknown status",
			cert:      model.Certificate{ID: "a/4", Status: "expired"},
			wantBadge: "badge badge-red",
			wantLabel: "Expired",
			wantDate:  "Not issued",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := toCertificateRowViewModel(tt.cert, "/")

			assert.Equal(t, tt.wantBadge, row.BadgeClass)
			assert.Equal(t, tt.wantLabel, row.StatusLabel)
			assert.Equal(t, tt.wantDate, row.IssueDate)
			assert.Equal(t, tt.wantView != "", row.CanView)
			assert.Equal(t, tt.wantView, row.ViewURL)
		})
	}
}

func TestToCertificateRowViewModel_EscapesDeletePath(t *testing.T) {
	row := toCertificateRowViewModel(model.Certificate{ID: "a/4"}, "/")

	assert.Equal(t, "/certificates/a%2F4/delete", row.DeleteURL)
}

func TestToCertificateRowViewModel_ViewURLCarriesReturn(t *testing.T) {
	cert := model.Certificate{ID: "a1", Status: model.CertificateStatusIssued}

	tests := []struct {
		name     string
		returnTo string
		want     string
	}{
		{name: "filtered dashboard", returnTo: "/?q=ada&status=issued", want: "/certificates/view?path=&return=%2F%3Fq%3Dada%26status%3Dissued"},
		{name: "bare dashboard", returnTo: "/", want: "/certificates/view?path="},
		{name: "foreign host dropped", returnTo: "//evil.example/", want: "/certificates/view?path="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toCertificateRowViewModel(cert, tt.returnTo).ViewURL)
		})
	}
}

func TestToCertificateRowViewModel_IssueShortcutAndGrade(t *testing.T) {
	pending := model.Certificate{ID: "p1", Status: model.CertificateStatusPending, CourseID: "c-2", StudentID: "s-2", Grade: "B+"}
	row := toCertificateRowViewModel(pending, "/")

	assert.True(t, row.CanIssue)
	assert.Equal(t, "c-2", row.CourseID)
	assert.Equal(t, "B+", row.Grade)

	unknown := model.Certificate{ID: "p2", Status: model.CertificateStatusPending, CourseID: model.UnknownID, StudentID: "s-3", Grade: model.UnknownID}
	row = toCertificateRowViewModel(unknown, "/")

	assert.False(t, row.CanIssue)
	assert.Empty(t, row.Grade)
}

func TestToSettingsViewModel_MasksStoredCredentials(t *testing.T) {
	creds := []model.Credential{
		{Service: application.APITokenService, Value: "sk_live_abcd1234", UpdatedAt: time.Date(2026, 3, 2, 14, 5, 0, 0, time.UTC)},
	}

	page := toSettingsViewModel(application.TokenStatus{StorageEnabled: true}, creds, "tok", time.UTC)

	require.Len(t, page.StoredCredentials, 1)
	assert.Equal(t, application.APITokenService, page.StoredCredentials[0].Service)
	assert.Equal(t, "****1234", page.StoredCredentials[0].Masked)
	assert.Equal(t, "Mar 2, 14:05", page.StoredCredentials[0].UpdatedAt)
	assert.Equal(t, "tok", page.CSRFToken)
}

func TestToDashboardViewModel_URLs(t *testing.T) {
	q := application.NewListQuery("course", "c 1", "ada", "issued")

	page := toDashboardViewModel(q, true, nil)

	assert.Equal(t, "/?course=c+1&filters=open&q=ada&status=issued&view=course", page.ReturnTo)
	assert.Equal(t, page.ReturnTo, page.RetryURL)
	assert.Equal(t, "/export/certificates.csv?course=c+1&q=ada&status=issued&view=course", page.ExportCSVURL)
	assert.Equal(t, "/?course=c+1&q=ada&status=issued&view=course", page.Filters.ToggleURL)
	assert.NotNil(t, page.Rows)
}

func TestToDashboardViewModel_DefaultsProduceBareURLs(t *testing.T) {
	page := toDashboardViewModel(application.NewListQuery("", "", "", ""), false, nil)

	assert.Equal(t, "/", page.ReturnTo)
	assert.Equal(t, "/export/certificates.xlsx", page.ExportXLSXURL)
	assert.Equal(t, "/?filters=open", page.Filters.ToggleURL)
}

func TestToDashboardViewModel_Listing(t *testing.T) {
	listing := &application.Listing{
		Fetched: []model.Certificate{{ID: "1"}, {ID: "2"}},
		Visible: []model.Certificate{{ID: "2"}},
		Stats:   model.CertificateStats{Total: 2, Active: 1, ThisMonth: 0},
	}

	page := toDashboardViewModel(application.NewListQuery("", "", "", ""), false, listing)

	assert.Equal(t, 2, page.FetchedCount)
	assert.Equal(t, 2, page.Stats.Total)
	assert.Equal(t, 1, page.Stats.Active)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "2", page.Rows[0].ID)
}

func TestSafeReturn(t *testing.T) {
	tests := map[string]string{
		"/?q=ada":               "/?q=ada",
		"":                      "/",
		"//evil.example/":       "/",
		"/\\evil.example":       "/",
		"https://evil.example/": "/",
	}

	for in, want := range tests {
		assert.Equal(t, want, safeReturn(in), in)
	}
}

func TestToActionViewModels(t *testing.T) {
	actions := []model.AdminAction{
		{Kind: model.ActionKindCreateTemplate, Target: "Completion", Succeeded: true, Detail: "Awarded on **pass**",
			CreatedAt: time.Date(2026, 3, 2, 14, 5, 0, 0, time.UTC)},
		{Kind: model.ActionKindDelete, Target: "x", Detail: "<script>alert(1)</script>"},
	}

	got := toActionViewModels(actions, time.UTC)

	require.Len(t, got, 2)
	assert.Equal(t, "Template created", got[0].KindLabel)
	assert.Equal(t, "Mar 2, 14:05", got[0].When)
	assert.Contains(t, got[0].DetailHTML, "<strong>pass</strong>")
	assert.Equal(t, "Certificate deleted", got[1].KindLabel)
	assert.NotContains(t, got[1].DetailHTML, "<script>")
}

func TestFlash_RoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	setFlash(rec, "Certificate issued for student s-1 in course c-1", false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	out := httptest.NewRecorder()

	flash := popFlash(out, req)

	require.NotNil(t, flash)
	assert.Equal(t, "Certificate issued for student s-1 in course c-1", flash.Message)
	assert.False(t, flash.IsError)

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestFlash_MalformedCookieIgnored(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: "e!!!"})

	assert.Nil(t, popFlash(httptest.NewRecorder(), req))
}

func TestValidateCSRF(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		form   string
		want   bool
	}{
		{name: "matching header", cookie: "abc", header: "abc", want: true},
		{name: "mismatch", cookie: "abc", header: "abd", want: false},
		{name: "missing cookie", cookie: "", header: "abc", want: false},
		{name: "missing token", cookie: "abc", header: "", want: false},
		{name: "header wins over form", cookie: "abc", header: "abc", form: "zzz", want: true},
		{name: "form field", cookie: "abc", form: "abc", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/certificates/issue", strings.NewReader(url.Values{csrfFormField: {tt.form}}.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrfHeader, tt.header)
			}

			assert.Equal(t, tt.want, validateCSRF(req))
		})
	}
}

func ptr(s string) *string { return &s }
