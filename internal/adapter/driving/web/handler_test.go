package web_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ericfisherdev/certpanel/internal/adapter/driving/web"
	"github.com/ericfisherdev/certpanel/internal/application"
	"github.com/ericfisherdev/certpanel/internal/domain/model"
	"github.com/ericfisherdev/certpanel/internal/domain/port/driven"
)

// --- Mock implementations ---

type fakeCertificateAPI struct {
	certs   []model.Certificate
	listErr error
	mutErr  error

	createdReq    *model.TemplateRequest
	issuedCourse  string
	issuedStudent string
	deletedID     string
}

func (f *fakeCertificateAPI) ListAll(_ context.Context) ([]model.Certificate, error) {
	return f.certs, f.listErr
}

func (f *fakeCertificateAPI) ListByCourse(_ context.Context, _ string) ([]model.Certificate, error) {
	return f.certs, f.listErr
}

func (f *fakeCertificateAPI) CreateTemplate(_ context.Context, req model.TemplateRequest) error {
	f.createdReq = &req
	return f.mutErr
}

func (f *fakeCertificateAPI) Issue(_ context.Context, courseID, studentID string) error {
	f.issuedCourse, f.issuedStudent = courseID, studentID
	return f.mutErr
}

func (f *fakeCertificateAPI) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return f.mutErr
}

type fakeActionStore struct {
	mu      sync.Mutex
	actions []model.AdminAction
}

func (f *fakeActionStore) Record(_ context.Context, a model.AdminAction) (model.AdminAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = int64(len(f.actions) + 1)
	f.actions = append(f.actions, a)
	return a, nil
}

func (f *fakeActionStore) ListRecent(_ context.Context, limit int) ([]model.AdminAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.AdminAction{}
	for i := len(f.actions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.actions[i])
	}
	return out, nil
}

type fakeCredentialStore struct {
	values  map[string]string
	listErr error
}

func (f *fakeCredentialStore) Set(_ context.Context, service, value string) error {
	f.values[service] = value
	return nil
}

func (f *fakeCredentialStore) Get(_ context.Context, service string) (string, error) {
	return f.values[service], nil
}

func (f *fakeCredentialStore) List(_ context.Context) ([]model.Credential, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	creds := make([]model.Credential, 0, len(f.values))
	for service, value := range f.values {
		creds = append(creds, model.Credential{
			Service:   service,
			Value:     value,
			UpdatedAt: time.Date(2024, 6, 3, 8, 15, 0, 0, time.UTC),
		})
	}
	sort.Slice(creds, func(i, j int) bool { return creds[i].Service < creds[j].Service })
	return creds, nil
}

func (f *fakeCredentialStore) Delete(_ context.Context, service string) error {
	delete(f.values, service)
	return nil
}

// --- Helpers ---

const testCSRF = "test-csrf-token"

type testEnv struct {
	api      *fakeCertificateAPI
	actions  *fakeActionStore
	creds    *fakeCredentialStore
	provider *application.CertificateAPIProvider
	mux      *http.ServeMux
}

func newTestEnv(t *testing.T, api *fakeCertificateAPI, withToken bool) *testEnv {
	t.Helper()
	provider := application.NewCertificateAPIProvider()
	if withToken {
		provider.Replace(api, "env-token-1234", application.TokenSourceEnv)
	}
	actions := &fakeActionStore{}
	creds := &fakeCredentialStore{values: map[string]string{}}
	certSvc := application.NewCertificateService(provider, actions, "http://backend.test:8000", slog.Default())
	tokenSvc := application.NewTokenService(
		creds,
		provider,
		func(string) (driven.CertificateAPI, error) { return api, nil },
		"",
		true,
		slog.Default(),
	)

	mux := http.NewServeMux()
	web.RegisterRoutes(mux, web.NewHandler(certSvc, tokenSvc, slog.Default()))
	return &testEnv{api: api, actions: actions, creds: creds, provider: provider, mux: mux}
}

func (e *testEnv) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", testCSRF)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: testCSRF})
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// followFlash renders the redirect target with the flash cookie set by rec.
func (e *testEnv) followFlash(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" {
			flash = c
		}
	}
	require.NotNil(t, flash, "expected a flash cookie")
	return e.get(rec.Header().Get("Location"), flash).Body.String()
}

func sampleCertificates() []model.Certificate {
	issued := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	artifact := "certificates/CRED-1.png"
	return []model.Certificate{
		{
			ID: "64af01", StudentName: "Ada Lovelace", StudentID: "s-1", CourseName: "Analytical Engines",
			CourseID: "c-1", Grade: "A", Status: model.CertificateStatusIssued, IssueDate: &issued,
			CertificateURL: &artifact, CredentialID: "CRED-1",
		},
		{
			ID: "64af02", StudentName: "Grace Hopper", StudentID: "s-2", CourseName: "Compilers, Vol. 1",
			CourseID: "c-2", Grade: "N/A", Status: model.CertificateStatusPending, CredentialID: "N/A",
		},
		{
			ID: "64af03", StudentName: "<script>alert(1)</script>", StudentID: "s-3", CourseName: "Security",
			CourseID: "c-3", Grade: "N/A", Status: "revoked", CredentialID: "CRED-3",
		},
	}
}

// --- Dashboard ---

func TestDashboard_RendersTable(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{certs: sampleCertificates()}, true)

	rec := env.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Certification Management")
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "May 1, 2024")
	assert.Contains(t, body, "Not issued")
	assert.Contains(t, body, `class="badge badge-green"`)
	assert.Contains(t, body, `class="badge badge-yellow"`)
	assert.Contains(t, body, `class="badge badge-red"`)
	assert.Contains(t, body, "Revoked")
	assert.Contains(t, body, `/certificates/view?path=certificates%2FCRED-1.png`)
	assert.Contains(t, body, `action="/certificates/64af01/delete"`)
	assert.Contains(t, body, "Are you sure you want to delete this certificate?")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Equal(t, 1, strings.Count(body, ">View</a>"), "only issued rows can be viewed")
}

func TestDashboard_RowIssueShortcutAndGrade(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{certs: sampleCertificates()}, true)

	body := env.get("/?status=pending").Body.String()

	assert.Equal(t, 1, strings.Count(body, `title="Issue Certificate"`), "only pending rows with known ids can be issued")
	assert.Contains(t, body, `<input type="hidden" name="course_id" value="c-2"><input type="hidden" name="student_id" value="s-2">`)
	assert.NotContains(t, body, "Grade: N/A")

	body = env.get("/").Body.String()
	assert.Contains(t, body, `<div class="secondary-text">Grade: A</div>`)
}

func TestDashboard_ViewLinkCarriesQuery(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{certs: sampleCertificates()}, true)

	body := env.get("/?q=ada").Body.String()

	assert.Contains(t, body, `href="/certificates/view?path=certificates%2FCRED-1.png&amp;return=%2F%3Fq%3Dada"`)
}

func TestDashboard_SetsCSRFCookie(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{}, true)

	rec := env.get("/")

	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "csrf_token" {
			token = c.Value
		}
	}
	require.Len(t, token, 64)
	assert.Contains(t, rec.Body.String(), `name="csrf_token" value="`+token+`"`)
}

func TestDashboard_SearchAndStatusFilter(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{certs: sampleCertificates()}, true)

	body := env.get("/?q=grace&status=pending&filters=open").Body.String()

	assert.Contains(t, body, "Grace Hopper")
	assert.NotContains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "Apply Filters")
	assert.Contains(t, body, `<option value="pending" selected>`)
	assert.Contains(t, body, `href="/export/certificates.csv?q=grace&amp;status=pending"`)
}

func TestDashboard_NoMatches(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{certs: sampleCertificates()}, true)

	body := env.get("/?q=nobody").Body.String()

	assert.Contains(t, body, "No certificates found matching your criteria")
	assert.NotContains(t, body, "<h3>No certificates found</h3>")
}

func TestDashboard_EmptyBackend(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{certs: []model.Certificate{}}, true)

	body := env.get("/").Body.String()

	assert.Contains(t, body, "No certificates found matching your criteria")
	assert.Contains(t, body, "<h3>No certificates found</h3>")
	assert.Contains(t, body, "Create Certificate Template")
}

func TestDashboard_AwaitingCourse(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{}, true)

	body := env.get("/?view=course&filters=open").Body.String()

	assert.Contains(t, body, "Enter a course ID")
	assert.NotContains(t, body, "<table")
}

func TestDashboard_Errors(t *testing.T) {
	tests := []struct {
		name      string
		api       *fakeCertificateAPI
		withToken bool
		want      string
	}{
		{name: "no token", api: &fakeCertificateAPI{}, withToken: false, want: "Authentication required. Please log in."},
		{name: "rejected token", api: &fakeCertificateAPI{listErr: driven.ErrUnauthorized}, withToken: true, want: "Authentication required. Please log in."},
		{name: "backend failure", api: &fakeCertificateAPI{listErr: errors.New("connection refused")}, withToken: true, want: "Failed to load certificates. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.api, tt.withToken)

			rec := env.get("/?q=ada")

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, tt.want)
			assert.Contains(t, body, `href="/?q=ada">Try Again</a>`)
			assert.NotContains(t, body, "<table")
		})
	}
}

// --- Mutations ---

func TestPost_RequiresCSRF(t *testing.T) {
	api := &fakeCertificateAPI{}
	env := newTestEnv(t, api, true)

	req := httptest.NewRequest(http.MethodPost, "/certificates/64af01/delete", nil)
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, api.deletedID)
}

func TestPost_AcceptsCSRFHeader(t *testing.T) {
	api := &fakeCertificateAPI{}
	env := newTestEnv(t, api, true)

	req := httptest.NewRequest(http.MethodPost, "/certificates/64af01/delete",
		strings.NewReader(url.Values{"return": {"/?q=ada"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRF-Token", testCSRF)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: testCSRF})
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?q=ada", rec.Header().Get("Location"))
	assert.Equal(t, "64af01", api.deletedID)
}

func TestCreateTemplate(t *testing.T) {
	api := &fakeCertificateAPI{certs: sampleCertificates()}
	env := newTestEnv(t, api, true)

	rec := env.post("/certificates/templates", url.Values{
		"title":     {"Completion"},
		"course_id": {"c-1"},
		"return":    {"/?view=course&course=c-1"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?view=course&course=c-1", rec.Header().Get("Location"))
	require.NotNil(t, api.createdReq)
	assert.Equal(t, "Completion", api.createdReq.Title)
	require.NotNil(t, api.createdReq.CourseID)
	assert.Equal(t, "c-1", *api.createdReq.CourseID)

	body := env.followFlash(t, rec)
	assert.Contains(t, body, "Certificate template created successfully.")
	assert.Contains(t, body, "Template created")
}

func TestCreateTemplate_BlankTitleHasNoMessage(t *testing.T) {
	api := &fakeCertificateAPI{}
	env := newTestEnv(t, api, true)

	rec := env.post("/certificates/templates", url.Values{"title": {"  "}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, api.createdReq)
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, "flash", c.Name)
	}
}

func TestCreateTemplate_Failure(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{mutErr: errors.New("boom")}, true)

	rec := env.post("/certificates/templates", url.Values{"title": {"Completion"}})

	assert.Contains(t, env.followFlash(t, rec), "Failed to create certificate template.")
}

func TestIssueCertificate(t *testing.T) {
	api := &fakeCertificateAPI{}
	env := newTestEnv(t, api, true)

	rec := env.post("/certificates/issue", url.Values{"course_id": {"c-1"}, "student_id": {" s-9 "}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "c-1", api.issuedCourse)
	assert.Equal(t, "s-9", api.issuedStudent)
	assert.Contains(t, env.followFlash(t, rec), "Certificate issued for student s-9 in course c-1")
}

func TestIssueCertificate_RowShortcutReturnsToQuery(t *testing.T) {
	api := &fakeCertificateAPI{certs: sampleCertificates()}
	env := newTestEnv(t, api, true)

	rec := env.post("/certificates/issue", url.Values{
		"course_id":  {"c-2"},
		"student_id": {"s-2"},
		"return":     {"/?status=pending"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?status=pending", rec.Header().Get("Location"))
	assert.Equal(t, "s-2", api.issuedStudent)
}

func TestIssueCertificate_MissingStudent(t *testing.T) {
	api := &fakeCertificateAPI{}
	env := newTestEnv(t, api, true)

	rec := env.post("/certificates/issue", url.Values{"course_id": {"c-1"}})

	assert.Empty(t, api.issuedCourse)
	assert.Contains(t, env.followFlash(t, rec), "Course ID and student ID are required.")
}

func TestIssueCertificate_Failure(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{mutErr: errors.New("boom")}, true)

	rec := env.post("/certificates/issue", url.Values{"course_id": {"c-1"}, "student_id": {"s-1"}})

	assert.Contains(t, env.followFlash(t, rec), "Failed to issue certificate.")
}

func TestDeleteCertificate(t *testing.T) {
	api := &fakeCertificateAPI{}
	env := newTestEnv(t, api, true)

	rec := env.post("/certificates/64af01/delete", url.Values{"return": {"/?q=ada"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?q=ada", rec.Header().Get("Location"))
	assert.Equal(t, "64af01", api.deletedID)
	assert.Contains(t, env.followFlash(t, rec), "Certificate deleted successfully")
}

func TestDeleteCertificate_NoToken(t *testing.T) {
	api := &fakeCertificateAPI{}
	env := newTestEnv(t, api, false)

	rec := env.post("/certificates/64af01/delete", nil)

	assert.Empty(t, api.deletedID)
	assert.Contains(t, env.followFlash(t, rec), "You are not logged in. Please log in first.")
}

func TestDeleteCertificate_Failure(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{mutErr: driven.ErrCertificateNotFound}, true)

	rec := env.post("/certificates/64af01/delete", nil)

	assert.Contains(t, env.followFlash(t, rec), "Failed to delete certificate.")
}

func TestMutation_RejectsForeignReturnPath(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{}, true)

	for _, back := range []string{"//evil.example/", "https://evil.example/", "/\\evil.example"} {
		rec := env.post("/certificates/64af01/delete", url.Values{"return": {back}})
		assert.Equal(t, "/", rec.Header().Get("Location"), back)
	}
}

// --- View ---

func TestViewCertificate(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{}, true)

	rec := env.get("/certificates/view?path=certificates%2FCRED-1.png")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://backend.test:8000/certificates/CRED-1.png", rec.Header().Get("Location"))
}

func TestViewCertificate_Unavailable(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{certs: []model.Certificate{}}, true)

	for _, target := range []string{"/certificates/view?path=", "/certificates/view?path=https%3A%2F%2Fevil.example%2Fx"} {
		rec := env.get(target)
		require.Equal(t, http.StatusSeeOther, rec.Code, target)
		assert.Contains(t, env.followFlash(t, rec), "Certificate preview not available")
	}
}

func TestViewCertificate_UnavailableReturnsToQuery(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{certs: sampleCertificates()}, true)

	rec := env.get("/certificates/view?path=&return=%2F%3Fq%3Dada")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?q=ada", rec.Header().Get("Location"))
	body := env.followFlash(t, rec)
	assert.Contains(t, body, "Certificate preview not available")
	assert.Contains(t, body, "Ada Lovelace")

	rec = env.get("/certificates/view?path=&return=%2F%2Fevil.example%2F")
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

// --- Export ---

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{certs: sampleCertificates()}, true)

	rec := env.get("/export/certificates.csv?status=issued")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="certificates.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t,
		"ID,Student Name,Student ID,Course Name,Issue Date,Status\n"+
			"64af01,Ada Lovelace,s-1,Analytical Engines,2024-05-01,issued\n",
		rec.Body.String())
}

func TestExportXLSX(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{certs: sampleCertificates()}, true)

	rec := env.get("/export/certificates.xlsx")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="certificates.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Certificates")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "Compilers, Vol. 1", rows[2][3])
}

func TestExport_NoToken(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{}, false)

	rec := env.get("/export/certificates.csv?q=ada")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?q=ada", rec.Header().Get("Location"))
}

// --- Settings ---

func TestSettings_SaveAndClearToken(t *testing.T) {
	api := &fakeCertificateAPI{}
	env := newTestEnv(t, api, false)

	body := env.get("/settings").Body.String()
	assert.Contains(t, body, "No token configured")

	rec := env.post("/settings/token", url.Values{"token": {"sk_live_abcd1234"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/settings", rec.Header().Get("Location"))
	assert.True(t, env.provider.HasClient())

	body = env.followFlash(t, rec)
	assert.Contains(t, body, "API token saved.")
	assert.Contains(t, body, "****1234")
	assert.NotContains(t, body, "sk_live_abcd1234")
	assert.Contains(t, body, "Remove stored token")

	rec = env.post("/settings/token/delete", nil)
	assert.Contains(t, env.followFlash(t, rec), "Stored API token removed.")
	assert.False(t, env.provider.HasClient())
}

func TestSettings_ListsStoredCredentialsMasked(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{}, false)
	env.creds.values["smtp_relay"] = "relay-secret-5678"

	body := env.get("/settings").Body.String()
	assert.Contains(t, body, "Stored credentials")
	assert.Contains(t, body, "<td>smtp_relay</td><td><code>****5678</code></td><td>")
	assert.NotContains(t, body, "relay-secret")

	rec := env.post("/settings/token", url.Values{"token": {"sk_live_abcd1234"}})
	body = env.followFlash(t, rec)
	assert.Contains(t, body, "<td>certificates_api</td><td><code>****1234</code></td>")
	assert.NotContains(t, body, "sk_live_abcd1234")
}

func TestSettings_EmptyCredentialList(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{}, false)

	body := env.get("/settings").Body.String()

	assert.Contains(t, body, "No credentials stored.")
}

func TestSettings_CredentialListError(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{}, false)
	env.creds.listErr = errors.New("cipher: message authentication failed")

	rec := env.get("/settings")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Stored credentials could not be read.")
	assert.Contains(t, body, "No token configured")
}

func TestSettings_BlankToken(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{}, false)

	rec := env.post("/settings/token", url.Values{"token": {"   "}})

	assert.Contains(t, env.followFlash(t, rec), "API token must not be empty.")
	assert.False(t, env.provider.HasClient())
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t, &fakeCertificateAPI{}, true)

	rec := env.get("/static/app.js")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "data-confirm")
	assert.Contains(t, body, `"X-CSRF-Token"`)
	assert.NotContains(t, body, "window.certpanel")
}
