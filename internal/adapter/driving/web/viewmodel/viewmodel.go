// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// FlashViewModel is a one-shot outcome message shown after a redirect.
type FlashViewModel struct {
	Message string
	IsError bool
}

// CertificateRowViewModel holds presentation-ready data for one table row.
type CertificateRowViewModel struct {
	ID           string
	StudentName  string
	StudentID    string
	CourseName   string
	CourseID     string
	Grade        string // empty when the backend has none
	StatusLabel  string
	BadgeClass   string // "badge badge-green" | "badge badge-yellow" | "badge badge-red"
	IssueDate    string // "Jan 2, 2006" or "Not issued"
	CredentialID string
	CanView      bool   // issued rows get a View action
	ViewURL      string // GET target resolving the certificate artifact
	CanIssue     bool   // pending rows with known course and student get an Issue action
	DeleteURL    string // POST target for deletion
}

// StatsViewModel holds the three dashboard counters.
type StatsViewModel struct {
	Total     int
	Active    int
	ThisMonth int
}

// FiltersViewModel reflects the current query so forms can re-render it.
type FiltersViewModel struct {
	Search   string
	View     string // "student" | "course"
	CourseID string
	Status   string // "all" | "issued" | "pending"
	Open     bool   // filters panel expanded
	// ToggleURL flips Open while keeping the rest of the query.
	ToggleURL string
}

// ActionViewModel holds one audit trail entry for the activity panel.
type ActionViewModel struct {
	KindLabel  string
	Target     string
	Succeeded  bool
	DetailHTML string // sanitized HTML rendered from markdown
	When       string
}

// DashboardViewModel holds everything the dashboard page renders.
type DashboardViewModel struct {
	CSRFToken string
	Filters   FiltersViewModel
	Stats     StatsViewModel
	Rows      []CertificateRowViewModel

	// FetchedCount is the size of the unfiltered backend result.
	FetchedCount   int
	AwaitingCourse bool

	// ErrorMessage replaces the table when the fetch failed; RetryURL
	// repeats the same query.
	ErrorMessage string
	RetryURL     string

	ExportCSVURL  string
	ExportXLSXURL string
	// ReturnTo is posted with mutation forms so the redirect lands on the
	// same filtered view.
	ReturnTo string

	Actions []ActionViewModel
}

// CredentialViewModel is one stored credential with its value masked.
type CredentialViewModel struct {
	Service   string
	Masked    string
	UpdatedAt string
}

// SettingsViewModel holds the token management page state.
type SettingsViewModel struct {
	CSRFToken       string
	TokenConfigured bool
	TokenSource     string
	MaskedToken     string
	StorageEnabled  bool

	StoredCredentials []CredentialViewModel
	// CredentialsError is set when stored credentials could not be listed.
	CredentialsError bool
}
