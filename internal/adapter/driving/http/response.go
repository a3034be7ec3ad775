package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/certpanel/internal/application"
	"github.com/ericfisherdev/certpanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// CertificateResponse is the JSON representation of a certificate.
type CertificateResponse struct {
	ID             string  `json:"id"`
	StudentName    string  `json:"student_name"`
	StudentID      string  `json:"student_id"`
	CourseName     string  `json:"course_name"`
	CourseID       string  `json:"course_id"`
	Grade          string  `json:"grade"`
	Status         string  `json:"status"`
	IssueDate      *string `json:"issue_date"`
	CertificateURL *string `json:"certificate_url"`
	CredentialID   string  `json:"credential_id"`
}

// StatsResponse is the JSON representation of the dashboard counters.
type StatsResponse struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	ThisMonth int `json:"this_month"`
}

// CertificateListResponse is the body of the certificate list endpoint.
type CertificateListResponse struct {
	Certificates   []CertificateResponse `json:"certificates"`
	Stats          StatsResponse         `json:"stats"`
	TotalFetched   int                   `json:"total_fetched"`
	AwaitingCourse bool                  `json:"awaiting_course,omitempty"`
}

// ActionResponse is the JSON representation of an audit trail entry.
type ActionResponse struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	Target    string `json:"target"`
	Succeeded bool   `json:"succeeded"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"created_at"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status            string `json:"status"`
	Time              string `json:"time"`
	BackendConfigured bool   `json:"backend_configured"`
}

// toCertificateResponse converts a domain Certificate to its JSON representation.
func toCertificateResponse(c model.Certificate) CertificateResponse {
	resp := CertificateResponse{
		ID:             c.ID,
		StudentName:    c.StudentName,
		StudentID:      c.StudentID,
		CourseName:     c.CourseName,
		CourseID:       c.CourseID,
		Grade:          c.Grade,
		Status:         string(c.Status),
		CertificateURL: c.CertificateURL,
		CredentialID:   c.CredentialID,
	}
	if c.IssueDate != nil {
		d := c.IssueDate.UTC().Format(time.RFC3339)
		resp.IssueDate = &d
	}
	return resp
}

// toCertificateListResponse converts a Listing to the list endpoint body.
func toCertificateListResponse(l *application.Listing) CertificateListResponse {
	certs := make([]CertificateResponse, 0, len(l.Visible))
	for _, c := range l.Visible {
		certs = append(certs, toCertificateResponse(c))
	}

	return CertificateListResponse{
		Certificates: certs,
		Stats: StatsResponse{
			Total:     l.Stats.Total,
			Active:    l.Stats.Active,
			ThisMonth: l.Stats.ThisMonth,
		},
		TotalFetched:   len(l.Fetched),
		AwaitingCourse: l.AwaitingCourse,
	}
}

// toActionResponse converts a domain AdminAction to its JSON representation.
func toActionResponse(a model.AdminAction) ActionResponse {
	return ActionResponse{
		ID:        a.ID,
		Kind:      string(a.Kind),
		Target:    a.Target,
		Succeeded: a.Succeeded,
		Detail:    a.Detail,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
