package certapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/certpanel/internal/domain/model"
)

// Defaults applied when the backend omits a field or sends it empty.
const (
	defaultID          = model.UnknownID
	defaultStudentName = "Unknown Student"
	defaultCourseName  = "Unknown Course"
)

// certificateJSON is the wire shape of one certificate. Identifiers and
// grades arrive as strings or numbers depending on the backend store.
type certificateJSON struct {
	MongoID        flexString `json:"_id"`
	ID             flexString `json:"id"`
	StudentName    flexString `json:"student_name"`
	StudentID      flexString `json:"student_id"`
	CourseName     flexString `json:"course_name"`
	CourseID       flexString `json:"course_id"`
	Grade          flexString `json:"grade"`
	Status         flexString `json:"status"`
	IssueDate      flexString `json:"issue_date"`
	CreatedAt      flexString `json:"created_at"`
	CertificateURL flexString `json:"certificate_url"`
	CredentialID   flexString `json:"credential_id"`
}

// listEnvelope is the object form of a list response.
type listEnvelope struct {
	Certificates []certificateJSON `json:"certificates"`
}

// templatePayload is the body of POST /api/certificates/create.
type templatePayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CourseID    *string `json:"course_id"`
}

func toTemplatePayload(req model.TemplateRequest) templatePayload {
	description := req.Description
	if description == "" {
		description = model.DefaultTemplateDescription
	}
	return templatePayload{
		Title:       req.Title,
		Description: description,
		CourseID:    req.CourseID,
	}
}

// decodeCertificates accepts either a bare JSON array or an object with a
// "certificates" array. An object without that key yields an empty list.
func decodeCertificates(data []byte) ([]model.Certificate, error) {
	trimmed := bytes.TrimSpace(data)

	var items []certificateJSON
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		// empty body
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
	case trimmed[0] == '{':
		var env listEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		items = env.Certificates
	default:
		return nil, fmt.Errorf("unexpected response body starting with %q", trimmed[:1])
	}

	certs := make([]model.Certificate, 0, len(items))
	for _, item := range items {
		certs = append(certs, mapCertificate(item))
	}
	return certs, nil
}

func mapCertificate(c certificateJSON) model.Certificate {
	cert := model.Certificate{
		ID:           firstNonEmpty(defaultID, c.MongoID, c.ID),
		StudentName:  firstNonEmpty(defaultStudentName, c.StudentName),
		StudentID:    firstNonEmpty(defaultID, c.StudentID),
		CourseName:   firstNonEmpty(defaultCourseName, c.CourseName),
		CourseID:     firstNonEmpty(defaultID, c.CourseID),
		Grade:        firstNonEmpty(defaultID, c.Grade),
		Status:       model.CertificateStatus(firstNonEmpty(string(model.CertificateStatusIssued), c.Status)),
		CredentialID: firstNonEmpty(defaultID, c.CredentialID),
	}

	if raw := firstNonEmpty("", c.IssueDate, c.CreatedAt); raw != "" {
		if t, ok := parseDate(raw); ok {
			cert.IssueDate = &t
		}
	}
	if c.CertificateURL != "" {
		u := string(c.CertificateURL)
		cert.CertificateURL = &u
	}

	return cert
}

func firstNonEmpty(fallback string, values ...flexString) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return fallback
}

// parseDate tries the datetime layouts the backend is known to emit.
// Layouts without a zone are read as UTC.
func parseDate(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// flexString decodes a JSON string, number, boolean or Mongo extended-JSON
// object id ({"$oid": "..."}) into its string form. null decodes to "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	case '{':
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(data, &oid); err != nil {
			return err
		}
		*f = flexString(oid.OID)
	case '[':
		return fmt.Errorf("cannot decode array %s into a string field", data)
	default:
		// numbers and booleans keep their literal text
		*f = flexString(data)
	}
	return nil
}
