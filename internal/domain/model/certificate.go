// Package model holds the certificate domain types shared across layers.
package model

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// CertificateStatus is the lifecycle state reported by the certificates backend.
// Values other than issued and pending are displayed as "other".
type CertificateStatus string

const (
	CertificateStatusIssued  CertificateStatus = "issued"
	CertificateStatusPending CertificateStatus = "pending"
)

// BadgeColor maps a status onto the color of its table badge.
func (s CertificateStatus) BadgeColor() string {
	switch s {
	case CertificateStatusIssued:
		return "green"
	case CertificateStatusPending:
		return "yellow"
	default:
		return "red"
	}
}

// Label returns the status with its first letter upper-cased.
func (s CertificateStatus) Label() string {
	first, size := utf8.DecodeRuneInString(string(s))
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(first)) + string(s[size:])
}

// UnknownID stands in for an identifier the backend did not supply.
const UnknownID = "N/A"

// Certificate is a course-completion credential issued to a student.
type Certificate struct {
	ID             string
	StudentName    string
	StudentID      string
	CourseName     string
	CourseID       string
	Grade          string
	Status         CertificateStatus
	IssueDate      *time.Time
	CertificateURL *string
	CredentialID   string
}

// IsIssued reports whether the certificate is currently valid.
func (c Certificate) IsIssued() bool {
	return c.Status == CertificateStatusIssued
}

// CanIssue reports whether the certificate is pending and names both the
// course and the student needed to issue it.
func (c Certificate) CanIssue() bool {
	return c.Status == CertificateStatusPending &&
		knownID(c.CourseID) && knownID(c.StudentID)
}

func knownID(id string) bool {
	return id != "" && id != UnknownID
}

// MatchesSearch reports whether the student name, course name, ID or
// credential ID contains term. term must already be lower-cased.
func (c Certificate) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{c.StudentName, c.CourseName, c.ID, c.CredentialID} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// IssuedInMonthOf reports whether the issue date falls in the same calendar
// month and year as now.
func (c Certificate) IssuedInMonthOf(now time.Time) bool {
	if c.IssueDate == nil {
		return false
	}
	d := c.IssueDate.In(now.Location())
	return d.Year() == now.Year() && d.Month() == now.Month()
}

// CertificateStats summarizes a fetched set of certificates.
type CertificateStats struct {
	Total     int
	Active    int
	ThisMonth int
}
