package application

import (
	"strings"
	"time"

	"github.com/ericfisherdev/certpanel/internal/domain/model"
)

// FilterCertificates returns the certificates whose student name, course
// name, ID or credential ID contains search (case-insensitive) and whose
// status passes the status filter. Input order is preserved and the input
// slice is not modified.
func FilterCertificates(certs []model.Certificate, search string, status model.StatusFilter) []model.Certificate {
	term := strings.ToLower(strings.TrimSpace(search))

	visible := make([]model.Certificate, 0, len(certs))
	for _, c := range certs {
		if c.MatchesSearch(term) && status.Allows(c.Status) {
			visible = append(visible, c)
		}
	}
	return visible
}

// ComputeStats summarizes the fetched certificates. ThisMonth counts
// certificates issued in the calendar month of now.
func ComputeStats(certs []model.Certificate, now time.Time) model.CertificateStats {
	stats := model.CertificateStats{Total: len(certs)}
	for _, c := range certs {
		if c.IsIssued() {
			stats.Active++
		}
		if c.IssuedInMonthOf(now) {
			stats.ThisMonth++
		}
	}
	return stats
}
