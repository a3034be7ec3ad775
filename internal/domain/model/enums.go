package model

// ViewMode selects which backend listing the dashboard fetches.
type ViewMode string

const (
	ViewModeStudent ViewMode = "student" // every certificate across all students
	ViewModeCourse  ViewMode = "course"  // certificates of a single course
)

// ParseViewMode returns the ViewMode for s, defaulting to ViewModeStudent.
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ViewModeCourse {
		return ViewModeCourse
	}
	return ViewModeStudent
}

// StatusFilter narrows the visible rows by certificate status.
type StatusFilter string

const (
	StatusFilterAll     StatusFilter = "all"
	StatusFilterIssued  StatusFilter = "issued"
	StatusFilterPending StatusFilter = "pending"
)

// ParseStatusFilter returns the StatusFilter for s, defaulting to StatusFilterAll.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(s) {
	case StatusFilterIssued, StatusFilterPending:
		return StatusFilter(s)
	default:
		return StatusFilterAll
	}
}

// Allows reports whether a certificate with the given status passes the filter.
func (f StatusFilter) Allows(status CertificateStatus) bool {
	switch f {
	case StatusFilterIssued:
		return status == CertificateStatusIssued
	case StatusFilterPending:
		return status == CertificateStatusPending
	default:
		return true
	}
}

// ActionKind identifies an administrative mutation recorded in the audit trail.
type ActionKind string

const (
	ActionKindCreateTemplate ActionKind = "create_template"
	ActionKindIssue          ActionKind = "issue"
	ActionKindDelete         ActionKind = "delete"
)
