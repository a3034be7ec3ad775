package model

// DefaultTemplateDescription is sent when the admin leaves the description blank.
const DefaultTemplateDescription = "Default certificate template"

// TemplateRequest describes a certificate template to create on the backend.
// CourseID is nil when the template is not bound to a course.
type TemplateRequest struct {
	Title       string
	Description string
	CourseID    *string
}
