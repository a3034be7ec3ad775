package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
// Every POST route requires a matching CSRF token.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("GET /settings", h.Settings)

	// Downloads.
	mux.HandleFunc("GET /export/certificates.csv", h.ExportCSV)
	mux.HandleFunc("GET /export/certificates.xlsx", h.ExportXLSX)

	// Certificate actions.
	mux.HandleFunc("POST /certificates/templates", requireCSRF(h.CreateTemplate))
	mux.HandleFunc("POST /certificates/issue", requireCSRF(h.IssueCertificate))
	mux.HandleFunc("POST /certificates/{id}/delete", requireCSRF(h.DeleteCertificate))
	mux.HandleFunc("GET /certificates/view", h.ViewCertificate)

	// Token management.
	mux.HandleFunc("POST /settings/token", requireCSRF(h.SaveToken))
	mux.HandleFunc("POST /settings/token/delete", requireCSRF(h.ClearToken))
}
