package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Webhooks)
	mux.HandleFunc("POST /webhooks", h.AddWebhook)
	mux.HandleFunc("POST /webhooks/{name}/delete", h.DeleteWebhook)
	mux.HandleFunc("GET /webhooks/{name}/branches", h.BranchPage)
	mux.HandleFunc("GET /webhooks/{name}/branches/table", h.BranchTable)
}
