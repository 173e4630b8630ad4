/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for dashboards

ROUTE GROUPS:
  /api/reports/*    Report previews and send triggers
  /api/leave/*      Leave notification trigger
  /api/employees    Known employees
  /api/records      Raw check-in ingest
  /api/admin/*      Admin operations (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/daily", h.GetDailyReport)
			r.Get("/weekly", h.GetWeeklyReport)
			r.Post("/send", h.SendReport)
			r.Post("/yesterday", h.SendYesterdayReport)
			r.Post("/last-sunday", h.SendLastSundayReport)
		})

		// Leave routes
		r.Route("/leave", func(r chi.Router) {
			r.Post("/notify", h.NotifyLeave)
		})

		// Data routes
		r.Get("/employees", h.ListEmployees)
		r.Get("/sources", h.ListSources)
		r.Post("/records", h.IngestRecords)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/reset", h.ResetDatabase)
		})
	})

	// Landing page listing the API surface.
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Attendance Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Attendance Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/api/sources">/api/sources</a> - List data sources</li>
<li><a href="/api/reports/daily">/api/reports/daily</a> - Daily summary preview</li>
<li><a href="/api/reports/weekly">/api/reports/weekly</a> - Weekly dashboard preview</li>
</ul>
</body>
</html>`))
	})

	return r
}
