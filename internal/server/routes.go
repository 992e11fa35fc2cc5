package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route (ingestion progress events)
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// OAuth browser flow
	mux.HandleFunc("/auth/login", s.app.AuthHandler.LoginHandler)
	mux.HandleFunc("/auth/callback", s.app.AuthHandler.CallbackHandler)

	// API routes - Session
	mux.HandleFunc("/api/auth/login", s.app.AuthHandler.LoginURLHandler)
	mux.HandleFunc("/api/auth/me", s.app.AuthHandler.MeHandler)
	mux.HandleFunc("/api/auth/logout", s.app.AuthHandler.LogoutHandler)

	// API routes - Papers
	mux.HandleFunc("/api/papers", s.app.PaperHandler.PapersHandler)       // GET (list), POST (upload)
	mux.HandleFunc("/api/papers/", s.app.PaperHandler.PaperRoutesHandler) // GET/DELETE /{id}, GET /{id}/citations|related|report

	// API routes - Question answering and search
	mux.HandleFunc("/api/ask", s.app.QAHandler.AskHandler)
	mux.HandleFunc("/api/search", s.app.SearchHandler.SearchHandler)

	// API routes - Maintenance
	mux.HandleFunc("/api/maintenance/jobs", s.app.MaintenanceHandler.JobsHandler)
	mux.HandleFunc("/api/maintenance/jobs/", s.app.MaintenanceHandler.TriggerHandler)

	// API routes - System
	mux.HandleFunc("/api/health", s.app.StatusHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.StatusHandler.VersionHandler)
	mux.HandleFunc("/api/status", s.app.StatusHandler.StatsHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.StatusHandler.NotFoundHandler)

	return mux
}
