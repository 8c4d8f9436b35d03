package api

import (
	"net/http"
	"strings"

	"weatherstack/internal/models"
	"weatherstack/internal/platform"
)

// Router sets up the HTTP routes
type Router struct {
	handler  *Handler
	streamer *LogStreamer
	mux      *http.ServeMux
}

// NewRouter creates a new router with all API endpoints
func NewRouter(specs []models.ServiceSpec, starter ServiceStarter, units platform.Manager, history HistorySource) *Router {
	r := &Router{
		handler:  NewHandler(specs, starter, units, history),
		streamer: NewLogStreamer(specs, units),
		mux:      http.NewServeMux(),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.mux.HandleFunc("/api/platform", r.handler.GetPlatform)
	r.mux.HandleFunc("/api/stack", r.handleStack)
	r.mux.HandleFunc("/api/services/", r.handleServiceAction)
}

// handleStack handles GET /api/stack
func (r *Router) handleStack(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.handler.GetStack(w, req)
}

// handleServiceAction routes service-specific actions
func (r *Router) handleServiceAction(w http.ResponseWriter, req *http.Request) {
	// Parse path: /api/services/{name} or /api/services/{name}/{action}
	path := strings.TrimPrefix(req.URL.Path, "/api/services/")
	parts := strings.SplitN(path, "/", 2)

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Service name required", http.StatusBadRequest)
		return
	}

	serviceName := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch action {
	case "":
		// GET /api/services/{name}
		if req.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		r.handler.GetService(w, req, serviceName)

	case "start":
		if req.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		r.handler.StartService(w, req, serviceName)

	case "stop":
		if req.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		r.handler.StopService(w, req, serviceName)

	case "history":
		if req.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		r.handler.GetHistory(w, req, serviceName)

	case "logs":
		// WebSocket upgrade for log streaming
		r.streamer.HandleLogStream(w, req, serviceName)

	default:
		http.Error(w, "Unknown action", http.StatusNotFound)
	}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
