package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"weatherstack/internal/launcher"
	"weatherstack/internal/models"
	"weatherstack/internal/platform"
	"weatherstack/internal/store"
)

// ServiceStarter issues one launch action. Satisfied by *launcher.Launcher.
type ServiceStarter interface {
	Start(ctx context.Context, spec models.ServiceSpec) models.LaunchResult
}

// HistorySource reads recorded launches. Satisfied by *store.Store.
type HistorySource interface {
	LaunchesByName(ctx context.Context, name string, limit int) ([]store.Launch, error)
}

// Handler serves the control API over the configured stack.
type Handler struct {
	specs   []models.ServiceSpec
	starter ServiceStarter
	units   platform.Manager
	history HistorySource
}

// NewHandler creates a control API handler. units and history may be nil;
// the affected endpoints then report the capability as unavailable.
func NewHandler(specs []models.ServiceSpec, starter ServiceStarter, units platform.Manager, history HistorySource) *Handler {
	return &Handler{specs: specs, starter: starter, units: units, history: history}
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorResponse writes an error response
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func (h *Handler) findSpec(name string) (models.ServiceSpec, bool) {
	for _, spec := range h.specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return models.ServiceSpec{}, false
}

// statusFor observes the current runtime state of a configured service.
func (h *Handler) statusFor(spec models.ServiceSpec) models.Service {
	return launcher.ObserveStatus(spec, h.units)
}

// GetPlatform returns the detected service manager name
func (h *Handler) GetPlatform(w http.ResponseWriter, r *http.Request) {
	name := "none"
	if h.units != nil {
		name = h.units.Name()
	}
	jsonResponse(w, http.StatusOK, map[string]string{
		"platform": name,
	})
}

// GetStack returns the observed state of every configured service, in
// stack order.
func (h *Handler) GetStack(w http.ResponseWriter, r *http.Request) {
	services := make([]models.Service, 0, len(h.specs))
	for _, spec := range h.specs {
		services = append(services, h.statusFor(spec))
	}
	jsonResponse(w, http.StatusOK, services)
}

// GetService returns the observed state of a single service
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request, name string) {
	spec, ok := h.findSpec(name)
	if !ok {
		errorResponse(w, http.StatusNotFound, "service not found: "+name)
		return
	}
	jsonResponse(w, http.StatusOK, h.statusFor(spec))
}

// StartService issues a launch action for one service
func (h *Handler) StartService(w http.ResponseWriter, r *http.Request, name string) {
	spec, ok := h.findSpec(name)
	if !ok {
		errorResponse(w, http.StatusNotFound, "service not found: "+name)
		return
	}

	res := h.starter.Start(r.Context(), spec)
	if !res.Issued {
		errorResponse(w, http.StatusInternalServerError, res.Err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// StopService stops a service: SIGTERM via pid file for process services,
// the manager's stop verb for unit services.
func (h *Handler) StopService(w http.ResponseWriter, r *http.Request, name string) {
	spec, ok := h.findSpec(name)
	if !ok {
		errorResponse(w, http.StatusNotFound, "service not found: "+name)
		return
	}

	var err error
	if spec.Kind() == models.StrategyUnit {
		if h.units == nil {
			errorResponse(w, http.StatusServiceUnavailable, "no service manager available")
			return
		}
		err = h.units.Stop(spec.Unit)
	} else {
		err = launcher.StopDetached(spec)
	}
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// GetHistory returns recent launch records for a service
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request, name string) {
	if h.history == nil {
		errorResponse(w, http.StatusServiceUnavailable, "launch history not available")
		return
	}
	if _, ok := h.findSpec(name); !ok {
		errorResponse(w, http.StatusNotFound, "service not found: "+name)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	launches, err := h.history.LaunchesByName(r.Context(), name, limit)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if launches == nil {
		launches = []store.Launch{}
	}
	jsonResponse(w, http.StatusOK, launches)
}
