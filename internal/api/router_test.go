package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestRouter avoids wrapping a nil *fakeManager in the Manager interface.
func newTestRouter(starter *fakeStarter, units *fakeManager) *Router {
	if units == nil {
		return NewRouter(testSpecs(), starter, nil, nil)
	}
	return NewRouter(testSpecs(), starter, units, nil)
}

func TestRouter_ServiceAction_RequiresName(t *testing.T) {
	router := newTestRouter(&fakeStarter{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/services/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestRouter_StartAction_RoutesToStarter(t *testing.T) {
	starter := &fakeStarter{}
	router := newTestRouter(starter, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/services/notebook/start", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if len(starter.calls) != 1 {
		t.Fatalf("expected 1 Start call, got %d", len(starter.calls))
	}
	if starter.calls[0].Name != "notebook" {
		t.Fatalf("expected service name %q, got %q", "notebook", starter.calls[0].Name)
	}
}

func TestRouter_StartAction_RequiresPost(t *testing.T) {
	starter := &fakeStarter{}
	router := newTestRouter(starter, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/services/notebook/start", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
	}
	if len(starter.calls) != 0 {
		t.Fatalf("expected no Start calls, got %d", len(starter.calls))
	}
}

func TestRouter_UnknownAction(t *testing.T) {
	router := newTestRouter(&fakeStarter{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/services/notebook/unknown-action", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestRouter_Stack_RejectsPost(t *testing.T) {
	router := newTestRouter(&fakeStarter{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/stack", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
	}
}

func TestRouter_History_Routes(t *testing.T) {
	router := NewRouter(testSpecs(), &fakeStarter{}, nil, &fakeHistory{})

	req := httptest.NewRequest(http.MethodGet, "/api/services/pipeline/history", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}
