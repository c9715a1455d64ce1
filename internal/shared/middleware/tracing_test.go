package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func TestTracing_UsesRouteTemplate(t *testing.T) {
	var seen string
	r := mux.NewRouter()
	r.Use(Tracing)
	r.HandleFunc("/api/requests/{id}/review", func(w http.ResponseWriter, r *http.Request) {
		seen = routeTemplate(r)
		w.WriteHeader(http.StatusAccepted)
	}).Methods(http.MethodPost)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/requests/r-42/review", nil))

	if rr.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusAccepted)
	}
	if seen != "/api/requests/{id}/review" {
		t.Errorf("route = %q, want the path template", seen)
	}
}

func TestTracing_UnroutedRequest(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rr := httptest.NewRecorder()
	Tracing(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/plain", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}
