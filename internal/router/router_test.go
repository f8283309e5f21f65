package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"megamart/internal/catalog"
	"megamart/internal/handlers"
	"megamart/internal/store"
)

func testRouter() http.Handler {
	svc := catalog.NewService(store.NewMemory())
	return New(handlers.NewAPI(svc, nil))
}

func TestRoutes(t *testing.T) {
	h := testRouter()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/sales", http.StatusBadRequest},            // missing date
		{http.MethodGet, "/nodes/not-a-uuid", http.StatusBadRequest}, // reaches the handler
		{http.MethodGet, "/unknown", http.StatusNotFound},
		{http.MethodGet, "/imports", http.StatusMethodNotAllowed},
		{http.MethodPost, "/sales", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	h := testRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}
