package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "allowed origin", allowed: []string{"https://app.example.com/"}, method: http.MethodGet, origin: "https://app.example.com", wantStatus: http.StatusOK, wantOrigin: "https://app.example.com"},
		{name: "other origin", allowed: []string{"https://app.example.com"}, method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusOK},
		{name: "preflight", allowed: []string{"https://app.example.com"}, method: http.MethodOptions, origin: "https://app.example.com", wantStatus: http.StatusNoContent, wantOrigin: "https://app.example.com"},
		{name: "wildcard echoes origin", allowed: []string{"*"}, method: http.MethodGet, origin: "http://localhost:5173", wantStatus: http.StatusOK, wantOrigin: "http://localhost:5173"},
		{name: "no origin header", allowed: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/invitations/tok", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			CORS(tt.allowed, next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
