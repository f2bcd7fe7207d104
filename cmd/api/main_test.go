package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fkhayef/giftexchange/internal/config"
)

func TestCORSNeverAllowsCredentials(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name    string
		origins []string
		origin  string
		allowed string
	}{
		{"wildcard", []string{"*"}, "https://evil.example", "*"},
		{"explicit match", []string{"https://app.example"}, "https://app.example", "https://app.example"},
		{"explicit mismatch", []string{"https://app.example"}, "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCORS(&config.Config{AllowedOrigins: tt.origins}).Handler(next)

			req := httptest.NewRequest(http.MethodOptions, "/api/v1/exchanges", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.allowed, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}
