package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenAndSetAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token123","token_type":"bearer","expires_in":3600}`))
	}))
	defer server.Close()

	client := NewClientCred(Conf{ClientID: "id", ClientSecret: "secret", TokenURL: server.URL})

	token, err := client.Token(context.Background())
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token != "token123" {
		t.Fatalf("unexpected token %s", token)
	}

	req, _ := http.NewRequest("GET", "http://example.com", nil)
	if err := client.SetAuthHeader(req); err != nil {
		t.Fatalf("SetAuthHeader returned error: %v", err)
	}
	if auth := req.Header.Get("Authorization"); auth != "Bearer token123" {
		t.Fatalf("Authorization header not set: %q", auth)
	}
}

func TestTokenEndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClientCred(Conf{ClientID: "id", ClientSecret: "secret", TokenURL: server.URL})
	if _, err := client.Token(context.Background()); err == nil {
		t.Fatalf("expected token error")
	}
}
