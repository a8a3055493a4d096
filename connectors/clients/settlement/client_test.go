package settlement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCapture(t *testing.T) {
	var gotPath string
	var gotBody movementRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ref":          "set-42",
			"processed_at": time.Now().UTC(),
		})
	}))
	defer server.Close()

	cli, err := New(server.URL, nil, WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	receipt, err := cli.Capture(context.Background(), "pay-1", 96000)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if receipt.Ref != "set-42" {
		t.Fatalf("unexpected ref %s", receipt.Ref)
	}
	if gotPath != "/payments/capture" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotBody.PaymentID != "pay-1" || gotBody.Amount != 96000 {
		t.Fatalf("unexpected body %+v", gotBody)
	}
}

func TestReleaseErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient funds", http.StatusConflict)
	}))
	defer server.Close()

	cli, err := New(server.URL, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := cli.Release(context.Background(), "pay-1", 500); err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}
