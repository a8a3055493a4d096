package audit

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	coreaudit "github.com/solgrid/fieldmatch/core/audit"
)

func seedStore(t *testing.T) *coreaudit.MemoryStore {
	t.Helper()
	store := coreaudit.NewMemoryStore()
	entries := []coreaudit.Entry{
		{ID: "1", Timestamp: time.Now().UTC(), Actor: "admin", Action: coreaudit.ActionAllocated, JobID: "job-1"},
		{ID: "2", Timestamp: time.Now().UTC(), Actor: "system", Action: coreaudit.ActionEscrowCaptured, JobID: "job-2", PaymentID: "pay-1"},
	}
	for _, e := range entries {
		if err := store.Append(context.Background(), e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return store
}

func TestTrailHandlerFiltersByJob(t *testing.T) {
	h := NewTrailHandler(seedStore(t), "")
	req := httptest.NewRequest("GET", "/api/audit/trail?job_id=job-1", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status %d", rr.Code)
	}
	var got []coreaudit.Entry
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].JobID != "job-1" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestTrailHandlerAuth(t *testing.T) {
	h := NewTrailHandler(seedStore(t), "secret")

	req := httptest.NewRequest("GET", "/api/audit/trail", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 401 {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	req = httptest.NewRequest("GET", "/api/audit/trail", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
