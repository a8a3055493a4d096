package audit

import (
	"encoding/json"
	"net/http"
	"time"

	coreaudit "github.com/solgrid/fieldmatch/core/audit"
)

// NewTrailHandler returns an HTTP handler exposing the audit trail via GET /api/audit/trail.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
func NewTrailHandler(store coreaudit.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q := coreaudit.Query{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		q.JobID = r.URL.Query().Get("job_id")
		q.Action = coreaudit.Action(r.URL.Query().Get("action"))
		entries, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
