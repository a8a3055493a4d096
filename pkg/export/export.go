// Package export serializes audit trail entries for external reporting.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"time"

	"github.com/solgrid/fieldmatch/core/audit"
)

// WriteJSON writes the audit entries to w in JSON format.
func WriteJSON(w io.Writer, entries []audit.Entry) error {
	enc := json.NewEncoder(w)
	return enc.Encode(entries)
}

// WriteCSV writes the audit entries to w in CSV format.
func WriteCSV(w io.Writer, entries []audit.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "timestamp", "actor", "action", "job_id", "payment_id"}); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.ID,
			e.Timestamp.Format(time.RFC3339),
			e.Actor,
			string(e.Action),
			e.JobID,
			e.PaymentID,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
