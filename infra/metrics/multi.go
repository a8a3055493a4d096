package metrics

import coremetrics "github.com/solgrid/fieldmatch/core/metrics"

// MultiSink fanouts marketplace records to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAllocation forwards the records to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordAllocation(recs []coremetrics.AllocationRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAllocation(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordAward forwards the award to sinks implementing AwardRecorder.
func (m *MultiSink) RecordAward(rec coremetrics.AwardRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.AwardRecorder); ok {
			if err := r.RecordAward(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordEscrow forwards the movement to sinks implementing EscrowRecorder.
func (m *MultiSink) RecordEscrow(rec coremetrics.EscrowRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.EscrowRecorder); ok {
			if err := r.RecordEscrow(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
