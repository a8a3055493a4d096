// Package notify defines the outbound notification port used to alert
// installers and owners about allocation, award and escrow events.
package notify

import "time"

// Notice is one message delivered to an installer.
type Notice struct {
	Kind    string    `json:"kind"`
	JobID   string    `json:"job_id"`
	Message string    `json:"message"`
	Amount  float64   `json:"amount,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// Notifier delivers notices to installers. Delivery is best-effort; the
// marketplace state machines never depend on it.
type Notifier interface {
	NotifyInstaller(installerID string, n Notice) error
	Close()
}

// NopNotifier discards all notices.
type NopNotifier struct{}

func (NopNotifier) NotifyInstaller(string, Notice) error { return nil }
func (NopNotifier) Close()                               {}
