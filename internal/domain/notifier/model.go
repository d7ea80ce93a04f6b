package notifier

import "time"

// Delivery statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Config holds the immutable recipient list and pacing.
type Config struct {
	Recipients []string
	Delay      time.Duration
}

// Delivery is the outcome for one recipient.
type Delivery struct {
	Recipient string `json:"recipient"`
	Status    string `json:"status"`
	SID       string `json:"sid,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Report aggregates a fan-out.
type Report struct {
	Deliveries []Delivery `json:"deliveries"`
	Sent       int        `json:"sent"`
	Failed     int        `json:"failed"`
}
