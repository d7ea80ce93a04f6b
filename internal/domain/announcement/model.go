package announcement

import (
	"time"

	"github.com/yanqian/announcement-relay/internal/domain/notifier"
	"github.com/yanqian/announcement-relay/pkg/metrics"
)

// Origins of the announcement text.
const (
	OriginRequest  = "request"
	OriginSample   = "sample"
	OriginScreener = "screener"
)

// Config shapes the outbound message and duplicate handling.
type Config struct {
	Footer           string
	MaxMessageLength int
	DedupEnabled     bool
	DedupTTL         time.Duration
	// ReserveTTL bounds how long an in-flight run holds a listing.
	ReserveTTL time.Duration
}

// Listing is one announcement as published on the listing page.
type Listing struct {
	Company     string `json:"company"`
	CompanyURL  string `json:"companyUrl,omitempty"`
	DocumentURL string `json:"documentUrl,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Request is the POST /process payload.
type Request struct {
	Text          string `json:"text"`
	Company       string `json:"company"`
	UseSampleData bool   `json:"use_sample_data"`
}

// Response summarizes one run.
type Response struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message"`
	Details      string              `json:"details,omitempty"`
	RunID        string              `json:"runId"`
	Origin       string              `json:"origin"`
	Company      string              `json:"company,omitempty"`
	DocumentURL  string              `json:"documentUrl,omitempty"`
	Summary      string              `json:"summary,omitempty"`
	Skipped      bool                `json:"skipped,omitempty"`
	ManualReview bool                `json:"manualReview,omitempty"`
	Sent         int                 `json:"sent"`
	Failed       int                 `json:"failed"`
	Deliveries   []notifier.Delivery `json:"deliveries"`
	TokenUsage   *metrics.TokenUsage `json:"tokenUsage,omitempty"`
	DurationMs   int64               `json:"durationMs"`
}
