package announcement

import (
	"context"
	"errors"
	"time"
)

// ErrNoDocumentText marks a document that downloaded fine but has no text
// layer, typically a scanned filing.
var ErrNoDocumentText = errors.New("document has no extractable text")

// Source yields the newest listing and the text of its document.
type Source interface {
	Latest(ctx context.Context) (Listing, error)
	DocumentText(ctx context.Context, listing Listing) (string, error)
}

// LiveSource reads announcements from the network.
type LiveSource interface{ Source }

// SampleSource serves a fixed snapshot for dry runs.
type SampleSource interface{ Source }

// DedupStore remembers which announcements were already delivered.
type DedupStore interface {
	// Reserve atomically claims key for ttl. It reports false when the key
	// is already reserved or marked sent.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// MarkSent records a delivered key for ttl, replacing any reservation.
	MarkSent(ctx context.Context, key string, ttl time.Duration) error
	// Release drops a reservation that did not lead to a delivery.
	Release(ctx context.Context, key string) error
}
