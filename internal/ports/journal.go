package ports

import (
	"context"
	"time"

	"mt5gateway/internal/domain"
)

// JournalEntry is one submitted order and the terminal's answer.
type JournalEntry struct {
	InvocationID string
	Login        int64
	Server       string
	Request      domain.OrderRequest
	Result       *domain.OrderResult // nil when the terminal returned nothing
	SubmittedAt  time.Time
}

// OrderJournal records submitted orders. The gateway only appends; it never
// reads the journal back.
type OrderJournal interface {
	// Record appends an entry and returns its assigned ID.
	Record(ctx context.Context, entry *JournalEntry) (int64, error)
	// Close releases the journal's resources.
	Close() error
}
