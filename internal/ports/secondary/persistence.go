// Package secondary defines the driven ports (persistence, outbound messaging)
// the application core depends on.
package secondary

import "context"

// ParticipantRecord represents a participant as stored in persistence.
type ParticipantRecord struct {
	ID          int64
	DisplayName string
	InQueue     bool
	CreatedAt   string
	UpdatedAt   string
}

// ParticipantRepository defines the secondary port for the participant registry.
type ParticipantRepository interface {
	// Register inserts the participant if unknown. Known participants are left untouched.
	Register(ctx context.Context, id int64, displayName string) error

	// GetByID retrieves a participant (nil if unknown).
	GetByID(ctx context.Context, id int64) (*ParticipantRecord, error)

	// SetInQueue updates the cached membership flag. Unknown IDs are a no-op.
	SetInQueue(ctx context.Context, id int64, inQueue bool) error

	// ResetInQueue sets in_queue to false for every participant.
	ResetInQueue(ctx context.Context) error

	// List retrieves all participants ordered by ID.
	List(ctx context.Context) ([]*ParticipantRecord, error)
}

// QueueEntryRecord represents a queue entry as stored in persistence.
// Sequence is the auto-incremented row ID and defines enrollment order.
type QueueEntryRecord struct {
	Sequence      int64
	ParticipantID int64
	DisplayName   string
	Notified      bool
	CreatedAt     string
}

// QueueRepository defines the secondary port for the ordered queue store.
type QueueRepository interface {
	// Append stores a new entry with notified = false and returns its sequence number.
	Append(ctx context.Context, participantID int64, displayName string) (int64, error)

	// Remove deletes the participant's entry. Returns whether a row was removed.
	Remove(ctx context.Context, participantID int64) (bool, error)

	// Clear deletes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// GetByParticipant retrieves the participant's entry (nil if absent).
	GetByParticipant(ctx context.Context, participantID int64) (*QueueEntryRecord, error)

	// PositionOf returns the 1-based rank of the participant's entry.
	// ok is false when the participant has no entry.
	PositionOf(ctx context.Context, participantID int64) (position int, ok bool, err error)

	// ListOrdered retrieves all entries in sequence order.
	ListOrdered(ctx context.Context) ([]*QueueEntryRecord, error)

	// NextUnnotified retrieves the earliest entry with notified = false (nil if none).
	NextUnnotified(ctx context.Context) (*QueueEntryRecord, error)

	// MarkNotified sets notified = true on the entry with the given sequence
	// number if it still belongs to participantID. Returns whether a row changed.
	MarkNotified(ctx context.Context, participantID, sequence int64) (bool, error)
}

// Store groups the repositories that must change together.
type Store interface {
	Participants() ParticipantRepository
	Queue() QueueRepository

	// WithinTx runs fn against repositories bound to a single transaction.
	// The transaction commits if fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
