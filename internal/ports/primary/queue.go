// Package primary defines the driving ports: the operations transports and
// the CLI invoke on the application core.
package primary

import (
	"context"

	"github.com/example/queuebot/internal/core/queue"
)

// QueueService defines the primary port for queue operations.
// Every operation registers the caller before any other effect.
type QueueService interface {
	// Start registers the caller and reports whether they are an administrator.
	Start(ctx context.Context, caller Caller) (*Result, error)

	// Join enrolls the caller at the back of the queue.
	Join(ctx context.Context, caller Caller) (*Result, error)

	// Leave withdraws the caller from the queue.
	Leave(ctx context.Context, caller Caller) (*Result, error)

	// Position reports the caller's 1-based place in the queue.
	Position(ctx context.Context, caller Caller) (*Result, error)

	// List returns the queue in enrollment order. Participant IDs are only
	// populated for administrators.
	List(ctx context.Context, caller Caller) (*Result, error)

	// Clear empties the queue (administrators only).
	Clear(ctx context.Context, caller Caller) (*Result, error)

	// Remove withdraws another participant from the queue (administrators only).
	Remove(ctx context.Context, caller Caller, targetID int64) (*Result, error)

	// Dispatch routes a command to the handler for its action.
	Dispatch(ctx context.Context, cmd Command) (*Result, error)
}

// Caller identifies the participant issuing a command.
type Caller struct {
	ID          int64
	DisplayName string
}

// Command is an inbound request from a transport.
type Command struct {
	Action   queue.Action
	Caller   Caller
	TargetID int64 // only for ActionRemove
}

// Result is the outcome of a queue operation: a structured status plus the
// text a transport shows the caller.
type Result struct {
	Action   queue.Action
	Status   queue.Status
	Text     string
	IsAdmin  bool
	Position int           // Join, Position
	Entries  []*QueueEntry // List
	Removed  int           // Clear
}

// QueueEntry represents a queue entry at the port boundary.
type QueueEntry struct {
	Position      int
	ParticipantID int64 // zero unless the caller is an administrator
	DisplayName   string
}

// NotificationQueue is the port the notifier drives: it reads the next
// pending entry and acknowledges delivery.
type NotificationQueue interface {
	// NextToNotify returns the earliest entry not yet notified (nil if none).
	NextToNotify(ctx context.Context) (*PendingNotification, error)

	// MarkNotified records delivery. Returns false if the entry left the
	// queue in the meantime.
	MarkNotified(ctx context.Context, n PendingNotification) (bool, error)
}

// PendingNotification identifies one queue entry awaiting its notification.
type PendingNotification struct {
	ParticipantID int64
	Sequence      int64
	DisplayName   string
}
