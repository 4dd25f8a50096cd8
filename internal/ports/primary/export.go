package primary

import (
	"context"
	"io"

	"github.com/example/queuebot/internal/core/queue"
)

// ExportService defines the primary port for spreadsheet export.
type ExportService interface {
	// Export writes a workbook of both tables to w (administrators only).
	// A forbidden caller gets StatusForbidden and nothing is written.
	Export(ctx context.Context, caller Caller, w io.Writer) (queue.Status, error)
}

// Snapshot is a consistent copy of the registry and the queue.
type Snapshot struct {
	Participants []SnapshotParticipant
	Entries      []SnapshotEntry
}

// SnapshotParticipant is a participant row in a snapshot.
type SnapshotParticipant struct {
	ID          int64
	DisplayName string
	InQueue     bool
	CreatedAt   string
}

// SnapshotEntry is a queue row in a snapshot.
type SnapshotEntry struct {
	Position      int
	Sequence      int64
	ParticipantID int64
	DisplayName   string
	Notified      bool
	CreatedAt     string
}
