package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/example/queuebot/internal/ports/secondary"
)

const queueColumns = "id, participant_id, display_name, notified, created_at"

// QueueRepository implements secondary.QueueRepository with SQLite.
// The AUTOINCREMENT row ID is the sequence number, so it is never reused
// even after rows are deleted.
type QueueRepository struct {
	db DBTX
}

// NewQueueRepository creates a new SQLite queue repository.
func NewQueueRepository(db DBTX) *QueueRepository {
	return &QueueRepository{db: db}
}

// Append stores a new entry and returns its sequence number.
func (r *QueueRepository) Append(ctx context.Context, participantID int64, displayName string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO queue (participant_id, display_name, notified) VALUES (?, ?, 0)",
		participantID, displayName,
	)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to enqueue participant %d", participantID)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read sequence number")
	}
	return seq, nil
}

// Remove deletes the participant's entry.
func (r *QueueRepository) Remove(ctx context.Context, participantID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM queue WHERE participant_id = ?", participantID)
	if err != nil {
		return false, errors.Wrapf(err, "failed to dequeue participant %d", participantID)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// Clear deletes all entries.
func (r *QueueRepository) Clear(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM queue")
	if err != nil {
		return 0, errors.Wrap(err, "failed to clear queue")
	}

	rowsAffected, _ := result.RowsAffected()
	return int(rowsAffected), nil
}

// GetByParticipant retrieves the participant's entry (nil if absent).
func (r *QueueRepository) GetByParticipant(ctx context.Context, participantID int64) (*secondary.QueueEntryRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+queueColumns+" FROM queue WHERE participant_id = ?",
		participantID,
	)

	record, err := scanQueueEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get queue entry")
	}
	return record, nil
}

// PositionOf counts the entries enrolled at or before the participant's entry.
// Gaps left by removed entries do not affect the result.
func (r *QueueRepository) PositionOf(ctx context.Context, participantID int64) (int, bool, error) {
	var position int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM queue
		WHERE id <= (SELECT id FROM queue WHERE participant_id = ?)`,
		participantID,
	).Scan(&position)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to compute queue position")
	}

	// The subquery yields NULL for absent participants, so nothing is counted.
	if position == 0 {
		return 0, false, nil
	}
	return position, true, nil
}

// ListOrdered retrieves all entries in sequence order.
func (r *QueueRepository) ListOrdered(ctx context.Context) ([]*secondary.QueueEntryRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+queueColumns+" FROM queue ORDER BY id ASC")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list queue")
	}
	defer rows.Close()

	var entries []*secondary.QueueEntryRecord
	for rows.Next() {
		record, err := scanQueueEntry(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan queue entry")
		}
		entries = append(entries, record)
	}

	return entries, errors.Wrap(rows.Err(), "failed to iterate queue")
}

// NextUnnotified retrieves the earliest entry not yet notified (nil if none).
func (r *QueueRepository) NextUnnotified(ctx context.Context) (*secondary.QueueEntryRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+queueColumns+" FROM queue WHERE notified = 0 ORDER BY id ASC LIMIT 1",
	)

	record, err := scanQueueEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find next entry to notify")
	}
	return record, nil
}

// MarkNotified sets notified on the entry if it still belongs to participantID.
func (r *QueueRepository) MarkNotified(ctx context.Context, participantID, sequence int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE queue SET notified = 1 WHERE id = ? AND participant_id = ?",
		sequence, participantID,
	)
	if err != nil {
		return false, errors.Wrapf(err, "failed to mark entry %d notified", sequence)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

func scanQueueEntry(row rowScanner) (*secondary.QueueEntryRecord, error) {
	var createdAt sql.NullTime

	record := &secondary.QueueEntryRecord{}
	if err := row.Scan(&record.Sequence, &record.ParticipantID, &record.DisplayName, &record.Notified, &createdAt); err != nil {
		return nil, err
	}

	record.CreatedAt = formatTime(createdAt)
	return record, nil
}

// Ensure QueueRepository implements the interface.
var _ secondary.QueueRepository = (*QueueRepository)(nil)
