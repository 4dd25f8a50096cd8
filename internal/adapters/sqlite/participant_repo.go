package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/example/queuebot/internal/ports/secondary"
)

// ParticipantRepository implements secondary.ParticipantRepository with SQLite.
type ParticipantRepository struct {
	db DBTX
}

// NewParticipantRepository creates a new SQLite participant repository.
func NewParticipantRepository(db DBTX) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Register inserts the participant if unknown.
func (r *ParticipantRepository) Register(ctx context.Context, id int64, displayName string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO participants (id, display_name) VALUES (?, ?) ON CONFLICT(id) DO NOTHING",
		id, displayName,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to register participant %d", id)
	}
	return nil
}

// GetByID retrieves a participant by ID (nil if unknown).
func (r *ParticipantRepository) GetByID(ctx context.Context, id int64) (*secondary.ParticipantRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, display_name, in_queue, created_at, updated_at FROM participants WHERE id = ?",
		id,
	)

	record, err := scanParticipant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get participant")
	}
	return record, nil
}

// SetInQueue updates the cached membership flag. Unknown IDs are a no-op.
func (r *ParticipantRepository) SetInQueue(ctx context.Context, id int64, inQueue bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE participants SET in_queue = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		inQueue, id,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to update participant %d", id)
	}
	return nil
}

// ResetInQueue sets in_queue to false for every participant.
func (r *ParticipantRepository) ResetInQueue(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE participants SET in_queue = 0, updated_at = CURRENT_TIMESTAMP WHERE in_queue = 1",
	)
	if err != nil {
		return errors.Wrap(err, "failed to reset participants")
	}
	return nil
}

// List retrieves all participants ordered by ID.
func (r *ParticipantRepository) List(ctx context.Context) ([]*secondary.ParticipantRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, display_name, in_queue, created_at, updated_at FROM participants ORDER BY id ASC",
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list participants")
	}
	defer rows.Close()

	var participants []*secondary.ParticipantRecord
	for rows.Next() {
		record, err := scanParticipant(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan participant")
		}
		participants = append(participants, record)
	}

	return participants, errors.Wrap(rows.Err(), "failed to iterate participants")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row rowScanner) (*secondary.ParticipantRecord, error) {
	var (
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	record := &secondary.ParticipantRecord{}
	if err := row.Scan(&record.ID, &record.DisplayName, &record.InQueue, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)
	return record, nil
}

func formatTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(time.RFC3339)
}

// Ensure ParticipantRepository implements the interface.
var _ secondary.ParticipantRepository = (*ParticipantRepository)(nil)
