package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/example/queuebot/internal/core/queue"
	"github.com/example/queuebot/internal/ctxutil"
	"github.com/example/queuebot/internal/ports/primary"
	"github.com/example/queuebot/internal/ports/secondary"
)

// AdminChecker reports whether a participant is an administrator.
type AdminChecker interface {
	IsAdmin(id int64) bool
}

// QueueServiceImpl implements the QueueService and NotificationQueue interfaces.
//
// mu serializes every mutation of the participant registry and the queue,
// including the notifier's acknowledgement. Reads take the shared side.
// Registry and queue changes belonging to one command share a transaction.
type QueueServiceImpl struct {
	mu     sync.RWMutex
	store  secondary.Store
	admins AdminChecker
	log    *logrus.Entry
}

// NewQueueService creates a new QueueService with injected dependencies.
func NewQueueService(store secondary.Store, admins AdminChecker, log *logrus.Entry) *QueueServiceImpl {
	return &QueueServiceImpl{
		store:  store,
		admins: admins,
		log:    log.WithField("component", "queue"),
	}
}

// Dispatch routes a command to the handler for its action.
func (s *QueueServiceImpl) Dispatch(ctx context.Context, cmd primary.Command) (*primary.Result, error) {
	switch cmd.Action {
	case queue.ActionStart:
		return s.Start(ctx, cmd.Caller)
	case queue.ActionJoin:
		return s.Join(ctx, cmd.Caller)
	case queue.ActionLeave:
		return s.Leave(ctx, cmd.Caller)
	case queue.ActionPosition:
		return s.Position(ctx, cmd.Caller)
	case queue.ActionList:
		return s.List(ctx, cmd.Caller)
	case queue.ActionClear:
		return s.Clear(ctx, cmd.Caller)
	case queue.ActionRemove:
		return s.Remove(ctx, cmd.Caller, cmd.TargetID)
	default:
		return nil, fmt.Errorf("action %s is not handled by the queue service", cmd.Action)
	}
}

// Start registers the caller and greets them according to their role.
func (s *QueueServiceImpl) Start(ctx context.Context, caller primary.Caller) (*primary.Result, error) {
	if err := s.ensureRegistered(ctx, caller); err != nil {
		return nil, s.storageFailure(ctx, queue.ActionStart, caller, err)
	}

	result := s.newResult(queue.ActionStart, caller)
	result.Text = queue.GreetingUser
	if result.IsAdmin {
		result.Text = queue.GreetingAdmin
	}
	return result, nil
}

// Join enrolls the caller at the back of the queue.
func (s *QueueServiceImpl) Join(ctx context.Context, caller primary.Caller) (*primary.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.newResult(queue.ActionJoin, caller)
	err := s.store.WithinTx(ctx, func(tx secondary.Store) error {
		if err := tx.Participants().Register(ctx, caller.ID, caller.DisplayName); err != nil {
			return err
		}

		entry, err := tx.Queue().GetByParticipant(ctx, caller.ID)
		if err != nil {
			return err
		}

		guard := queue.CanJoin(queue.MembershipContext{ParticipantID: caller.ID, Enrolled: entry != nil})
		if !guard.Allowed {
			result.Status = guard.Status
			result.Text = queue.AlreadyInQueueText
			return nil
		}

		if _, err := tx.Queue().Append(ctx, caller.ID, caller.DisplayName); err != nil {
			return err
		}
		if err := tx.Participants().SetInQueue(ctx, caller.ID, true); err != nil {
			return err
		}

		position, _, err := tx.Queue().PositionOf(ctx, caller.ID)
		if err != nil {
			return err
		}
		result.Position = position
		result.Text = queue.JoinedText(position)
		return nil
	})
	if err != nil {
		return nil, s.storageFailure(ctx, queue.ActionJoin, caller, err)
	}

	s.logResult(ctx, caller, result)
	return result, nil
}

// Leave withdraws the caller from the queue.
func (s *QueueServiceImpl) Leave(ctx context.Context, caller primary.Caller) (*primary.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.newResult(queue.ActionLeave, caller)
	err := s.store.WithinTx(ctx, func(tx secondary.Store) error {
		if err := tx.Participants().Register(ctx, caller.ID, caller.DisplayName); err != nil {
			return err
		}

		removed, err := tx.Queue().Remove(ctx, caller.ID)
		if err != nil {
			return err
		}

		guard := queue.CanLeave(queue.MembershipContext{ParticipantID: caller.ID, Enrolled: removed})
		if !guard.Allowed {
			result.Status = guard.Status
			result.Text = queue.NotInQueueText
			return nil
		}

		if err := tx.Participants().SetInQueue(ctx, caller.ID, false); err != nil {
			return err
		}
		result.Text = queue.LeftText
		return nil
	})
	if err != nil {
		return nil, s.storageFailure(ctx, queue.ActionLeave, caller, err)
	}

	s.logResult(ctx, caller, result)
	return result, nil
}

// Position reports the caller's place in the queue.
func (s *QueueServiceImpl) Position(ctx context.Context, caller primary.Caller) (*primary.Result, error) {
	if err := s.ensureRegistered(ctx, caller); err != nil {
		return nil, s.storageFailure(ctx, queue.ActionPosition, caller, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	position, ok, err := s.store.Queue().PositionOf(ctx, caller.ID)
	if err != nil {
		return nil, s.storageFailure(ctx, queue.ActionPosition, caller, err)
	}

	result := s.newResult(queue.ActionPosition, caller)
	if !ok {
		result.Status = queue.StatusAbsent
		result.Text = queue.NotInQueueText
		return result, nil
	}
	result.Position = position
	result.Text = queue.PositionText(position)
	return result, nil
}

// List returns the queue in enrollment order.
func (s *QueueServiceImpl) List(ctx context.Context, caller primary.Caller) (*primary.Result, error) {
	if err := s.ensureRegistered(ctx, caller); err != nil {
		return nil, s.storageFailure(ctx, queue.ActionList, caller, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.store.Queue().ListOrdered(ctx)
	if err != nil {
		return nil, s.storageFailure(ctx, queue.ActionList, caller, err)
	}

	result := s.newResult(queue.ActionList, caller)
	result.Entries = lo.Map(records, func(r *secondary.QueueEntryRecord, i int) *primary.QueueEntry {
		entry := &primary.QueueEntry{Position: i + 1, DisplayName: r.DisplayName}
		if result.IsAdmin {
			entry.ParticipantID = r.ParticipantID
		}
		return entry
	})

	listed := lo.Map(records, func(r *secondary.QueueEntryRecord, i int) queue.ListedEntry {
		return queue.ListedEntry{Position: i + 1, ParticipantID: r.ParticipantID, DisplayName: r.DisplayName}
	})
	result.Text = queue.RenderList(listed, result.IsAdmin)
	return result, nil
}

// Clear empties the queue and resets every participant's membership flag.
func (s *QueueServiceImpl) Clear(ctx context.Context, caller primary.Caller) (*primary.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.newResult(queue.ActionClear, caller)
	err := s.store.WithinTx(ctx, func(tx secondary.Store) error {
		if err := tx.Participants().Register(ctx, caller.ID, caller.DisplayName); err != nil {
			return err
		}

		guard := queue.CanAdminister(queue.AdminContext{CallerID: caller.ID, IsAdmin: result.IsAdmin})
		if !guard.Allowed {
			result.Status = guard.Status
			result.Text = queue.ForbiddenText
			return nil
		}

		removed, err := tx.Queue().Clear(ctx)
		if err != nil {
			return err
		}
		if err := tx.Participants().ResetInQueue(ctx); err != nil {
			return err
		}
		result.Removed = removed
		result.Text = queue.ClearedText
		return nil
	})
	if err != nil {
		return nil, s.storageFailure(ctx, queue.ActionClear, caller, err)
	}

	s.logResult(ctx, caller, result)
	return result, nil
}

// Remove withdraws targetID from the queue on an administrator's behalf.
func (s *QueueServiceImpl) Remove(ctx context.Context, caller primary.Caller, targetID int64) (*primary.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.newResult(queue.ActionRemove, caller)
	err := s.store.WithinTx(ctx, func(tx secondary.Store) error {
		if err := tx.Participants().Register(ctx, caller.ID, caller.DisplayName); err != nil {
			return err
		}

		entry, err := tx.Queue().GetByParticipant(ctx, targetID)
		if err != nil {
			return err
		}

		guard := queue.CanRemove(queue.RemoveContext{
			CallerID:       caller.ID,
			IsAdmin:        result.IsAdmin,
			TargetID:       targetID,
			TargetEnrolled: entry != nil,
		})
		if !guard.Allowed {
			result.Status = guard.Status
			result.Text = queue.ForbiddenText
			if guard.Status == queue.StatusAbsent {
				result.Text = queue.TargetAbsentText(targetID)
			}
			return nil
		}

		if _, err := tx.Queue().Remove(ctx, targetID); err != nil {
			return err
		}
		if err := tx.Participants().SetInQueue(ctx, targetID, false); err != nil {
			return err
		}
		result.Text = queue.RemovedText(targetID)
		return nil
	})
	if err != nil {
		return nil, s.storageFailure(ctx, queue.ActionRemove, caller, err)
	}

	s.logResult(ctx, caller, result)
	return result, nil
}

// NextToNotify returns the earliest entry not yet notified (nil if none).
func (s *QueueServiceImpl) NextToNotify(ctx context.Context) (*primary.PendingNotification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, err := s.store.Queue().NextUnnotified(ctx)
	if err != nil {
		return nil, &StorageError{Action: queue.ActionUnknown, Err: err}
	}
	if record == nil {
		return nil, nil
	}
	return &primary.PendingNotification{
		ParticipantID: record.ParticipantID,
		Sequence:      record.Sequence,
		DisplayName:   record.DisplayName,
	}, nil
}

// MarkNotified records that the entry's notification was delivered.
func (s *QueueServiceImpl) MarkNotified(ctx context.Context, n primary.PendingNotification) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	marked, err := s.store.Queue().MarkNotified(ctx, n.ParticipantID, n.Sequence)
	if err != nil {
		return false, &StorageError{Action: queue.ActionUnknown, Err: err}
	}
	return marked, nil
}

// Snapshot copies both tables inside one read transaction.
func (s *QueueServiceImpl) Snapshot(ctx context.Context) (*primary.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := &primary.Snapshot{}
	err := s.store.WithinTx(ctx, func(tx secondary.Store) error {
		participants, err := tx.Participants().List(ctx)
		if err != nil {
			return err
		}
		entries, err := tx.Queue().ListOrdered(ctx)
		if err != nil {
			return err
		}

		snapshot.Participants = lo.Map(participants, func(p *secondary.ParticipantRecord, _ int) primary.SnapshotParticipant {
			return primary.SnapshotParticipant{
				ID:          p.ID,
				DisplayName: p.DisplayName,
				InQueue:     p.InQueue,
				CreatedAt:   p.CreatedAt,
			}
		})
		snapshot.Entries = lo.Map(entries, func(e *secondary.QueueEntryRecord, i int) primary.SnapshotEntry {
			return primary.SnapshotEntry{
				Position:      i + 1,
				Sequence:      e.Sequence,
				ParticipantID: e.ParticipantID,
				DisplayName:   e.DisplayName,
				Notified:      e.Notified,
				CreatedAt:     e.CreatedAt,
			}
		})
		return nil
	})
	if err != nil {
		return nil, &StorageError{Action: queue.ActionExport, Err: err}
	}
	return snapshot, nil
}

// Helper methods

// ensureRegistered registers unknown callers. Known callers only cost a read.
func (s *QueueServiceImpl) ensureRegistered(ctx context.Context, caller primary.Caller) error {
	s.mu.RLock()
	existing, err := s.store.Participants().GetByID(ctx, caller.ID)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Participants().Register(ctx, caller.ID, caller.DisplayName)
}

func (s *QueueServiceImpl) newResult(action queue.Action, caller primary.Caller) *primary.Result {
	return &primary.Result{
		Action:  action,
		Status:  queue.StatusOK,
		IsAdmin: s.admins.IsAdmin(caller.ID),
	}
}

func (s *QueueServiceImpl) entry(ctx context.Context, action queue.Action, caller primary.Caller) *logrus.Entry {
	return s.log.WithFields(logrus.Fields{
		"request_id": ctxutil.RequestFromContext(ctx),
		"caller_id":  caller.ID,
		"action":     action.String(),
	})
}

func (s *QueueServiceImpl) logResult(ctx context.Context, caller primary.Caller, result *primary.Result) {
	s.entry(ctx, result.Action, caller).WithField("status", result.Status).Debug("queue command handled")
}

func (s *QueueServiceImpl) storageFailure(ctx context.Context, action queue.Action, caller primary.Caller, err error) error {
	s.entry(ctx, action, caller).WithError(err).Error("storage failure")
	return &StorageError{Action: action, Err: err}
}

// Ensure QueueServiceImpl implements the interfaces.
var (
	_ primary.QueueService      = (*QueueServiceImpl)(nil)
	_ primary.NotificationQueue = (*QueueServiceImpl)(nil)
)
