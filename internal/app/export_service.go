package app

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/example/queuebot/internal/core/queue"
	"github.com/example/queuebot/internal/ports/primary"
)

// SnapshotSource provides a consistent copy of the registry and the queue.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*primary.Snapshot, error)
}

// SnapshotWriter renders a snapshot into a file format.
type SnapshotWriter interface {
	WriteSnapshot(w io.Writer, snapshot *primary.Snapshot) error
}

// ExportServiceImpl implements the ExportService interface.
type ExportServiceImpl struct {
	source SnapshotSource
	writer SnapshotWriter
	admins AdminChecker
	log    *logrus.Entry
}

// NewExportService creates a new ExportService with injected dependencies.
func NewExportService(source SnapshotSource, writer SnapshotWriter, admins AdminChecker, log *logrus.Entry) *ExportServiceImpl {
	return &ExportServiceImpl{
		source: source,
		writer: writer,
		admins: admins,
		log:    log.WithField("component", "export"),
	}
}

// Export writes the snapshot workbook to w for administrators.
func (s *ExportServiceImpl) Export(ctx context.Context, caller primary.Caller, w io.Writer) (queue.Status, error) {
	guard := queue.CanAdminister(queue.AdminContext{CallerID: caller.ID, IsAdmin: s.admins.IsAdmin(caller.ID)})
	if !guard.Allowed {
		return guard.Status, nil
	}

	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		s.log.WithError(err).WithField("caller_id", caller.ID).Error("snapshot failed")
		return "", err
	}

	if err := s.writer.WriteSnapshot(w, snapshot); err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"caller_id":    caller.ID,
		"participants": len(snapshot.Participants),
		"entries":      len(snapshot.Entries),
	}).Info("export written")
	return queue.StatusOK, nil
}

// Ensure ExportServiceImpl implements the interface.
var _ primary.ExportService = (*ExportServiceImpl)(nil)
