// Package export renders queue snapshots as spreadsheet workbooks.
package export

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/queuebot/internal/ports/primary"
)

// Sheet names of the exported workbook.
const (
	ParticipantsSheet = "Participants"
	QueueSheet        = "Queue"
)

// FileName is the attachment name used when the workbook is sent to a chat.
const FileName = "queue.xlsx"

var (
	participantsHeader = []interface{}{"ID", "Name", "In queue", "Registered at"}
	queueHeader        = []interface{}{"Position", "Sequence", "Participant ID", "Name", "Notified", "Joined at"}
)

// XLSXWriter writes snapshots as an .xlsx workbook.
type XLSXWriter struct{}

// NewXLSXWriter creates a new XLSXWriter.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// WriteSnapshot writes a workbook with one sheet per table to w.
func (x *XLSXWriter) WriteSnapshot(w io.Writer, snapshot *primary.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ParticipantsSheet); err != nil {
		return errors.Wrap(err, "failed to name participants sheet")
	}
	if _, err := f.NewSheet(QueueSheet); err != nil {
		return errors.Wrap(err, "failed to create queue sheet")
	}

	if err := writeRow(f, ParticipantsSheet, 1, participantsHeader); err != nil {
		return err
	}
	for i, p := range snapshot.Participants {
		row := []interface{}{p.ID, p.DisplayName, yesNo(p.InQueue), p.CreatedAt}
		if err := writeRow(f, ParticipantsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, QueueSheet, 1, queueHeader); err != nil {
		return err
	}
	for i, e := range snapshot.Entries {
		row := []interface{}{e.Position, e.Sequence, e.ParticipantID, e.DisplayName, yesNo(e.Notified), e.CreatedAt}
		if err := writeRow(f, QueueSheet, i+2, row); err != nil {
			return err
		}
	}

	return errors.Wrap(f.Write(w), "failed to write workbook")
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrapf(err, "invalid row %d", row)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "failed to write %s row %d", sheet, row)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
