// Package cli renders queue operations for the operator command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/example/queuebot/internal/core/queue"
	"github.com/example/queuebot/internal/ports/primary"
)

// QueueAdapter is a thin adapter that translates CLI operations to QueueService calls.
// It depends only on the service interfaces, enabling easy testing with mocks.
type QueueAdapter struct {
	service primary.QueueService
	export  primary.ExportService
	out     io.Writer
}

// NewQueueAdapter creates a new QueueAdapter with the given services.
func NewQueueAdapter(service primary.QueueService, export primary.ExportService, out io.Writer) *QueueAdapter {
	return &QueueAdapter{
		service: service,
		export:  export,
		out:     out,
	}
}

// List prints the queue as a table. Administrators also see participant IDs.
func (a *QueueAdapter) List(ctx context.Context, caller primary.Caller) (*primary.Result, error) {
	res, err := a.service.List(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}

	if len(res.Entries) == 0 {
		fmt.Fprintln(a.out, queue.EmptyQueueText)
		return res, nil
	}

	header := []string{"#", "Name"}
	if res.IsAdmin {
		header = append(header, "ID")
	}

	table := newTable(a.out, header)
	for _, e := range res.Entries {
		row := []string{strconv.Itoa(e.Position), displayName(e.DisplayName)}
		if res.IsAdmin {
			row = append(row, strconv.FormatInt(e.ParticipantID, 10))
		}
		table.Append(row)
	}
	table.Render()

	fmt.Fprintf(a.out, "\n%d waiting\n", len(res.Entries))
	return res, nil
}

// Position prints the caller's place in the queue.
func (a *QueueAdapter) Position(ctx context.Context, caller primary.Caller) (*primary.Result, error) {
	res, err := a.service.Position(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	a.printResult(res)
	return res, nil
}

// Clear empties the queue.
func (a *QueueAdapter) Clear(ctx context.Context, caller primary.Caller) (*primary.Result, error) {
	res, err := a.service.Clear(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("failed to clear queue: %w", err)
	}
	a.printResult(res)
	if res.Status == queue.StatusOK {
		fmt.Fprintf(a.out, "  %d entries removed\n", res.Removed)
	}
	return res, nil
}

// Remove withdraws a participant from the queue.
func (a *QueueAdapter) Remove(ctx context.Context, caller primary.Caller, targetID int64) (*primary.Result, error) {
	res, err := a.service.Remove(ctx, caller, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove participant %d: %w", targetID, err)
	}
	a.printResult(res)
	return res, nil
}

// Export writes the workbook to w and reports where it went.
func (a *QueueAdapter) Export(ctx context.Context, caller primary.Caller, w io.Writer, path string) (queue.Status, error) {
	status, err := a.export.Export(ctx, caller, w)
	if err != nil {
		return "", fmt.Errorf("failed to export queue: %w", err)
	}
	if status == queue.StatusForbidden {
		fmt.Fprintf(a.out, "%s %s\n", marker(status), queue.ForbiddenText)
		return status, nil
	}
	fmt.Fprintf(a.out, "%s Exported queue to %s\n", marker(status), path)
	return status, nil
}

func (a *QueueAdapter) printResult(res *primary.Result) {
	fmt.Fprintf(a.out, "%s %s\n", marker(res.Status), res.Text)
}

// marker returns a colored status icon.
func marker(status queue.Status) string {
	switch status {
	case queue.StatusOK:
		return color.New(color.FgGreen).Sprint("✓")
	case queue.StatusForbidden:
		return color.New(color.FgRed).Sprint("✗")
	default:
		return color.New(color.FgYellow).Sprint("!")
	}
}

func newTable(out io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func displayName(name string) string {
	if name == "" {
		return "Unknown user"
	}
	return name
}
