package secondary

//go:generate mockgen -destination=mocks/mock_messenger.go -package=mocks github.com/example/queuebot/internal/ports/secondary Messenger

import "context"

// Messenger delivers outbound messages to a participant over the chat transport.
type Messenger interface {
	// Notify sends text to the participant's chat.
	Notify(ctx context.Context, participantID int64, text string) error
}
