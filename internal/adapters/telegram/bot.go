// Package telegram is the chat transport: it turns bot updates into queue
// commands and renders the results back into the chat.
package telegram

import (
	"bytes"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/example/queuebot/internal/adapters/export"
	"github.com/example/queuebot/internal/core/queue"
	"github.com/example/queuebot/internal/ctxutil"
	"github.com/example/queuebot/internal/ports/primary"
	"github.com/example/queuebot/internal/ports/secondary"
)

// pollTimeout is the long-polling timeout in seconds.
const pollTimeout = 60

// API is the subset of *tgbotapi.BotAPI the transport uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Connect authenticates with the Bot API.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to the bot API")
	}
	return api, nil
}

// Bot serves queue commands over a chat.
type Bot struct {
	api    API
	queue  primary.QueueService
	export primary.ExportService
	log    *logrus.Entry
}

// NewBot creates a new Bot.
func NewBot(api API, queueService primary.QueueService, exportService primary.ExportService, log *logrus.Entry) *Bot {
	return &Bot{
		api:    api,
		queue:  queueService,
		export: exportService,
		log:    log.WithField("component", "telegram"),
	}
}

// Run polls for updates and handles them one at a time until ctx is
// cancelled. Returns nil on cancellation.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info("bot started")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("update channel closed")
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes a single update.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx = ctxutil.WithRequestID(ctx, uuid.NewString())

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// Notify sends a direct message to a participant.
func (b *Bot) Notify(ctx context.Context, participantID int64, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(participantID, text)); err != nil {
		return errors.Wrapf(err, "failed to message participant %d", participantID)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	cmd, ok, usage := ParseMessage(msg)
	if !ok {
		text := queue.UnknownCommandText
		if usage != "" {
			text = usage
		}
		b.logEvent(ctx, msg.From.ID, queue.ActionUnknown).Debug("unrecognized message")
		b.send(ctx, reply(msg, text))
		return
	}

	ctx = ctxutil.WithCallerID(ctx, cmd.Caller.ID)
	b.logEvent(ctx, cmd.Caller.ID, cmd.Action).Info("command received")

	if cmd.Action == queue.ActionExport {
		b.send(ctx, b.exportReply(ctx, msg.Chat.ID, cmd.Caller))
		return
	}

	res, err := b.queue.Dispatch(ctx, cmd)
	if err != nil {
		b.send(ctx, reply(msg, queue.FailureText))
		return
	}

	out := reply(msg, res.Text)
	if res.Action == queue.ActionStart {
		out.ReplyMarkup = Keyboard(res.IsAdmin)
	}
	b.send(ctx, out)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	cmd, ok := ParseCallbackQuery(cb)
	if !ok {
		b.answer(ctx, cb.ID, queue.UnknownCommandText)
		return
	}

	ctx = ctxutil.WithCallerID(ctx, cmd.Caller.ID)
	b.logEvent(ctx, cmd.Caller.ID, cmd.Action).Info("button pressed")

	chatID := cmd.Caller.ID
	if cb.Message != nil && cb.Message.Chat != nil {
		chatID = cb.Message.Chat.ID
	}

	if cmd.Action == queue.ActionExport {
		out := b.exportReply(ctx, chatID, cmd.Caller)
		if msg, isText := out.(tgbotapi.MessageConfig); isText {
			b.answer(ctx, cb.ID, msg.Text)
			return
		}
		b.answer(ctx, cb.ID, "")
		b.send(ctx, out)
		return
	}

	res, err := b.queue.Dispatch(ctx, cmd)
	if err != nil {
		b.answer(ctx, cb.ID, queue.FailureText)
		return
	}

	if postsToChat(res) {
		b.answer(ctx, cb.ID, "")
		b.send(ctx, tgbotapi.NewMessage(chatID, res.Text))
		return
	}
	b.answer(ctx, cb.ID, res.Text)
}

// exportReply builds the workbook document, or a text message explaining
// why there is none.
func (b *Bot) exportReply(ctx context.Context, chatID int64, caller primary.Caller) tgbotapi.Chattable {
	var buf bytes.Buffer
	status, err := b.export.Export(ctx, caller, &buf)
	switch {
	case err != nil:
		return tgbotapi.NewMessage(chatID, queue.FailureText)
	case status == queue.StatusForbidden:
		return tgbotapi.NewMessage(chatID, queue.ForbiddenText)
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: export.FileName, Bytes: buf.Bytes()})
	doc.Caption = "Queue export"
	return doc
}

// postsToChat reports whether a button result is shown as a chat message
// rather than a popup. Listings and completed admin actions go to the chat.
func postsToChat(res *primary.Result) bool {
	switch res.Action {
	case queue.ActionList:
		return true
	case queue.ActionClear, queue.ActionRemove:
		return res.Status == queue.StatusOK
	}
	return false
}

func reply(msg *tgbotapi.Message, text string) tgbotapi.MessageConfig {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	return out
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logEvent(ctx, ctxutil.CallerFromContext(ctx), queue.ActionUnknown).WithError(err).Warn("failed to send reply")
	}
}

func (b *Bot) answer(ctx context.Context, callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logEvent(ctx, ctxutil.CallerFromContext(ctx), queue.ActionUnknown).WithError(err).Warn("failed to answer callback")
	}
}

func (b *Bot) logEvent(ctx context.Context, callerID int64, action queue.Action) *logrus.Entry {
	return b.log.WithFields(logrus.Fields{
		"request_id": ctxutil.RequestFromContext(ctx),
		"caller_id":  callerID,
		"action":     action.String(),
	})
}

// Ensure Bot implements the outbound messaging port.
var _ secondary.Messenger = (*Bot)(nil)
