package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/example/queuebot/internal/core/queue"
	"github.com/example/queuebot/internal/ports/primary"
)

// Button labels.
const (
	labelJoin     = "➕ Join the queue"
	labelLeave    = "➖ Leave the queue"
	labelPosition = "🔍 My place"
	labelList     = "👀 Show the queue"
	labelClear    = "🧹 Clear the queue"
	labelExport   = "📄 Export to Excel"
)

// RemoveUsageText explains the admin-remove command syntax.
const RemoveUsageText = "Usage: /remove <participant id>"

// DisplayName returns the best-effort name of a chat user: the username,
// falling back to the first name.
func DisplayName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	if user.UserName != "" {
		return user.UserName
	}
	return user.FirstName
}

// CallerFromUser converts a chat user into a queue caller.
func CallerFromUser(user *tgbotapi.User) primary.Caller {
	if user == nil {
		return primary.Caller{}
	}
	return primary.Caller{ID: user.ID, DisplayName: DisplayName(user)}
}

// ParseMessage maps a text message to a command. ok is false for text that
// is not a known command; usage is set when a known command has bad
// arguments.
func ParseMessage(msg *tgbotapi.Message) (cmd primary.Command, ok bool, usage string) {
	if msg == nil || msg.From == nil || !msg.IsCommand() {
		return primary.Command{}, false, ""
	}

	cmd = primary.Command{
		Action: queue.ParseCommand(msg.Command()),
		Caller: CallerFromUser(msg.From),
	}
	if cmd.Action == queue.ActionUnknown {
		return primary.Command{}, false, ""
	}

	if cmd.Action == queue.ActionRemove {
		target, err := parseTargetID(msg.CommandArguments())
		if err != nil {
			return primary.Command{}, false, RemoveUsageText
		}
		cmd.TargetID = target
	}
	return cmd, true, ""
}

// ParseCallbackQuery maps a button press to a command.
func ParseCallbackQuery(cb *tgbotapi.CallbackQuery) (primary.Command, bool) {
	if cb == nil || cb.From == nil {
		return primary.Command{}, false
	}
	action := queue.ParseCallback(cb.Data)
	if action == queue.ActionUnknown {
		return primary.Command{}, false
	}
	return primary.Command{Action: action, Caller: CallerFromUser(cb.From)}, true
}

func parseTargetID(args string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// menu lists the buttons in display order.
var menu = []struct {
	label  string
	action queue.Action
}{
	{labelJoin, queue.ActionJoin},
	{labelLeave, queue.ActionLeave},
	{labelPosition, queue.ActionPosition},
	{labelList, queue.ActionList},
	{labelClear, queue.ActionClear},
	{labelExport, queue.ActionExport},
}

// Keyboard returns the inline menu, two buttons per row. Admin-only
// actions are shown to administrators alone.
func Keyboard(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for _, item := range menu {
		if item.action.AdminOnly() && !isAdmin {
			continue
		}
		buttons = append(buttons, button(item.label, item.action))
	}
	return tgbotapi.NewInlineKeyboardMarkup(lo.Chunk(buttons, 2)...)
}

func button(label string, action queue.Action) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, action.CallbackData())
}
