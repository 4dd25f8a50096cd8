package telegram

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/example/queuebot/internal/core/queue"
)

// commandMessage builds a message whose first word is a bot command.
func commandMessage(from *tgbotapi.User, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		MessageID: 42,
		From:      from,
		Chat:      &tgbotapi.Chat{ID: from.ID},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		length := len(text)
		if i := strings.IndexByte(text, ' '); i >= 0 {
			length = i
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	}
	return msg
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *tgbotapi.User
		want string
	}{
		{name: "username preferred", user: &tgbotapi.User{ID: 1, UserName: "alice", FirstName: "Alice"}, want: "alice"},
		{name: "first name fallback", user: &tgbotapi.User{ID: 1, FirstName: "Alice"}, want: "Alice"},
		{name: "no name", user: &tgbotapi.User{ID: 1}, want: ""},
		{name: "nil user", user: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.user))
		})
	}
}

func TestParseMessage(t *testing.T) {
	user := &tgbotapi.User{ID: 7, UserName: "alice"}

	tests := []struct {
		text       string
		wantOK     bool
		wantAction queue.Action
		wantTarget int64
		wantUsage  string
	}{
		{text: "/start", wantOK: true, wantAction: queue.ActionStart},
		{text: "/join", wantOK: true, wantAction: queue.ActionJoin},
		{text: "/leave", wantOK: true, wantAction: queue.ActionLeave},
		{text: "/position", wantOK: true, wantAction: queue.ActionPosition},
		{text: "/list", wantOK: true, wantAction: queue.ActionList},
		{text: "/clear", wantOK: true, wantAction: queue.ActionClear},
		{text: "/export", wantOK: true, wantAction: queue.ActionExport},
		{text: "/start@queue_bot", wantOK: true, wantAction: queue.ActionStart},
		{text: "/remove 12345", wantOK: true, wantAction: queue.ActionRemove, wantTarget: 12345},
		{text: "/remove", wantOK: false, wantUsage: RemoveUsageText},
		{text: "/remove bob", wantOK: false, wantUsage: RemoveUsageText},
		{text: "/remove -3", wantOK: false, wantUsage: RemoveUsageText},
		{text: "/dance", wantOK: false},
		{text: "hello there", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd, ok, usage := ParseMessage(commandMessage(user, tt.text))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantUsage, usage)
			if tt.wantOK {
				assert.Equal(t, tt.wantAction, cmd.Action)
				assert.Equal(t, tt.wantTarget, cmd.TargetID)
				assert.Equal(t, int64(7), cmd.Caller.ID)
				assert.Equal(t, "alice", cmd.Caller.DisplayName)
			}
		})
	}
}

func TestParseCallbackQuery(t *testing.T) {
	user := &tgbotapi.User{ID: 7, FirstName: "Bob"}

	cmd, ok := ParseCallbackQuery(&tgbotapi.CallbackQuery{ID: "1", From: user, Data: "add_to_queue"})
	assert.True(t, ok)
	assert.Equal(t, queue.ActionJoin, cmd.Action)
	assert.Equal(t, "Bob", cmd.Caller.DisplayName)

	_, ok = ParseCallbackQuery(&tgbotapi.CallbackQuery{ID: "2", From: user, Data: "something_else"})
	assert.False(t, ok)

	_, ok = ParseCallbackQuery(&tgbotapi.CallbackQuery{ID: "3", Data: "add_to_queue"})
	assert.False(t, ok)
}

func TestKeyboard(t *testing.T) {
	callbacks := func(kb tgbotapi.InlineKeyboardMarkup) []string {
		var out []string
		for _, row := range kb.InlineKeyboard {
			for _, b := range row {
				out = append(out, *b.CallbackData)
			}
		}
		return out
	}

	assert.Equal(t,
		[]string{"add_to_queue", "remove_from_queue", "position_in_queue", "list_queue"},
		callbacks(Keyboard(false)))
	assert.Equal(t,
		[]string{"add_to_queue", "remove_from_queue", "position_in_queue", "list_queue", "clear_queue", "export_queue"},
		callbacks(Keyboard(true)))

	assert.Len(t, Keyboard(false).InlineKeyboard, 2)
	assert.Len(t, Keyboard(true).InlineKeyboard, 3)

	// Every admin-only action with a button appears only on the admin menu.
	user := callbacks(Keyboard(false))
	for _, item := range menu {
		if item.action.AdminOnly() {
			assert.NotContains(t, user, item.action.CallbackData())
		}
	}
}
