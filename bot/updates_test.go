package bot

import (
	"testing"

	"langcast-bot/internal/events"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGroup = telego.Chat{ID: -1001234, Type: telego.ChatTypeSupergroup, Title: "Friends"}

func TestToEventTextMessage(t *testing.T) {
	update := telego.Update{
		UpdateID: 1,
		Message: &telego.Message{
			MessageID: 42,
			Chat:      testGroup,
			From:      &telego.User{ID: 7, FirstName: "Alice", LastName: "Chen"},
			Text:      "大家好",
		},
	}

	event, ok := ToEvent(update)
	require.True(t, ok)
	assert.Equal(t, events.TextMessage{
		Base: events.Base{
			Source:     events.Source{GroupID: "-1001234", UserID: "7"},
			ReplyToken: "-1001234:42",
		},
		Text:       "大家好",
		SenderName: "Alice Chen",
	}, event)
}

func TestToEventIgnoresPrivateBotAndEmptyMessages(t *testing.T) {
	private := telego.Chat{ID: 7, Type: telego.ChatTypePrivate}
	cases := map[string]telego.Message{
		"private chat": {Chat: private, From: &telego.User{ID: 7}, Text: "hi"},
		"from bot":     {Chat: testGroup, From: &telego.User{ID: 8, IsBot: true}, Text: "hi"},
		"no sender":    {Chat: testGroup, Text: "hi"},
		"no text":      {Chat: testGroup, From: &telego.User{ID: 7}},
	}
	for name, msg := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := ToEvent(telego.Update{Message: &msg})
			assert.False(t, ok)
		})
	}
}

func TestToEventCallbackQuery(t *testing.T) {
	update := telego.Update{
		CallbackQuery: &telego.CallbackQuery{
			ID:      "q1",
			From:    telego.User{ID: 7},
			Message: &telego.Message{MessageID: 99, Chat: testGroup},
			Data:    "action=toggle&code=en",
		},
	}

	event, ok := ToEvent(update)
	require.True(t, ok)
	assert.Equal(t, events.Postback{
		Base: events.Base{
			Source:     events.Source{GroupID: "-1001234", UserID: "7"},
			ReplyToken: "-1001234:99",
		},
		Data: "action=toggle&code=en",
	}, event)
}

func TestToEventCallbackQueryWithoutMessage(t *testing.T) {
	_, ok := ToEvent(telego.Update{CallbackQuery: &telego.CallbackQuery{ID: "q1", From: telego.User{ID: 7}}})
	assert.False(t, ok)
}

func TestToEventJoin(t *testing.T) {
	update := telego.Update{
		MyChatMember: &telego.ChatMemberUpdated{
			Chat:          testGroup,
			From:          telego.User{ID: 7},
			OldChatMember: &telego.ChatMemberLeft{Status: telego.MemberStatusLeft, User: telego.User{ID: 1, IsBot: true}},
			NewChatMember: &telego.ChatMemberMember{Status: telego.MemberStatusMember, User: telego.User{ID: 1, IsBot: true}},
		},
	}

	event, ok := ToEvent(update)
	require.True(t, ok)
	assert.Equal(t, events.Join{Base: events.Base{Source: events.Source{GroupID: "-1001234", UserID: "7"}}}, event)
}

func TestToEventPromotionIsNotJoin(t *testing.T) {
	update := telego.Update{
		MyChatMember: &telego.ChatMemberUpdated{
			Chat:          testGroup,
			From:          telego.User{ID: 7},
			OldChatMember: &telego.ChatMemberMember{Status: telego.MemberStatusMember},
			NewChatMember: &telego.ChatMemberAdministrator{Status: telego.MemberStatusAdministrator},
		},
	}
	_, ok := ToEvent(update)
	assert.False(t, ok)
}

func TestToEventRemovalIsNotJoin(t *testing.T) {
	update := telego.Update{
		MyChatMember: &telego.ChatMemberUpdated{
			Chat:          testGroup,
			OldChatMember: &telego.ChatMemberMember{Status: telego.MemberStatusMember},
			NewChatMember: &telego.ChatMemberLeft{Status: telego.MemberStatusLeft},
		},
	}
	_, ok := ToEvent(update)
	assert.False(t, ok)
}

func TestReplyTokenRoundTrip(t *testing.T) {
	chatID, messageID, err := DecodeReplyToken(EncodeReplyToken(-1001234, 42))
	require.NoError(t, err)
	assert.Equal(t, int64(-1001234), chatID)
	assert.Equal(t, 42, messageID)

	for _, bad := range []string{"", "abc", "1:", ":2", "1:x"} {
		_, _, err := DecodeReplyToken(bad)
		assert.ErrorIs(t, err, errInvalidReplyToken, bad)
	}
}

func TestParseRetryAfter(t *testing.T) {
	seconds, ok := parseRetryAfter(`telego: sendPhoto: api: 429 "Too Many Requests: retry after 7"`)
	assert.True(t, ok)
	assert.Equal(t, 7, seconds)

	_, ok = parseRetryAfter("telego: sendPhoto: api: 400 Bad Request")
	assert.False(t, ok)
}
