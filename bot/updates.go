package bot

import (
	"strings"

	"langcast-bot/internal/events"

	"github.com/mymmrac/telego"
)

// AllowedUpdates are the update kinds the bot subscribes to.
var AllowedUpdates = []string{"message", "callback_query", "my_chat_member"}

// ToEvent converts a Telegram update into an inbound event.
// ok is false for updates that have no event counterpart.
func ToEvent(update telego.Update) (events.Event, bool) {
	switch {
	case update.Message != nil:
		return textEvent(*update.Message)
	case update.CallbackQuery != nil:
		return postbackEvent(*update.CallbackQuery)
	case update.MyChatMember != nil:
		return joinEvent(*update.MyChatMember)
	default:
		return nil, false
	}
}

func textEvent(message telego.Message) (events.Event, bool) {
	if !isGroupChat(message.Chat) || message.From == nil || message.From.IsBot {
		return nil, false
	}
	if strings.TrimSpace(message.Text) == "" {
		return nil, false
	}
	return events.TextMessage{
		Base: events.Base{
			Source:     events.Source{GroupID: formatID(message.Chat.ID), UserID: formatID(message.From.ID)},
			ReplyToken: EncodeReplyToken(message.Chat.ID, message.MessageID),
		},
		Text:       message.Text,
		SenderName: displayName(message.From),
	}, true
}

func postbackEvent(query telego.CallbackQuery) (events.Event, bool) {
	var (
		chat      telego.Chat
		messageID int
	)
	switch msg := query.Message.(type) {
	case *telego.Message:
		if msg == nil {
			return nil, false
		}
		chat, messageID = msg.Chat, msg.MessageID
	case *telego.InaccessibleMessage:
		if msg == nil {
			return nil, false
		}
		chat, messageID = msg.Chat, msg.MessageID
	default:
		return nil, false
	}
	if !isGroupChat(chat) {
		return nil, false
	}
	return events.Postback{
		Base: events.Base{
			Source:     events.Source{GroupID: formatID(chat.ID), UserID: formatID(query.From.ID)},
			ReplyToken: EncodeReplyToken(chat.ID, messageID),
		},
		Data: query.Data,
	}, true
}

// joinEvent reports the bot being added to a group.
func joinEvent(update telego.ChatMemberUpdated) (events.Event, bool) {
	if !isGroupChat(update.Chat) || update.NewChatMember == nil {
		return nil, false
	}
	if !isPresent(update.NewChatMember.MemberStatus()) {
		return nil, false
	}
	if update.OldChatMember != nil && isPresent(update.OldChatMember.MemberStatus()) {
		return nil, false
	}
	return events.Join{
		Base: events.Base{
			Source: events.Source{GroupID: formatID(update.Chat.ID), UserID: formatID(update.From.ID)},
		},
	}, true
}

func isPresent(status string) bool {
	switch status {
	case telego.MemberStatusMember, telego.MemberStatusAdministrator, telego.MemberStatusCreator:
		return true
	}
	return false
}
