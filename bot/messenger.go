package bot

import (
	"context"
	"fmt"

	"langcast-bot/internal/outbound"
	telegoapi "langcast-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.uber.org/ratelimit"
)

// DefaultSendsPerSecond paces all outgoing Telegram calls.
const DefaultSendsPerSecond = 20

// menuColumns is the number of language buttons per keyboard row.
const menuColumns = 2

// TelegramMessenger delivers outbound messages through the Bot API.
type TelegramMessenger struct {
	bot         telegoapi.BotAPI
	ratelimiter ratelimit.Limiter
}

// NewTelegramMessenger creates a messenger whose sends are paced by limiter.
// A nil limiter allows DefaultSendsPerSecond.
func NewTelegramMessenger(bot telegoapi.BotAPI, limiter ratelimit.Limiter) *TelegramMessenger {
	if limiter == nil {
		limiter = ratelimit.New(DefaultSendsPerSecond)
	}
	return &TelegramMessenger{bot: bot, ratelimiter: limiter}
}

// Push sends msgs to the group chat.
func (m *TelegramMessenger) Push(ctx context.Context, groupID string, msgs ...outbound.Message) error {
	chatID, err := parseChatID(groupID)
	if err != nil {
		return err
	}
	return m.send(ctx, chatID, nil, msgs)
}

// Reply sends msgs threaded under the message identified by replyToken.
func (m *TelegramMessenger) Reply(ctx context.Context, replyToken string, msgs ...outbound.Message) error {
	chatID, messageID, err := DecodeReplyToken(replyToken)
	if err != nil {
		return err
	}
	reply := &telego.ReplyParameters{MessageID: messageID, AllowSendingWithoutReply: true}
	return m.send(ctx, chatID, reply, msgs)
}

func (m *TelegramMessenger) send(ctx context.Context, chatID int64, reply *telego.ReplyParameters, msgs []outbound.Message) error {
	for _, msg := range msgs {
		logPrefix := fmt.Sprintf("[Send Chat:%d %T]", chatID, msg)
		err := sendWithRetry(ctx, logPrefix, func() error {
			m.ratelimiter.Take()
			return m.sendOne(ctx, chatID, reply, msg)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *TelegramMessenger) sendOne(ctx context.Context, chatID int64, reply *telego.ReplyParameters, msg outbound.Message) error {
	switch msg := msg.(type) {
	case outbound.Text:
		params := tu.Message(tu.ID(chatID), msg.Text)
		if reply != nil {
			params = params.WithReplyParameters(reply)
		}
		_, err := m.bot.SendMessage(ctx, params)
		return err

	case outbound.Image:
		params := tu.Photo(tu.ID(chatID), tu.FileFromURL(msg.OriginalContentURL))
		if reply != nil {
			params = params.WithReplyParameters(reply)
		}
		_, err := m.bot.SendPhoto(ctx, params)
		return err

	case outbound.Menu:
		params := tu.Message(tu.ID(chatID), msg.Title).WithReplyMarkup(menuKeyboard(msg.Options))
		if reply != nil {
			params = params.WithReplyParameters(reply)
		}
		_, err := m.bot.SendMessage(ctx, params)
		return err

	default:
		return fmt.Errorf("unsupported outbound message %T", msg)
	}
}

// menuKeyboard lays the options out as callback buttons; the last option gets its own row.
func menuKeyboard(options []outbound.MenuOption) *telego.InlineKeyboardMarkup {
	var rows [][]telego.InlineKeyboardButton
	var row []telego.InlineKeyboardButton
	for i, opt := range options {
		button := tu.InlineKeyboardButton(opt.Label).WithCallbackData(opt.Data)
		if i == len(options)-1 {
			if len(row) > 0 {
				rows = append(rows, row)
			}
			row = []telego.InlineKeyboardButton{button}
			break
		}
		row = append(row, button)
		if len(row) == menuColumns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tu.InlineKeyboard(rows...)
}
