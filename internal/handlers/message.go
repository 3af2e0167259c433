package handlers

import (
	"context"
	"log"
	"strings"

	"langcast-bot/internal/events"
	"langcast-bot/internal/translation"
)

// handleTranslate replies with the translations of a plain group message.
func (d *Dispatcher) handleTranslate(ctx context.Context, ev events.TextMessage) error {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return nil
	}
	selection := d.store.Languages(ev.Source.GroupID)
	if len(selection) == 0 {
		return nil
	}

	lines := translation.ForGroup(ctx, d.translator, text, selection, d.reverse.Code)
	if d.config.Debug {
		log.Printf("[Translate Group:%s User:%s] %d line(s) for selection %v", ev.Source.GroupID, ev.Source.UserID, len(lines), selection)
	}
	return d.reply(ctx, ev.ReplyToken, ev.Source.GroupID, FormatTranslation(senderName(ev), lines))
}

// FormatTranslation renders the reply to a translated message.
func FormatTranslation(displayName string, lines []string) string {
	return "【" + displayName + "】said:\n" + strings.Join(lines, "\n")
}

func senderName(ev events.TextMessage) string {
	if name := strings.TrimSpace(ev.SenderName); name != "" {
		return name
	}
	return ev.Source.UserID
}
