package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"langcast-bot/internal/events"
	"langcast-bot/internal/languages"
	"langcast-bot/internal/locales"
	"langcast-bot/internal/outbound"
)

// text localizes a message in the dispatcher's locale.
func (d *Dispatcher) text(msgID string, templateData map[string]interface{}) string {
	return locales.Text(d.config.Locale, msgID, templateData)
}

// Menu builds the language selection menu: one toggle per supported language and a cancel-all action.
func (d *Dispatcher) Menu() outbound.Menu {
	all := d.languages.All()
	options := make([]outbound.MenuOption, 0, len(all)+1)
	for _, l := range all {
		options = append(options, outbound.MenuOption{
			Label: l.DisplayName,
			Data:  events.EncodePostbackData(events.ActionToggle, l.Code),
		})
	}
	options = append(options, outbound.MenuOption{
		Label: d.text(locales.MsgMenuCancelAll, nil),
		Data:  events.EncodePostbackData(events.ActionToggle, languages.Cancel),
	})
	return outbound.Menu{Title: d.text(locales.MsgMenuTitle, nil), Options: options}
}

func (d *Dispatcher) sendMenu(ctx context.Context, replyToken, groupID string) error {
	return d.send(ctx, replyToken, groupID, d.Menu())
}

// selectionSummary describes the group's selection after a toggle.
func (d *Dispatcher) selectionSummary(selection []string) string {
	if len(selection) == 0 {
		return d.text(locales.MsgSelectionEmpty, nil)
	}
	names := make([]string, 0, len(selection))
	for _, code := range selection {
		names = append(names, d.languages.DisplayName(code))
	}
	return d.text(locales.MsgSelectionSummary, map[string]interface{}{"Languages": strings.Join(names, "、")})
}

// reply sends text in reply to an event.
func (d *Dispatcher) reply(ctx context.Context, replyToken, groupID, text string) error {
	return d.send(ctx, replyToken, groupID, outbound.Text{Text: text})
}

// send replies when the event carries a reply token and pushes to the group otherwise.
func (d *Dispatcher) send(ctx context.Context, replyToken, groupID string, msgs ...outbound.Message) error {
	if replyToken != "" {
		if err := d.messenger.Reply(ctx, replyToken, msgs...); err != nil {
			return fmt.Errorf("failed to reply in group %s: %w", groupID, err)
		}
		return nil
	}
	if err := d.messenger.Push(ctx, groupID, msgs...); err != nil {
		return fmt.Errorf("failed to push to group %s: %w", groupID, err)
	}
	return nil
}

// logAction appends to the audit log when one is configured.
func (d *Dispatcher) logAction(ctx context.Context, src events.Source, action string, details map[string]interface{}) {
	if d.actionLogger == nil {
		return
	}
	if err := d.actionLogger.LogGroupAction(ctx, src.GroupID, src.UserID, action, details); err != nil {
		log.Printf("Error logging action %s for group %s: %v", action, src.GroupID, err)
	}
}
