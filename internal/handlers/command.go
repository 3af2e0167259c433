package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"langcast-bot/internal/events"
	"langcast-bot/internal/locales"
)

// ErrInvalidDate is returned by ParseDate for anything but a real YYYY-MM-DD date.
var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

var dateArgument = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate validates a broadcast date argument and returns midnight of that day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if !dateArgument.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	date, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return date, nil
}

// handleConfigure resends the language menu to the operator.
func (d *Dispatcher) handleConfigure(ctx context.Context, ev events.TextMessage) error {
	src := ev.Source
	logPrefix := fmt.Sprintf("[Cmd:Configure Group:%s User:%s]", src.GroupID, src.UserID)

	if !d.checker.IsOperator(src.GroupID, src.UserID) {
		log.Printf("%s Denied: not the operator", logPrefix)
		return d.reply(ctx, ev.ReplyToken, src.GroupID, d.text(locales.MsgPermissionDenied, nil))
	}
	if !d.limiter.CanSend(src.GroupID) {
		log.Printf("%s Menu was sent recently, skipping", logPrefix)
		return nil
	}
	d.logAction(ctx, src, ActionCommandConfigure, nil)
	return d.sendMenu(ctx, ev.ReplyToken, src.GroupID)
}

// handleBroadcast pushes the announcements of the requested date to the group.
func (d *Dispatcher) handleBroadcast(ctx context.Context, ev events.TextMessage, arg string) error {
	src := ev.Source
	logPrefix := fmt.Sprintf("[Cmd:Broadcast Group:%s User:%s]", src.GroupID, src.UserID)

	date, err := ParseDate(arg, d.config.Location)
	if err != nil {
		log.Printf("%s %v", logPrefix, err)
		return d.reply(ctx, ev.ReplyToken, src.GroupID,
			d.text(locales.MsgBroadcastUsage, map[string]interface{}{"Command": d.config.BroadcastCommand}))
	}
	if !d.limiter.CanSend(src.GroupID) {
		log.Printf("%s Rate limited", logPrefix)
		return d.reply(ctx, ev.ReplyToken, src.GroupID, d.text(locales.MsgBroadcastRateLimited, nil))
	}

	selection := d.store.Languages(src.GroupID)
	sent := 0
	if len(selection) > 0 {
		sent, err = d.broadcaster.Broadcast(ctx, src.GroupID, selection, date)
		if err != nil {
			return fmt.Errorf("broadcast for %s failed: %w", arg, err)
		}
	}
	d.logAction(ctx, src, ActionCommandBroadcast, map[string]interface{}{"date": arg, "sent": sent})
	log.Printf("%s Sent %d images for %s", logPrefix, sent, arg)

	if sent == 0 {
		return d.reply(ctx, ev.ReplyToken, src.GroupID,
			d.text(locales.MsgBroadcastNoResults, map[string]interface{}{"Date": arg}))
	}
	return nil
}

// normalizeCommand trims text and drops a bot mention from a leading command,
// so "/configure@LangcastBot" reads as "/configure".
func normalizeCommand(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	head, rest, hasRest := strings.Cut(text, " ")
	if at := strings.IndexByte(head, '@'); at > 0 {
		head = head[:at]
	}
	if hasRest {
		return head + " " + rest
	}
	return head
}

// splitCommand separates "<command> <argument>". ok is false for text without
// a command word; arg is empty when no argument follows.
func splitCommand(text string) (cmd, arg string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", "", false
	}
	cmd = fields[0]
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}
	return cmd, arg, true
}
