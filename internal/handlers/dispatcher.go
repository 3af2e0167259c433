package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"langcast-bot/internal/events"
	"langcast-bot/internal/languages"

	"github.com/getsentry/sentry-go"
)

// Handle processes one event. It never panics and never returns an error:
// failures are logged and reported so sibling events are unaffected.
func (d *Dispatcher) Handle(ctx context.Context, event events.Event) {
	src := event.EventSource()
	logPrefix := fmt.Sprintf("[Dispatch Group:%s User:%s]", src.GroupID, src.UserID)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("%s PANIC while handling %T: %v", logPrefix, event, r)
			sentry.CurrentHub().Recover(r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.config.EventTimeout)
	defer cancel()

	if err := d.route(ctx, event); err != nil {
		log.Printf("%s Error handling %T: %v", logPrefix, event, err)
		sentry.CaptureException(fmt.Errorf("%s handler error: %w", logPrefix, err))
	}
}

// HandleBatch processes a webhook batch concurrently and waits for all events.
// The Telegram adapter calls Handle per update instead.
func (d *Dispatcher) HandleBatch(ctx context.Context, batch []events.Event) {
	var wg sync.WaitGroup
	for _, event := range batch {
		if event == nil {
			continue
		}
		wg.Add(1)
		go func(ev events.Event) {
			defer wg.Done()
			d.Handle(ctx, ev)
		}(event)
	}
	wg.Wait()
}

func (d *Dispatcher) route(ctx context.Context, event events.Event) error {
	src := event.EventSource()
	if src.GroupID == "" {
		return nil
	}

	switch ev := event.(type) {
	case events.Join:
		d.logAction(ctx, src, ActionJoin, nil)
		return d.sendMenu(ctx, ev.ReplyToken, src.GroupID)

	case events.Postback:
		d.ensureOperator(ctx, src)
		return d.handlePostback(ctx, ev)

	case events.TextMessage:
		text := normalizeCommand(ev.Text)
		if text == d.config.ConfigureCommand {
			d.ensureOperator(ctx, src)
			return d.handleConfigure(ctx, ev)
		}
		if cmd, arg, ok := splitCommand(text); ok && cmd == d.config.BroadcastCommand {
			return d.handleBroadcast(ctx, ev, arg)
		}
		if isCommand(text) {
			return nil
		}
		return d.handleTranslate(ctx, ev)

	default:
		return fmt.Errorf("%w: %T", events.ErrUnknownEvent, event)
	}
}

// ensureOperator records the acting user as operator when the group has none.
func (d *Dispatcher) ensureOperator(ctx context.Context, src events.Source) {
	if src.UserID == "" {
		return
	}
	if _, ok := d.store.Operator(src.GroupID); ok {
		return
	}
	operator, assigned, err := d.store.AssignOperator(ctx, src.GroupID, src.UserID)
	if err != nil {
		log.Printf("[Dispatch Group:%s User:%s] Operator kept in memory only: %v", src.GroupID, src.UserID, err)
		sentry.CaptureException(err)
	}
	if assigned {
		log.Printf("[Dispatch Group:%s] Operator assigned: %s", src.GroupID, operator)
		d.logAction(ctx, src, ActionOperatorAssigned, nil)
	}
}

func (d *Dispatcher) handlePostback(ctx context.Context, ev events.Postback) error {
	src := ev.Source
	if !d.checker.IsOperator(src.GroupID, src.UserID) {
		log.Printf("[Postback Group:%s User:%s] Dropped postback from non-operator", src.GroupID, src.UserID)
		return nil
	}

	action, err := events.ParsePostbackData(ev.Data)
	if err != nil {
		log.Printf("[Postback Group:%s User:%s] Ignoring postback: %v", src.GroupID, src.UserID, err)
		return nil
	}
	if action.Action != events.ActionToggle {
		log.Printf("[Postback Group:%s User:%s] Ignoring unknown action %q", src.GroupID, src.UserID, action.Action)
		return nil
	}
	if !d.languages.Supports(action.Code) && !isCancel(action.Code) {
		log.Printf("[Postback Group:%s User:%s] Ignoring unsupported language %q", src.GroupID, src.UserID, action.Code)
		return nil
	}

	selection, err := d.store.Toggle(ctx, src.GroupID, action.Code)
	if err != nil {
		// The in-memory selection stays authoritative; the next save retries.
		log.Printf("[Postback Group:%s User:%s] %v", src.GroupID, src.UserID, err)
		sentry.CaptureException(err)
	}
	d.logAction(ctx, src, ActionToggleLanguage, map[string]interface{}{"code": action.Code, "langs": selection})

	return d.reply(ctx, ev.ReplyToken, src.GroupID, d.selectionSummary(selection))
}

func isCancel(code string) bool {
	return code == languages.Cancel
}

func isCommand(text string) bool {
	return strings.HasPrefix(text, "/")
}
