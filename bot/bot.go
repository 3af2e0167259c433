// Package bot connects the Telegram Bot API to the event dispatcher.
package bot

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"langcast-bot/internal/events"
	"langcast-bot/internal/locales"
	telegoapi "langcast-bot/pkg/telegoapi"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// EventHandler processes one inbound event. *handlers.Dispatcher implements it.
type EventHandler interface {
	Handle(ctx context.Context, event events.Event)
}

// Bot represents the Telegram side of the application.
// It reads updates, acknowledges callback queries and hands events to the dispatcher.
type Bot struct {
	bot         telegoapi.BotAPI
	updatesChan <-chan telego.Update
	handler     EventHandler
	debug       bool
	locale      string
	commands    []string // command words without the leading slash
}

// BotDeps holds the dependencies required by the Bot.
type BotDeps struct {
	Bot         telegoapi.BotAPI
	UpdatesChan <-chan telego.Update
	Handler     EventHandler
	Debug       bool
	Locale      string
	// Commands are registered with Telegram, e.g. "/configure".
	Commands []string
}

// New creates a new Bot instance from its dependencies.
// Returns the new Bot instance or an error if dependencies are missing.
func New(deps BotDeps) (*Bot, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("telego bot (BotAPI) instance cannot be nil")
	}
	if deps.UpdatesChan == nil {
		return nil, fmt.Errorf("updates channel cannot be nil")
	}
	if deps.Handler == nil {
		return nil, fmt.Errorf("event handler cannot be nil")
	}
	commands := make([]string, 0, len(deps.Commands))
	for _, c := range deps.Commands {
		if c = strings.TrimPrefix(strings.TrimSpace(c), "/"); c != "" {
			commands = append(commands, c)
		}
	}
	return &Bot{
		bot:         deps.Bot,
		updatesChan: deps.UpdatesChan,
		handler:     deps.Handler,
		debug:       deps.Debug,
		locale:      deps.Locale,
		commands:    commands,
	}, nil
}

// processUpdate converts an update and dispatches it.
func (b *Bot) processUpdate(ctx context.Context, update telego.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered in processUpdate: %v\n%s", r, debug.Stack())
			sentry.CurrentHub().Recover(r)
			sentry.Flush(time.Second * 2)
		}
	}()

	if update.CallbackQuery != nil {
		b.answerCallback(ctx, *update.CallbackQuery)
	}

	event, ok := ToEvent(update)
	if !ok {
		if b.debug {
			log.Printf("Ignoring unhandled update %d", update.UpdateID)
		}
		return
	}
	if b.debug {
		src := event.EventSource()
		log.Printf("[Update:%d Group:%s User:%s] Dispatching %T", update.UpdateID, src.GroupID, src.UserID, event)
	}
	b.handler.Handle(ctx, event)
}

// answerCallback stops the client's loading indicator. The answer carries no text.
func (b *Bot) answerCallback(ctx context.Context, query telego.CallbackQuery) {
	if err := b.bot.AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)); err != nil {
		log.Printf("[Callback User:%d QueryID:%s] Error answering callback query: %v", query.From.ID, query.ID, err)
	}
}

// Start begins the bot's update processing loop. It returns when ctx is done
// or the updates channel closes, after in-flight updates have finished.
// In-flight updates are not cancelled by ctx.
func (b *Bot) Start(ctx context.Context) {
	log.Println("Listening for updates...")
	processingCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			log.Println("Context done, stopping update processing...")
			wg.Wait()
			log.Println("All update processing finished.")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				log.Println("Updates channel closed.")
				wg.Wait()
				return
			}
			wg.Add(1)
			go func(up telego.Update) {
				defer wg.Done()
				b.processUpdate(processingCtx, up)
			}(update)
		}
	}
}

// SetupCommands registers the bot's commands for group chats.
func (b *Bot) SetupCommands(ctx context.Context) error {
	if len(b.commands) == 0 {
		return nil
	}
	localizer := locales.NewLocalizer(b.locale)

	cmds := make([]telego.BotCommand, 0, len(b.commands))
	for _, c := range b.commands {
		cmds = append(cmds, telego.BotCommand{
			Command:     c,
			Description: locales.GetMessage(localizer, commandDescriptionID(c), nil),
		})
	}

	params := &telego.SetMyCommandsParams{
		Commands: cmds,
		Scope:    &telego.BotCommandScopeAllGroupChats{Type: "all_group_chats"},
	}
	if err := b.bot.SetMyCommands(ctx, params); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	log.Println("Bot commands successfully set.")
	return nil
}

// commandDescriptionID maps "configure" to "CmdConfigureDescription".
func commandDescriptionID(command string) string {
	if command == "" {
		return "CmdDescription"
	}
	return "Cmd" + strings.ToUpper(command[:1]) + command[1:] + "Description"
}
