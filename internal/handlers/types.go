// Package handlers routes inbound group events to the session store,
// the translator and the announcement broadcaster.
package handlers

import (
	"context"
	"log"
	"time"

	"langcast-bot/internal/auth"
	"langcast-bot/internal/database"
	"langcast-bot/internal/languages"
	"langcast-bot/internal/outbound"
	"langcast-bot/internal/translation"
)

// DefaultEventTimeout bounds the handling of one event, translation retries included.
const DefaultEventTimeout = 3 * time.Minute

// SessionStore is the part of sessions.Store the dispatcher uses.
type SessionStore interface {
	auth.OperatorLookup
	Languages(groupID string) []string
	Toggle(ctx context.Context, groupID, code string) ([]string, error)
	AssignOperator(ctx context.Context, groupID, userID string) (operator string, assigned bool, err error)
}

// Broadcaster pushes a date's announcement images to a group.
type Broadcaster interface {
	Broadcast(ctx context.Context, groupID string, selection []string, date time.Time) (int, error)
}

// Limiter gates repeated operator-triggered pushes per group.
type Limiter interface {
	CanSend(groupID string) bool
}

// Config holds the dispatcher settings.
type Config struct {
	ConfigureCommand string // e.g. "/configure"
	BroadcastCommand string // e.g. "/announce"
	Locale           string // language of the bot's own texts
	Location         *time.Location
	EventTimeout     time.Duration
	Debug            bool
}

// Dispatcher classifies inbound events and routes them.
type Dispatcher struct {
	config       Config
	languages    *languages.Table
	reverse      languages.Language
	store        SessionStore
	checker      auth.OperatorCheckerInterface
	translator   translation.Translator
	broadcaster  Broadcaster
	limiter      Limiter
	messenger    outbound.Messenger
	actionLogger database.ActionLogger // optional
}

// Deps are the collaborators of a Dispatcher.
type Deps struct {
	Languages    *languages.Table
	Reverse      languages.Language
	Store        SessionStore
	Checker      auth.OperatorCheckerInterface
	Translator   translation.Translator
	Broadcaster  Broadcaster
	Limiter      Limiter
	Messenger    outbound.Messenger
	ActionLogger database.ActionLogger
}

// NewDispatcher creates and initializes a new Dispatcher instance.
func NewDispatcher(cfg Config, deps Deps) *Dispatcher {
	if deps.Languages == nil || deps.Store == nil || deps.Checker == nil || deps.Translator == nil ||
		deps.Broadcaster == nil || deps.Limiter == nil || deps.Messenger == nil {
		log.Fatal("Dispatcher: a required dependency is nil")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.EventTimeout <= 0 {
		cfg.EventTimeout = DefaultEventTimeout
	}
	return &Dispatcher{
		config:       cfg,
		languages:    deps.Languages,
		reverse:      deps.Reverse,
		store:        deps.Store,
		checker:      deps.Checker,
		translator:   deps.Translator,
		broadcaster:  deps.Broadcaster,
		limiter:      deps.Limiter,
		messenger:    deps.Messenger,
		actionLogger: deps.ActionLogger,
	}
}
