// Package events defines the inbound chat events the dispatcher understands.
//
// Event is a closed sum type: Join, Postback and TextMessage are the only
// implementations. Transports convert platform payloads into these values and
// drop everything else before it reaches the dispatcher.
package events

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrUnknownEvent is returned by decoders for payload types that have no Event variant.
var ErrUnknownEvent = errors.New("unknown event type")

// Source identifies where an event came from. UserID is empty when the platform did not supply one.
type Source struct {
	GroupID string
	UserID  string
}

// Event is implemented by Join, Postback and TextMessage only.
type Event interface {
	EventSource() Source
	EventReplyToken() string
	isEvent()
}

// Base carries the fields shared by every variant.
type Base struct {
	Source     Source
	ReplyToken string // opaque; handed back to the Messenger to reply in context
}

func (b Base) EventSource() Source     { return b.Source }
func (b Base) EventReplyToken() string { return b.ReplyToken }

// Join is emitted when the bot is added to a group.
type Join struct {
	Base
}

// Postback is emitted when a user presses a menu element.
type Postback struct {
	Base
	Data string // URL-query encoded, see ParsePostbackData
}

// TextMessage is a plain text message posted in a group.
type TextMessage struct {
	Base
	Text       string
	SenderName string // display name of the author, used in translated replies
}

func (Join) isEvent()        {}
func (Postback) isEvent()    {}
func (TextMessage) isEvent() {}

// ActionToggle is the postback action that toggles one language in a group's selection.
const ActionToggle = "toggle"

// PostbackAction is the decoded form of Postback.Data.
type PostbackAction struct {
	Action string
	Code   string
}

// ParsePostbackData decodes "action=toggle&code=en".
func ParsePostbackData(data string) (PostbackAction, error) {
	values, err := url.ParseQuery(data)
	if err != nil {
		return PostbackAction{}, fmt.Errorf("invalid postback data %q: %w", data, err)
	}
	action := PostbackAction{Action: values.Get("action"), Code: values.Get("code")}
	if action.Action == "" {
		return PostbackAction{}, fmt.Errorf("postback data %q has no action", data)
	}
	return action, nil
}

// EncodePostbackData is the inverse of ParsePostbackData.
func EncodePostbackData(action, code string) string {
	return url.Values{"action": {action}, "code": {code}}.Encode()
}
