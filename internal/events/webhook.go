package events

import (
	"encoding/json"
	"fmt"
	"log"
)

type webhookPayload struct {
	Events []json.RawMessage `json:"events"`
}

type webhookEvent struct {
	Type   string `json:"type"`
	Source struct {
		Type    string `json:"type"`
		GroupID string `json:"groupId"`
		UserID  string `json:"userId"`
	} `json:"source"`
	Message *struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
	Postback *struct {
		Data string `json:"data"`
	} `json:"postback"`
	ReplyToken string `json:"replyToken"`
}

// ParseWebhook decodes an already verified webhook body of the form
// {"events":[{type, source, message?, postback?, replyToken}, ...]}.
// Unsupported event or message types are skipped; only malformed JSON is an error.
// The Telegram adapter does not use it; it feeds webhook transports that pass
// the result to Dispatcher.HandleBatch.
func ParseWebhook(body []byte) ([]Event, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	out := make([]Event, 0, len(payload.Events))
	for i, raw := range payload.Events {
		ev, err := DecodeEvent(raw)
		if err != nil {
			log.Printf("[Webhook Event:%d] Skipping: %v", i, err)
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// DecodeEvent decodes a single webhook event object.
func DecodeEvent(raw []byte) (Event, error) {
	var we webhookEvent
	if err := json.Unmarshal(raw, &we); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	base := Base{
		Source:     Source{GroupID: we.Source.GroupID, UserID: we.Source.UserID},
		ReplyToken: we.ReplyToken,
	}

	switch we.Type {
	case "join":
		return Join{Base: base}, nil
	case "postback":
		if we.Postback == nil {
			return nil, fmt.Errorf("postback event without postback body")
		}
		return Postback{Base: base, Data: we.Postback.Data}, nil
	case "message":
		if we.Message == nil || we.Message.Type != "text" {
			return nil, fmt.Errorf("%w: non-text message", ErrUnknownEvent)
		}
		return TextMessage{Base: base, Text: we.Message.Text}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, we.Type)
	}
}
