// Package outbound describes what the core sends back to the platform.
package outbound

import "context"

// Message is implemented by Text, Image and Menu.
type Message interface {
	isMessage()
}

// Text is a plain text message.
type Text struct {
	Text string
}

// Image is an image referenced by URL.
type Image struct {
	OriginalContentURL string
	PreviewImageURL    string
}

// MenuOption is one selectable element of a Menu. Data is sent back as a postback.
type MenuOption struct {
	Label string
	Data  string
}

// Menu is a structured message with one selectable action per option.
type Menu struct {
	Title   string
	Options []MenuOption
}

func (Text) isMessage()  {}
func (Image) isMessage() {}
func (Menu) isMessage()  {}

// Pusher sends messages to a group outside of a reply context.
type Pusher interface {
	Push(ctx context.Context, groupID string, msgs ...Message) error
}

// Messenger is the delivery boundary the dispatcher talks to.
type Messenger interface {
	Pusher
	// Reply answers the event identified by replyToken.
	Reply(ctx context.Context, replyToken string, msgs ...Message) error
}

// NewImage builds an Image using the same URL for the preview.
func NewImage(url string) Image {
	return Image{OriginalContentURL: url, PreviewImageURL: url}
}
