package announcements

import (
	"context"
	"fmt"
	"log"
	"time"

	"langcast-bot/internal/outbound"
)

// DefaultSendDelay separates consecutive image pushes to one group.
const DefaultSendDelay = 500 * time.Millisecond

// EntryMatcher is implemented by *Matcher.
type EntryMatcher interface {
	Match(ctx context.Context, selection []string, date time.Time) ([]Entry, error)
}

// Broadcaster sends the matched announcement images to a group.
type Broadcaster struct {
	matcher EntryMatcher
	pusher  outbound.Pusher
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewBroadcaster creates a Broadcaster. A non-positive delay uses DefaultSendDelay.
func NewBroadcaster(matcher EntryMatcher, pusher outbound.Pusher, delay time.Duration) *Broadcaster {
	if matcher == nil || pusher == nil {
		log.Fatal("Announcement Broadcaster: matcher and pusher are required")
	}
	if delay <= 0 {
		delay = DefaultSendDelay
	}
	return &Broadcaster{matcher: matcher, pusher: pusher, delay: delay, sleep: sleepContext}
}

// Broadcast pushes every matching image to groupID one by one and returns how many were sent.
// A failed push is logged and the remaining images are still attempted.
func (b *Broadcaster) Broadcast(ctx context.Context, groupID string, selection []string, date time.Time) (int, error) {
	entries, err := b.matcher.Match(ctx, selection, date)
	if err != nil {
		return 0, fmt.Errorf("matching announcements for group %s: %w", groupID, err)
	}

	sent := 0
	for i, e := range entries {
		if i > 0 {
			if err := b.sleep(ctx, b.delay); err != nil {
				return sent, err
			}
		}
		if err := b.pusher.Push(ctx, groupID, outbound.NewImage(e.ImageURL)); err != nil {
			log.Printf("[Broadcaster GroupID:%s Lang:%s] Failed to push %s: %v", groupID, e.LanguageCode, e.ImageURL, err)
			continue
		}
		sent++
	}
	log.Printf("[Broadcaster GroupID:%s] Sent %d/%d announcement images for %s", groupID, sent, len(entries), date.Format(time.DateOnly))
	return sent, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
