package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	sentry "github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
)

const (
	maxSendRetries   = 3
	defaultRetryWait = 2 * time.Second
)

var errInvalidReplyToken = errors.New("invalid reply token")

// EncodeReplyToken packs the chat and message a reply should thread under.
func EncodeReplyToken(chatID int64, messageID int) string {
	return fmt.Sprintf("%d:%d", chatID, messageID)
}

// DecodeReplyToken is the inverse of EncodeReplyToken.
func DecodeReplyToken(token string) (chatID int64, messageID int, err error) {
	chatPart, msgPart, ok := strings.Cut(token, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidReplyToken, token)
	}
	chatID, err = strconv.ParseInt(chatPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidReplyToken, token)
	}
	messageID, err = strconv.Atoi(msgPart)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidReplyToken, token)
	}
	return chatID, messageID, nil
}

// parseChatID converts a group ID back to a Telegram chat ID.
func parseChatID(groupID string) (int64, error) {
	id, err := strconv.ParseInt(groupID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid group id %q: %w", groupID, err)
	}
	return id, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// displayName is the name shown in translated replies.
func displayName(u *telego.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" && u.Username != "" {
		return "@" + u.Username
	}
	return name
}

func isGroupChat(chat telego.Chat) bool {
	return chat.Type == telego.ChatTypeGroup || chat.Type == telego.ChatTypeSupergroup
}

// sendWithRetry runs send, waiting and retrying when Telegram answers 429.
func sendWithRetry(ctx context.Context, logPrefix string, send func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxSendRetries; attempt++ {
		err := send()
		if err == nil {
			if attempt > 0 {
				log.Printf("%s Successfully sent after %d attempt(s)", logPrefix, attempt+1)
			}
			return nil
		}
		lastErr = err

		errStr := err.Error()
		if !strings.Contains(errStr, "Too Many Requests") && !strings.Contains(errStr, "429") {
			return fmt.Errorf("%s send failed: %w", logPrefix, err)
		}

		wait := defaultRetryWait
		if seconds, ok := parseRetryAfter(errStr); ok {
			wait = time.Duration(seconds) * time.Second
		}
		log.Printf("%s Rate limit hit (attempt %d/%d), waiting %v", logPrefix, attempt+1, maxSendRetries, wait)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s context cancelled during rate limit wait: %w", logPrefix, ctx.Err())
		case <-time.After(wait):
		}
	}

	finalErr := fmt.Errorf("%s max retries (%d) exceeded: %w", logPrefix, maxSendRetries, lastErr)
	sentry.CaptureException(finalErr)
	return finalErr
}

var retryAfterPattern = regexp.MustCompile(`retry after (\d+)`)

// parseRetryAfter extracts the retry duration in seconds from a Telegram error string.
func parseRetryAfter(errorString string) (int, bool) {
	m := retryAfterPattern.FindStringSubmatch(errorString)
	if m == nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(m[1])
	if err != nil || seconds <= 0 {
		return 0, false
	}
	return seconds, true
}
