// Package translation translates group messages through a remote endpoint,
// memoizing results and retrying rate-limited calls.
package translation

import (
	"context"
	"fmt"
	"log"
	"time"

	"langcast-bot/internal/languages"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheSize = 2048
	DefaultCacheTTL  = 24 * time.Hour
	// DefaultPlaceholder is returned when no translation could be obtained.
	DefaultPlaceholder = "translation temporarily unavailable"
)

// Translator translates text into a target language. It never fails: on
// error it returns a user-visible placeholder.
type Translator interface {
	Translate(ctx context.Context, text, target string) string
}

// Options tune a Service. Zero values fall back to the defaults above.
type Options struct {
	CacheSize   int
	CacheTTL    time.Duration
	Placeholder string
	Retry       *RetryPolicy
}

// Service is the cached, retrying Translator.
type Service struct {
	remote      Remote
	prompts     map[string]string
	cache       *expirable.LRU[string, string]
	inflight    singleflight.Group
	retry       RetryPolicy
	placeholder string
}

// NewService wires a Service. langs are the targets that get a fixed system instruction.
func NewService(remote Remote, langs []languages.Language, opts Options) *Service {
	if remote == nil {
		log.Fatal("Translation Service: remote client is nil")
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	retry := DefaultRetryPolicy()
	if opts.Retry != nil {
		retry = *opts.Retry
	}

	prompts := make(map[string]string, len(langs))
	for _, l := range langs {
		prompts[l.Code] = SystemPrompt(l)
	}

	return &Service{
		remote:      remote,
		prompts:     prompts,
		cache:       expirable.NewLRU[string, string](opts.CacheSize, nil, opts.CacheTTL),
		retry:       retry,
		placeholder: opts.Placeholder,
	}
}

// SystemPrompt is the fixed instruction sent with every request for lang.
func SystemPrompt(lang languages.Language) string {
	return fmt.Sprintf("You are a professional translator for a group chat. "+
		"Translate the user's message into %s (language code %s). "+
		"Keep names, emoji and line breaks. Reply with the translation only.", lang.DisplayName, lang.Code)
}

// Translate returns the cached translation or fetches it. Identical
// concurrent misses share one remote call.
//
// The caller's deadline is not propagated: each remote request is bounded by
// the client timeout only.
func (s *Service) Translate(ctx context.Context, text, target string) string {
	key := cacheKey(target, text)
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}

	ctx = context.WithoutCancel(ctx)
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
		out, err := s.retry.Do(ctx, func(ctx context.Context) (string, error) {
			return s.remote.Complete(ctx, s.prompt(target), text)
		})
		if err != nil {
			return "", err
		}
		s.cache.Add(key, out)
		return out, nil
	})
	if err != nil {
		log.Printf("[Translate Target:%s] Falling back to placeholder: %v", target, err)
		return s.placeholder
	}
	return v.(string)
}

func (s *Service) prompt(target string) string {
	if p, ok := s.prompts[target]; ok {
		return p
	}
	return SystemPrompt(languages.Language{Code: target, DisplayName: target})
}

func cacheKey(target, text string) string {
	return target + "\x00" + text
}
