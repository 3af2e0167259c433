// Package scheduler runs the daily announcement broadcast.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/robfig/cron/v3"
)

// DefaultRunTimeout bounds one daily run across all groups.
const DefaultRunTimeout = 30 * time.Minute

// SelectionSource provides the group selections at trigger time.
type SelectionSource interface {
	Snapshot() map[string][]string
}

// GroupBroadcaster delivers announcements to one group.
type GroupBroadcaster interface {
	Broadcast(ctx context.Context, groupID string, selection []string, date time.Time) (int, error)
}

// Config holds scheduler configuration.
type Config struct {
	Hour       int
	Minute     int
	Location   *time.Location
	RunTimeout time.Duration
}

// Scheduler fires the daily broadcast with robfig/cron.
type Scheduler struct {
	cron        *cron.Cron
	source      SelectionSource
	broadcaster GroupBroadcaster
	config      Config
	now         func() time.Time
	stopOnce    sync.Once
}

// New creates a Scheduler. It does not start until Start is called.
func New(cfg Config, source SelectionSource, broadcaster GroupBroadcaster) (*Scheduler, error) {
	if source == nil || broadcaster == nil {
		return nil, fmt.Errorf("scheduler needs a selection source and a broadcaster")
	}
	if cfg.Hour < 0 || cfg.Hour > 23 || cfg.Minute < 0 || cfg.Minute > 59 {
		return nil, fmt.Errorf("invalid broadcast time %02d:%02d", cfg.Hour, cfg.Minute)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = DefaultRunTimeout
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(cfg.Location),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	s := &Scheduler{
		cron:        c,
		source:      source,
		broadcaster: broadcaster,
		config:      cfg,
		now:         time.Now,
	}
	if _, err := c.AddFunc(s.Spec(), s.fire); err != nil {
		return nil, fmt.Errorf("failed to register daily broadcast: %w", err)
	}
	return s, nil
}

// Spec returns the cron expression of the daily trigger.
func (s *Scheduler) Spec() string {
	return fmt.Sprintf("%d %d * * *", s.config.Minute, s.config.Hour)
}

// Start begins firing in the background.
func (s *Scheduler) Start() {
	log.Printf("[Scheduler] Daily broadcast scheduled at %02d:%02d %s", s.config.Hour, s.config.Minute, s.config.Location)
	s.cron.Start()
}

// Stop prevents further runs and waits for a running one to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.stopOnce.Do(func() {
		done := s.cron.Stop()
		select {
		case <-done.Done():
			log.Println("[Scheduler] Stopped")
		case <-ctx.Done():
			log.Println("[Scheduler] Stop timed out waiting for running broadcast")
		}
	})
}

func (s *Scheduler) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.RunTimeout)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce broadcasts today's announcements to every group with a non-empty selection.
// Groups run concurrently; a failure or panic in one group does not affect the others.
func (s *Scheduler) RunOnce(ctx context.Context) map[string]int {
	today := s.now().In(s.config.Location)
	snapshot := s.source.Snapshot()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]int, len(snapshot))
	)
	for groupID, selection := range snapshot {
		if len(selection) == 0 {
			continue
		}
		wg.Add(1)
		go func(groupID string, selection []string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Scheduler GroupID:%s] PANIC during broadcast: %v", groupID, r)
					sentry.CurrentHub().Recover(r)
				}
			}()

			sent, err := s.broadcaster.Broadcast(ctx, groupID, selection, today)
			if err != nil {
				log.Printf("[Scheduler GroupID:%s] Broadcast failed: %v", groupID, err)
				sentry.CaptureException(fmt.Errorf("daily broadcast for group %s: %w", groupID, err))
			}
			mu.Lock()
			results[groupID] = sent
			mu.Unlock()
		}(groupID, selection)
	}
	wg.Wait()

	log.Printf("[Scheduler] Daily broadcast for %s finished for %d groups", today.Format(time.DateOnly), len(results))
	return results
}
