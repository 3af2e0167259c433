package announcements

import (
	"context"
	"errors"
	"testing"
	"time"

	"langcast-bot/internal/outbound"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMatcher struct {
	mock.Mock
}

func (m *mockMatcher) Match(ctx context.Context, selection []string, date time.Time) ([]Entry, error) {
	args := m.Called(ctx, selection, date)
	entries, _ := args.Get(0).([]Entry)
	return entries, args.Error(1)
}

type mockPusher struct {
	mock.Mock
}

func (m *mockPusher) Push(ctx context.Context, groupID string, msgs ...outbound.Message) error {
	args := m.Called(ctx, groupID, msgs)
	return args.Error(0)
}

func TestBroadcastPushesSequentiallyWithDelay(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Label: "英文版", LanguageCode: "en", ImageURL: "https://cdn.example.com/en.png"},
		{Label: "越南文版", LanguageCode: "vi", ImageURL: "https://cdn.example.com/vi.png"},
		{Label: "英文版2", LanguageCode: "en", ImageURL: "https://cdn.example.com/en-2.png"},
	}

	matcher := new(mockMatcher)
	matcher.On("Match", mock.Anything, []string{"en", "vi"}, date).Return(entries, nil)

	pusher := new(mockPusher)
	for _, e := range entries {
		pusher.On("Push", mock.Anything, "G1", []outbound.Message{outbound.NewImage(e.ImageURL)}).Return(nil).Once()
	}

	b := NewBroadcaster(matcher, pusher, time.Second)
	var sleeps []time.Duration
	b.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	sent, err := b.Broadcast(context.Background(), "G1", []string{"en", "vi"}, date)
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeps)
	matcher.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestBroadcastContinuesAfterPushFailure(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{LanguageCode: "en", ImageURL: "https://cdn.example.com/a.png"},
		{LanguageCode: "en", ImageURL: "https://cdn.example.com/b.png"},
	}

	matcher := new(mockMatcher)
	matcher.On("Match", mock.Anything, []string{"en"}, date).Return(entries, nil)

	pusher := new(mockPusher)
	pusher.On("Push", mock.Anything, "G1", []outbound.Message{outbound.NewImage(entries[0].ImageURL)}).Return(errors.New("rate limited")).Once()
	pusher.On("Push", mock.Anything, "G1", []outbound.Message{outbound.NewImage(entries[1].ImageURL)}).Return(nil).Once()

	b := NewBroadcaster(matcher, pusher, time.Millisecond)
	b.sleep = func(context.Context, time.Duration) error { return nil }

	sent, err := b.Broadcast(context.Background(), "G1", []string{"en"}, date)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	pusher.AssertExpectations(t)
}

func TestBroadcastMatchError(t *testing.T) {
	matcher := new(mockMatcher)
	matcher.On("Match", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("index down"))
	pusher := new(mockPusher)

	sent, err := NewBroadcaster(matcher, pusher, 0).Broadcast(context.Background(), "G1", []string{"en"}, time.Now())
	assert.Error(t, err)
	assert.Zero(t, sent)
	pusher.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestBroadcastStopsWhenContextDone(t *testing.T) {
	entries := []Entry{
		{LanguageCode: "en", ImageURL: "https://cdn.example.com/a.png"},
		{LanguageCode: "en", ImageURL: "https://cdn.example.com/b.png"},
	}
	matcher := new(mockMatcher)
	matcher.On("Match", mock.Anything, mock.Anything, mock.Anything).Return(entries, nil)
	pusher := new(mockPusher)
	pusher.On("Push", mock.Anything, "G1", mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	b := NewBroadcaster(matcher, pusher, time.Hour)
	b.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}

	sent, err := b.Broadcast(ctx, "G1", []string{"en"}, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sent)
	pusher.AssertNumberOfCalls(t, "Push", 1)
}
