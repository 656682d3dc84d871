package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/focus-tools/challenge"
	"github.com/Dosada05/focus-tools/models"
	"github.com/Dosada05/focus-tools/repositories"
)

func newTestChallengeService(t *testing.T) (ChallengeService, *recordingNotifier, *testClock) {
	t.Helper()
	clock := newTestClock()
	notifier := &recordingNotifier{}
	repo := repositories.NewMemorySessionRepository[*challenge.Timer](clock.Now)
	return NewChallengeService(repo, notifier, discardLogger(), clock.Now), notifier, clock
}

func TestChallengeService_TickerFailsInactiveWriter(t *testing.T) {
	ctx := context.Background()
	svc, notifier, clock := newTestChallengeService(t)

	created, err := svc.CreateChallenge(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeIdle, created.Snapshot.Status)

	view, err := svc.StartChallenge(ctx, created.ID, time.Minute, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeActive, view.Snapshot.Status)
	assert.Equal(t, "01:00", view.Snapshot.RemainingDisplay)

	for i := 0; i < 21; i++ {
		clock.Advance(100 * time.Millisecond)
		svc.TickAll(ctx)
	}

	got, err := svc.GetChallenge(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeFailed, got.Snapshot.Status)

	ev := notifier.last()
	assert.Equal(t, ChallengeRoomKind, ev.Kind)
	assert.Equal(t, EventChallengeUpdated, ev.Type)
	published, ok := ev.Payload.(*models.Challenge)
	require.True(t, ok)
	assert.Equal(t, models.ChallengeFailed, published.Snapshot.Status)

	// terminal timers are no longer ticked or published
	before := notifier.count()
	clock.Advance(time.Second)
	svc.TickAll(ctx)
	assert.Equal(t, before, notifier.count())
}

func TestChallengeService_ActivityKeepsWriterAlive(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestChallengeService(t)

	created, err := svc.CreateChallenge(ctx)
	require.NoError(t, err)
	_, err = svc.StartChallenge(ctx, created.ID, 5*time.Second, 2*time.Second)
	require.NoError(t, err)

	for i := 1; i <= 50; i++ {
		clock.Advance(100 * time.Millisecond)
		if i%10 == 0 {
			_, err := svc.RecordActivity(ctx, created.ID, i)
			require.NoError(t, err)
		}
		svc.TickAll(ctx)
		got, err := svc.GetChallenge(ctx, created.ID)
		require.NoError(t, err)
		require.NotEqual(t, models.ChallengeFailed, got.Snapshot.Status, "tick %d", i)
	}

	got, err := svc.GetChallenge(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeSucceeded, got.Snapshot.Status)
	assert.Equal(t, 50, got.Snapshot.TextLength)
}

func TestChallengeService_PauseStopsTheClock(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestChallengeService(t)

	created, err := svc.CreateChallenge(ctx)
	require.NoError(t, err)
	_, err = svc.StartChallenge(ctx, created.ID, 10*time.Second, 3*time.Second)
	require.NoError(t, err)

	clock.Advance(time.Second)
	view, err := svc.PauseChallenge(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengePaused, view.Snapshot.Status)

	clock.Advance(time.Hour)
	svc.TickAll(ctx)
	view, err = svc.ResumeChallenge(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeActive, view.Snapshot.Status)

	clock.Advance(2 * time.Second)
	svc.TickAll(ctx)
	got, err := svc.GetChallenge(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeActive, got.Snapshot.Status)
	assert.Equal(t, 7, got.Snapshot.RemainingSeconds)

	view, err = svc.ResetChallenge(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeIdle, view.Snapshot.Status)
}

func TestChallengeService_Errors(t *testing.T) {
	ctx := context.Background()
	svc, notifier, _ := newTestChallengeService(t)

	_, err := svc.PauseChallenge(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	created, err := svc.CreateChallenge(ctx)
	require.NoError(t, err)

	_, err = svc.PauseChallenge(ctx, created.ID)
	assert.ErrorIs(t, err, challenge.ErrInvalidTransition)
	_, err = svc.StartChallenge(ctx, created.ID, 0, time.Second)
	assert.ErrorIs(t, err, challenge.ErrInvalidSettings)
	_, err = svc.RecordActivity(ctx, created.ID, -1)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Zero(t, notifier.count())

	require.NoError(t, svc.DeleteChallenge(ctx, created.ID))
	_, err = svc.GetChallenge(ctx, created.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestChallengeService_RunTickerStopsWithContext(t *testing.T) {
	svc, _, _ := newTestChallengeService(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.RunTicker(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
}

func TestChallengeService_RecordText(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestChallengeService(t)

	created, err := svc.CreateChallenge(ctx)
	require.NoError(t, err)
	_, err = svc.StartChallenge(ctx, created.ID, 2*time.Second, time.Second)
	require.NoError(t, err)

	clock.Advance(500 * time.Millisecond)
	view, err := svc.RecordText(ctx, created.ID, "the quick brown fox")
	require.NoError(t, err)
	assert.Equal(t, 19, view.Snapshot.TextLength)
	assert.Equal(t, 4, view.Snapshot.WordCount)
	assert.Empty(t, view.Snapshot.Text)

	clock.Advance(time.Second)
	svc.TickAll(ctx)
	got, err := svc.GetChallenge(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeFailed, got.Snapshot.Status)
	assert.Equal(t, "the quick brown fox", got.Snapshot.Text)
	assert.Greater(t, got.Version, view.Version)
}
