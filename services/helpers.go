package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/focus-tools/repositories"
)

// Room kinds used for live updates; a websocket room is kind + session id.
const (
	TournamentRoomKind = "tournament"
	ChallengeRoomKind  = "challenge"
)

// Live update event types.
const (
	EventTournamentUpdated = "TOURNAMENT_UPDATED"
	EventChallengeUpdated  = "CHALLENGE_UPDATED"
	EventSessionDeleted    = "SESSION_DELETED"
)

// Notifier pushes session updates to live observers. *brackets.Hub
// implements it.
type Notifier interface {
	Publish(kind, sessionID, eventType string, payload interface{})
	CloseRoom(roomID string)
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, string, string, interface{}) {}
func (noopNotifier) CloseRoom(string)                            {}

// IdleEvictor drops sessions that have not been used for maxIdle.
type IdleEvictor interface {
	EvictIdle(ctx context.Context, maxIdle time.Duration) int
}

func handleRepositoryError(err error, sessionID string) error {
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return err
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func RunJanitor(ctx context.Context, interval, maxIdle time.Duration, logger *slog.Logger, evictors ...IdleEvictor) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("session janitor started", slog.Duration("interval", interval), slog.Duration("max_idle", maxIdle))

	for {
		select {
		case <-ctx.Done():
			logger.Info("session janitor stopped")
			return nil
		case <-ticker.C:
			total := 0
			for _, e := range evictors {
				total += e.EvictIdle(ctx, maxIdle)
			}
			if total > 0 {
				logger.Info("janitor: evicted idle sessions", slog.Int("count", total))
			}
		}
	}
}
