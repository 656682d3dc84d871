package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/focus-tools/brackets"
	"github.com/Dosada05/focus-tools/challenge"
	"github.com/Dosada05/focus-tools/models"
	"github.com/Dosada05/focus-tools/repositories"
)

type ChallengeService interface {
	CreateChallenge(ctx context.Context) (*models.Challenge, error)
	GetChallenge(ctx context.Context, sessionID string) (*models.Challenge, error)
	StartChallenge(ctx context.Context, sessionID string, duration, maxInactivity time.Duration) (*models.Challenge, error)
	RecordActivity(ctx context.Context, sessionID string, textLength int) (*models.Challenge, error)
	RecordText(ctx context.Context, sessionID, text string) (*models.Challenge, error)
	PauseChallenge(ctx context.Context, sessionID string) (*models.Challenge, error)
	ResumeChallenge(ctx context.Context, sessionID string) (*models.Challenge, error)
	ResetChallenge(ctx context.Context, sessionID string) (*models.Challenge, error)
	DeleteChallenge(ctx context.Context, sessionID string) error
	// TickAll advances every active timer once.
	TickAll(ctx context.Context)
	// RunTicker calls TickAll every interval until ctx is done.
	RunTicker(ctx context.Context, interval time.Duration) error
	EvictIdle(ctx context.Context, maxIdle time.Duration) int
}

type challengeService struct {
	repo     repositories.SessionRepository[*challenge.Timer]
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewChallengeService builds the timer service. clock may be nil, in which
// case time.Now is used.
func NewChallengeService(
	repo repositories.SessionRepository[*challenge.Timer],
	notifier Notifier,
	logger *slog.Logger,
	clock func() time.Time,
) ChallengeService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &challengeService{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With(slog.String("service", "challenge")),
		now:      clock,
	}
}

func (s *challengeService) CreateChallenge(ctx context.Context) (*models.Challenge, error) {
	session, err := s.repo.Create(ctx, challenge.NewTimer())
	if err != nil {
		return nil, fmt.Errorf("create challenge session: %w", err)
	}
	s.logger.Info("challenge session created", slog.String("session_id", session.ID))

	session.Mu.Lock()
	defer session.Mu.Unlock()
	return challengeView(session), nil
}

func (s *challengeService) GetChallenge(ctx context.Context, sessionID string) (*models.Challenge, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, handleRepositoryError(err, sessionID)
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()
	return challengeView(session), nil
}

func (s *challengeService) StartChallenge(ctx context.Context, sessionID string, duration, maxInactivity time.Duration) (*models.Challenge, error) {
	view, err := s.mutate(ctx, sessionID, func(t *challenge.Timer, now time.Time) error {
		if err := t.Start(now, duration, maxInactivity); err != nil {
			return fmt.Errorf("start challenge: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("challenge started",
		slog.String("session_id", sessionID),
		slog.Duration("duration", duration),
		slog.Duration("max_inactivity", maxInactivity),
	)
	return view, nil
}

func (s *challengeService) RecordActivity(ctx context.Context, sessionID string, textLength int) (*models.Challenge, error) {
	if textLength < 0 {
		return nil, fmt.Errorf("%w: text length must not be negative", ErrValidationFailed)
	}
	return s.mutate(ctx, sessionID, func(t *challenge.Timer, now time.Time) error {
		t.RecordActivity(now, textLength)
		return nil
	})
}

func (s *challengeService) RecordText(ctx context.Context, sessionID, text string) (*models.Challenge, error) {
	return s.mutate(ctx, sessionID, func(t *challenge.Timer, now time.Time) error {
		t.RecordText(now, text)
		return nil
	})
}

func (s *challengeService) PauseChallenge(ctx context.Context, sessionID string) (*models.Challenge, error) {
	return s.mutate(ctx, sessionID, func(t *challenge.Timer, now time.Time) error {
		if err := t.Pause(now); err != nil {
			return fmt.Errorf("pause challenge: %w", err)
		}
		return nil
	})
}

func (s *challengeService) ResumeChallenge(ctx context.Context, sessionID string) (*models.Challenge, error) {
	return s.mutate(ctx, sessionID, func(t *challenge.Timer, now time.Time) error {
		if err := t.Resume(now); err != nil {
			return fmt.Errorf("resume challenge: %w", err)
		}
		return nil
	})
}

func (s *challengeService) ResetChallenge(ctx context.Context, sessionID string) (*models.Challenge, error) {
	return s.mutate(ctx, sessionID, func(t *challenge.Timer, _ time.Time) error {
		t.Reset()
		return nil
	})
}

func (s *challengeService) DeleteChallenge(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return handleRepositoryError(err, sessionID)
	}
	s.notifier.Publish(ChallengeRoomKind, sessionID, EventSessionDeleted, nil)
	s.notifier.CloseRoom(brackets.RoomID(ChallengeRoomKind, sessionID))
	s.logger.Info("challenge session deleted", slog.String("session_id", sessionID))
	return nil
}

func (s *challengeService) TickAll(ctx context.Context) {
	for _, session := range s.repo.List(ctx) {
		s.tick(session)
	}
}

func (s *challengeService) tick(session *repositories.Session[*challenge.Timer]) {
	session.Mu.Lock()
	defer session.Mu.Unlock()

	t := session.Value
	if t.Status() != models.ChallengeActive {
		return
	}

	now := s.now()
	snap := t.Tick(now)
	session.UpdatedAt = now
	session.Version++

	switch snap.Status {
	case models.ChallengeFailed:
		s.logger.Info("challenge failed on inactivity", slog.String("session_id", session.ID), slog.Duration("elapsed", snap.Elapsed))
	case models.ChallengeSucceeded:
		s.logger.Info("challenge succeeded", slog.String("session_id", session.ID), slog.Int("text_length", snap.TextLength))
	}
	s.notifier.Publish(ChallengeRoomKind, session.ID, EventChallengeUpdated, challengeView(session))
}

func (s *challengeService) RunTicker(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.logger.Info("challenge ticker started", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("challenge ticker stopped")
			return nil
		case <-ticker.C:
			s.TickAll(ctx)
		}
	}
}

func (s *challengeService) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	evicted := s.repo.DeleteIdle(ctx, s.now().Add(-maxIdle))
	for _, id := range evicted {
		s.notifier.CloseRoom(brackets.RoomID(ChallengeRoomKind, id))
		s.logger.Debug("idle challenge session evicted", slog.String("session_id", id))
	}
	return len(evicted)
}

func (s *challengeService) mutate(ctx context.Context, sessionID string, fn func(t *challenge.Timer, now time.Time) error) (*models.Challenge, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, handleRepositoryError(err, sessionID)
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	now := s.now()
	if err := fn(session.Value, now); err != nil {
		return nil, err
	}
	session.UpdatedAt = now
	session.Version++

	view := challengeView(session)
	s.notifier.Publish(ChallengeRoomKind, sessionID, EventChallengeUpdated, view)
	return view, nil
}

func challengeView(session *repositories.Session[*challenge.Timer]) *models.Challenge {
	return &models.Challenge{
		ID:        session.ID,
		Snapshot:  session.Value.Snapshot(),
		Version:   session.Version,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}
