package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/focus-tools/brackets"
	"github.com/Dosada05/focus-tools/models"
	"github.com/Dosada05/focus-tools/repositories"
)

type TournamentService interface {
	CreateTournament(ctx context.Context) (*models.Tournament, error)
	GetTournament(ctx context.Context, sessionID string) (*models.Tournament, error)
	StartTournament(ctx context.Context, sessionID, entrants string) (*models.Tournament, error)
	RecordResult(ctx context.Context, sessionID, matchID, winnerID string) (*models.Tournament, error)
	AdvanceRound(ctx context.Context, sessionID string) (*models.Tournament, error)
	ResetTournament(ctx context.Context, sessionID string) (*models.Tournament, error)
	GetRankings(ctx context.Context, sessionID string) ([]models.Standing, error)
	DeleteTournament(ctx context.Context, sessionID string) error
	EvictIdle(ctx context.Context, maxIdle time.Duration) int
}

type tournamentService struct {
	repo     repositories.SessionRepository[*brackets.Manager]
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewTournamentService builds the prioritizer service. clock may be nil, in
// which case time.Now is used.
func NewTournamentService(
	repo repositories.SessionRepository[*brackets.Manager],
	notifier Notifier,
	logger *slog.Logger,
	clock func() time.Time,
) TournamentService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &tournamentService{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With(slog.String("service", "tournament")),
		now:      clock,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context) (*models.Tournament, error) {
	session, err := s.repo.Create(ctx, brackets.NewManager(brackets.NewSwissGenerator()))
	if err != nil {
		return nil, fmt.Errorf("create tournament session: %w", err)
	}
	s.logger.Info("tournament session created", slog.String("session_id", session.ID))

	session.Mu.Lock()
	defer session.Mu.Unlock()
	return tournamentView(session), nil
}

func (s *tournamentService) GetTournament(ctx context.Context, sessionID string) (*models.Tournament, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, handleRepositoryError(err, sessionID)
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()
	return tournamentView(session), nil
}

func (s *tournamentService) StartTournament(ctx context.Context, sessionID, entrants string) (*models.Tournament, error) {
	var format string
	view, err := s.mutate(ctx, sessionID, func(m *brackets.Manager) error {
		if err := m.StartFromText(entrants); err != nil {
			return fmt.Errorf("start tournament: %w", err)
		}
		format = m.Format()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tournament started",
		slog.String("session_id", sessionID),
		slog.String("format", format),
		slog.Int("entrants", len(view.Standings)),
		slog.Int("max_rounds", view.MaxRounds),
	)
	return view, nil
}

func (s *tournamentService) RecordResult(ctx context.Context, sessionID, matchID, winnerID string) (*models.Tournament, error) {
	return s.mutate(ctx, sessionID, func(m *brackets.Manager) error {
		if err := m.RecordResult(matchID, winnerID); err != nil {
			return fmt.Errorf("record result: %w", err)
		}
		return nil
	})
}

func (s *tournamentService) AdvanceRound(ctx context.Context, sessionID string) (*models.Tournament, error) {
	view, err := s.mutate(ctx, sessionID, func(m *brackets.Manager) error {
		if err := m.AdvanceRound(); err != nil {
			return fmt.Errorf("advance round: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if view.Phase == models.PhaseComplete {
		s.logger.Info("tournament complete", slog.String("session_id", sessionID), slog.Int("rounds", view.MaxRounds))
	}
	return view, nil
}

func (s *tournamentService) ResetTournament(ctx context.Context, sessionID string) (*models.Tournament, error) {
	return s.mutate(ctx, sessionID, func(m *brackets.Manager) error {
		m.Reset()
		return nil
	})
}

func (s *tournamentService) GetRankings(ctx context.Context, sessionID string) ([]models.Standing, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, handleRepositoryError(err, sessionID)
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()
	if !session.Value.IsComplete() {
		return nil, ErrTournamentNotComplete
	}
	return session.Value.FinalRankings(), nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return handleRepositoryError(err, sessionID)
	}
	s.notifier.Publish(TournamentRoomKind, sessionID, EventSessionDeleted, nil)
	s.notifier.CloseRoom(brackets.RoomID(TournamentRoomKind, sessionID))
	s.logger.Info("tournament session deleted", slog.String("session_id", sessionID))
	return nil
}

func (s *tournamentService) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	evicted := s.repo.DeleteIdle(ctx, s.now().Add(-maxIdle))
	for _, id := range evicted {
		s.notifier.CloseRoom(brackets.RoomID(TournamentRoomKind, id))
		s.logger.Debug("idle tournament session evicted", slog.String("session_id", id))
	}
	return len(evicted)
}

// mutate runs fn under the session lock and, on success, publishes the new
// view to the session room.
func (s *tournamentService) mutate(ctx context.Context, sessionID string, fn func(m *brackets.Manager) error) (*models.Tournament, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, handleRepositoryError(err, sessionID)
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	if err := fn(session.Value); err != nil {
		return nil, err
	}
	session.UpdatedAt = s.now()
	session.Version++

	view := tournamentView(session)
	s.notifier.Publish(TournamentRoomKind, sessionID, EventTournamentUpdated, view)
	return view, nil
}

// tournamentView must be called with the session lock held.
func tournamentView(session *repositories.Session[*brackets.Manager]) *models.Tournament {
	m := session.Value
	view := &models.Tournament{
		ID:             session.ID,
		Phase:          m.Phase(),
		CurrentRound:   m.CurrentRound(),
		MaxRounds:      m.MaxRounds(),
		RoundComplete:  m.Phase() == models.PhaseActive && m.IsRoundComplete(),
		CurrentMatches: m.CurrentMatches(),
		Standings:      m.Standings(),
		Version:        session.Version,
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
	}
	if m.IsComplete() {
		view.FinalRankings = m.FinalRankings()
	}
	return view
}
