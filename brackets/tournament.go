package brackets

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Dosada05/focus-tools/models"
)

// Manager runs one Swiss tournament. It owns the entrant table; matches
// only hold entrant ids. A Manager is not safe for concurrent use.
type Manager struct {
	generator RoundGenerator

	entrants     []*models.Entrant
	index        map[string]int
	rounds       []*models.Round
	currentRound int
	maxRounds    int
	phase        models.TournamentPhase
}

func NewManager(generator RoundGenerator) *Manager {
	if generator == nil {
		generator = NewSwissGenerator()
	}
	return &Manager{
		generator: generator,
		phase:     models.PhaseSetup,
	}
}

// MaxRoundsFor returns max(3, ceil(log2(n))) for n real entrants.
func MaxRoundsFor(n int) int {
	rounds := 0
	if n > 1 {
		rounds = int(math.Ceil(math.Log2(float64(n))))
	}
	return max(3, rounds)
}

// Start seeds the entrant table from raw list lines and generates round 1.
// List markers are stripped and blank lines ignored. It fails without any
// state change when fewer than MinEntrants names remain.
func (m *Manager) Start(names []string) error {
	if m.phase != models.PhaseSetup {
		return ErrTournamentStarted
	}

	cleaned := ParseEntrantNames(names)
	if len(cleaned) < MinEntrants {
		return fmt.Errorf("%w (got %d)", ErrNotEnoughEntrants, len(cleaned))
	}

	entrants := make([]*models.Entrant, 0, len(cleaned)+1)
	for i, name := range cleaned {
		entrants = append(entrants, &models.Entrant{
			ID:        fmt.Sprintf("entrant-%d", i),
			Name:      name,
			Opponents: []string{},
		})
	}
	if len(cleaned)%2 == 1 {
		entrants = append(entrants, NewByeEntrant(len(cleaned)))
	}

	m.entrants = entrants
	m.index = make(map[string]int, len(entrants))
	for i, e := range entrants {
		m.index[e.ID] = i
	}
	m.rounds = nil
	m.currentRound = 1
	m.maxRounds = MaxRoundsFor(len(cleaned))
	m.phase = models.PhaseActive

	m.generateRound()
	return nil
}

// StartFromText is Start for a single multi-line block of text.
func (m *Manager) StartFromText(text string) error {
	return m.Start(strings.Split(text, "\n"))
}

func (m *Manager) generateRound() {
	round := m.generator.GenerateRound(GenerateRoundParams{
		Entrants:    m.entrants,
		RoundNumber: m.currentRound,
	})
	m.rounds = append(m.rounds, round)
	// bye matches were decided during generation
	RecomputeOpponentStrength(m.entrants)
}

// RecordResult decides a match. Recording a result for a match that already
// has a winner is a no-op. Unknown matches and winners that are not a side
// of the match are reported and leave the state untouched.
func (m *Manager) RecordResult(matchID, winnerID string) error {
	match := m.findMatch(matchID)
	if match == nil {
		return fmt.Errorf("%w: %q", ErrMatchNotFound, matchID)
	}
	if match.IsDecided() {
		return nil
	}
	if !match.Involves(winnerID) {
		return fmt.Errorf("%w: %q is not playing in %q", ErrWinnerNotInMatch, winnerID, matchID)
	}

	winner := m.entrants[m.index[winnerID]]
	loser := m.entrants[m.index[match.Opponent(winnerID)]]

	decided := winner.ID
	match.Winner = &decided
	winner.Wins++
	loser.Losses++
	winner.Opponents = append(winner.Opponents, loser.ID)
	loser.Opponents = append(loser.Opponents, winner.ID)

	RecomputeOpponentStrength(m.entrants)
	return nil
}

func (m *Manager) findMatch(matchID string) *models.Match {
	for _, round := range m.rounds {
		for _, match := range round.Matches {
			if match.ID == matchID {
				return match
			}
		}
	}
	return nil
}

func (m *Manager) currentRoundData() *models.Round {
	if m.currentRound < 1 || m.currentRound > len(m.rounds) {
		return nil
	}
	return m.rounds[m.currentRound-1]
}

// IsRoundComplete is true when every match of the current round is decided.
func (m *Manager) IsRoundComplete() bool {
	round := m.currentRoundData()
	return round == nil || round.IsComplete()
}

// AdvanceRound moves to the next round once the current one is decided and
// either generates it or completes the tournament.
func (m *Manager) AdvanceRound() error {
	if m.phase != models.PhaseActive {
		return ErrTournamentNotActive
	}
	if !m.IsRoundComplete() {
		return ErrRoundIncomplete
	}

	m.currentRound++
	if m.IsComplete() {
		m.phase = models.PhaseComplete
		return nil
	}

	m.generateRound()
	return nil
}

func (m *Manager) IsComplete() bool {
	return m.maxRounds > 0 && m.currentRound > m.maxRounds
}

// FinalRankings recomputes opponent strength and ranks every real entrant.
func (m *Manager) FinalRankings() []models.Standing {
	RecomputeOpponentStrength(m.entrants)
	return BuildStandings(m.entrants)
}

// Standings ranks the real entrants as they stand right now.
func (m *Manager) Standings() []models.Standing {
	return BuildStandings(m.entrants)
}

// Reset discards the tournament and returns to the setup phase.
func (m *Manager) Reset() {
	*m = Manager{
		generator: m.generator,
		phase:     models.PhaseSetup,
	}
}

func (m *Manager) Phase() models.TournamentPhase { return m.phase }

// Format names the pairing system in use.
func (m *Manager) Format() string { return m.generator.GetName() }

func (m *Manager) CurrentRound() int { return m.currentRound }

func (m *Manager) MaxRounds() int { return m.maxRounds }

// Entrants returns copies of the real entrants in input order.
func (m *Manager) Entrants() []models.Entrant {
	out := make([]models.Entrant, 0, len(m.entrants))
	for _, e := range m.entrants {
		if e.IsBye() {
			continue
		}
		out = append(out, cloneEntrant(e))
	}
	return out
}

func (m *Manager) Entrant(id string) (models.Entrant, bool) {
	i, ok := m.index[id]
	if !ok {
		return models.Entrant{}, false
	}
	return cloneEntrant(m.entrants[i]), true
}

func (m *Manager) Match(id string) (models.Match, bool) {
	match := m.findMatch(id)
	if match == nil {
		return models.Match{}, false
	}
	return cloneMatch(match), true
}

// Rounds returns copies of every generated round.
func (m *Manager) Rounds() []models.Round {
	out := make([]models.Round, 0, len(m.rounds))
	for _, r := range m.rounds {
		out = append(out, cloneRound(r))
	}
	return out
}

// CurrentMatches returns the matches of the current round, resolved against
// the live entrant table.
func (m *Manager) CurrentMatches() []models.MatchView {
	round := m.currentRoundData()
	if round == nil {
		return []models.MatchView{}
	}
	views := make([]models.MatchView, 0, len(round.Matches))
	for _, match := range round.Matches {
		views = append(views, m.matchView(match))
	}
	return views
}

func (m *Manager) matchView(match *models.Match) models.MatchView {
	view := models.MatchView{
		ID:     match.ID,
		Round:  match.Round,
		SideA:  m.side(match.SideA),
		SideB:  m.side(match.SideB),
		Status: match.Status(),
		IsBye:  match.IsBye(),
	}
	if match.Winner != nil {
		winner := *match.Winner
		view.WinnerID = &winner
	}
	return view
}

func (m *Manager) side(id string) models.MatchSide {
	e := m.entrants[m.index[id]]
	return models.MatchSide{
		EntrantID: e.ID,
		Name:      e.Name,
		Wins:      e.Wins,
		Losses:    e.Losses,
	}
}

func cloneEntrant(e *models.Entrant) models.Entrant {
	c := *e
	c.Opponents = slices.Clone(e.Opponents)
	return c
}

func cloneMatch(match *models.Match) models.Match {
	c := *match
	if match.Winner != nil {
		winner := *match.Winner
		c.Winner = &winner
	}
	return c
}

func cloneRound(r *models.Round) models.Round {
	c := models.Round{
		RoundNumber: r.RoundNumber,
		Matches:     make([]*models.Match, 0, len(r.Matches)),
	}
	for _, match := range r.Matches {
		mc := cloneMatch(match)
		c.Matches = append(c.Matches, &mc)
	}
	return c
}
