package brackets

import (
	"fmt"

	"github.com/Dosada05/focus-tools/models"
)

type SwissGenerator struct{}

func NewSwissGenerator() RoundGenerator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss"
}

// MatchID is derived from the round number and the position within the round.
func MatchID(roundNumber, position int) string {
	return fmt.Sprintf("match-%d-%d", roundNumber, position)
}

// NewByeEntrant builds the synthetic entrant that absorbs the odd one out.
// Its losses start at the real entrant count so it always sorts last.
func NewByeEntrant(realCount int) *models.Entrant {
	return &models.Entrant{
		ID:        models.ByeEntrantID,
		Name:      models.ByeEntrantName,
		Losses:    realCount,
		Opponents: []string{},
	}
}

// GenerateRound pairs entrants of similar standing, avoiding rematches when
// an unplayed opponent is still available further down the table.
// Matches against the bye entrant are decided immediately.
func (g *SwissGenerator) GenerateRound(params GenerateRoundParams) *models.Round {
	entrants := withBye(params.Entrants)
	sorted := SortByStanding(entrants)

	round := &models.Round{
		RoundNumber: params.RoundNumber,
		Matches:     make([]*models.Match, 0, len(sorted)/2),
	}
	paired := make(map[string]bool, len(sorted))

	for i, a := range sorted {
		if paired[a.ID] {
			continue
		}
		b := findOpponent(sorted, i, paired)
		if b == nil {
			continue
		}

		match := &models.Match{
			ID:    MatchID(params.RoundNumber, len(round.Matches)),
			Round: params.RoundNumber,
			SideA: a.ID,
			SideB: b.ID,
		}
		if a.IsBye() || b.IsBye() {
			resolveBye(match, a, b)
		}

		round.Matches = append(round.Matches, match)
		paired[a.ID] = true
		paired[b.ID] = true
	}

	return round
}

// findOpponent scans forward from i for the nearest unpaired entrant that
// sorted[i] has not faced, falling back to the nearest unpaired one.
func findOpponent(sorted []*models.Entrant, i int, paired map[string]bool) *models.Entrant {
	a := sorted[i]
	var fallback *models.Entrant
	for _, candidate := range sorted[i+1:] {
		if paired[candidate.ID] {
			continue
		}
		if !a.HasFaced(candidate.ID) {
			return candidate
		}
		if fallback == nil {
			fallback = candidate
		}
	}
	return fallback
}

func resolveBye(match *models.Match, a, b *models.Entrant) {
	winner, bye := a, b
	if a.IsBye() {
		winner, bye = b, a
	}

	winnerID := winner.ID
	match.Winner = &winnerID
	winner.Wins++
	bye.Losses++
	winner.Opponents = append(winner.Opponents, bye.ID)
	bye.Opponents = append(bye.Opponents, winner.ID)
}

// withBye appends a transient bye entrant when an odd list arrives without one.
func withBye(entrants []*models.Entrant) []*models.Entrant {
	if len(entrants)%2 == 0 {
		return entrants
	}
	for _, e := range entrants {
		if e.IsBye() {
			return entrants
		}
	}
	return append(entrants[:len(entrants):len(entrants)], NewByeEntrant(len(entrants)))
}
