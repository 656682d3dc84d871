package brackets

import (
	"cmp"
	"slices"

	"github.com/Dosada05/focus-tools/models"
)

// CompareStandings orders entrants by wins (desc), losses (asc) and
// opponent strength (desc). Pairing and ranking both use it.
func CompareStandings(a, b *models.Entrant) int {
	if a.Wins != b.Wins {
		return cmp.Compare(b.Wins, a.Wins)
	}
	if a.Losses != b.Losses {
		return cmp.Compare(a.Losses, b.Losses)
	}
	return cmp.Compare(b.OpponentStrength, a.OpponentStrength)
}

// SortByStanding returns a stably sorted copy; exact ties keep input order.
func SortByStanding(entrants []*models.Entrant) []*models.Entrant {
	sorted := slices.Clone(entrants)
	slices.SortStableFunc(sorted, CompareStandings)
	return sorted
}

// RecomputeOpponentStrength rebuilds every entrant's opponent strength from
// the current win counts of its opponents.
func RecomputeOpponentStrength(entrants []*models.Entrant) {
	wins := make(map[string]int, len(entrants))
	for _, e := range entrants {
		wins[e.ID] = e.Wins
	}
	for _, e := range entrants {
		total := 0
		for _, opp := range e.Opponents {
			total += wins[opp]
		}
		e.OpponentStrength = total
	}
}

// BuildStandings drops the bye entrant and ranks the rest.
func BuildStandings(entrants []*models.Entrant) []models.Standing {
	visible := make([]*models.Entrant, 0, len(entrants))
	for _, e := range entrants {
		if !e.IsBye() {
			visible = append(visible, e)
		}
	}

	standings := make([]models.Standing, 0, len(visible))
	for i, e := range SortByStanding(visible) {
		standings = append(standings, models.Standing{
			Rank:             i + 1,
			EntrantID:        e.ID,
			Name:             e.Name,
			Wins:             e.Wins,
			Losses:           e.Losses,
			OpponentStrength: e.OpponentStrength,
		})
	}
	return standings
}
