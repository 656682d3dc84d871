package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/focus-tools/models"
)

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Task %d", i+1)
	}
	return out
}

func startedManager(t *testing.T, entrants ...string) *Manager {
	t.Helper()
	m := NewManager(nil)
	require.NoError(t, m.Start(entrants))
	return m
}

func TestSwissGenerator_RoundSizes(t *testing.T) {
	for n := 2; n <= 11; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			m := startedManager(t, names(n)...)

			for !m.IsComplete() {
				matches := m.CurrentMatches()
				assert.Len(t, matches, (n+1)/2)

				byes := 0
				seen := map[string]bool{}
				for _, match := range matches {
					if match.IsBye {
						byes++
						require.NotNil(t, match.WinnerID, "bye match must be decided at generation")
					}
					for _, id := range []string{match.SideA.EntrantID, match.SideB.EntrantID} {
						assert.False(t, seen[id], "entrant %s paired twice in one round", id)
						seen[id] = true
					}
				}
				if n%2 == 1 {
					assert.Equal(t, 1, byes)
				} else {
					assert.Zero(t, byes)
				}

				for _, match := range matches {
					if match.WinnerID == nil {
						require.NoError(t, m.RecordResult(match.ID, match.SideA.EntrantID))
					}
				}
				require.NoError(t, m.AdvanceRound())
			}
		})
	}
}

func TestSwissGenerator_ScenarioFourEntrants(t *testing.T) {
	m := startedManager(t, "A", "B", "C", "D")

	matches := m.CurrentMatches()
	require.Len(t, matches, 2)
	for _, match := range matches {
		assert.False(t, match.IsBye)
		assert.Nil(t, match.WinnerID)
	}
	assert.Equal(t, 3, m.MaxRounds())

	require.NoError(t, m.RecordResult(matches[0].ID, matches[0].SideA.EntrantID))
	assert.False(t, m.IsRoundComplete())
	require.NoError(t, m.RecordResult(matches[1].ID, matches[1].SideA.EntrantID))
	assert.True(t, m.IsRoundComplete())
}

func TestSwissGenerator_ScenarioThreeEntrants(t *testing.T) {
	m := startedManager(t, "A", "B", "C")

	matches := m.CurrentMatches()
	require.Len(t, matches, 2)

	var byeMatches []models.MatchView
	for _, match := range matches {
		if match.IsBye {
			byeMatches = append(byeMatches, match)
		}
	}
	require.Len(t, byeMatches, 1)
	bye := byeMatches[0]
	require.NotNil(t, bye.WinnerID)
	assert.NotEqual(t, models.ByeEntrantID, *bye.WinnerID)
	assert.Equal(t, models.MatchStatusCompleted, bye.Status)

	winner, ok := m.Entrant(*bye.WinnerID)
	require.True(t, ok)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, []string{models.ByeEntrantID}, winner.Opponents)
	assert.False(t, m.IsRoundComplete())
}

func TestSwissGenerator_AvoidsRematches(t *testing.T) {
	m := startedManager(t, "A", "B", "C", "D")

	play := func(winners ...string) {
		t.Helper()
		for i, match := range m.CurrentMatches() {
			require.NoError(t, m.RecordResult(match.ID, winners[i]))
		}
		require.NoError(t, m.AdvanceRound())
	}

	// round 1: A-B, C-D
	play("entrant-0", "entrant-2")
	// round 2: A-C, B-D
	round2 := m.CurrentMatches()
	require.Len(t, round2, 2)
	assert.Equal(t, [2]string{"entrant-0", "entrant-2"}, [2]string{round2[0].SideA.EntrantID, round2[0].SideB.EntrantID})
	assert.Equal(t, [2]string{"entrant-1", "entrant-3"}, [2]string{round2[1].SideA.EntrantID, round2[1].SideB.EntrantID})
	play("entrant-0", "entrant-1")

	// round 3: A-D, B-C
	round3 := m.CurrentMatches()
	require.Len(t, round3, 2)
	assert.Equal(t, [2]string{"entrant-0", "entrant-3"}, [2]string{round3[0].SideA.EntrantID, round3[0].SideB.EntrantID})
	assert.Equal(t, [2]string{"entrant-1", "entrant-2"}, [2]string{round3[1].SideA.EntrantID, round3[1].SideB.EntrantID})
}

func TestSwissGenerator_FallsBackToRematch(t *testing.T) {
	m := startedManager(t, "A", "B")

	first := m.CurrentMatches()
	require.Len(t, first, 1)
	require.NoError(t, m.RecordResult(first[0].ID, "entrant-1"))
	require.NoError(t, m.AdvanceRound())

	second := m.CurrentMatches()
	require.Len(t, second, 1)
	assert.True(t, second[0].SideA.EntrantID == "entrant-1" && second[0].SideB.EntrantID == "entrant-0",
		"the leader is paired with the only remaining entrant again")
}

func TestSwissGenerator_AddsTransientBye(t *testing.T) {
	entrants := []*models.Entrant{
		{ID: "x", Name: "X", Opponents: []string{}},
		{ID: "y", Name: "Y", Opponents: []string{}},
		{ID: "z", Name: "Z", Opponents: []string{}},
	}

	round := NewSwissGenerator().GenerateRound(GenerateRoundParams{Entrants: entrants, RoundNumber: 1})

	require.Len(t, round.Matches, 2)
	assert.Equal(t, "match-1-0", round.Matches[0].ID)
	assert.Equal(t, "match-1-1", round.Matches[1].ID)
	byeMatch := round.Matches[1]
	assert.True(t, byeMatch.IsBye())
	require.NotNil(t, byeMatch.Winner)
	assert.Equal(t, "z", *byeMatch.Winner)
	assert.Equal(t, 1, entrants[2].Wins)
	assert.Len(t, entrants, 3, "caller's slice is not extended")
}

func TestCompareStandings(t *testing.T) {
	a := &models.Entrant{ID: "a", Wins: 2, Losses: 1, OpponentStrength: 3}
	b := &models.Entrant{ID: "b", Wins: 2, Losses: 0, OpponentStrength: 1}
	c := &models.Entrant{ID: "c", Wins: 2, Losses: 1, OpponentStrength: 5}
	d := &models.Entrant{ID: "d", Wins: 3, Losses: 3}
	e := &models.Entrant{ID: "e", Wins: 2, Losses: 1, OpponentStrength: 3}

	sorted := SortByStanding([]*models.Entrant{a, b, c, d, e})

	ids := make([]string, 0, len(sorted))
	for _, s := range sorted {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"d", "b", "c", "a", "e"}, ids)
}

func TestRecomputeOpponentStrength(t *testing.T) {
	a := &models.Entrant{ID: "a", Wins: 2, Opponents: []string{"b", "c", "b"}}
	b := &models.Entrant{ID: "b", Wins: 1, Opponents: []string{"a", "a"}}
	c := &models.Entrant{ID: "c", Wins: 0, Opponents: []string{"a"}, OpponentStrength: 99}

	RecomputeOpponentStrength([]*models.Entrant{a, b, c})

	assert.Equal(t, 2, a.OpponentStrength)
	assert.Equal(t, 4, b.OpponentStrength)
	assert.Equal(t, 2, c.OpponentStrength)
}
