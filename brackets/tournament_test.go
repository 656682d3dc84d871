package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/focus-tools/models"
)

func TestMaxRoundsFor(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{2, 3}, {3, 3}, {4, 3}, {8, 3}, {9, 4}, {16, 4}, {17, 5}, {100, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaxRoundsFor(tt.n), "n=%d", tt.n)
	}
}

func TestManager_StartRejectsTooFewNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
	}{
		{"empty", nil},
		{"single", []string{"Only task"}},
		{"blank lines", []string{"", "   ", "\t"}},
		{"markers only", []string{"-", "* ", "3.", "Real task"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(nil)
			err := m.Start(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotEnoughEntrants)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, models.PhaseSetup, m.Phase())
			assert.Empty(t, m.Entrants())
			assert.Empty(t, m.CurrentMatches())
		})
	}
}

func TestManager_StartFromMarkdownList(t *testing.T) {
	m := NewManager(nil)
	require.NoError(t, m.StartFromText("- Task 1\n* Task 2\n3. Task 3"))

	var got []string
	for _, e := range m.Entrants() {
		got = append(got, e.Name)
	}
	assert.Equal(t, []string{"Task 1", "Task 2", "Task 3"}, got)
	assert.Equal(t, models.PhaseActive, m.Phase())
	assert.Equal(t, 1, m.CurrentRound())
	assert.Equal(t, 3, m.MaxRounds())
}

func TestManager_StartTwice(t *testing.T) {
	m := startedManager(t, "A", "B")
	assert.ErrorIs(t, m.Start([]string{"C", "D"}), ErrTournamentStarted)
	assert.Len(t, m.Entrants(), 2)
}

func TestManager_RecordResultIsIdempotent(t *testing.T) {
	m := startedManager(t, "A", "B", "C", "D")
	match := m.CurrentMatches()[0]

	require.NoError(t, m.RecordResult(match.ID, match.SideA.EntrantID))
	require.NoError(t, m.RecordResult(match.ID, match.SideA.EntrantID))
	require.NoError(t, m.RecordResult(match.ID, match.SideB.EntrantID))

	winner, _ := m.Entrant(match.SideA.EntrantID)
	loser, _ := m.Entrant(match.SideB.EntrantID)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 0, winner.Losses)
	assert.Equal(t, 1, loser.Losses)
	assert.Equal(t, []string{loser.ID}, winner.Opponents)

	stored, ok := m.Match(match.ID)
	require.True(t, ok)
	require.NotNil(t, stored.Winner)
	assert.Equal(t, match.SideA.EntrantID, *stored.Winner)
}

func TestManager_RecordResultErrors(t *testing.T) {
	m := startedManager(t, "A", "B", "C", "D")
	before := m.Entrants()

	err := m.RecordResult("match-9-9", "entrant-0")
	assert.ErrorIs(t, err, ErrMatchNotFound)

	// entrant-2 plays in match-1-1, not match-1-0
	err = m.RecordResult("match-1-0", "entrant-2")
	assert.ErrorIs(t, err, ErrWinnerNotInMatch)

	assert.Equal(t, before, m.Entrants())
	for _, match := range m.CurrentMatches() {
		assert.Nil(t, match.WinnerID)
	}
}

func TestManager_RoundCompletion(t *testing.T) {
	m := startedManager(t, "A", "B", "C", "D", "E")
	assert.False(t, m.IsRoundComplete())
	assert.ErrorIs(t, m.AdvanceRound(), ErrRoundIncomplete)
	assert.Equal(t, 1, m.CurrentRound())

	for _, match := range m.CurrentMatches() {
		if match.WinnerID == nil {
			assert.False(t, m.IsRoundComplete())
			require.NoError(t, m.RecordResult(match.ID, match.SideB.EntrantID))
		}
	}
	assert.True(t, m.IsRoundComplete())
	require.NoError(t, m.AdvanceRound())
	assert.Equal(t, 2, m.CurrentRound())
	assert.False(t, m.IsRoundComplete())
}

func TestManager_OpponentStrengthIsRecomputed(t *testing.T) {
	m := startedManager(t, "A", "B", "C", "D")

	// round 1: A beats B, C beats D
	require.NoError(t, m.RecordResult("match-1-0", "entrant-0"))
	require.NoError(t, m.RecordResult("match-1-1", "entrant-2"))
	a, _ := m.Entrant("entrant-0")
	assert.Equal(t, 0, a.OpponentStrength)

	require.NoError(t, m.AdvanceRound())
	// round 2: A-C, B-D. A beats C.
	require.NoError(t, m.RecordResult("match-2-0", "entrant-0"))
	a, _ = m.Entrant("entrant-0")
	assert.Equal(t, 1, a.OpponentStrength)

	// B's win raises A's strength too, although A did not play.
	require.NoError(t, m.RecordResult("match-2-1", "entrant-1"))
	a, _ = m.Entrant("entrant-0")
	assert.Equal(t, 2, a.OpponentStrength)
}

func TestManager_RankingKeepsInputOrderOnTies(t *testing.T) {
	m := startedManager(t, "A", "B", "C", "D")
	require.NoError(t, m.RecordResult("match-1-0", "entrant-0"))
	require.NoError(t, m.RecordResult("match-1-1", "entrant-2"))

	var order []string
	for _, s := range m.FinalRankings() {
		order = append(order, s.Name)
	}
	assert.Equal(t, []string{"A", "C", "B", "D"}, order)

	again := m.FinalRankings()
	assert.Equal(t, 1, again[0].Rank)
	assert.Equal(t, 4, again[3].Rank)
}

func TestManager_FullTournament(t *testing.T) {
	for n := 2; n <= 9; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			m := startedManager(t, names(n)...)
			rounds := m.MaxRounds()

			for r := 1; r <= rounds; r++ {
				assert.Equal(t, r, m.CurrentRound())
				for _, match := range m.CurrentMatches() {
					if match.WinnerID == nil {
						require.NoError(t, m.RecordResult(match.ID, match.SideA.EntrantID))
					}
				}
				for _, e := range m.Entrants() {
					assert.Equal(t, r, e.Wins+e.Losses, "%s after round %d", e.Name, r)
				}
				require.NoError(t, m.AdvanceRound())
			}

			assert.True(t, m.IsComplete())
			assert.Equal(t, models.PhaseComplete, m.Phase())
			assert.ErrorIs(t, m.AdvanceRound(), ErrTournamentNotActive)
			assert.Len(t, m.Rounds(), rounds)

			rankings := m.FinalRankings()
			require.Len(t, rankings, n)
			for i, s := range rankings {
				assert.Equal(t, i+1, s.Rank)
				assert.NotEqual(t, models.ByeEntrantID, s.EntrantID)
			}
			for i := 1; i < len(rankings); i++ {
				assert.GreaterOrEqual(t, rankings[i-1].Wins, rankings[i].Wins)
			}
		})
	}
}

func TestManager_Reset(t *testing.T) {
	m := startedManager(t, "A", "B", "C")
	require.NoError(t, m.RecordResult("match-1-0", "entrant-0"))

	m.Reset()
	assert.Equal(t, models.PhaseSetup, m.Phase())
	assert.Zero(t, m.CurrentRound())
	assert.Zero(t, m.MaxRounds())
	assert.Empty(t, m.Entrants())
	assert.Empty(t, m.Rounds())
	assert.True(t, m.IsRoundComplete())
	assert.ErrorIs(t, m.AdvanceRound(), ErrTournamentNotActive)
	assert.Equal(t, "Swiss", m.Format())

	require.NoError(t, m.Start([]string{"X", "Y"}))
	assert.Len(t, m.Entrants(), 2)
}

func TestManager_ByeIsHidden(t *testing.T) {
	m := startedManager(t, "A", "B", "C")

	for _, e := range m.Entrants() {
		assert.False(t, e.IsBye())
	}
	for _, s := range m.FinalRankings() {
		assert.NotEqual(t, models.ByeEntrantName, s.Name)
	}
	bye, ok := m.Entrant(models.ByeEntrantID)
	require.True(t, ok)
	assert.Equal(t, 4, bye.Losses, "starts at 3 and loses round 1")
}
