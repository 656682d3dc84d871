package models

import "time"

// TournamentPhase is the lifecycle phase of a Swiss tournament.
type TournamentPhase string

const (
	PhaseSetup    TournamentPhase = "setup"
	PhaseActive   TournamentPhase = "active"
	PhaseComplete TournamentPhase = "complete"
)

// Tournament is the read model of a prioritizer session returned by the API.
type Tournament struct {
	ID             string          `json:"id"`
	Phase          TournamentPhase `json:"phase"`
	CurrentRound   int             `json:"current_round"`
	MaxRounds      int             `json:"max_rounds"`
	RoundComplete  bool            `json:"round_complete"`
	CurrentMatches []MatchView     `json:"current_matches"`
	Standings      []Standing      `json:"standings"`
	FinalRankings  []Standing      `json:"final_rankings,omitempty"`
	// Version increases with every change; a view with a lower version
	// than one already seen is stale.
	Version        uint64          `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
