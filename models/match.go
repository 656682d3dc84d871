package models

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusCompleted MatchStatus = "completed"
)

// Match references its two sides by entrant id; live stats are looked up
// in the owning tournament's entrant table.
type Match struct {
	ID     string  `json:"id"`
	Round  int     `json:"round"`
	SideA  string  `json:"side_a"`
	SideB  string  `json:"side_b"`
	Winner *string `json:"winner,omitempty"`
}

func (m *Match) IsDecided() bool {
	return m.Winner != nil
}

func (m *Match) Status() MatchStatus {
	if m.IsDecided() {
		return MatchStatusCompleted
	}
	return MatchStatusPending
}

func (m *Match) Involves(entrantID string) bool {
	return m.SideA == entrantID || m.SideB == entrantID
}

// IsBye reports whether one side of the match is the synthetic bye entrant.
func (m *Match) IsBye() bool {
	return m.Involves(ByeEntrantID)
}

// Opponent returns the other side of the match, or "" if entrantID plays no part in it.
func (m *Match) Opponent(entrantID string) string {
	switch entrantID {
	case m.SideA:
		return m.SideB
	case m.SideB:
		return m.SideA
	}
	return ""
}

type Round struct {
	RoundNumber int      `json:"round_number"`
	Matches     []*Match `json:"matches"`
}

// IsComplete is true when every match of the round has a winner.
func (r *Round) IsComplete() bool {
	for _, m := range r.Matches {
		if !m.IsDecided() {
			return false
		}
	}
	return true
}

// MatchSide is an entrant as shown inside a match view, with live stats.
type MatchSide struct {
	EntrantID string `json:"entrant_id"`
	Name      string `json:"name"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
}

// MatchView is the caller-facing rendition of a match.
type MatchView struct {
	ID       string      `json:"id"`
	Round    int         `json:"round"`
	SideA    MatchSide   `json:"side_a"`
	SideB    MatchSide   `json:"side_b"`
	WinnerID *string     `json:"winner_id,omitempty"`
	Status   MatchStatus `json:"status"`
	IsBye    bool        `json:"is_bye"`
}
