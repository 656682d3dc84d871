package models

const (
	ByeEntrantID   = "bye"
	ByeEntrantName = "BYE"
)

// Entrant is a participant of a Swiss tournament (a task, for the prioritizer).
type Entrant struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Wins             int      `json:"wins"`
	Losses           int      `json:"losses"`
	Opponents        []string `json:"opponents"`
	OpponentStrength int      `json:"opponent_strength"`
}

func (e *Entrant) IsBye() bool {
	return e.ID == ByeEntrantID
}

// HasFaced reports whether id appears in the entrant's opponent history.
func (e *Entrant) HasFaced(id string) bool {
	for _, opp := range e.Opponents {
		if opp == id {
			return true
		}
	}
	return false
}

// Standing is the externally visible snapshot of an entrant.
type Standing struct {
	Rank             int    `json:"rank"`
	EntrantID        string `json:"entrant_id"`
	Name             string `json:"name"`
	Wins             int    `json:"wins"`
	Losses           int    `json:"losses"`
	OpponentStrength int    `json:"opponent_strength"`
}
