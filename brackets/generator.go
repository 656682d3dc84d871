package brackets

import (
	"github.com/Dosada05/focus-tools/models"
)

type GenerateRoundParams struct {
	// Entrants is the live entrant table. Generators may mutate the records
	// of auto-resolved bye matches.
	Entrants    []*models.Entrant
	RoundNumber int
}

type RoundGenerator interface {
	GenerateRound(params GenerateRoundParams) *models.Round

	GetName() string
}
