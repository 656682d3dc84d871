package brackets

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotEnoughEntrants = fmt.Errorf("%w: at least %d entrant names are required", ErrInvalidInput, MinEntrants)

	ErrMatchNotFound    = errors.New("match not found")
	ErrWinnerNotInMatch = errors.New("winner is not a side of the match")

	ErrTournamentStarted   = errors.New("tournament has already been started")
	ErrTournamentNotActive = errors.New("tournament is not active")
	ErrRoundIncomplete     = errors.New("current round still has undecided matches")
)
