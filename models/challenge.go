package models

import "time"

type ChallengeStatus string

const (
	ChallengeIdle      ChallengeStatus = "idle"
	ChallengeActive    ChallengeStatus = "active"
	ChallengePaused    ChallengeStatus = "paused"
	ChallengeFailed    ChallengeStatus = "failed"
	ChallengeSucceeded ChallengeStatus = "succeeded"
)

// IsTerminal is true for Failed and Succeeded; only a reset leaves them.
func (s ChallengeStatus) IsTerminal() bool {
	return s == ChallengeFailed || s == ChallengeSucceeded
}

// ChallengeSnapshot is the observable state of a writing challenge timer.
type ChallengeSnapshot struct {
	Status        ChallengeStatus `json:"status"`
	Duration      time.Duration   `json:"-"`
	MaxInactivity time.Duration   `json:"-"`
	Elapsed       time.Duration   `json:"-"`
	Remaining     time.Duration   `json:"-"`
	UntilFailure  time.Duration   `json:"-"`
	TextLength    int             `json:"text_length"`
	WordCount     int             `json:"word_count"`
	// Text is only set once the challenge has ended.
	Text string `json:"text,omitempty"`

	DurationSeconds      int     `json:"duration_seconds"`
	MaxInactivitySeconds int     `json:"max_inactivity_seconds"`
	RemainingSeconds     int     `json:"remaining_seconds"`
	UntilFailureSeconds  float64 `json:"until_failure_seconds"`
	RemainingDisplay     string  `json:"remaining_display"`
}

// Challenge is the read model of a writing challenge session.
type Challenge struct {
	ID        string            `json:"id"`
	Snapshot  ChallengeSnapshot `json:"snapshot"`
	Version   uint64            `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
