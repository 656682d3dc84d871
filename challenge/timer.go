// Package challenge implements the writing challenge timer: the writer must
// keep typing until the target duration elapses, and fails as soon as they
// stay inactive for too long.
//
// The timer never reads the clock itself. Every transition takes the
// current instant, and the owner schedules Tick calls (every 100ms in the
// service) and stops them by simply not calling Tick.
package challenge

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Dosada05/focus-tools/models"
	"github.com/Dosada05/focus-tools/utils"
)

var (
	ErrInvalidSettings   = errors.New("duration and max inactivity must be positive")
	ErrInvalidTransition = errors.New("invalid challenge state transition")
)

type Timer struct {
	status        models.ChallengeStatus
	duration      time.Duration
	maxInactivity time.Duration

	startedAt    time.Time
	lastActivity time.Time
	pausedAt     time.Time
	pausedTotal  time.Duration

	elapsed      time.Duration
	remaining    time.Duration
	untilFailure time.Duration
	textLength   int
	wordCount    int
	text         string
}

func NewTimer() *Timer {
	return &Timer{status: models.ChallengeIdle}
}

func (t *Timer) Status() models.ChallengeStatus {
	return t.status
}

// Start begins the challenge at now. Only valid from Idle.
func (t *Timer) Start(now time.Time, duration, maxInactivity time.Duration) error {
	if t.status != models.ChallengeIdle {
		return ErrInvalidTransition
	}
	if duration <= 0 || maxInactivity <= 0 {
		return ErrInvalidSettings
	}

	t.status = models.ChallengeActive
	t.duration = duration
	t.maxInactivity = maxInactivity
	t.startedAt = now
	t.lastActivity = now
	t.pausedAt = time.Time{}
	t.pausedTotal = 0
	t.elapsed = 0
	t.remaining = duration
	t.untilFailure = maxInactivity
	return nil
}

// Tick advances the state machine to now. Reaching the target duration is
// checked before inactivity, so a tie resolves as success.
func (t *Timer) Tick(now time.Time) models.ChallengeSnapshot {
	if t.status != models.ChallengeActive {
		return t.Snapshot()
	}

	t.elapsed = now.Sub(t.startedAt) - t.pausedTotal
	t.remaining = max(0, t.duration-t.elapsed)
	if t.remaining == 0 {
		t.status = models.ChallengeSucceeded
		return t.Snapshot()
	}

	inactivity := now.Sub(t.lastActivity)
	t.untilFailure = max(0, t.maxInactivity-inactivity)
	if inactivity >= t.maxInactivity {
		t.status = models.ChallengeFailed
	}
	return t.Snapshot()
}

// RecordActivity stores the new text length. Only growth counts as activity:
// deleting text does not reset the inactivity clock.
func (t *Timer) RecordActivity(now time.Time, textLength int) {
	grew := textLength > t.textLength
	t.textLength = textLength
	if grew && t.status == models.ChallengeActive {
		t.lastActivity = now
		t.untilFailure = t.maxInactivity
	}
}

// RecordText is RecordActivity for clients that send the whole text. The
// length is counted in characters and the text is kept for the results.
func (t *Timer) RecordText(now time.Time, text string) {
	t.RecordActivity(now, utf8.RuneCountInString(text))
	t.text = text
	t.wordCount = len(strings.Fields(text))
}

func (t *Timer) Pause(now time.Time) error {
	if t.status != models.ChallengeActive {
		return ErrInvalidTransition
	}
	t.status = models.ChallengePaused
	t.pausedAt = now
	return nil
}

// Resume continues a paused challenge. The paused interval does not count
// towards elapsed time and the writer gets a fresh inactivity window.
func (t *Timer) Resume(now time.Time) error {
	if t.status != models.ChallengePaused {
		return ErrInvalidTransition
	}
	t.pausedTotal += now.Sub(t.pausedAt)
	t.pausedAt = time.Time{}
	t.lastActivity = now
	t.untilFailure = t.maxInactivity
	t.status = models.ChallengeActive
	return nil
}

func (t *Timer) Reset() {
	*t = Timer{status: models.ChallengeIdle}
}

func (t *Timer) Snapshot() models.ChallengeSnapshot {
	remainingSeconds := int(math.Ceil(t.remaining.Seconds()))
	snap := models.ChallengeSnapshot{
		Status:        t.status,
		Duration:      t.duration,
		MaxInactivity: t.maxInactivity,
		Elapsed:       t.elapsed,
		Remaining:     t.remaining,
		UntilFailure:  t.untilFailure,
		TextLength:    t.textLength,
		WordCount:     t.wordCount,

		DurationSeconds:      int(t.duration / time.Second),
		MaxInactivitySeconds: int(t.maxInactivity / time.Second),
		RemainingSeconds:     remainingSeconds,
		UntilFailureSeconds:  t.untilFailure.Seconds(),
		RemainingDisplay:     utils.FormatClock(remainingSeconds),
	}
	// the text itself only belongs on the results screen
	if t.status.IsTerminal() {
		snap.Text = t.text
	}
	return snap
}
