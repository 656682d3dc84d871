package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Dosada05/focus-tools/models"
	"github.com/Dosada05/focus-tools/services"
)

const (
	minChallengeDuration = time.Minute
	maxChallengeDuration = 120 * time.Minute
	minInactivityWindow  = time.Second
	maxInactivityWindow  = 60 * time.Second
)

type ChallengeHandler struct {
	challengeService services.ChallengeService
	tokens           TokenIssuer
}

func NewChallengeHandler(cs services.ChallengeService, tokens TokenIssuer) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: cs,
		tokens:           tokens,
	}
}

// CreateHandler handles POST /api/challenges.
func (h *ChallengeHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	challenge, err := h.challengeService.CreateChallenge(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := h.tokens.Issue(challenge.ID, services.ChallengeRoomKind)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/api/challenges/"+challenge.ID)
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"challenge": challenge, "token": token}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChallengeHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	challenge, err := h.challengeService.GetChallenge(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenge": challenge}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartHandler handles POST /api/challenges/{sessionID}/start.
func (h *ChallengeHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		DurationSeconds      int `json:"duration_seconds"`
		MaxInactivitySeconds int `json:"max_inactivity_seconds"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// bounds are checked on the raw seconds, before any conversion can overflow
	validationErrors := make(map[string]string)
	if !withinSeconds(input.DurationSeconds, minChallengeDuration, maxChallengeDuration) {
		validationErrors["duration_seconds"] = "must be between 60 and 7200 (1 to 120 minutes)"
	}
	if !withinSeconds(input.MaxInactivitySeconds, minInactivityWindow, maxInactivityWindow) {
		validationErrors["max_inactivity_seconds"] = "must be between 1 and 60"
	}
	if len(validationErrors) > 0 {
		failedValidationResponse(w, r, validationErrors)
		return
	}

	duration := time.Duration(input.DurationSeconds) * time.Second
	maxInactivity := time.Duration(input.MaxInactivitySeconds) * time.Second

	challenge, err := h.challengeService.StartChallenge(r.Context(), id, duration, maxInactivity)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenge": challenge}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ActivityHandler handles POST /api/challenges/{sessionID}/activity. After
// every edit the client reports either the whole text or just its length.
func (h *ChallengeHandler) ActivityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Text       *string `json:"text"`
		TextLength *int    `json:"text_length"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var challenge *models.Challenge
	switch {
	case input.Text != nil:
		challenge, err = h.challengeService.RecordText(r.Context(), id, *input.Text)
	case input.TextLength != nil:
		challenge, err = h.challengeService.RecordActivity(r.Context(), id, *input.TextLength)
	default:
		failedValidationResponse(w, r, map[string]string{"text": "text or text_length must be provided"})
		return
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenge": challenge}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChallengeHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.challengeService.PauseChallenge)
}

func (h *ChallengeHandler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.challengeService.ResumeChallenge)
}

func (h *ChallengeHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.challengeService.ResetChallenge)
}

func (h *ChallengeHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.challengeService.DeleteChallenge(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func withinSeconds(seconds int, lo, hi time.Duration) bool {
	return seconds >= int(lo/time.Second) && seconds <= int(hi/time.Second)
}

type challengeTransition func(ctx context.Context, sessionID string) (*models.Challenge, error)

func (h *ChallengeHandler) transition(w http.ResponseWriter, r *http.Request, fn challengeTransition) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	challenge, err := fn(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenge": challenge}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
