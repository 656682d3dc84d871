package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/focus-tools/services"
)

// TokenIssuer hands out the owner token of a freshly created session.
type TokenIssuer interface {
	Issue(sessionID, kind string) (string, error)
}

var errMissingMatchID = errors.New("missing match id in URL")

type TournamentHandler struct {
	tournamentService services.TournamentService
	tokens            TokenIssuer
}

func NewTournamentHandler(ts services.TournamentService, tokens TokenIssuer) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		tokens:            tokens,
	}
}

// CreateHandler handles POST /api/tournaments.
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.CreateTournament(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := h.tokens.Issue(tournament.ID, services.TournamentRoomKind)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/api/tournaments/"+tournament.ID)
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament, "token": token}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHandler handles GET /api/tournaments/{sessionID}.
func (h *TournamentHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartHandler handles POST /api/tournaments/{sessionID}/start. The
// entrants field is a newline separated, optionally markdown formatted list.
func (h *TournamentHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Entrants string `json:"entrants"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.StartTournament(r.Context(), id, input.Entrants)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResultHandler handles POST /api/tournaments/{sessionID}/matches/{matchID}/result.
func (h *TournamentHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID := strings.TrimSpace(chi.URLParam(r, "matchID"))
	if matchID == "" {
		badRequestResponse(w, r, errMissingMatchID)
		return
	}

	var input struct {
		WinnerID string `json:"winner_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.WinnerID = strings.TrimSpace(input.WinnerID)
	if input.WinnerID == "" {
		failedValidationResponse(w, r, map[string]string{"winner_id": "must be provided"})
		return
	}

	tournament, err := h.tournamentService.RecordResult(r.Context(), id, matchID, input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceHandler handles POST /api/tournaments/{sessionID}/advance.
func (h *TournamentHandler) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.AdvanceRound(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.ResetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RankingsHandler handles GET /api/tournaments/{sessionID}/rankings.
// Rankings only exist once every round has been played.
func (h *TournamentHandler) RankingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rankings, err := h.tournamentService.GetRankings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rankings": rankings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
