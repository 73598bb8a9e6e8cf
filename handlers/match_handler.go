package handlers

import (
	"errors"
	"net/http"
)

// ReportMatchHandler godoc
// @Summary Записать результат матча
// @Tags matches
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /matches [post]
func (h *TournamentHandler) ReportMatchHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Winner *int `json:"winner"`
		Loser  *int `json:"loser"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Winner == nil || input.Loser == nil {
		badRequestResponse(w, r, errors.New("body must contain winner and loser keys"))
		return
	}

	// Existence of both players is left to the store's foreign keys.
	match, err := h.tournamentService.ReportMatch(r.Context(), *input.Winner, *input.Loser)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	matches, err := h.tournamentService.ListMatches(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) DeleteMatchesHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.DeleteMatches(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
