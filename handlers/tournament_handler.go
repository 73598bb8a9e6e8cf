package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	exportService     services.ExportService
}

func NewTournamentHandler(ts services.TournamentService, es services.ExportService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		exportService:     es,
	}
}

// RegisterPlayerHandler godoc
// @Summary Зарегистрировать игрока (имя может повторяться)
// @Tags players
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /players [post]
func (h *TournamentHandler) RegisterPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name *string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Name == nil {
		badRequestResponse(w, r, errors.New("body must contain a name key"))
		return
	}

	player, err := h.tournamentService.RegisterPlayer(r.Context(), *input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ListPlayersHandler(w http.ResponseWriter, r *http.Request) {
	players, err := h.tournamentService.ListPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) CountPlayersHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.tournamentService.CountPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"count": count}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeletePlayersHandler обрабатывает DELETE /players.
// Пока на игроков ссылаются матчи, возвращает 500.
func (h *TournamentHandler) DeletePlayersHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.DeletePlayers(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetHandler обрабатывает DELETE /tournament: матчи, затем игроки.
func (h *TournamentHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.ResetTournament(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StandingsHandler godoc
// @Summary Таблица: победы по убыванию
// @Tags standings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /standings [get]
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	standings, err := h.tournamentService.Standings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PairingsHandler godoc
// @Summary Пары следующего раунда (соседние места в таблице)
// @Tags standings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /pairings [get]
func (h *TournamentHandler) PairingsHandler(w http.ResponseWriter, r *http.Request) {
	pairings, err := h.tournamentService.Pairings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"pairings": pairings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ExportStandingsHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportService.ExportStandings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"export": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
