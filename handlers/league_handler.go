package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dykim-dev/matchboard/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
}

func NewLeagueHandler(leagueService services.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: leagueService}
}

func (h *LeagueHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TournamentID int    `json:"tournament_id"`
		Name         string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	block, err := h.leagueService.CreateBlock(r.Context(), input.TournamentID, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"block": block}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *LeagueHandler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tournament_id")
	tournamentID, err := strconv.Atoi(raw)
	if err != nil || tournamentID <= 0 {
		badRequestResponse(w, errors.New("tournament_id query parameter is required"))
		return
	}

	blocks, err := h.leagueService.ListBlocks(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"blocks": blocks}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *LeagueHandler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	var input services.RecordLeagueMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.leagueService.RecordMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, err)
	}
}

// Standings serves the block table ordered by wins, then point
// differential, then points scored, then name.
func (h *LeagueHandler) Standings(w http.ResponseWriter, r *http.Request) {
	blockID, err := idParam(r, "blockID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	standings, err := h.leagueService.Standings(r.Context(), blockID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *LeagueHandler) SetWinner(w http.ResponseWriter, r *http.Request) {
	blockID, err := idParam(r, "blockID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input struct {
		PlayerID *int `json:"player_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	block, err := h.leagueService.SetWinner(r.Context(), blockID, input.PlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"block": block}); err != nil {
		serverErrorResponse(w, err)
	}
}
