package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dykim-dev/matchboard/middleware"
	"github.com/dykim-dev/matchboard/services"
)

const defaultRecentLimit = 30

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// Create records a finished match. The reporter comes from the JWT: admins
// may report any match, players only their own.
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	reporterID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), reporterID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("tournament_id"); raw != "" {
		tournamentID, err := strconv.Atoi(raw)
		if err != nil || tournamentID <= 0 {
			badRequestResponse(w, errors.New("invalid tournament_id parameter"))
			return
		}

		matches, err := h.matchService.ListByTournament(r.Context(), tournamentID)
		if err != nil {
			mapServiceErrorToHTTP(w, err)
			return
		}
		if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}); err != nil {
			serverErrorResponse(w, err)
		}
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	matches, err := h.matchService.ListRecent(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}); err != nil {
		serverErrorResponse(w, err)
	}
}
