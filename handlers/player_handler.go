package handlers

import (
	"net/http"
	"strconv"

	"github.com/dykim-dev/matchboard/middleware"
	"github.com/dykim-dev/matchboard/services"
)

const defaultHistoryLimit = 50

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(playerService services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// List serves the public ranking, ordered by points.
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"

	players, err := h.playerService.ListRanking(r.Context(), activeOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	player, err := h.playerService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *PlayerHandler) RatingHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, convErr := strconv.Atoi(raw); convErr == nil && parsed > 0 {
			limit = parsed
		}
	}

	history, err := h.playerService.RatingHistory(r.Context(), id, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": history}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *PlayerHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	actorID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	contentType := r.Header.Get("Content-Type")
	defer r.Body.Close()

	player, err := h.playerService.UploadAvatar(r.Context(), actorID, id, contentType, r.Body)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}); err != nil {
		serverErrorResponse(w, err)
	}
}
