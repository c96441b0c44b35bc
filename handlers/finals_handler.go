package handlers

import (
	"net/http"

	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/services"
)

type FinalsHandler struct {
	finalsService services.FinalsService
}

func NewFinalsHandler(finalsService services.FinalsService) *FinalsHandler {
	return &FinalsHandler{finalsService: finalsService}
}

func (h *FinalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateBracketInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	bracket, err := h.finalsService.CreateBracket(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}); err != nil {
		serverErrorResponse(w, err)
	}
}

// Get serves the complete bracket read model: slots, results and the
// rounds the frontend should render.
func (h *FinalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "bracketID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	view, err := h.finalsService.GetBracket(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{
		"bracket":        view.Bracket,
		"slots":          view.Slots,
		"matches":        view.Matches,
		"visible_rounds": view.VisibleRounds,
	}); err != nil {
		serverErrorResponse(w, err)
	}
}

// AssignSlot places a player into (round, slot) or clears it when
// player_id is null. Results from that round onward are reset.
func (h *FinalsHandler) AssignSlot(w http.ResponseWriter, r *http.Request) {
	var input services.AssignSlotInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.finalsService.AssignSlot(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *FinalsHandler) ReportResult(w http.ResponseWriter, r *http.Request) {
	var input services.ReportResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.finalsService.ReportResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *FinalsHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "bracketID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input struct {
		MatchFormat   models.MatchFormat `json:"match_format"`
		VisibleRounds int                `json:"visible_rounds"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.finalsService.UpdateConfig(r.Context(), id, input.MatchFormat, input.VisibleRounds); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, nil); err != nil {
		serverErrorResponse(w, err)
	}
}
