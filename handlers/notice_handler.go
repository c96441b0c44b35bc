package handlers

import (
	"net/http"

	"github.com/dykim-dev/matchboard/middleware"
	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/services"
)

type NoticeHandler struct {
	noticeService services.NoticeService
}

func NewNoticeHandler(noticeService services.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	// Drafts are only visible to admins.
	includeDrafts := false
	if role, err := middleware.GetRoleFromContext(r.Context()); err == nil && role == models.RoleAdmin {
		includeDrafts = r.URL.Query().Get("drafts") == "true"
	}

	notices, err := h.noticeService.List(r.Context(), includeDrafts)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"notices": notices}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *NoticeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "noticeID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	notice, err := h.noticeService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"notice": notice}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *NoticeHandler) Create(w http.ResponseWriter, r *http.Request) {
	authorID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	var input services.NoticeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	notice, err := h.noticeService.Create(r.Context(), authorID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"notice": notice}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *NoticeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "noticeID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input services.NoticeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	notice, err := h.noticeService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"notice": notice}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *NoticeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "noticeID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.noticeService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *NoticeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "noticeID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	contentType := r.Header.Get("Content-Type")
	defer r.Body.Close()

	notice, err := h.noticeService.UploadImage(r.Context(), id, contentType, r.Body)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"notice": notice}); err != nil {
		serverErrorResponse(w, err)
	}
}
