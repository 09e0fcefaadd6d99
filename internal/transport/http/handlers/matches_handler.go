package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	matchessvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/matches"
	"github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/dto"
	httperrors "github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.ListActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *MatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	match, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, matchessvc.ErrNotFound) {
			writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load match")
		return
	}
	httperrors.Write(w, http.StatusOK, match)
}

func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	var req dto.UnmatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	match, err := h.service.Unmatch(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrNotFound):
			writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
		case errors.Is(err, matchessvc.ErrNotParticipant):
			writeForbidden(w, "NOT_A_PARTICIPANT", "user is not part of this match")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to unmatch")
		}
		return
	}
	httperrors.Write(w, http.StatusOK, match)
}
