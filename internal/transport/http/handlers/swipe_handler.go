package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	swipesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/swipes"
	"github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/dto"
	httperrors "github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.CreateSwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.IsLike == nil {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "invalid swipe",
			Fields:  map[string]string{"isLike": "is required"},
		})
		return
	}

	result, err := h.service.RecordSwipe(r.Context(), req.FromUserID, req.ToUserID, *req.IsLike)
	if err != nil {
		var dup *swipesvc.DuplicateSwipeError
		switch {
		case errors.As(err, &dup):
			httperrors.Write(w, http.StatusConflict, httperrors.ConflictError{
				Code:    "DUPLICATE_SWIPE",
				Message: "swipe already recorded",
				Swipe:   dup.Existing,
			})
		case errors.Is(err, swipesvc.ErrValidation):
			writeValidation(w, "invalid swipe", err)
		case errors.Is(err, swipesvc.ErrProfileNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to record swipe")
		}
		return
	}

	if result.Match != nil {
		httperrors.Write(w, http.StatusOK, dto.SwipeResponse{Swipe: result.Swipe, Match: result.Match})
		return
	}
	httperrors.Write(w, http.StatusCreated, dto.SwipeResponse{Swipe: result.Swipe})
}

func (h *SwipeHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	items, err := h.service.ListFrom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load swipes")
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}
