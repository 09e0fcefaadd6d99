package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	feedsvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/feed"
	httperrors "github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/errors"
)

const NextCursorHeader = "X-Next-Cursor"

type FeedHandler struct {
	service *feedsvc.Service
}

func NewFeedHandler(service *feedsvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

// PotentialMatches answers with a plain JSON list; the next page cursor, if
// any, travels in the X-Next-Cursor header.
func (h *FeedHandler) PotentialMatches(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	query := r.URL.Query()
	page, err := h.service.PotentialMatches(
		r.Context(),
		chi.URLParam(r, "id"),
		parseIntOrDefault(query.Get("limit"), 0),
		query.Get("cursor"),
	)
	if err != nil {
		switch {
		case errors.Is(err, feedsvc.ErrInvalidCursor):
			writeBadRequest(w, "INVALID_CURSOR", "cursor is invalid")
		case errors.Is(err, feedsvc.ErrLimitTooLarge):
			writeBadRequest(w, "INVALID_LIMIT", "limit is larger than the maximum page size")
		case errors.Is(err, feedsvc.ErrNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load potential matches")
		}
		return
	}

	if page.NextCursor != "" {
		w.Header().Set(NextCursorHeader, page.NextCursor)
	}
	httperrors.Write(w, http.StatusOK, page.Items)
}
