package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	messagesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/messages"
	"github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/dto"
	httperrors "github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/errors"
)

type MessagesHandler struct {
	service *messagesvc.Service
}

func NewMessagesHandler(service *messagesvc.Service) *MessagesHandler {
	return &MessagesHandler{service: service}
}

func (h *MessagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MESSAGES_SERVICE_UNAVAILABLE", "messages service is unavailable")
		return
	}

	var req dto.CreateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	msg, err := h.service.Post(r.Context(), messagesvc.PostInput{
		MatchID:    req.MatchID,
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, messagesvc.ErrEmptyMessage):
			writeBadRequest(w, "EMPTY_MESSAGE", "message needs text or an image")
		case errors.Is(err, messagesvc.ErrValidation):
			writeValidation(w, "invalid message", err)
		case errors.Is(err, messagesvc.ErrMatchNotFound):
			writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
		case errors.Is(err, messagesvc.ErrMatchInactive):
			writeConflict(w, "MATCH_INACTIVE", "match is no longer active")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to send message")
		}
		return
	}
	httperrors.Write(w, http.StatusCreated, msg)
}

func (h *MessagesHandler) ListForMatch(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MESSAGES_SERVICE_UNAVAILABLE", "messages service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load messages")
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *MessagesHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MESSAGES_SERVICE_UNAVAILABLE", "messages service is unavailable")
		return
	}

	if _, err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, messagesvc.ErrNotFound) {
			writeNotFound(w, "MESSAGE_NOT_FOUND", "message not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to mark message read")
		return
	}
	httperrors.Write(w, http.StatusOK, dto.SuccessResponse{Success: true})
}
