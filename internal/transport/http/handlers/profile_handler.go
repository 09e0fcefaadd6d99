package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	profilesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/profiles"
	"github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/dto"
	httperrors "github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleProfileError(w, err, "failed to load profile")
		return
	}
	httperrors.Write(w, http.StatusOK, profile)
}

func (h *ProfileHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		handleProfileError(w, err, "failed to load profile")
		return
	}
	httperrors.Write(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.CreateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	profile, err := h.service.Create(r.Context(), profilesvc.CreateInput{
		ID:            req.ID,
		Email:         req.Email,
		Name:          req.Name,
		Age:           req.Age,
		Gender:        req.Gender,
		InterestedIn:  req.InterestedIn,
		Bio:           req.Bio,
		Location:      req.Location,
		Interests:     req.Interests,
		ProfileImages: req.ProfileImages,
	})
	if err != nil {
		handleProfileError(w, err, "failed to create profile")
		return
	}
	httperrors.Write(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	profile, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), profilesvc.UpdateInput{
		Name:          req.Name,
		Age:           req.Age,
		Gender:        req.Gender,
		InterestedIn:  req.InterestedIn,
		Bio:           req.Bio,
		Location:      req.Location,
		Interests:     req.Interests,
		ProfileImages: req.ProfileImages,
	})
	if err != nil {
		handleProfileError(w, err, "failed to update profile")
		return
	}
	httperrors.Write(w, http.StatusOK, profile)
}

func (h *ProfileHandler) TouchLastActive(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	if err := h.service.TouchLastActive(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleProfileError(w, err, "failed to update last active")
		return
	}
	httperrors.Write(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func handleProfileError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, profilesvc.ErrValidation):
		writeValidation(w, "invalid profile", err)
	case errors.Is(err, profilesvc.ErrNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
	case errors.Is(err, profilesvc.ErrDuplicateEmail):
		writeConflict(w, "EMAIL_TAKEN", "email is already registered")
	case errors.Is(err, profilesvc.ErrDuplicateID):
		writeConflict(w, "PROFILE_EXISTS", "profile id is already taken")
	default:
		writeInternal(w, "INTERNAL_ERROR", fallback)
	}
}
