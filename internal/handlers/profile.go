package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
	"github.com/sbilibin2017/dnd-connect/internal/models"
	"github.com/sbilibin2017/dnd-connect/internal/services"
)

//go:generate mockgen -source=profile.go -destination=mock_profile.go -package=handlers

// ProfileGetter defines the interface that the profile service must implement.
type ProfileGetter interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
}

// ProfileUpdater edits the caller's profile.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.UserProfile, error)
}

// PublicProfileGetter reads another player's profile.
type PublicProfileGetter interface {
	GetPublicProfile(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error)
}

// NewGetProfileHandler returns an HTTP handler for the caller's own profile.
// @Summary Get my profile
// @Description Returns the caller's profile including the stored location
// @Tags users
// @Produce json
// @Success 200 {object} models.UserProfile "Caller profile"
// @Failure 401 {object} models.ProfileErrorResponse "Unauthorized"
// @Failure 404 {object} models.ProfileErrorResponse "User not found"
// @Failure 503 {object} models.ProfileErrorResponse "Service unavailable"
// @Router /users/me [get]
// @Security BearerAuth
func NewGetProfileHandler(svc ProfileGetter, userIDGetter UserIDGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := userIDGetter(ctx)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, models.ProfileErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		profile, err := svc.GetProfile(ctx, userID)
		if err != nil {
			writeProfileError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

// NewUpdateProfileHandler returns an HTTP handler that edits the caller's profile.
// @Summary Update my profile
// @Description Updates bio, experience, favorite classes and profile picture. Omitted fields are left unchanged.
// @Tags users
// @Accept json
// @Produce json
// @Param updateProfileRequest body models.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.UserProfile "Updated profile"
// @Failure 400 {object} models.ProfileErrorResponse "Invalid request"
// @Failure 401 {object} models.ProfileErrorResponse "Unauthorized"
// @Failure 404 {object} models.ProfileErrorResponse "User not found"
// @Failure 503 {object} models.ProfileErrorResponse "Service unavailable"
// @Router /users/me [put]
// @Security BearerAuth
func NewUpdateProfileHandler(svc ProfileUpdater, userIDGetter UserIDGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := userIDGetter(ctx)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, models.ProfileErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		var req models.UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ProfileErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		profile, err := svc.UpdateProfile(ctx, userID, req)
		if err != nil {
			writeProfileError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

// NewGetUserHandler returns an HTTP handler for another player's public profile.
// @Summary Get a player's profile
// @Description Returns the public profile of a player. Coordinates and email are never included.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.PublicProfile "Public profile"
// @Failure 400 {object} models.ProfileErrorResponse "Invalid user id"
// @Failure 401 {object} models.ProfileErrorResponse "Unauthorized"
// @Failure 404 {object} models.ProfileErrorResponse "User not found"
// @Failure 503 {object} models.ProfileErrorResponse "Service unavailable"
// @Router /users/{id} [get]
// @Security BearerAuth
func NewGetUserHandler(svc PublicProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.ProfileErrorResponse{
				Error: "Invalid user id",
			})
			return
		}

		profile, err := svc.GetPublicProfile(r.Context(), userID)
		if err != nil {
			writeProfileError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

func writeProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNothingToUpdate):
		writeJSON(w, http.StatusBadRequest, models.ProfileErrorResponse{
			Error: "No valid fields to update",
		})
	case errors.Is(err, services.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, models.ProfileErrorResponse{
			Error: "Experience must be Beginner, Intermediate or Expert; bio is limited to 500 characters",
		})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ProfileErrorResponse{
			Error: "User not found",
		})
	case errors.Is(err, services.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, models.ProfileErrorResponse{
			Error: "Service unavailable",
		})
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeJSON(w, http.StatusInternalServerError, models.ProfileErrorResponse{
			Error: "Internal server error",
		})
	}
}
