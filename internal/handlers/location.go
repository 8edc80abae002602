package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
	"github.com/sbilibin2017/dnd-connect/internal/models"
	"github.com/sbilibin2017/dnd-connect/internal/services"
)

//go:generate mockgen -source=location.go -destination=mock_location.go -package=handlers

// LocationUpdater defines the interface that the location service must implement.
type LocationUpdater interface {
	UpdateLocation(ctx context.Context, userID uuid.UUID, latitude, longitude float64, location string) (*models.UserProfile, error)
}

// NewUpdateLocationHandler returns an HTTP handler that stores the caller's coordinates.
// @Summary Update my location
// @Description Sets the caller's latitude, longitude and optional place name
// @Tags users
// @Accept json
// @Produce json
// @Param updateLocationRequest body models.UpdateLocationRequest true "New location"
// @Success 200 {object} models.UserProfile "Updated profile"
// @Failure 400 {object} models.LocationErrorResponse "Invalid coordinates"
// @Failure 401 {object} models.LocationErrorResponse "Unauthorized"
// @Failure 404 {object} models.LocationErrorResponse "User not found"
// @Failure 503 {object} models.LocationErrorResponse "Service unavailable"
// @Router /users/location [post]
// @Security BearerAuth
func NewUpdateLocationHandler(svc LocationUpdater, userIDGetter UserIDGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := userIDGetter(ctx)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, models.LocationErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		var req models.UpdateLocationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.LocationErrorResponse{
				Error: "Invalid request body",
			})
			return
		}
		if err := models.Validate.Struct(req); err != nil {
			logger.Log.Warnw("invalid location update", "userID", userID, "error", err)
			writeJSON(w, http.StatusBadRequest, models.LocationErrorResponse{
				Error: "Invalid coordinates",
			})
			return
		}

		profile, err := svc.UpdateLocation(ctx, userID, *req.Latitude, *req.Longitude, req.Location)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidArgument):
				writeJSON(w, http.StatusBadRequest, models.LocationErrorResponse{
					Error: "Invalid coordinates",
				})
			case errors.Is(err, services.ErrNotFound):
				writeJSON(w, http.StatusNotFound, models.LocationErrorResponse{
					Error: "User not found",
				})
			case errors.Is(err, services.ErrUnavailable):
				writeJSON(w, http.StatusServiceUnavailable, models.LocationErrorResponse{
					Error: "Service unavailable",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.LocationErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}
