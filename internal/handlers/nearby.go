package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sbilibin2017/dnd-connect/internal/geo"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
	"github.com/sbilibin2017/dnd-connect/internal/models"
	"github.com/sbilibin2017/dnd-connect/internal/services"
)

//go:generate mockgen -source=nearby.go -destination=mock_nearby.go -package=handlers

// NearbyFinder defines the interface that the proximity service must implement.
type NearbyFinder interface {
	FindNearbyUsers(ctx context.Context, requesterID uuid.UUID, radiusKm *float64, lat, lon *float64) ([]models.NearbyUser, error)
}

// NewNearbyUsersHandler returns an HTTP handler that lists players near the caller.
// @Summary Find nearby users
// @Description Returns users within the radius of the caller's stored location, or of lat/lon when both are given, nearest first.
// @Tags users
// @Produce json
// @Param lat query number false "Origin latitude, requires lon"
// @Param lon query number false "Origin longitude, requires lat"
// @Param radius query number false "Search radius in kilometers" default(10)
// @Param unit query string false "Distance unit of the response" Enums(km, mi)
// @Success 200 {array} models.NearbyUser "Nearby users, nearest first"
// @Failure 400 {object} models.NearbyErrorResponse "Invalid radius, coordinates or unit"
// @Failure 401 {object} models.NearbyErrorResponse "Unauthorized"
// @Failure 404 {object} models.NearbyErrorResponse "User not found"
// @Failure 412 {object} models.NearbyErrorResponse "Location not set"
// @Failure 429 {object} models.NearbyErrorResponse "Too many requests"
// @Failure 503 {object} models.NearbyErrorResponse "Service unavailable"
// @Router /users/nearby [get]
// @Security BearerAuth
func NewNearbyUsersHandler(svc NearbyFinder, userIDGetter UserIDGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := userIDGetter(ctx)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, models.NearbyErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		query, err := parseNearbyQuery(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.NearbyErrorResponse{
				Error: err.Error(),
			})
			return
		}

		users, err := svc.FindNearbyUsers(ctx, userID, query.RadiusKm, query.Latitude, query.Longitude)
		if err != nil {
			status, msg := nearbyErrorStatus(err)
			if status == http.StatusServiceUnavailable {
				logger.Log.Errorw("nearby search failed", "userID", userID, "error", err)
			}
			writeJSON(w, status, models.NearbyErrorResponse{
				Error: msg,
			})
			return
		}

		if query.Unit == models.UnitMiles {
			for i := range users {
				miles := geo.KmToMiles(users[i].DistanceKm)
				users[i].DistanceMiles = &miles
			}
		}

		writeJSON(w, http.StatusOK, users)
	}
}

var (
	errInvalidLatitude  = errors.New("lat must be a number between -90 and 90")
	errInvalidLongitude = errors.New("lon must be a number between -180 and 180")
	errInvalidRadius    = errors.New("radius must be a positive number")
	errInvalidUnit      = errors.New("unit must be km or mi")
)

func parseNearbyQuery(r *http.Request) (*models.NearbyQuery, error) {
	q := r.URL.Query()
	query := &models.NearbyQuery{
		Unit: q.Get("unit"),
	}

	var err error
	if query.Latitude, err = parseOptionalFloat(q.Get("lat")); err != nil {
		return nil, errInvalidLatitude
	}
	if query.Longitude, err = parseOptionalFloat(q.Get("lon")); err != nil {
		return nil, errInvalidLongitude
	}
	if query.RadiusKm, err = parseOptionalFloat(q.Get("radius")); err != nil {
		return nil, errInvalidRadius
	}

	if err := models.Validate.Struct(query); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			switch fieldErrs[0].Field() {
			case "Latitude":
				return nil, errInvalidLatitude
			case "Longitude":
				return nil, errInvalidLongitude
			case "RadiusKm":
				return nil, errInvalidRadius
			case "Unit":
				return nil, errInvalidUnit
			}
		}
		return nil, err
	}
	return query, nil
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func nearbyErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, services.ErrLocationNotSet):
		return http.StatusPreconditionFailed, "Location not set"
	case errors.Is(err, services.ErrUnavailable):
		return http.StatusServiceUnavailable, "Service unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
