package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dnd-connect/internal/geo"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
	"github.com/sbilibin2017/dnd-connect/internal/models"
)

//go:generate mockgen -source=proximity.go -destination=mock_proximity.go -package=services

// DefaultRadiusKm applies when a search names no radius.
const DefaultRadiusKm = 10.0

// UserDirectory is the read side of the user store used by searches.
type UserDirectory interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
	ListWithLocation(ctx context.Context, excludeID uuid.UUID) ([]models.UserDB, error)
}

// ProximityService finds users close to a requester.
type ProximityService struct {
	directory     UserDirectory
	defaultRadius float64
}

// NewProximityService creates a ProximityService. A non-positive defaultRadiusKm falls back to DefaultRadiusKm.
func NewProximityService(directory UserDirectory, defaultRadiusKm float64) *ProximityService {
	if defaultRadiusKm <= 0 || math.IsNaN(defaultRadiusKm) || math.IsInf(defaultRadiusKm, 0) {
		defaultRadiusKm = DefaultRadiusKm
	}
	return &ProximityService{
		directory:     directory,
		defaultRadius: defaultRadiusKm,
	}
}

// FindNearbyUsers returns the users within radiusKm of the origin, nearest first.
// The origin is (lat, lon) when both are given, otherwise the requester's stored location.
// A nil radiusKm means the default radius.
func (s *ProximityService) FindNearbyUsers(
	ctx context.Context,
	requesterID uuid.UUID,
	radiusKm *float64,
	lat, lon *float64,
) ([]models.NearbyUser, error) {
	radius := s.defaultRadius
	if radiusKm != nil {
		radius = *radiusKm
	}
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: radius must be a positive number", ErrInvalidArgument)
	}

	if (lat == nil) != (lon == nil) {
		return nil, fmt.Errorf("%w: latitude and longitude must be given together", ErrInvalidArgument)
	}

	var originLat, originLon float64
	if lat != nil {
		if err := geo.ValidateCoordinates(*lat, *lon); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		originLat, originLon = *lat, *lon
	} else {
		requester, err := s.directory.GetByID(ctx, requesterID)
		if err != nil {
			logger.Log.Errorw("failed to load requester", "userID", requesterID, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if requester == nil {
			return nil, ErrNotFound
		}
		if !requester.HasLocation() {
			return nil, ErrLocationNotSet
		}
		originLat, originLon = *requester.Latitude, *requester.Longitude
	}

	candidates, err := s.directory.ListWithLocation(ctx, requesterID)
	if err != nil {
		logger.Log.Errorw("failed to list located users", "userID", requesterID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	nearby := make([]models.NearbyUser, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if c.UserID == requesterID || !c.HasLocation() {
			continue
		}
		d := geo.Distance(originLat, originLon, *c.Latitude, *c.Longitude)
		if d <= radius {
			nearby = append(nearby, models.NewNearbyUser(c, d))
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	logger.Log.Debugw("nearby search",
		"userID", requesterID,
		"radius_km", radius,
		"candidates", len(candidates),
		"results", len(nearby),
	)

	return nearby, nil
}
