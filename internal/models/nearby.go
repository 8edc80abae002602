package models

import "github.com/google/uuid"

// NearbyUser is a search result: a public user summary plus distance from the origin.
// It has no email or password fields.
// swagger:model NearbyUser
type NearbyUser struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	ProfilePicture  string    `json:"profilePicture"`
	Bio             string    `json:"bio"`
	Experience      string    `json:"experience"`
	FavoriteClasses string    `json:"favoriteClasses"`
	DistanceKm      float64   `json:"distanceKm"`
	DistanceMiles   *float64  `json:"distanceMiles,omitempty"`
}

// NewNearbyUser builds the search projection of a user.
func NewNearbyUser(u *UserDB, distanceKm float64) NearbyUser {
	return NearbyUser{
		ID:              u.UserID,
		Username:        u.Username,
		ProfilePicture:  u.ProfilePicture,
		Bio:             u.Bio,
		Experience:      u.Experience,
		FavoriteClasses: u.FavoriteClasses,
		DistanceKm:      distanceKm,
	}
}

// Distance units accepted by the nearby search.
const (
	UnitKilometers = "km"
	UnitMiles      = "mi"
)

// NearbyQuery holds the parsed query string of a nearby search.
type NearbyQuery struct {
	Latitude  *float64 `validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `validate:"omitempty,gte=-180,lte=180"`
	RadiusKm  *float64 `validate:"omitempty,gt=0"`
	Unit      string   `validate:"omitempty,oneof=km mi"`
}

// NearbyErrorResponse represents an error response for a nearby search
// swagger:model NearbyErrorResponse
type NearbyErrorResponse struct {
	// Error message
	// example: Location not set
	Error string `json:"error"`
}
