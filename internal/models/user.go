package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID             uuid.UUID  `json:"id" db:"user_id"`                                // Primary key
	Username           string     `json:"username" db:"username"`                         // Unique username
	Email              string     `json:"email" db:"email"`                               // User email
	PasswordHash       string     `json:"-" db:"password_hash"`                           // Hashed password
	Latitude           *float64   `json:"latitude" db:"latitude"`                         // Nil until a location is shared
	Longitude          *float64   `json:"longitude" db:"longitude"`                       // Nil until a location is shared
	Location           string     `json:"location" db:"location"`                         // Free-text place name
	LastLocationUpdate *time.Time `json:"last_location_update" db:"last_location_update"` // Time of the last coordinate write
	ProfilePicture     string     `json:"profile_picture" db:"profile_picture"`           // Picture URL
	Bio                string     `json:"bio" db:"bio"`                                   // Free-text bio
	Experience         string     `json:"experience" db:"experience"`                     // Beginner, Intermediate, Expert
	FavoriteClasses    string     `json:"favorite_classes" db:"favorite_classes"`         // Comma separated class names
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`                     // Creation timestamp
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`                     // Last update timestamp
}

// HasLocation reports whether both coordinates are set.
func (u *UserDB) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}

// UserProfile is the caller-visible view of a user's own record.
// swagger:model UserProfile
type UserProfile struct {
	ID                 uuid.UUID  `json:"id"`
	Username           string     `json:"username"`
	ProfilePicture     string     `json:"profilePicture"`
	Bio                string     `json:"bio"`
	Experience         string     `json:"experience"`
	FavoriteClasses    string     `json:"favoriteClasses"`
	Latitude           *float64   `json:"latitude"`
	Longitude          *float64   `json:"longitude"`
	Location           string     `json:"location"`
	LastLocationUpdate *time.Time `json:"lastLocationUpdate"`
}

// Profile projects the record without credentials.
func (u *UserDB) Profile() *UserProfile {
	return &UserProfile{
		ID:                 u.UserID,
		Username:           u.Username,
		ProfilePicture:     u.ProfilePicture,
		Bio:                u.Bio,
		Experience:         u.Experience,
		FavoriteClasses:    u.FavoriteClasses,
		Latitude:           u.Latitude,
		Longitude:          u.Longitude,
		Location:           u.Location,
		LastLocationUpdate: u.LastLocationUpdate,
	}
}

// PublicProfile is what other players see. It carries neither coordinates nor email.
// swagger:model PublicProfile
type PublicProfile struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	ProfilePicture  string    `json:"profilePicture"`
	Bio             string    `json:"bio"`
	Experience      string    `json:"experience"`
	FavoriteClasses string    `json:"favoriteClasses"`
	Location        string    `json:"location"`
	MemberSince     time.Time `json:"memberSince"`
}

func (u *UserDB) PublicProfile() *PublicProfile {
	return &PublicProfile{
		ID:              u.UserID,
		Username:        u.Username,
		ProfilePicture:  u.ProfilePicture,
		Bio:             u.Bio,
		Experience:      u.Experience,
		FavoriteClasses: u.FavoriteClasses,
		Location:        u.Location,
		MemberSince:     u.CreatedAt,
	}
}

// ProfileErrorResponse represents an error response when reading a profile
// swagger:model ProfileErrorResponse
type ProfileErrorResponse struct {
	// Error message
	// example: User not found
	Error string `json:"error"`
}
