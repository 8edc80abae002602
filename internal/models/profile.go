package models

// UpdateProfileRequest represents the JSON body for editing the caller's profile.
// Omitted fields keep their stored value.
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	// Free-text bio
	// example: Forever DM, occasionally a halfling bard
	Bio *string `json:"bio" validate:"omitempty,max=500"`

	// Experience level
	// example: Intermediate
	Experience *string `json:"experience" validate:"omitempty,oneof=Beginner Intermediate Expert"`

	// Comma separated class names
	// example: Bard,Rogue
	FavoriteClasses *string `json:"favoriteClasses" validate:"omitempty,max=255"`

	// Picture URL
	// example: https://example.com/avatar.png
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,max=255"`
}

// Empty reports whether the request names no field to change.
func (r UpdateProfileRequest) Empty() bool {
	return r.Bio == nil && r.Experience == nil && r.FavoriteClasses == nil && r.ProfilePicture == nil
}
