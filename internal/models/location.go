package models

// UpdateLocationRequest represents the JSON body for publishing the caller's location
// swagger:model UpdateLocationRequest
type UpdateLocationRequest struct {
	// Latitude in degrees
	// required: true
	// example: 40.7128
	Latitude *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`

	// Longitude in degrees
	// required: true
	// example: -74.0060
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`

	// Place name
	// example: New York
	Location string `json:"location" validate:"max=255"`
}

// LocationErrorResponse represents an error response for a location update
// swagger:model LocationErrorResponse
type LocationErrorResponse struct {
	// Error message
	// example: Invalid coordinates
	Error string `json:"error"`
}
