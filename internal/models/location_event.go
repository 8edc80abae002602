package models

// LocationUpdatedEvent is published whenever a user changes their coordinates.
type LocationUpdatedEvent struct {
	EventID   string  `json:"event_id"`  // Unique identifier of the event
	UserID    string  `json:"user_id"`   // User whose location changed
	Latitude  float64 `json:"latitude"`  // New latitude in degrees
	Longitude float64 `json:"longitude"` // New longitude in degrees
	Location  string  `json:"location"`  // Free-text place name, may be empty
	Timestamp int64   `json:"timestamp"` // Unix seconds of the update
}
