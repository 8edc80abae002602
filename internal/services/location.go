package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dnd-connect/internal/geo"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
	"github.com/sbilibin2017/dnd-connect/internal/models"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=location.go -destination=mock_location.go -package=services

// LocationWriter persists a user's coordinates.
type LocationWriter interface {
	UpdateLocation(ctx context.Context, userID uuid.UUID, latitude, longitude float64, location string) (*models.UserDB, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
}

// LocationService is the only writer of user coordinates.
type LocationService struct {
	writer      LocationWriter
	kafkaWriter KafkaWriter
}

// NewLocationService creates a new LocationService. kafkaWriter may be nil.
func NewLocationService(writer LocationWriter, kafkaWriter KafkaWriter) *LocationService {
	return &LocationService{
		writer:      writer,
		kafkaWriter: kafkaWriter,
	}
}

// UpdateLocation stores the caller's coordinates and announces the change.
func (s *LocationService) UpdateLocation(ctx context.Context, userID uuid.UUID, latitude, longitude float64, location string) (*models.UserProfile, error) {
	if err := geo.ValidateCoordinates(latitude, longitude); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	user, err := s.writer.UpdateLocation(ctx, userID, latitude, longitude, location)
	if err != nil {
		logger.Log.Errorw("failed to update location", "userID", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	ts := time.Now()
	if user.LastLocationUpdate != nil {
		ts = *user.LastLocationUpdate
	}
	s.publishLocationUpdated(ctx, models.LocationUpdatedEvent{
		EventID:   uuid.NewString(),
		UserID:    userID.String(),
		Latitude:  latitude,
		Longitude: longitude,
		Location:  location,
		Timestamp: ts.Unix(),
	})

	return user.Profile(), nil
}

// publishLocationUpdated publishes the event to Kafka. Failures are logged only.
func (s *LocationService) publishLocationUpdated(ctx context.Context, event models.LocationUpdatedEvent) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "event_id", event.EventID)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal location event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish location event", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("Location event published", "event_id", event.EventID, "user_id", event.UserID)
	}
}
