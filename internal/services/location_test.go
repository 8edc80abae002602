package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/dnd-connect/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationService_UpdateLocation_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	updatedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	stored := &models.UserDB{
		UserID:             userID,
		Username:           "tavernkeeper",
		Email:              "tk@example.com",
		PasswordHash:       "hash",
		Latitude:           ptr(40.7128),
		Longitude:          ptr(-74.0060),
		Location:           "New York",
		LastLocationUpdate: &updatedAt,
	}

	writer := NewMockLocationWriter(ctrl)
	kw := NewMockKafkaWriter(ctrl)

	writer.EXPECT().UpdateLocation(ctx, userID, 40.7128, -74.0060, "New York").Return(stored, nil)
	kw.EXPECT().
		WriteMessages(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			require.Len(t, msgs, 1)
			assert.Equal(t, userID.String(), string(msgs[0].Key))

			var event models.LocationUpdatedEvent
			require.NoError(t, json.Unmarshal(msgs[0].Value, &event))
			assert.NotEmpty(t, event.EventID)
			assert.Equal(t, userID.String(), event.UserID)
			assert.Equal(t, 40.7128, event.Latitude)
			assert.Equal(t, -74.0060, event.Longitude)
			assert.Equal(t, "New York", event.Location)
			assert.Equal(t, updatedAt.Unix(), event.Timestamp)
			return nil
		})

	svc := NewLocationService(writer, kw)
	profile, err := svc.UpdateLocation(ctx, userID, 40.7128, -74.0060, "New York")

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "New York", profile.Location)
	assert.Equal(t, &updatedAt, profile.LastLocationUpdate)
}

func TestLocationService_UpdateLocation_InvalidCoordinates(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
	}{
		{"latitude above range", 90.5, 0},
		{"latitude below range", -91, 0},
		{"longitude above range", 0, 180.01},
		{"longitude below range", 0, -200},
		{"latitude NaN", math.NaN(), 0},
		{"longitude infinite", 0, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No storage or Kafka calls are expected.
			svc := NewLocationService(NewMockLocationWriter(ctrl), NewMockKafkaWriter(ctrl))
			profile, err := svc.UpdateLocation(context.Background(), uuid.New(), tt.lat, tt.lon, "")

			assert.Nil(t, profile)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestLocationService_UpdateLocation_BoundaryCoordinates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	writer := NewMockLocationWriter(ctrl)
	writer.EXPECT().UpdateLocation(ctx, userID, -90.0, 180.0, "").
		Return(&models.UserDB{UserID: userID, Latitude: ptr(-90), Longitude: ptr(180)}, nil)

	svc := NewLocationService(writer, nil)
	profile, err := svc.UpdateLocation(ctx, userID, -90, 180, "")

	require.NoError(t, err)
	assert.Equal(t, -90.0, *profile.Latitude)
	assert.Equal(t, 180.0, *profile.Longitude)
}

func TestLocationService_UpdateLocation_UserNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	writer := NewMockLocationWriter(ctrl)
	kw := NewMockKafkaWriter(ctrl)
	writer.EXPECT().UpdateLocation(ctx, userID, 1.0, 2.0, "").Return(nil, nil)

	svc := NewLocationService(writer, kw)
	profile, err := svc.UpdateLocation(ctx, userID, 1, 2, "")

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocationService_UpdateLocation_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	writer := NewMockLocationWriter(ctrl)
	kw := NewMockKafkaWriter(ctrl)
	writer.EXPECT().UpdateLocation(ctx, userID, 1.0, 2.0, "").Return(nil, errors.New("connection refused"))

	svc := NewLocationService(writer, kw)
	profile, err := svc.UpdateLocation(ctx, userID, 1, 2, "")

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLocationService_UpdateLocation_KafkaErrorIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	writer := NewMockLocationWriter(ctrl)
	kw := NewMockKafkaWriter(ctrl)
	writer.EXPECT().UpdateLocation(ctx, userID, 1.0, 2.0, "Waterdeep").
		Return(&models.UserDB{UserID: userID, Latitude: ptr(1), Longitude: ptr(2), Location: "Waterdeep"}, nil)
	kw.EXPECT().WriteMessages(ctx, gomock.Any()).Return(errors.New("broker down"))

	svc := NewLocationService(writer, kw)
	profile, err := svc.UpdateLocation(ctx, userID, 1, 2, "Waterdeep")

	require.NoError(t, err)
	assert.Equal(t, "Waterdeep", profile.Location)
}

func TestLocationService_UpdateLocation_NilKafkaWriter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	writer := NewMockLocationWriter(ctrl)
	writer.EXPECT().UpdateLocation(ctx, userID, 1.0, 2.0, "").
		Return(&models.UserDB{UserID: userID, Latitude: ptr(1), Longitude: ptr(2)}, nil)

	svc := NewLocationService(writer, nil)
	profile, err := svc.UpdateLocation(ctx, userID, 1, 2, "")

	require.NoError(t, err)
	assert.Equal(t, userID, profile.ID)
}
