package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
	"github.com/sbilibin2017/dnd-connect/internal/models"
)

//go:generate mockgen -source=profile.go -destination=mock_profile.go -package=services

// ProfileWriter persists profile edits.
type ProfileWriter interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.UserDB, error)
}

// ProfileService reads and edits player profiles.
type ProfileService struct {
	directory UserDirectory
	writer    ProfileWriter
}

func NewProfileService(directory UserDirectory, writer ProfileWriter) *ProfileService {
	return &ProfileService{directory: directory, writer: writer}
}

// GetProfile returns the profile of userID without credentials.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	user, err := s.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// GetPublicProfile returns what other players may see of userID.
func (s *ProfileService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error) {
	user, err := s.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.PublicProfile(), nil
}

// UpdateProfile applies the fields set in req to the caller's profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.UserProfile, error) {
	req = models.UpdateProfileRequest{
		Bio:             trimmed(req.Bio),
		Experience:      trimmed(req.Experience),
		FavoriteClasses: trimmed(req.FavoriteClasses),
		ProfilePicture:  trimmed(req.ProfilePicture),
	}

	if req.Empty() {
		return nil, ErrNothingToUpdate
	}
	if err := models.Validate.Struct(req); err != nil {
		logger.Log.Warnw("invalid profile update", "userID", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	user, err := s.writer.UpdateProfile(ctx, userID, req)
	if err != nil {
		logger.Log.Errorw("failed to update profile", "userID", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	logger.Log.Infow("profile updated", "userID", userID)
	return user.Profile(), nil
}

func (s *ProfileService) lookup(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	user, err := s.directory.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get profile", "userID", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
