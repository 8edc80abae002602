package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
	"github.com/sbilibin2017/dnd-connect/internal/models"
)

const userColumns = `user_id, username, email, password_hash, latitude, longitude, location,
		last_location_update, profile_picture, bio, experience, favorite_classes, created_at, updated_at`

// publicUserColumns leaves out credentials for queries that feed search results.
const publicUserColumns = `user_id, username, latitude, longitude, location,
		last_location_update, profile_picture, bio, experience, favorite_classes, created_at, updated_at`

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsernameOrEmail returns the user matching the username or the email, nil if none does.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1::VARCHAR IS NOT NULL AND username = $1)
		   OR ($2::VARCHAR IS NOT NULL AND email = $2)
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, email)

	logger.Log.Infow("query",
		"query", oneLine(query),
		"args", []any{username, email},
		"result", user.UserID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID returns the user with the given id, nil if it does not exist.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, userID)

	logger.Log.Infow("query",
		"query", oneLine(query),
		"args", []any{userID},
		"result", user.UserID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// ListWithLocation returns every user with both coordinates set, except excludeID,
// in creation order. Email and password hash are not loaded.
func (r *UserReadRepository) ListWithLocation(ctx context.Context, excludeID uuid.UUID) ([]models.UserDB, error) {
	query := `
		SELECT ` + publicUserColumns + `
		FROM users
		WHERE latitude IS NOT NULL
		  AND longitude IS NOT NULL
		  AND user_id <> $1
		ORDER BY created_at, user_id
	`

	var users []models.UserDB
	err := r.db.SelectContext(ctx, &users, query, excludeID)

	logger.Log.Infow("query",
		"query", oneLine(query),
		"args", []any{excludeID},
		"result", len(users),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return users, nil
}

type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

func (r *UserWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new user and returns the stored row.
func (r *UserWriteRepository) Save(ctx context.Context, username, passwordHash, email string) (*models.UserDB, error) {
	query := `
		INSERT INTO users (user_id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + userColumns
	userID := uuid.New()

	var user models.UserDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, userID, username, email, passwordHash)

	logger.Log.Infow("query",
		"query", oneLine(query),
		"args", []any{userID, username, email},
		"result", user.UserID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateLocation stores new coordinates and stamps last_location_update.
// Returns nil when the user does not exist.
func (r *UserWriteRepository) UpdateLocation(ctx context.Context, userID uuid.UUID, latitude, longitude float64, location string) (*models.UserDB, error) {
	query := `
		UPDATE users
		SET latitude = $2,
		    longitude = $3,
		    location = $4,
		    last_location_update = NOW(),
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + userColumns

	var user models.UserDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, userID, latitude, longitude, location)

	logger.Log.Infow("query",
		"query", oneLine(query),
		"args", []any{userID, latitude, longitude, location},
		"result", user.UserID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateProfile overwrites the profile fields set in req and leaves the rest as stored.
// Returns nil when the user does not exist.
func (r *UserWriteRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.UserDB, error) {
	query := `
		UPDATE users
		SET bio = COALESCE($2, bio),
		    experience = COALESCE($3, experience),
		    favorite_classes = COALESCE($4, favorite_classes),
		    profile_picture = COALESCE($5, profile_picture),
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + userColumns
	args := []any{userID, req.Bio, req.Experience, req.FavoriteClasses, req.ProfilePicture}

	var user models.UserDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, args...)

	logger.Log.Infow("query",
		"query", oneLine(query),
		"args", []any{userID, req.Bio != nil, req.Experience, req.FavoriteClasses != nil, req.ProfilePicture != nil},
		"result", user.UserID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// oneLine collapses a query to a single line for logging.
func oneLine(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
