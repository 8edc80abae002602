package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
	"github.com/sbilibin2017/dnd-connect/internal/models"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=services

// pgUniqueViolation is the SQLSTATE Postgres reports for a duplicate key.
const pgUniqueViolation = "23505"

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username string, passwordHash string, email string) (*models.UserDB, error)
}

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID) (string, error)
}

// AuthService handles registration and login.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    JWTGenerator
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt JWTGenerator) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
	}
}

// Register creates an account and returns its profile.
// Emails are stored lowercased so lookups ignore case.
func (svc *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := models.Validate.Struct(req); err != nil {
		logger.Log.Warnw("invalid registration request", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	existing, err := svc.reader.GetByUsernameOrEmail(ctx, &req.Username, &req.Email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		if existing.Username == req.Username {
			logger.Log.Warnw("username taken", "username", req.Username)
			return nil, ErrUsernameTaken
		}
		logger.Log.Warnw("email taken", "username", req.Username)
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Save(ctx, req.Username, string(hashedPassword), req.Email)
	if err != nil {
		// A concurrent registration can still hit the unique index.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			logger.Log.Warnw("user already exists", "username", req.Username, "constraint", pgErr.ConstraintName)
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	return user.Profile(), nil
}

// Login authenticates a user and returns a JWT token.
// The identifier is treated as an email when it contains '@', as a username otherwise.
func (svc *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	req.Username = strings.TrimSpace(req.Username)

	if err := models.Validate.Struct(req); err != nil {
		logger.Log.Warnw("invalid login request", "error", err)
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	var username, email *string
	if strings.Contains(req.Username, "@") {
		lowered := strings.ToLower(req.Username)
		email = &lowered
	} else {
		username = &req.Username
	}

	user, err := svc.reader.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Warnw("user does not exist", "login", req.Username)
		return "", ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Log.Warnw("invalid credentials", "login", req.Username)
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	return token, nil
}
