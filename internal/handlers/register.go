package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/dnd-connect/internal/logger"
	"github.com/sbilibin2017/dnd-connect/internal/models"
	"github.com/sbilibin2017/dnd-connect/internal/services"
)

//go:generate mockgen -source=register.go -destination=mock_register.go -package=handlers

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error)
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new player account and returns its profile. Username and email must be unique. Password is hashed before storing.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body models.RegisterRequest true "User registration request"
// @Success 201 {object} models.RegisterResponse "User successfully registered"
// @Failure 400 {object} models.RegisterErrorResponse "Username or email already exists / invalid request"
// @Failure 500 {object} models.RegisterErrorResponse "Internal server error"
// @Router /register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.RegisterErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		profile, err := svc.Register(r.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidArgument):
				writeJSON(w, http.StatusBadRequest, models.RegisterErrorResponse{
					Error: "Username must be at least 3 characters, password at least 6, email must be valid",
				})
			case errors.Is(err, services.ErrUsernameTaken):
				writeJSON(w, http.StatusBadRequest, models.RegisterErrorResponse{
					Error: "Username already exists",
				})
			case errors.Is(err, services.ErrEmailTaken):
				writeJSON(w, http.StatusBadRequest, models.RegisterErrorResponse{
					Error: "Email already exists",
				})
			case errors.Is(err, services.ErrUserAlreadyExists):
				writeJSON(w, http.StatusBadRequest, models.RegisterErrorResponse{
					Error: "Username or email already exists",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.RegisterErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		writeJSON(w, http.StatusCreated, models.RegisterResponse{
			Message: "User registered successfully",
			User:    profile,
		})
	}
}
