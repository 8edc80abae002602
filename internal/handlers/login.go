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

//go:generate mockgen -source=login.go -destination=mock_login.go -package=handlers

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, req models.LoginRequest) (string, error)
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate by username or email and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body models.LoginRequest true "Login Request"
// @Success 200 {object} models.LoginResponse "JWT token returned"
// @Failure 400 {object} models.LoginErrorResponse "Invalid request body"
// @Failure 401 {object} models.LoginErrorResponse "Invalid username or password"
// @Failure 500 {object} models.LoginErrorResponse "Internal server error"
// @Router /login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.LoginErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		token, err := svc.Login(r.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidArgument):
				writeJSON(w, http.StatusBadRequest, models.LoginErrorResponse{
					Error: "username and password are required",
				})
			case errors.Is(err, services.ErrInvalidCredentials),
				errors.Is(err, services.ErrUserDoesNotExist):
				writeJSON(w, http.StatusUnauthorized, models.LoginErrorResponse{
					Error: "Invalid username or password",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.LoginErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, models.LoginResponse{
			Token: token,
		})
	}
}
