package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
)

// UserIDGetter returns the authenticated caller placed in the context by the auth middleware.
type UserIDGetter func(ctx context.Context) (uuid.UUID, bool)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Errorw("failed to encode response", "error", err)
	}
}
