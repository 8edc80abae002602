package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/dnd-connect/internal/models"
	"github.com/sbilibin2017/dnd-connect/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedUser(id uuid.UUID) UserIDGetter {
	return func(context.Context) (uuid.UUID, bool) { return id, true }
}

func noUser(context.Context) (uuid.UUID, bool) { return uuid.Nil, false }

func f64(v float64) *float64 { return &v }

func TestNearbyUsersHandler(t *testing.T) {
	userID := uuid.New()
	brooklynID := uuid.New()

	tests := []struct {
		name         string
		query        string
		mockSetup    func(m *MockNearbyFinder)
		expectedCode int
		expectedErr  string
	}{
		{
			name:  "stored location with default radius",
			query: "",
			mockSetup: func(m *MockNearbyFinder) {
				m.EXPECT().
					FindNearbyUsers(gomock.Any(), userID, nil, nil, nil).
					Return([]models.NearbyUser{}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "explicit coordinates and radius",
			query: "lat=40.7128&lon=-74.0060&radius=10",
			mockSetup: func(m *MockNearbyFinder) {
				m.EXPECT().
					FindNearbyUsers(gomock.Any(), userID, f64(10), f64(40.7128), f64(-74.0060)).
					Return([]models.NearbyUser{{ID: brooklynID, Username: "brooklyn", DistanceKm: 6.29}}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "radius not a number",
			query:        "radius=abc",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "radius must be a positive number",
		},
		{
			name:         "radius zero",
			query:        "radius=0",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "radius must be a positive number",
		},
		{
			name:         "negative radius",
			query:        "radius=-5",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "radius must be a positive number",
		},
		{
			name:         "latitude out of range",
			query:        "lat=91&lon=0",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "lat must be a number between -90 and 90",
		},
		{
			name:         "longitude out of range",
			query:        "lat=0&lon=-181",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "lon must be a number between -180 and 180",
		},
		{
			name:         "latitude NaN",
			query:        "lat=NaN&lon=0",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "lat must be a number between -90 and 90",
		},
		{
			name:         "unknown unit",
			query:        "unit=parsecs",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "unit must be km or mi",
		},
		{
			name:  "service rejects unpaired coordinates",
			query: "lat=40",
			mockSetup: func(m *MockNearbyFinder) {
				m.EXPECT().
					FindNearbyUsers(gomock.Any(), userID, nil, f64(40), nil).
					Return(nil, fmt.Errorf("%w: latitude and longitude must be given together", services.ErrInvalidArgument))
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid argument: latitude and longitude must be given together",
		},
		{
			name: "requester not found",
			mockSetup: func(m *MockNearbyFinder) {
				m.EXPECT().
					FindNearbyUsers(gomock.Any(), userID, nil, nil, nil).
					Return(nil, services.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedErr:  "User not found",
		},
		{
			name: "location not set",
			mockSetup: func(m *MockNearbyFinder) {
				m.EXPECT().
					FindNearbyUsers(gomock.Any(), userID, nil, nil, nil).
					Return(nil, services.ErrLocationNotSet)
			},
			expectedCode: http.StatusPreconditionFailed,
			expectedErr:  "Location not set",
		},
		{
			name: "storage unavailable",
			mockSetup: func(m *MockNearbyFinder) {
				m.EXPECT().
					FindNearbyUsers(gomock.Any(), userID, nil, nil, nil).
					Return(nil, fmt.Errorf("%w: connection refused", services.ErrUnavailable))
			},
			expectedCode: http.StatusServiceUnavailable,
			expectedErr:  "Service unavailable",
		},
		{
			name: "unexpected error",
			mockSetup: func(m *MockNearbyFinder) {
				m.EXPECT().
					FindNearbyUsers(gomock.Any(), userID, nil, nil, nil).
					Return(nil, errors.New("boom"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockNearbyFinder(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			req := httptest.NewRequest(http.MethodGet, "/users/nearby?"+tt.query, nil)
			w := httptest.NewRecorder()

			NewNearbyUsersHandler(mockSvc, fixedUser(userID)).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tt.expectedErr != "" {
				var resp models.NearbyErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Error)
				return
			}

			var users []models.NearbyUser
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
			assert.NotNil(t, users)
		})
	}
}

func TestNearbyUsersHandler_EmptyResultIsArray(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	mockSvc := NewMockNearbyFinder(ctrl)
	mockSvc.EXPECT().FindNearbyUsers(gomock.Any(), userID, nil, nil, nil).Return([]models.NearbyUser{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/nearby", nil)
	w := httptest.NewRecorder()
	NewNearbyUsersHandler(mockSvc, fixedUser(userID)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestNearbyUsersHandler_Miles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	mockSvc := NewMockNearbyFinder(ctrl)
	mockSvc.EXPECT().
		FindNearbyUsers(gomock.Any(), userID, f64(5), nil, nil).
		Return([]models.NearbyUser{
			{ID: uuid.New(), Username: "near", DistanceKm: 3},
			{ID: uuid.New(), Username: "far", DistanceKm: 4.5},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/nearby?radius=5&unit=mi", nil)
	w := httptest.NewRecorder()
	NewNearbyUsersHandler(mockSvc, fixedUser(userID)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var users []models.NearbyUser
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, "near", users[0].Username)
	assert.Equal(t, 3.0, users[0].DistanceKm)
	require.NotNil(t, users[0].DistanceMiles)
	assert.InDelta(t, 1.864, *users[0].DistanceMiles, 0.001)
	require.NotNil(t, users[1].DistanceMiles)
	assert.InDelta(t, 2.796, *users[1].DistanceMiles, 0.001)
}

func TestNearbyUsersHandler_KilometersOmitMiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	mockSvc := NewMockNearbyFinder(ctrl)
	mockSvc.EXPECT().
		FindNearbyUsers(gomock.Any(), userID, nil, nil, nil).
		Return([]models.NearbyUser{{ID: uuid.New(), Username: "near", DistanceKm: 3}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/nearby?unit=km", nil)
	w := httptest.NewRecorder()
	NewNearbyUsersHandler(mockSvc, fixedUser(userID)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "distanceMiles")
	assert.NotContains(t, w.Body.String(), "email")
}

func TestNearbyUsersHandler_Unauthorized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := httptest.NewRequest(http.MethodGet, "/users/nearby", nil)
	w := httptest.NewRecorder()
	NewNearbyUsersHandler(NewMockNearbyFinder(ctrl), noUser).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}
