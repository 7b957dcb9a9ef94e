package cancel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-studio/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Cancel(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func TestCancelHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		user           *models.User
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная отмена",
			user: &models.User{ID: 3},
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, int64(3)).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"message":"Subscription cancelled successfully"}`,
		},
		{
			name:           "без токена",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success":false,"message":"Access token required"}`,
		},
		{
			name: "ошибка базы",
			user: &models.User{ID: 3},
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, int64(3)).Return(errors.New("tx aborted"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"message":"An internal server error occurred"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/subscription/cancel", nil)
			if tt.user != nil {
				req = req.WithContext(middlewarectx.WithUser(req.Context(), tt.user))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
