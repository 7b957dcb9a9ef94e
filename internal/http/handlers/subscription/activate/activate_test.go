package activate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-studio/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Activate(ctx context.Context, userID int64, method string, providerRef *string) (*models.Subscription, error) {
	args := m.Called(ctx, userID, method, providerRef)
	s, _ := args.Get(0).(*models.Subscription)
	return s, args.Error(1)
}

func TestActivateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	end := time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "без тела",
			body: "",
			setupMock: func(m *MockService) {
				m.On("Activate", mock.Anything, int64(3), "", (*string)(nil)).
					Return(&models.Subscription{ID: 8, EndDate: end}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody: `{"success":true,"message":"Premium subscription activated successfully!",
				"subscriptionId":8,"endDate":"2025-04-09T12:00:00Z"}`,
		},
		{
			name: "со способом оплаты",
			body: `{"paymentMethod":"Visa"}`,
			setupMock: func(m *MockService) {
				m.On("Activate", mock.Anything, int64(3), "Visa", (*string)(nil)).
					Return(&models.Subscription{ID: 8, EndDate: end}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody: `{"success":true,"message":"Premium subscription activated successfully!",
				"subscriptionId":8,"endDate":"2025-04-09T12:00:00Z"}`,
		},
		{
			name: "ошибка хранилища",
			body: "",
			setupMock: func(m *MockService) {
				m.On("Activate", mock.Anything, int64(3), "", (*string)(nil)).Return(nil, errors.New("tx aborted"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"message":"An internal server error occurred"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/subscription/activate", strings.NewReader(tt.body))
			req = req.WithContext(middlewarectx.WithUser(req.Context(), &models.User{ID: 3}))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
