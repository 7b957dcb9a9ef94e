package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/content-studio/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (*models.Session, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*models.Session)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	session := &models.Session{
		Token: "tok",
		User: models.Profile{
			ID: 1, Username: "alice", Email: "alice@example.com",
			SubscriptionType: models.TierFree, GenerationsLimit: 5,
		},
	}

	tests := []struct {
		name           string
		requestBody    any
		mockResp       *models.Session
		mockErr        error
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "valid login",
			requestBody:    models.LoginRequest{Email: "alice@example.com", Password: "Secret1"},
			mockResp:       session,
			wantStatusCode: http.StatusOK,
			wantBody: `{"success":true,"message":"Login successful","token":"tok",
				"user":{"id":1,"username":"alice","email":"alice@example.com","subscriptionType":"free","generationsLimit":5}}`,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `{"success":false,"message":"Invalid request body"}`,
		},
		{
			name:           "wrong password",
			requestBody:    models.LoginRequest{Email: "alice@example.com", Password: "nope"},
			mockErr:        fmt.Errorf("services.auth.Login: %w", models.ErrInvalidCredentials),
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"success":false,"message":"Invalid credentials"}`,
		},
		{
			name:           "unknown email",
			requestBody:    models.LoginRequest{Email: "ghost@example.com", Password: "nope"},
			mockErr:        fmt.Errorf("services.auth.Login: %w", models.ErrInvalidCredentials),
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"success":false,"message":"Invalid credentials"}`,
		},
		{
			name:           "storage failure",
			requestBody:    models.LoginRequest{Email: "alice@example.com", Password: "Secret1"},
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       `{"success":false,"message":"An internal server error occurred"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			handler := New(newNoopLogger(), authMock)

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
				req := tt.requestBody.(models.LoginRequest)
				authMock.On("Login", mock.Anything, req.Email, req.Password).Return(tt.mockResp, tt.mockErr).Once()
			}

			r := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			r.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			authMock.AssertExpectations(t)
		})
	}
}
