package cangenerate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-studio/internal/models"
)

type QuotaMock struct {
	mock.Mock
}

func (m *QuotaMock) Evaluate(ctx context.Context, userID int64) (models.Quota, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Quota), args.Error(1)
}

func TestCanGenerateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		quota      models.Quota
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "new free user",
			quota:      models.Quota{Allowed: true, Used: 0, Limit: 5, Remaining: 5, Tier: models.TierFree},
			wantStatus: http.StatusOK,
			wantBody: `{"success":true,"message":"You have 5 generations remaining today","canGenerate":true,
				"subscriptionType":"free","used":0,"limit":5,"remaining":5}`,
		},
		{
			name:       "free user at limit",
			quota:      models.Quota{Allowed: false, Used: 5, Limit: 5, Remaining: 0, Tier: models.TierFree},
			wantStatus: http.StatusOK,
			wantBody: `{"success":true,"message":"Daily limit reached. Upgrade to Premium for unlimited generations!",
				"canGenerate":false,"subscriptionType":"free","used":5,"limit":5,"remaining":0}`,
		},
		{
			name: "premium user",
			quota: models.Quota{Allowed: true, Used: 12, Limit: models.PremiumDisplayLimit,
				Remaining: models.PremiumDisplayLimit, Tier: models.TierPremium, Unlimited: true},
			wantStatus: http.StatusOK,
			wantBody: `{"success":true,"message":"Premium user has unlimited generations","canGenerate":true,
				"subscriptionType":"premium","used":12,"limit":999999,"remaining":"unlimited"}`,
		},
		{
			name:       "storage failure",
			err:        errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"message":"An internal server error occurred"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(QuotaMock)
			q.On("Evaluate", mock.Anything, int64(9)).Return(tt.quota, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/api/generations/can-generate/9", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("userId", "9")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, q).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
