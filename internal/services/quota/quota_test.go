package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/content-studio/internal/models"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) LatestActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) CountContentCreatedBetween(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Int(0), args.Error(1)
}

var fixedNow = time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

func newEvaluator(repo Repository) *Evaluator {
	e := New(repo, 5, time.UTC)
	e.now = func() time.Time { return fixedNow }
	return e
}

func TestEvaluator_Evaluate(t *testing.T) {
	dayStart := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	tests := []struct {
		name string
		sub  *models.Subscription
		used int
		want models.Quota
	}{
		{
			name: "free user without generations",
			used: 0,
			want: models.Quota{Allowed: true, Used: 0, Limit: 5, Remaining: 5, Tier: models.TierFree},
		},
		{
			name: "free user one below limit",
			used: 4,
			want: models.Quota{Allowed: true, Used: 4, Limit: 5, Remaining: 1, Tier: models.TierFree},
		},
		{
			name: "free user at limit",
			used: 5,
			want: models.Quota{Allowed: false, Used: 5, Limit: 5, Remaining: 0, Tier: models.TierFree},
		},
		{
			name: "free user above limit never goes negative",
			used: 8,
			want: models.Quota{Allowed: false, Used: 8, Limit: 5, Remaining: 0, Tier: models.TierFree},
		},
		{
			name: "premium user is always allowed",
			sub: &models.Subscription{
				Status:  models.SubscriptionActive,
				EndDate: fixedNow.AddDate(0, 0, 10),
			},
			used: 42,
			want: models.Quota{
				Allowed: true, Used: 42, Limit: models.PremiumDisplayLimit,
				Remaining: models.PremiumDisplayLimit, Tier: models.TierPremium, Unlimited: true,
			},
		},
		{
			name: "expired active record counts as free",
			sub: &models.Subscription{
				Status:  models.SubscriptionActive,
				EndDate: fixedNow.Add(-time.Minute),
			},
			used: 5,
			want: models.Quota{Allowed: false, Used: 5, Limit: 5, Remaining: 0, Tier: models.TierFree},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			if tt.sub != nil {
				repo.On("LatestActiveSubscription", mock.Anything, int64(7)).Return(tt.sub, nil).Once()
			} else {
				repo.On("LatestActiveSubscription", mock.Anything, int64(7)).
					Return(nil, models.ErrSubscriptionMissing).Once()
			}
			repo.On("CountContentCreatedBetween", mock.Anything, int64(7), dayStart, dayEnd).Return(tt.used, nil).Once()

			got, err := newEvaluator(repo).Evaluate(context.Background(), 7)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			repo.AssertExpectations(t)
		})
	}
}

func TestEvaluator_UsesConfiguredLocation(t *testing.T) {
	cairo, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)

	repo := new(RepoMock)
	repo.On("LatestActiveSubscription", mock.Anything, int64(1)).Return(nil, models.ErrSubscriptionMissing)
	// 23:30 UTC is already the next calendar day in Cairo
	now := time.Date(2025, 6, 10, 23, 30, 0, 0, time.UTC)
	wantFrom := time.Date(2025, 6, 11, 0, 0, 0, 0, cairo)
	repo.On("CountContentCreatedBetween", mock.Anything, int64(1),
		mock.MatchedBy(func(from time.Time) bool { return from.Equal(wantFrom) }),
		mock.MatchedBy(func(to time.Time) bool { return to.Equal(wantFrom.AddDate(0, 0, 1)) }),
	).Return(0, nil)

	e := New(repo, 5, cairo)
	e.now = func() time.Time { return now }

	q, err := e.Evaluate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, q.Remaining)
	repo.AssertExpectations(t)
}

func TestEvaluator_RepositoryErrors(t *testing.T) {
	t.Run("subscription lookup fails", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("LatestActiveSubscription", mock.Anything, int64(1)).Return(nil, errors.New("db down"))

		_, err := newEvaluator(repo).Evaluate(context.Background(), 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
		repo.AssertNotCalled(t, "CountContentCreatedBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("count fails", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("LatestActiveSubscription", mock.Anything, int64(1)).Return(nil, models.ErrSubscriptionMissing)
		repo.On("CountContentCreatedBetween", mock.Anything, int64(1), mock.Anything, mock.Anything).
			Return(0, errors.New("timeout"))

		_, err := newEvaluator(repo).Evaluate(context.Background(), 1)
		assert.ErrorContains(t, err, "timeout")
	})
}
