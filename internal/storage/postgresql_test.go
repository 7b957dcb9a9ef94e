//go:build integration

package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/content-studio/internal/migrations"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

func setupTestDB(t *testing.T) *Storage {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	path, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, path))

	t.Cleanup(func() {
		_ = storage.Close()
		_ = pgContainer.Terminate(ctx)
	})
	return storage
}

func createUser(t *testing.T, s *Storage, email string) int64 {
	id, err := s.CreateUser(context.Background(), models.User{
		Username:     "user_" + email[:3],
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return id
}

func testPayment() models.Payment {
	return models.Payment{
		AmountCents: models.PremiumPriceCents,
		Currency:    models.PremiumCurrency,
		Method:      models.DefaultPaymentMethod,
		Status:      models.PaymentCompleted,
	}
}

func TestStorage_Users(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	id := createUser(t, s, "alice@example.com")
	assert.Positive(t, id)

	_, err := s.CreateUser(ctx, models.User{Username: "other", Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, models.ErrUserExists)

	u, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)

	_, err = s.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	updated, err := s.UpdateUser(ctx, id, "alice_new", "alice2@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice_new", updated.Username)
	assert.Equal(t, "alice2@example.com", updated.Email)

	createUser(t, s, "bob@example.com")
	_, err = s.UpdateUser(ctx, id, "alice_new", "bob@example.com")
	assert.ErrorIs(t, err, models.ErrUserExists)
}

func TestStorage_ActivateTwiceKeepsOneWindow(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	userID := createUser(t, s, "carol@example.com")

	now := time.Now().UTC().Truncate(time.Second)
	first, err := s.ActivateSubscription(ctx, userID, now, now.AddDate(0, 0, 30), testPayment())
	require.NoError(t, err)

	later := now.Add(time.Hour)
	second, err := s.ActivateSubscription(ctx, userID, later, later.AddDate(0, 0, 30), testPayment())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var active int
	err = s.DB.QueryRow(`SELECT COUNT(*) FROM subscriptions WHERE user_id = $1 AND status = 'active'`, userID).Scan(&active)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	sub, err := s.LatestActiveSubscription(ctx, userID)
	require.NoError(t, err)
	assert.True(t, sub.EndDate.Equal(later.AddDate(0, 0, 30)))

	payments, err := s.ListPayments(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.Equal(t, int64(models.PremiumPriceCents), payments[0].AmountCents)
}

func TestStorage_ConcurrentActivation(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	userID := createUser(t, s, "dave@example.com")

	now := time.Now().UTC()
	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ActivateSubscription(ctx, userID, now, now.AddDate(0, 0, 30), testPayment())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var active int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM subscriptions WHERE user_id = $1 AND status = 'active'`, userID).Scan(&active)
	require.NoError(t, err)
	assert.Equal(t, 1, active)
}

func TestStorage_ActivateDuplicateProviderRef(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	userID := createUser(t, s, "erin@example.com")

	ref := "cs_test_123"
	p := testPayment()
	p.ProviderRef = &ref
	now := time.Now().UTC()

	_, err := s.ActivateSubscription(ctx, userID, now, now.AddDate(0, 0, 30), p)
	require.NoError(t, err)
	_, err = s.ActivateSubscription(ctx, userID, now, now.AddDate(0, 0, 30), p)
	assert.ErrorIs(t, err, models.ErrPaymentProcessed)
}

func TestStorage_CancelAndExpiredRecords(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	userID := createUser(t, s, "frank@example.com")

	_, err := s.LatestActiveSubscription(ctx, userID)
	assert.ErrorIs(t, err, models.ErrSubscriptionMissing)

	past := time.Now().UTC().AddDate(0, 0, -40)
	_, err = s.ActivateSubscription(ctx, userID, past, past.AddDate(0, 0, 30), testPayment())
	require.NoError(t, err)

	sub, err := s.LatestActiveSubscription(ctx, userID)
	require.NoError(t, err)
	assert.False(t, sub.IsEffective(time.Now()))

	n, err := s.CancelActiveSubscriptions(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.LatestActiveSubscription(ctx, userID)
	assert.ErrorIs(t, err, models.ErrSubscriptionMissing)

	_, err = s.ActivateSubscription(ctx, 9999, past, past, testPayment())
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestStorage_Content(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	userID := createUser(t, s, "gina@example.com")
	otherID := createUser(t, s, "hank@example.com")

	url := "http://localhost/uploads/a.png"
	first, err := s.CreateContent(ctx, models.Content{
		UserID: userID, Type: models.ContentImage, Title: "cat", Description: "cat", URL: &url,
	})
	require.NoError(t, err)
	second, err := s.CreateContent(ctx, models.Content{
		UserID: userID, Type: models.ContentVideo, Title: "dog", Description: "dog",
	})
	require.NoError(t, err)
	_, err = s.CreateContent(ctx, models.Content{
		UserID: otherID, Type: models.ContentImage, Title: "x", Description: "x",
	})
	require.NoError(t, err)

	list, err := s.ListContentByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Nil(t, list[0].URL)
	require.NotNil(t, list[1].URL)
	assert.Equal(t, url, *list[1].URL)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	count, err := s.CountContentCreatedBetween(ctx, userID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = s.CountContentCreatedBetween(ctx, userID, to, to.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	stats, err := s.DailyStats(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ActiveUsers)
	assert.Equal(t, 3, stats.Generations)

	got, err := s.GetContent(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContentImage, got.Type)

	n, err := s.DeleteContent(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.GetContent(ctx, first.ID)
	assert.ErrorIs(t, err, models.ErrContentNotFound)
}

func TestStorage_Feedback(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	userID := createUser(t, s, "ivan@example.com")

	_, err := s.CreateFeedback(ctx, nil, "anonymous")
	require.NoError(t, err)
	_, err = s.CreateFeedback(ctx, &userID, "signed")
	require.NoError(t, err)

	list, err := s.ListFeedback(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "signed", list[0].Message)
	require.NotNil(t, list[0].UserID)
	assert.Equal(t, userID, *list[0].UserID)
	assert.Nil(t, list[1].UserID)
}

func TestStorage_CanceledContext(t *testing.T) {
	s := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetUserByID(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
