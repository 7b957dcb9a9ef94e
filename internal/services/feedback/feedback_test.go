package feedback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/content-studio/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateFeedback(ctx context.Context, userID *int64, message string) (int64, error) {
	args := m.Called(ctx, userID, message)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Feedback), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_Submit(t *testing.T) {
	uid := int64(8)
	tests := []struct {
		name    string
		userID  *int64
		repoErr error
	}{
		{name: "signed in", userID: &uid},
		{name: "anonymous", userID: nil},
		{name: "db error", userID: nil, repoErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("CreateFeedback", mock.Anything, tt.userID, "great app").Return(int64(21), tt.repoErr)

			id, err := New(repo, newNoopLogger()).Submit(context.Background(), tt.userID, "  great app ")
			if tt.repoErr != nil {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(21), id)
		})
	}
}

func TestService_List(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListFeedback", mock.Anything).Return([]models.Feedback{{ID: 2}, {ID: 1}}, nil)

	items, err := New(repo, newNoopLogger()).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
