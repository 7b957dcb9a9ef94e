package content

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

func (m *RepoMock) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *RepoMock) ListContentByUser(ctx context.Context, userID int64) ([]models.Content, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Content), args.Error(1)
}

func (m *RepoMock) DeleteContent(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type StoreMock struct{ mock.Mock }

func (m *StoreMock) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *StoreMock) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *StoreMock) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func TestService_List(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListContentByUser", mock.Anything, int64(4)).Return([]models.Content{{ID: 2}, {ID: 1}}, nil)

	items, err := New(repo, nil, newNoopLogger()).List(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(2), items[0].ID)
}

func TestService_Delete(t *testing.T) {
	local := "http://localhost:3001/uploads/generated/4/fox-1.png"

	tests := []struct {
		name    string
		setup   func(repo *RepoMock, store *StoreMock)
		wantErr error
	}{
		{
			name: "owner deletes row and file",
			setup: func(repo *RepoMock, store *StoreMock) {
				repo.On("GetContent", mock.Anything, int64(9)).Return(&models.Content{ID: 9, UserID: 4, URL: strPtr(local)}, nil)
				repo.On("DeleteContent", mock.Anything, int64(9)).Return(int64(1), nil)
				store.On("KeyFromURL", local).Return("generated/4/fox-1.png", true)
				store.On("Delete", mock.Anything, "generated/4/fox-1.png").Return(nil).Once()
			},
		},
		{
			name: "external url is left alone",
			setup: func(repo *RepoMock, store *StoreMock) {
				repo.On("GetContent", mock.Anything, int64(9)).Return(&models.Content{ID: 9, UserID: 4, URL: strPtr("https://cdn/v.mp4")}, nil)
				repo.On("DeleteContent", mock.Anything, int64(9)).Return(int64(1), nil)
				store.On("KeyFromURL", "https://cdn/v.mp4").Return("", false)
			},
		},
		{
			name: "file delete failure is ignored",
			setup: func(repo *RepoMock, store *StoreMock) {
				repo.On("GetContent", mock.Anything, int64(9)).Return(&models.Content{ID: 9, UserID: 4, URL: strPtr(local)}, nil)
				repo.On("DeleteContent", mock.Anything, int64(9)).Return(int64(1), nil)
				store.On("KeyFromURL", local).Return("generated/4/fox-1.png", true)
				store.On("Delete", mock.Anything, mock.Anything).Return(errors.New("permission denied"))
			},
		},
		{
			name: "foreign content",
			setup: func(repo *RepoMock, _ *StoreMock) {
				repo.On("GetContent", mock.Anything, int64(9)).Return(&models.Content{ID: 9, UserID: 5}, nil)
			},
			wantErr: models.ErrForbidden,
		},
		{
			name: "missing content",
			setup: func(repo *RepoMock, _ *StoreMock) {
				repo.On("GetContent", mock.Anything, int64(9)).Return(nil, models.ErrContentNotFound)
			},
			wantErr: models.ErrContentNotFound,
		},
		{
			name: "deleted concurrently",
			setup: func(repo *RepoMock, _ *StoreMock) {
				repo.On("GetContent", mock.Anything, int64(9)).Return(&models.Content{ID: 9, UserID: 4}, nil)
				repo.On("DeleteContent", mock.Anything, int64(9)).Return(int64(0), nil)
			},
			wantErr: models.ErrContentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			store := new(StoreMock)
			tt.setup(repo, store)

			err := New(repo, store, newNoopLogger()).Delete(context.Background(), 4, 9)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}
