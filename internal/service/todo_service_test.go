package service

import (
	"context"
	"errors"
	"testing"

	"todo_app/internal/models"
	"todo_app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTodoRepo struct {
	mock.Mock
}

func (m *mockTodoRepo) List(ctx context.Context) ([]models.TodoItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.TodoItem)
	return items, args.Error(1)
}

func (m *mockTodoRepo) Get(ctx context.Context, id uint) (*models.TodoItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.TodoItem)
	return item, args.Error(1)
}

func (m *mockTodoRepo) Create(ctx context.Context, item *models.TodoItem) error {
	args := m.Called(ctx, item)
	if args.Error(0) == nil {
		item.ID = 5
	}
	return args.Error(0)
}

func (m *mockTodoRepo) Update(ctx context.Context, item *models.TodoItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockTodoRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func TestTodoService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(mockTodoRepo)
	repo.On("List", ctx).Return([]models.TodoItem{{ID: 1, Title: "a"}}, nil)

	items, err := NewTodoService(repo).List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	repo.AssertExpectations(t)
}

func TestTodoService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(mockTodoRepo)
		repo.On("Get", ctx, uint(2)).Return(&models.TodoItem{ID: 2, Title: "b"}, nil)

		item, err := NewTodoService(repo).Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "b", item.Title)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(mockTodoRepo)
		repo.On("Get", ctx, uint(9)).Return(nil, repository.ErrNotFound)

		_, err := NewTodoService(repo).Get(ctx, 9)
		assert.ErrorIs(t, err, ErrTodoNotFound)
	})
}

func TestTodoService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores item", func(t *testing.T) {
		repo := new(mockTodoRepo)
		repo.On("Create", ctx, &models.TodoItem{Title: "Buy milk"}).Return(nil)

		item, err := NewTodoService(repo).Create(ctx, TodoInput{Title: "Buy milk"})
		require.NoError(t, err)
		assert.Equal(t, uint(5), item.ID)
		assert.False(t, item.IsComplete)
		repo.AssertExpectations(t)
	})

	t.Run("blank title", func(t *testing.T) {
		repo := new(mockTodoRepo)

		_, err := NewTodoService(repo).Create(ctx, TodoInput{Title: "   "})
		assert.ErrorIs(t, err, ErrBlankTitle)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(mockTodoRepo)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := NewTodoService(repo).Create(ctx, TodoInput{Title: "x"})
		assert.EqualError(t, err, "disk full")
	})
}

func TestTodoService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites fields", func(t *testing.T) {
		repo := new(mockTodoRepo)
		repo.On("Get", ctx, uint(3)).Return(&models.TodoItem{ID: 3, Title: "old", IsComplete: false}, nil)
		repo.On("Update", ctx, &models.TodoItem{ID: 3, Title: "new", IsComplete: true}).Return(nil)

		err := NewTodoService(repo).Update(ctx, 3, TodoInput{Title: "new", IsComplete: true})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing id wins over blank title", func(t *testing.T) {
		repo := new(mockTodoRepo)
		repo.On("Get", ctx, uint(4)).Return(nil, repository.ErrNotFound)

		err := NewTodoService(repo).Update(ctx, 4, TodoInput{Title: ""})
		assert.ErrorIs(t, err, ErrTodoNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("blank title", func(t *testing.T) {
		repo := new(mockTodoRepo)
		repo.On("Get", ctx, uint(3)).Return(&models.TodoItem{ID: 3, Title: "old"}, nil)

		err := NewTodoService(repo).Update(ctx, 3, TodoInput{Title: " "})
		assert.ErrorIs(t, err, ErrBlankTitle)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestTodoService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(mockTodoRepo)
	repo.On("Delete", ctx, uint(1)).Return(nil).Once()
	repo.On("Delete", ctx, uint(1)).Return(repository.ErrNotFound).Once()

	svc := NewTodoService(repo)
	require.NoError(t, svc.Delete(ctx, 1))
	assert.ErrorIs(t, svc.Delete(ctx, 1), ErrTodoNotFound)
	repo.AssertExpectations(t)
}
