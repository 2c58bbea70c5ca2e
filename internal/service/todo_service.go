package service

import (
	"context"
	"errors"
	"strings"

	"todo_app/internal/models"
	"todo_app/internal/repository"
)

var (
	ErrBlankTitle   = errors.New("title is required")
	ErrTodoNotFound = errors.New("todo not found")
)

type TodoService struct {
	repo repository.TodoRepo
}

func NewTodoService(repo repository.TodoRepo) *TodoService {
	return &TodoService{repo: repo}
}

// notFound rewrites the store's not-found into the service error.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTodoNotFound
	}
	return err
}

func (s *TodoService) List(ctx context.Context) ([]models.TodoItem, error) {
	return s.repo.List(ctx)
}

func (s *TodoService) Get(ctx context.Context, id uint) (models.TodoItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.TodoItem{}, notFound(err)
	}
	return *item, nil
}

// Create stores a new item. Blank titles are rejected before touching the store.
func (s *TodoService) Create(ctx context.Context, in TodoInput) (models.TodoItem, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.TodoItem{}, ErrBlankTitle
	}
	item := models.TodoItem{Title: in.Title, IsComplete: in.IsComplete}
	if err := s.repo.Create(ctx, &item); err != nil {
		return models.TodoItem{}, err
	}
	return item, nil
}

// Update overwrites title and completion. A missing id wins over a blank title.
func (s *TodoService) Update(ctx context.Context, id uint, in TodoInput) error {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if strings.TrimSpace(in.Title) == "" {
		return ErrBlankTitle
	}
	item.Title = in.Title
	item.IsComplete = in.IsComplete
	return s.repo.Update(ctx, item)
}

func (s *TodoService) Delete(ctx context.Context, id uint) error {
	return notFound(s.repo.Delete(ctx, id))
}
