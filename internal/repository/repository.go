package repository

import (
	"context"
	"errors"

	"todo_app/internal/models"

	"gorm.io/gorm"
)

// Store-level errors. Callers match them with errors.Is.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (uint, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type TodoRepo interface {
	List(ctx context.Context) ([]models.TodoItem, error)
	Get(ctx context.Context, id uint) (*models.TodoItem, error)
	Create(ctx context.Context, item *models.TodoItem) error
	Update(ctx context.Context, item *models.TodoItem) error
	Delete(ctx context.Context, id uint) error
}

type Repository struct {
	TodoRepo TodoRepo
	Auth     Authorization
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		TodoRepo: NewTodoRepository(db),
		Auth:     NewUserRepository(db),
	}
}
