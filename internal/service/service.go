package service

import (
	"context"

	"todo_app/internal/models"
	"todo_app/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (uint, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// TodoList exposes CRUD over the shared todo list.
type TodoList interface {
	List(ctx context.Context) ([]models.TodoItem, error)
	Get(ctx context.Context, id uint) (models.TodoItem, error)
	Create(ctx context.Context, in TodoInput) (models.TodoItem, error)
	Update(ctx context.Context, id uint, in TodoInput) error
	Delete(ctx context.Context, id uint) error
}

// TodoInput is the client-writable part of a todo item.
type TodoInput struct {
	Title      string
	IsComplete bool
}

// Service aggregates all sub-services.
type Service struct {
	TodoList
	Authorization
}

func NewService(repos *repository.Repository, auth AuthConfig) *Service {
	return &Service{
		TodoList:      NewTodoService(repos.TodoRepo),
		Authorization: NewAuthService(repos.Auth, auth),
	}
}
