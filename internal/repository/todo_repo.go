package repository

import (
	"context"
	"errors"
	"fmt"

	"todo_app/internal/models"

	"gorm.io/gorm"
)

type TodoGorm struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoGorm {
	return &TodoGorm{db: db}
}

var _ TodoRepo = (*TodoGorm)(nil)

// updatableColumns are overwritten on every update, zero values included.
var updatableColumns = []string{"title", "is_complete"}

// List returns every item ordered by id. Never returns a nil slice.
func (r *TodoGorm) List(ctx context.Context) ([]models.TodoItem, error) {
	items := make([]models.TodoItem, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return items, nil
}

// Get loads a single item or returns ErrNotFound.
func (r *TodoGorm) Get(ctx context.Context, id uint) (*models.TodoItem, error) {
	var item models.TodoItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select todo %d: %w", id, err)
	}
	return &item, nil
}

// Create inserts item and fills in its generated ID.
func (r *TodoGorm) Create(ctx context.Context, item *models.TodoItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// Update overwrites title and completion of the row with item.ID.
// Existence is the caller's concern: MySQL reports zero affected rows
// for an update that changes nothing, so RowsAffected can't tell.
func (r *TodoGorm) Update(ctx context.Context, item *models.TodoItem) error {
	err := r.db.WithContext(ctx).
		Model(&models.TodoItem{ID: item.ID}).
		Select(updatableColumns).
		Updates(item).Error
	if err != nil {
		return fmt.Errorf("update todo %d: %w", item.ID, err)
	}
	return nil
}

// Delete removes the row or returns ErrNotFound when nothing matched.
func (r *TodoGorm) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.TodoItem{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete todo %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
