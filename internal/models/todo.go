package models

// TodoItem is a single entry of the shared todo list.
type TodoItem struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Title      string `json:"title" gorm:"size:1024;not null"`
	IsComplete bool   `json:"isComplete" gorm:"not null"`
}
