package handlers

import (
	"context"
	"net/http"
	"sync"

	"todo_app/internal/models"
	"todo_app/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      uint
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseUser     string
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (uint, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseUser, m.parseErr
}

// mockTodo keeps items in memory and can be forced to fail or panic.
type mockTodo struct {
	mu      sync.Mutex
	items   map[uint]models.TodoItem
	nextID  uint
	err     error
	panicOn string

	lastUpdate service.TodoInput
}

func newMockTodo(items ...models.TodoItem) *mockTodo {
	m := &mockTodo{items: map[uint]models.TodoItem{}, nextID: 1}
	for _, it := range items {
		m.items[it.ID] = it
		if it.ID >= m.nextID {
			m.nextID = it.ID + 1
		}
	}
	return m
}

func (m *mockTodo) check(op string) error {
	if m.panicOn == op {
		panic("mock panic in " + op)
	}
	return m.err
}

func (m *mockTodo) List(_ context.Context) ([]models.TodoItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("List"); err != nil {
		return nil, err
	}
	out := make([]models.TodoItem, 0, len(m.items))
	for id := uint(1); id < m.nextID; id++ {
		if it, ok := m.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockTodo) Get(_ context.Context, id uint) (models.TodoItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("Get"); err != nil {
		return models.TodoItem{}, err
	}
	it, ok := m.items[id]
	if !ok {
		return models.TodoItem{}, service.ErrTodoNotFound
	}
	return it, nil
}

func (m *mockTodo) Create(_ context.Context, in service.TodoInput) (models.TodoItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("Create"); err != nil {
		return models.TodoItem{}, err
	}
	if in.Title == "" {
		return models.TodoItem{}, service.ErrBlankTitle
	}
	it := models.TodoItem{ID: m.nextID, Title: in.Title, IsComplete: in.IsComplete}
	m.items[it.ID] = it
	m.nextID++
	return it, nil
}

func (m *mockTodo) Update(_ context.Context, id uint, in service.TodoInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("Update"); err != nil {
		return err
	}
	m.lastUpdate = in
	if _, ok := m.items[id]; !ok {
		return service.ErrTodoNotFound
	}
	if in.Title == "" {
		return service.ErrBlankTitle
	}
	m.items[id] = models.TodoItem{ID: id, Title: in.Title, IsComplete: in.IsComplete}
	return nil
}

func (m *mockTodo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("Delete"); err != nil {
		return err
	}
	if _, ok := m.items[id]; !ok {
		return service.ErrTodoNotFound
	}
	delete(m.items, id)
	return nil
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
