package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"todo_app/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK     = "ok"
	errInvalidID = "invalid id"
)

// TodoRequest is the writable part of a todo item.
type TodoRequest struct {
	Title      string `json:"title" example:"Buy milk"`
	IsComplete bool   `json:"isComplete" example:"false"`
}

func (r TodoRequest) input() service.TodoInput {
	return service.TodoInput{Title: r.Title, IsComplete: r.IsComplete}
}

// parseID reads the :id path segment. Writes 400 and returns false when it is not a number.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, strconv.IntSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return 0, false
	}
	return uint(id), true
}

// todoError maps service errors onto status codes; anything unknown is a 500.
func (h *Handler) todoError(c *gin.Context, logKey string, err error, id uint) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBlankTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.internalError(c, logKey, err, "id", id)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List todo items
// @Tags         todo
// @Produce      json
// @Success      200  {array}   models.TodoItem
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /todo [get]
// @Security     BearerAuth
func (h *Handler) listTodos(c *gin.Context) {
	items, err := h.services.TodoList.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "todo_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary      Get a todo item
// @Tags         todo
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  models.TodoItem
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todo/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.services.TodoList.Get(c.Request.Context(), id)
	if err != nil {
		h.todoError(c, "todo_get_failed", err, id)
		return
	}
	c.JSON(http.StatusOK, item)
}

// @Summary      Create a todo item
// @Tags         todo
// @Accept       json
// @Produce      json
// @Param        body  body      TodoRequest  true  "Todo payload"
// @Success      201   {object}  models.TodoItem
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /todo [post]
// @Security     BearerAuth
func (h *Handler) createTodo(c *gin.Context) {
	var req TodoRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	item, err := h.services.TodoList.Create(c.Request.Context(), req.input())
	if err != nil {
		h.todoError(c, "todo_create_failed", err, 0)
		return
	}
	h.log.Infow("todo_created", "id", item.ID, ctxUsernameKey, c.GetString(ctxUsernameKey))
	c.Header("Location", fmt.Sprintf("/todo/%d", item.ID))
	c.JSON(http.StatusCreated, item)
}

// @Summary      Replace a todo item
// @Description  Missing ids are reported before title validation.
// @Tags         todo
// @Accept       json
// @Param        id    path  int          true  "Todo ID"
// @Param        body  body  TodoRequest  true  "Todo payload"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todo/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req TodoRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.TodoList.Update(c.Request.Context(), id, req.input()); err != nil {
		h.todoError(c, "todo_update_failed", err, id)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Delete a todo item
// @Tags         todo
// @Param        id   path  int  true  "Todo ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todo/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.services.TodoList.Delete(c.Request.Context(), id); err != nil {
		h.todoError(c, "todo_delete_failed", err, id)
		return
	}
	c.Status(http.StatusNoContent)
}
