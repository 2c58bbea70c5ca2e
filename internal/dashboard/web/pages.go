package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"todo_app/internal/dashboard/apiclient"
	"todo_app/internal/dashboard/session"
	"todo_app/internal/models"

	"github.com/gin-gonic/gin"
)

const loginPath = "/login"

type formValues struct {
	Username string
}

// page is the data every template receives.
type page struct {
	Title    string
	Username string
	Flash    string
	Error    string
	Form     formValues
	Todos    []models.TodoItem
	Item     models.TodoItem
}

func (s *Server) newPage(c *gin.Context, title string) page {
	return page{Title: title, Username: session.Username(c), Flash: session.TakeFlash(c)}
}

// sessionCredentials reads the token from the request's session.
type sessionCredentials struct{ c *gin.Context }

func (sc sessionCredentials) Token() string { return session.Token(sc.c) }

// ginNavigator answers the current request with a redirect to the login page.
type ginNavigator struct{ c *gin.Context }

func (n ginNavigator) RedirectToLogin() {
	_ = session.ClearToken(n.c)
	n.c.Redirect(http.StatusFound, loginPath)
	n.c.Abort()
}

func (s *Server) caller(c *gin.Context) *apiclient.Caller {
	return s.api.Bind(sessionCredentials{c}, ginNavigator{c})
}

// handled reports whether err already produced a response (a login redirect).
func handled(err error) bool {
	return errors.Is(err, apiclient.ErrNoToken) || errors.Is(err, apiclient.ErrUnauthorized)
}

// fail finishes a request whose API call failed. Client errors go back to the
// list as a flash message; everything else renders the error page.
func (s *Server) fail(c *gin.Context, logKey string, err error) {
	if handled(err) {
		return
	}
	var se *apiclient.StatusError
	if errors.As(err, &se) && se.Code < http.StatusInternalServerError {
		_ = session.Flash(c, se.Message)
		c.Redirect(http.StatusFound, "/")
		return
	}
	s.log.Errorw(logKey, "err", err)
	c.HTML(http.StatusBadGateway, "error.html", s.newPage(c, "Error"))
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, strconv.IntSize)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return 0, false
	}
	return uint(id), true
}

func (s *Server) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", s.newPage(c, "Log in"))
}

func (s *Server) login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	token, err := s.api.Login(c.Request.Context(), username, password)
	if err != nil {
		p := s.newPage(c, "Log in")
		p.Form.Username = username
		var se *apiclient.StatusError
		switch {
		case errors.Is(err, apiclient.ErrInvalidCredentials):
			p.Error = "Invalid username or password."
			c.HTML(http.StatusUnauthorized, "login.html", p)
		case errors.As(err, &se) && se.Code == http.StatusBadRequest:
			p.Error = "Username and password are required."
			c.HTML(http.StatusBadRequest, "login.html", p)
		default:
			s.log.Errorw("dashboard_login_failed", "username", username, "err", err)
			p.Error = "Login is unavailable right now."
			c.HTML(http.StatusBadGateway, "login.html", p)
		}
		return
	}

	if err := session.SetToken(c, username, token); err != nil {
		s.log.Errorw("dashboard_session_save_failed", "err", err)
		c.HTML(http.StatusInternalServerError, "error.html", s.newPage(c, "Error"))
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", s.newPage(c, "Register"))
}

func (s *Server) register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if err := s.api.Register(c.Request.Context(), username, password); err != nil {
		p := s.newPage(c, "Register")
		p.Form.Username = username
		var se *apiclient.StatusError
		if errors.As(err, &se) && se.Code == http.StatusBadRequest {
			p.Error = se.Message
			c.HTML(http.StatusBadRequest, "register.html", p)
			return
		}
		s.log.Errorw("dashboard_register_failed", "username", username, "err", err)
		p.Error = "Registration is unavailable right now."
		c.HTML(http.StatusBadGateway, "register.html", p)
		return
	}

	_ = session.Flash(c, "Registration successful. Please log in.")
	c.Redirect(http.StatusFound, loginPath)
}

func (s *Server) logout(c *gin.Context) {
	if err := session.ClearSession(c); err != nil {
		s.log.Errorw("dashboard_logout_failed", "err", err)
	}
	c.Redirect(http.StatusFound, loginPath)
}

func (s *Server) listTodos(c *gin.Context) {
	items, err := s.caller(c).ListTodos(c.Request.Context())
	if err != nil {
		s.fail(c, "dashboard_list_failed", err)
		return
	}
	p := s.newPage(c, "Todos")
	p.Todos = items
	c.HTML(http.StatusOK, "todos.html", p)
}

func (s *Server) createTodo(c *gin.Context) {
	_, err := s.caller(c).CreateTodo(c.Request.Context(), c.PostForm("title"), false)
	if err != nil {
		s.fail(c, "dashboard_create_failed", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) editPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := s.caller(c).GetTodo(c.Request.Context(), id)
	if err != nil {
		s.fail(c, "dashboard_get_failed", err)
		return
	}
	p := s.newPage(c, "Edit")
	p.Item = item
	c.HTML(http.StatusOK, "edit.html", p)
}

func (s *Server) updateTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item := models.TodoItem{
		ID:         id,
		Title:      c.PostForm("title"),
		IsComplete: c.PostForm("isComplete") == "true",
	}
	if err := s.caller(c).UpdateTodo(c.Request.Context(), item); err != nil {
		s.fail(c, "dashboard_update_failed", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// toggleTodo flips completion. It reads the item first because PUT replaces the whole record.
func (s *Server) toggleTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	api := s.caller(c)
	item, err := api.GetTodo(c.Request.Context(), id)
	if err != nil {
		s.fail(c, "dashboard_toggle_failed", err)
		return
	}
	item.IsComplete = !item.IsComplete
	if err := api.UpdateTodo(c.Request.Context(), item); err != nil {
		s.fail(c, "dashboard_toggle_failed", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) deleteTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.caller(c).DeleteTodo(c.Request.Context(), id); err != nil {
		s.fail(c, "dashboard_delete_failed", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
