// Package web serves the dashboard pages. Every todo operation goes through
// the API client; the token lives in the server-side session.
package web

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"time"

	"todo_app/internal/dashboard/apiclient"
	"todo_app/internal/dashboard/session"
	"todo_app/internal/logger"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

//go:embed html/*.html
var htmlFS embed.FS

// Server renders pages for one API.
type Server struct {
	api   *apiclient.Client
	store sessions.Store
	log   *logger.Logger
}

// New builds a Server. store must already carry the cookie options.
func New(api *apiclient.Client, store sessions.Store, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{api: api, store: store, log: log}
}

func parseTemplates() (*template.Template, error) {
	return template.New("").ParseFS(htmlFS, "html/*.html")
}

// Routes builds the gin engine with middleware, templates and pages.
func (s *Server) Routes() (*gin.Engine, error) {
	tpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(
		gin.CustomRecoveryWithWriter(io.Discard, s.recovered),
		s.accessLog,
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/health"})),
		session.Middleware(s.store),
		session.KeepAlive(),
	)
	engine.SetHTMLTemplate(tpl)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.GET("/login", s.loginPage)
	engine.POST("/login", s.login)
	engine.GET("/register", s.registerPage)
	engine.POST("/register", s.register)
	engine.POST("/logout", s.logout)

	engine.GET("/", s.listTodos)
	todos := engine.Group("/todos")
	{
		todos.POST("", s.createTodo)
		todos.GET("/:id/edit", s.editPage)
		todos.POST("/:id", s.updateTodo)
		todos.POST("/:id/toggle", s.toggleTodo)
		todos.POST("/:id/delete", s.deleteTodo)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})
	return engine, nil
}

func (s *Server) recovered(c *gin.Context, rec any) {
	s.log.Errorw("dashboard_panic_recovered", "panic", rec, "path", c.Request.URL.Path)
	c.HTML(http.StatusInternalServerError, "error.html", page{Title: "Error"})
	c.Abort()
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Infow("dashboard_request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
}
