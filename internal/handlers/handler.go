package handlers

import (
	"time"

	"todo_app/internal/logger"
	"todo_app/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	allowedOrigins []string
}

// NewHandler constructs a new HTTP handler with dependencies.
// allowedOrigins enables CORS for browser callers such as the dashboard.
func NewHandler(services *service.Service, log *logger.Logger, allowedOrigins ...string) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log, allowedOrigins: allowedOrigins}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(h.recovery(), requestID, h.requestLogger)
	if len(h.allowedOrigins) > 0 {
		router.Use(h.cors())
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	router.POST("/register", h.register)
	router.POST("/login", h.login)

	// Todo endpoints (protected)
	h.registerTodoRoutes(router)

	// Live todo list over WebSocket, same port
	router.GET("/ws/todo", h.bearerAuth, h.wsConnect)

	return router
}

func (h *Handler) registerTodoRoutes(r *gin.Engine) {
	todo := r.Group("/todo", h.bearerAuth)
	{
		todo.GET("", h.listTodos)
		todo.GET("/:id", h.getTodo)
		todo.POST("", h.createTodo)
		todo.PUT("/:id", h.updateTodo)
		todo.DELETE("/:id", h.deleteTodo)
	}
}

func (h *Handler) cors() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     h.allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Location", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
