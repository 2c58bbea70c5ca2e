package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUsernameKey  = "username"
	ctxRequestIDKey = "request_id"
	requestIDHeader = "X-Request-ID"

	errUnexpected = "An unexpected error occurred."
)

func (h *Handler) bearerAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	username, err := h.services.ParseToken(parts[1])
	if err != nil {
		h.log.Infow("auth_token_rejected", "err", err, ctxRequestIDKey, c.GetString(ctxRequestIDKey))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxUsernameKey, username)
	c.Next()
}

// recovery turns a panic anywhere below it into the generic 500 body.
// Details only go to the log.
func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		h.log.Errorw("panic_recovered",
			"panic", rec,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			ctxRequestIDKey, c.GetString(ctxRequestIDKey),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errUnexpected})
	})
}

// requestID propagates an incoming X-Request-ID or mints a new one.
func requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" || len(id) > 128 {
		id = uuid.NewString()
	}
	c.Set(ctxRequestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	kv := []interface{}{
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", status,
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
		ctxRequestIDKey, c.GetString(ctxRequestIDKey),
	}
	switch {
	case status >= http.StatusInternalServerError:
		h.log.Errorw("http_request", kv...)
	case status >= http.StatusBadRequest:
		h.log.Warnw("http_request", kv...)
	default:
		h.log.Infow("http_request", kv...)
	}
}

// internalError logs err under logKey and writes the generic 500 body.
func (h *Handler) internalError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	fields := append([]interface{}{"err", err, ctxRequestIDKey, c.GetString(ctxRequestIDKey)}, kv...)
	h.log.Errorw(logKey, fields...)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errUnexpected})
}
