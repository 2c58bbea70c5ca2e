// Package session keeps the dashboard user's API token server-side.
package session

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie set on the browser.
const CookieName = "todo_dashboard"

const (
	keyToken      = "API_TOKEN"
	keyTokenExp   = "API_TOKEN_EXP"
	keyUsername   = "USERNAME"
	keyFlash      = "FLASH"
	keyLastSeen   = "LAST_SEEN"
	tokenLifetime = time.Hour
)

// Middleware installs the store under CookieName.
func Middleware(store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(CookieName, store)
}

// SetToken stores the API token for username. It is dropped after one hour
// even while the session itself stays alive.
func SetToken(c *gin.Context, username, token string) error {
	s := sessions.Default(c)
	s.Set(keyUsername, username)
	s.Set(keyToken, token)
	s.Set(keyTokenExp, time.Now().Add(tokenLifetime).Unix())
	return s.Save()
}

// Token returns the stored token or "" when absent or past its lifetime.
func Token(c *gin.Context) string {
	s := sessions.Default(c)
	token, _ := s.Get(keyToken).(string)
	exp, _ := s.Get(keyTokenExp).(int64)
	if token == "" || time.Now().Unix() >= exp {
		return ""
	}
	return token
}

// Username returns the name the token was issued for.
func Username(c *gin.Context) string {
	name, _ := sessions.Default(c).Get(keyUsername).(string)
	return name
}

// IsLogin reports whether a usable token is stored.
func IsLogin(c *gin.Context) bool {
	return Token(c) != ""
}

// Flash stores a one-shot message for the next page render.
func Flash(c *gin.Context, msg string) error {
	s := sessions.Default(c)
	s.Set(keyFlash, msg)
	return s.Save()
}

// TakeFlash returns and removes the pending message.
func TakeFlash(c *gin.Context) string {
	s := sessions.Default(c)
	msg, _ := s.Get(keyFlash).(string)
	if msg != "" {
		s.Delete(keyFlash)
		_ = s.Save()
	}
	return msg
}

// ClearToken forgets the token but keeps the session (and any flash).
func ClearToken(c *gin.Context) error {
	s := sessions.Default(c)
	s.Delete(keyToken)
	s.Delete(keyTokenExp)
	s.Delete(keyUsername)
	return s.Save()
}

// ClearSession drops everything and expires the cookie.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	return s.Save()
}

// KeepAlive re-saves a logged-in session so its idle timer restarts on every request.
func KeepAlive() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsLogin(c) {
			s := sessions.Default(c)
			s.Set(keyLastSeen, time.Now().Unix())
			_ = s.Save()
		}
		c.Next()
	}
}
