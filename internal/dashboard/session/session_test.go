package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"todo_app/internal/config"
	"todo_app/internal/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, idle time.Duration) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(NewRedisStore(client, idle, []byte("0123456789abcdef0123456789abcdef"))), KeepAlive())
	r.POST("/login", func(c *gin.Context) {
		require.NoError(t, SetToken(c, "alice", "tok"))
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, Username(c)+":"+Token(c))
	})
	r.POST("/flash", func(c *gin.Context) {
		require.NoError(t, Flash(c, "saved"))
		c.Status(http.StatusNoContent)
	})
	r.GET("/flash", func(c *gin.Context) {
		c.String(http.StatusOK, TakeFlash(c))
	})
	r.POST("/drop-token", func(c *gin.Context) {
		require.NoError(t, ClearToken(c))
		c.Status(http.StatusNoContent)
	})
	r.POST("/logout", func(c *gin.Context) {
		require.NoError(t, ClearSession(c))
		c.Status(http.StatusNoContent)
	})
	return r, mr
}

func serve(r http.Handler, method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestSession_TokenRoundTrip(t *testing.T) {
	r, mr := newTestEngine(t, 20*time.Minute)

	w := serve(r, http.MethodGet, "/whoami", nil)
	assert.Equal(t, ":", w.Body.String())

	w = serve(r, http.MethodPost, "/login", nil)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.NotContains(t, cookie.Value, "tok", "token must stay server-side")

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], keyPrefix))
	assert.Equal(t, 20*time.Minute, mr.TTL(keys[0]))

	w = serve(r, http.MethodGet, "/whoami", []*http.Cookie{cookie})
	assert.Equal(t, "alice:tok", w.Body.String())
}

func TestSession_IdleTimeoutSlides(t *testing.T) {
	r, mr := newTestEngine(t, 20*time.Minute)
	cookie := sessionCookie(t, serve(r, http.MethodPost, "/login", nil))

	mr.FastForward(15 * time.Minute)
	w := serve(r, http.MethodGet, "/whoami", []*http.Cookie{cookie})
	assert.Equal(t, "alice:tok", w.Body.String())
	assert.Equal(t, 20*time.Minute, mr.TTL(mr.Keys()[0]), "activity restarts the idle timer")

	mr.FastForward(21 * time.Minute)
	w = serve(r, http.MethodGet, "/whoami", []*http.Cookie{cookie})
	assert.Equal(t, ":", w.Body.String())
}

func TestSession_TamperedCookieStartsFresh(t *testing.T) {
	r, _ := newTestEngine(t, time.Minute)
	serve(r, http.MethodPost, "/login", nil)

	w := serve(r, http.MethodGet, "/whoami", []*http.Cookie{{Name: CookieName, Value: "forged"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ":", w.Body.String())
}

func TestSession_FlashAndClear(t *testing.T) {
	r, mr := newTestEngine(t, time.Minute)
	cookie := sessionCookie(t, serve(r, http.MethodPost, "/login", nil))

	serve(r, http.MethodPost, "/flash", []*http.Cookie{cookie})
	assert.Equal(t, "saved", serve(r, http.MethodGet, "/flash", []*http.Cookie{cookie}).Body.String())
	assert.Equal(t, "", serve(r, http.MethodGet, "/flash", []*http.Cookie{cookie}).Body.String())

	serve(r, http.MethodPost, "/drop-token", []*http.Cookie{cookie})
	assert.Equal(t, ":", serve(r, http.MethodGet, "/whoami", []*http.Cookie{cookie}).Body.String())

	w := serve(r, http.MethodPost, "/logout", []*http.Cookie{cookie})
	assert.Less(t, sessionCookie(t, w).MaxAge, 0)
	assert.Empty(t, mr.Keys())
}

func TestOpenBackend_Embedded(t *testing.T) {
	b, err := OpenBackend(context.Background(), config.Session{}, logger.Nop())
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	assert.True(t, b.Embedded())
	require.NoError(t, b.Client.Ping(context.Background()).Err())
}

func TestOpenBackend_External(t *testing.T) {
	mr := miniredis.RunT(t)

	b, err := OpenBackend(context.Background(), config.Session{RedisAddr: mr.Addr()}, logger.Nop())
	require.NoError(t, err)
	defer func() { _ = b.Close() }()
	assert.False(t, b.Embedded())

	mr.Close()
	_, err = OpenBackend(context.Background(), config.Session{RedisAddr: mr.Addr()}, logger.Nop())
	assert.Error(t, err)
}
