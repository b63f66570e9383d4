package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/ideaboard/pkg/response"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func idempotentRouter(rdb *redis.Client, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/vote",
		func(c *gin.Context) { c.Set(response.ContextUserID, "user-1") },
		Idempotency(rdb, time.Minute, zap.NewNop()),
		handler,
	)
	return r
}

func post(r http.Handler, key string) int {
	req := httptest.NewRequest(http.MethodPost, "/vote", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestIdempotencyRefusesRepeatAfterSuccess(t *testing.T) {
	mr, rdb := newRedis(t)
	calls := 0
	r := idempotentRouter(rdb, func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, post(r, "key-1"))
	assert.Equal(t, http.StatusConflict, post(r, "key-1"))
	assert.Equal(t, 1, calls)

	stored, err := mr.Get("idempotency:user-1:POST:/vote:key-1")
	require.NoError(t, err)
	assert.Equal(t, "done", stored)
	assert.Greater(t, mr.TTL("idempotency:user-1:POST:/vote:key-1"), time.Duration(0))

	assert.Equal(t, http.StatusOK, post(r, "key-2"))
	assert.Equal(t, http.StatusOK, post(r, ""))
	assert.Equal(t, 3, calls)
}

func TestIdempotencyReleasesKeyOnFailure(t *testing.T) {
	mr, rdb := newRedis(t)
	status := http.StatusBadRequest
	r := idempotentRouter(rdb, func(c *gin.Context) {
		c.Status(status)
	})

	assert.Equal(t, http.StatusBadRequest, post(r, "retry"))
	assert.False(t, mr.Exists("idempotency:user-1:POST:/vote:retry"))

	status = http.StatusOK
	assert.Equal(t, http.StatusOK, post(r, "retry"))
	assert.Equal(t, http.StatusConflict, post(r, "retry"))
}

func TestIdempotencyReleasesKeyOnPanic(t *testing.T) {
	mr, rdb := newRedis(t)
	fail := true
	r := idempotentRouter(rdb, func(c *gin.Context) {
		if fail {
			panic("boom")
		}
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusInternalServerError, post(r, "crash"))
	assert.False(t, mr.Exists("idempotency:user-1:POST:/vote:crash"))

	fail = false
	assert.Equal(t, http.StatusOK, post(r, "crash"))
}

func TestIdempotencyPassesThroughWhenStoreIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	calls := 0
	r := idempotentRouter(rdb, func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, post(r, "key"))
	assert.Equal(t, http.StatusOK, post(r, "key"))
	assert.Equal(t, 2, calls)
	assert.Error(t, rdb.Ping(context.Background()).Err())
}
