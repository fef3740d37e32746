package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterExhaustsBurst(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler

	rl := NewRateLimiter(60) // 1 rps, burst 6
	e.GET("/t", func(c echo.Context) error {
		return OK(c, http.StatusOK, nil)
	}, rl.Middleware())

	var denied int
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/t", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			denied++
		}
	}
	assert.NotZero(t, denied)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(60)

	for i := 0; i < 6; i++ {
		assert.True(t, rl.allow("tenant-a"))
	}
	assert.False(t, rl.allow("tenant-a"))

	// A different tenant still has a full bucket.
	assert.True(t, rl.allow("tenant-b"))
}
