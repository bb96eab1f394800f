package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardenlab/csrfkit/core/handler"
	"github.com/hardenlab/csrfkit/core/router"
)

type ctxTestKey struct{}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("SetValue is visible through Value", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/", func(ctx *router.Context) handler.Response {
			ctx.SetValue(ctxTestKey{}, "stored")
			val, _ := ctx.Value(ctxTestKey{}).(string)
			return textResponse(http.StatusOK, val)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "stored", w.Body.String())
	})

	t.Run("SetValue updates the request context", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/", func(ctx *router.Context) handler.Response {
			ctx.SetValue(ctxTestKey{}, 42)
			val, _ := ctx.Request().Context().Value(ctxTestKey{}).(int)
			return textResponse(http.StatusOK, strconv.Itoa(val))
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "42", w.Body.String())
	})

	t.Run("delegates deadline and cancellation to request context", func(t *testing.T) {
		t.Parallel()

		deadline := time.Now().Add(time.Minute)
		base, cancel := context.WithDeadline(context.Background(), deadline)
		defer cancel()

		r := router.New[*router.Context]()
		r.Get("/", func(ctx *router.Context) handler.Response {
			d, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, deadline, d, time.Second)
			assert.NoError(t, ctx.Err())

			select {
			case <-ctx.Done():
				t.Error("context should not be done yet")
			default:
			}
			return textResponse(http.StatusOK, "ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(base)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("exposes request and response writer", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Post("/echo", func(ctx *router.Context) handler.Response {
			require.NotNil(t, ctx.Request())
			require.NotNil(t, ctx.ResponseWriter())
			assert.Equal(t, http.MethodPost, ctx.Request().Method)
			return textResponse(http.StatusOK, "ok")
		})

		req := httptest.NewRequest(http.MethodPost, "/echo", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
