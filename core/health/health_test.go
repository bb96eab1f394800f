package health_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardenlab/csrfkit/core/health"
	"github.com/hardenlab/csrfkit/core/response"
)

// testContext is a minimal handler.Context for invoking handlers directly.
type testContext struct {
	w http.ResponseWriter
	r *http.Request
}

func (tc *testContext) Deadline() (time.Time, bool) { return tc.r.Context().Deadline() }
func (tc *testContext) Done() <-chan struct{}       { return tc.r.Context().Done() }
func (tc *testContext) Err() error                  { return tc.r.Context().Err() }
func (tc *testContext) Value(key any) any           { return tc.r.Context().Value(key) }
func (tc *testContext) SetValue(key, val any)       {}

func (tc *testContext) Request() *http.Request              { return tc.r }
func (tc *testContext) ResponseWriter() http.ResponseWriter { return tc.w }
func (tc *testContext) Param(key string) string             { return "" }

func newTestContext() (*testContext, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	return &testContext{w: w, r: r}, w
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	ctx, w := newTestContext()

	err := health.Liveness[*testContext](ctx)(w, ctx.Request())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALIVE", w.Body.String())
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	ctx, w := newTestContext()

	err := health.NoContent[*testContext](ctx)(w, ctx.Request())
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	t.Run("all checks pass", func(t *testing.T) {
		t.Parallel()

		ctx, w := newTestContext()
		checked := 0
		check := func(context.Context) error {
			checked++
			return nil
		}

		h := health.Readiness[*testContext](discardLogger(), check, check)
		err := h(ctx)(w, ctx.Request())
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "READY", w.Body.String())
		assert.Equal(t, 2, checked)
	})

	t.Run("no checks registered", func(t *testing.T) {
		t.Parallel()

		ctx, w := newTestContext()

		h := health.Readiness[*testContext](discardLogger())
		err := h(ctx)(w, ctx.Request())
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("failing check reports unavailable", func(t *testing.T) {
		t.Parallel()

		ctx, w := newTestContext()
		h := health.Readiness[*testContext](
			discardLogger(),
			func(context.Context) error { return nil },
			func(context.Context) error { return errors.New("redis gone") },
		)

		err := h(ctx)(w, ctx.Request())
		require.Error(t, err)

		var httpErr response.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode())
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		t.Parallel()

		ctx, w := newTestContext()
		reached := false
		h := health.Readiness[*testContext](
			discardLogger(),
			func(context.Context) error { return errors.New("db down") },
			func(context.Context) error {
				reached = true
				return nil
			},
		)

		err := h(ctx)(w, ctx.Request())
		require.Error(t, err)
		assert.False(t, reached)
	})
}
