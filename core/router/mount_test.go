package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hardenlab/csrfkit/core/handler"
	"github.com/hardenlab/csrfkit/core/router"
)

func TestMount(t *testing.T) {
	t.Parallel()

	t.Run("mounted routes see stripped paths", func(t *testing.T) {
		t.Parallel()

		sub := router.New[*router.Context]()
		sub.Get("/stats", func(ctx *router.Context) handler.Response {
			return textResponse(http.StatusOK, "stats")
		})
		sub.Get("/", func(ctx *router.Context) handler.Response {
			return textResponse(http.StatusOK, "admin root")
		})

		r := router.New[*router.Context]()
		r.Mount("/admin", sub)

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "stats", w.Body.String())

		req = httptest.NewRequest(http.MethodGet, "/admin", nil)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "admin root", w.Body.String())

		req = httptest.NewRequest(http.MethodGet, "/admin/", nil)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "admin root", w.Body.String())
	})

	t.Run("mount preserves subrouter params", func(t *testing.T) {
		t.Parallel()

		sub := router.New[*router.Context]()
		sub.Get("/users/{id}", func(ctx *router.Context) handler.Response {
			return textResponse(http.StatusOK, "user "+ctx.Param("id"))
		})

		r := router.New[*router.Context]()
		r.Mount("/api", sub)

		req := httptest.NewRequest(http.MethodGet, "/api/users/9", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "user 9", w.Body.String())
	})

	t.Run("unmatched path inside mount is 404", func(t *testing.T) {
		t.Parallel()

		sub := router.New[*router.Context]()
		sub.Get("/known", func(ctx *router.Context) handler.Response {
			return textResponse(http.StatusOK, "ok")
		})

		r := router.New[*router.Context]()
		r.Mount("/sub", sub)

		req := httptest.NewRequest(http.MethodGet, "/sub/unknown", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Route builds and mounts a subrouter", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Route("/v1", func(v1 router.Router[*router.Context]) {
			v1.Get("/health", func(ctx *router.Context) handler.Response {
				return textResponse(http.StatusOK, "healthy")
			})
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "healthy", w.Body.String())
	})

	t.Run("nested mounts strip each prefix", func(t *testing.T) {
		t.Parallel()

		inner := router.New[*router.Context]()
		inner.Get("/deep", func(ctx *router.Context) handler.Response {
			return textResponse(http.StatusOK, "deep")
		})

		middle := router.New[*router.Context]()
		middle.Mount("/inner", inner)

		r := router.New[*router.Context]()
		r.Mount("/outer", middle)

		req := httptest.NewRequest(http.MethodGet, "/outer/inner/deep", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "deep", w.Body.String())
	})

	t.Run("mount at root", func(t *testing.T) {
		t.Parallel()

		sub := router.New[*router.Context]()
		sub.Get("/anything", func(ctx *router.Context) handler.Response {
			return textResponse(http.StatusOK, "anything")
		})

		r := router.New[*router.Context]()
		r.Mount("/", sub)

		req := httptest.NewRequest(http.MethodGet, "/anything", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "anything", w.Body.String())
	})

	t.Run("subrouter inherits parent error handler", func(t *testing.T) {
		t.Parallel()

		var handled bool
		parent := router.New(router.WithErrorHandler(func(ctx *router.Context, err error) {
			handled = true
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}))

		sub := router.New[*router.Context]()
		sub.Get("/boom", func(ctx *router.Context) handler.Response {
			return nil
		})
		parent.Mount("/sub", sub)

		req := httptest.NewRequest(http.MethodGet, "/sub/boom", nil)
		w := httptest.NewRecorder()
		parent.ServeHTTP(w, req)

		assert.True(t, handled)
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("mounting nil router panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Mount("/nil", nil)
		})
	})

	t.Run("Route with nil func panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Route("/nil", nil)
		})
	})

	t.Run("mount stubs hidden from Routes", func(t *testing.T) {
		t.Parallel()

		sub := router.New[*router.Context]()
		sub.Get("/inside", func(ctx *router.Context) handler.Response { return nil })

		r := router.New[*router.Context]()
		r.Get("/outside", func(ctx *router.Context) handler.Response { return nil })
		r.Mount("/sub", sub)

		routes := r.Routes()
		assert.Equal(t, []router.Route{{Method: http.MethodGet, Pattern: "/outside"}}, routes)
	})
}
