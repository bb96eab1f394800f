package middleware_test

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardenlab/csrfkit/core/csrf"
	"github.com/hardenlab/csrfkit/core/handler"
	"github.com/hardenlab/csrfkit/core/response"
	"github.com/hardenlab/csrfkit/core/router"
	"github.com/hardenlab/csrfkit/core/session"
	"github.com/hardenlab/csrfkit/middleware"
)

// sessionCarrier plays the part of the session middleware in tests:
// it injects a session before the handler and captures whatever the
// request left in context afterwards, so secret mutations (lazy
// creation, rotation) survive across requests like a real store.
type sessionCarrier struct {
	mu   sync.Mutex
	sess session.Session[testSessionData]
}

func newSessionCarrier(t *testing.T) *sessionCarrier {
	t.Helper()
	sess, err := session.New[testSessionData](session.NewSessionParams{IP: "127.0.0.1"}, time.Hour)
	require.NoError(t, err)
	return &sessionCarrier{sess: sess}
}

func (c *sessionCarrier) current() session.Session[testSessionData] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

func (c *sessionCarrier) middleware() handler.Middleware[*router.Context] {
	return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			c.mu.Lock()
			sess := c.sess
			c.mu.Unlock()

			middleware.SetSession(ctx, sess)
			resp := next(ctx)

			if current, ok := middleware.GetSession[testSessionData](ctx); ok {
				c.mu.Lock()
				c.sess = current
				c.mu.Unlock()
			}
			return resp
		}
	}
}

func newCSRFGuard(t *testing.T, opts ...csrf.Option) *csrf.Guard {
	t.Helper()
	guard, err := csrf.New(opts...)
	require.NoError(t, err)
	return guard
}

// newCSRFRouter builds a router with the canonical JSON error envelope,
// the session carrier, and the CSRF middleware under test.
func newCSRFRouter(carrier *sessionCarrier, mw handler.Middleware[*router.Context]) router.Router[*router.Context] {
	r := router.New[*router.Context](
		router.WithErrorHandler[*router.Context](response.JSONErrorHandler),
	)
	r.Use(carrier.middleware(), mw)
	return r
}

func okHandler(ctx *router.Context) handler.Response {
	return response.JSON(map[string]string{"status": "ok"})
}

// postForm submits an urlencoded form to the router.
func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// rejectionCode decodes the canonical envelope and returns its code.
func rejectionCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Message)
	return envelope.Code
}

func TestCSRFRequiresGuard(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		middleware.CSRFWithConfig[*router.Context, testSessionData](middleware.CSRFConfig[*router.Context]{})
	})
}

func TestCSRFRejectsInvalidTrustedOrigins(t *testing.T) {
	t.Parallel()

	guard := newCSRFGuard(t)
	for _, origin := range []string{"", "https://", "example.com/path"} {
		assert.Panics(t, func() {
			middleware.CSRFWithConfig[*router.Context, testSessionData](middleware.CSRFConfig[*router.Context]{
				Guard:          guard,
				TrustedOrigins: []string{origin},
			})
		}, origin)
	}
}

func TestCSRFSafeMethods(t *testing.T) {
	t.Parallel()

	t.Run("issues a token and creates the secret lazily", func(t *testing.T) {
		t.Parallel()

		guard := newCSRFGuard(t)
		carrier := newSessionCarrier(t)
		require.Empty(t, carrier.current().CSRFSecret)

		r := newCSRFRouter(carrier, middleware.CSRF[*router.Context, testSessionData](guard))

		var issued string
		r.Get("/form", func(ctx *router.Context) handler.Response {
			issued = middleware.MustGetCSRFToken(ctx)
			return response.JSON(map[string]string{"status": "ok"})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.NotEmpty(t, issued)
		assert.Contains(t, w.Header().Values("Vary"), "Cookie")

		// The secret now exists and the issued token verifies against it.
		sess := carrier.current()
		require.NotEmpty(t, sess.CSRFSecret)
		assert.NoError(t, guard.Verify(sess.CSRFSecret, sess.ID, issued))
	})

	t.Run("never verifies, even with a garbage token present", func(t *testing.T) {
		t.Parallel()

		guard := newCSRFGuard(t)
		carrier := newSessionCarrier(t)
		r := newCSRFRouter(carrier, middleware.CSRF[*router.Context, testSessionData](guard))
		r.Get("/page", okHandler)

		req := httptest.NewRequest(http.MethodGet, "/page", nil)
		req.Header.Set("X-CSRF-Token", "complete-garbage")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("passes through without a session", func(t *testing.T) {
		t.Parallel()

		guard := newCSRFGuard(t)
		r := router.New[*router.Context](
			router.WithErrorHandler[*router.Context](response.JSONErrorHandler),
		)
		r.Use(middleware.CSRF[*router.Context, testSessionData](guard))
		r.Get("/page", func(ctx *router.Context) handler.Response {
			_, ok := middleware.GetCSRFToken(ctx)
			assert.False(t, ok)
			return response.JSON(map[string]string{"status": "ok"})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCSRFVerification(t *testing.T) {
	t.Parallel()

	// setup issues a token for the carrier's session the way a prior GET
	// would, returning everything a POST needs.
	setup := func(t *testing.T, opts ...csrf.Option) (*csrf.Guard, *sessionCarrier, router.Router[*router.Context], string) {
		t.Helper()

		guard := newCSRFGuard(t, opts...)
		carrier := newSessionCarrier(t)

		carrier.mu.Lock()
		secret, err := carrier.sess.EnsureCSRFSecret()
		require.NoError(t, err)
		sessionID := carrier.sess.ID
		carrier.mu.Unlock()

		token, err := guard.Issue(secret, sessionID)
		require.NoError(t, err)

		r := newCSRFRouter(carrier, middleware.CSRF[*router.Context, testSessionData](guard))
		r.Post("/submit", okHandler)
		return guard, carrier, r, token
	}

	t.Run("valid token in form field", func(t *testing.T) {
		t.Parallel()

		_, _, r, token := setup(t)
		w := postForm(r, "/submit", url.Values{"csrf_token": {token}})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid token in header", func(t *testing.T) {
		t.Parallel()

		_, _, r, token := setup(t)
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("X-CSRF-Token", token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		_, _, r, _ := setup(t)
		w := postForm(r, "/submit", url.Values{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "csrf_token_missing", rejectionCode(t, w))
	})

	t.Run("tampered token", func(t *testing.T) {
		t.Parallel()

		_, _, r, token := setup(t)
		tampered := "A" + token[1:]
		if tampered == token {
			tampered = "B" + token[1:]
		}

		w := postForm(r, "/submit", url.Values{"csrf_token": {tampered}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "csrf_token_invalid", rejectionCode(t, w))
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		_, _, r, token := setup(t, csrf.WithTokenTTL(time.Nanosecond))
		w := postForm(r, "/submit", url.Values{"csrf_token": {token}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "csrf_token_expired", rejectionCode(t, w))
	})

	t.Run("no session", func(t *testing.T) {
		t.Parallel()

		guard := newCSRFGuard(t)
		r := router.New[*router.Context](
			router.WithErrorHandler[*router.Context](response.JSONErrorHandler),
		)
		r.Use(middleware.CSRF[*router.Context, testSessionData](guard))
		r.Post("/submit", okHandler)

		w := postForm(r, "/submit", url.Values{"csrf_token": {"anything"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "csrf_no_session", rejectionCode(t, w))
	})

	t.Run("token from another session", func(t *testing.T) {
		t.Parallel()

		guard, _, r, _ := setup(t)

		// Both sessions are live; the token is simply not theirs.
		other := newSessionCarrier(t)
		other.mu.Lock()
		otherSecret, err := other.sess.EnsureCSRFSecret()
		require.NoError(t, err)
		otherID := other.sess.ID
		other.mu.Unlock()
		foreign, err := guard.Issue(otherSecret, otherID)
		require.NoError(t, err)

		w := postForm(r, "/submit", url.Values{"csrf_token": {foreign}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "csrf_token_invalid", rejectionCode(t, w))
	})

	t.Run("rotated secret invalidates earlier tokens", func(t *testing.T) {
		t.Parallel()

		_, carrier, r, token := setup(t)

		carrier.mu.Lock()
		require.NoError(t, carrier.sess.RotateCSRFSecret())
		carrier.mu.Unlock()

		w := postForm(r, "/submit", url.Values{"csrf_token": {token}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "csrf_token_invalid", rejectionCode(t, w))
	})

	t.Run("login rotates the secret", func(t *testing.T) {
		t.Parallel()

		_, carrier, r, token := setup(t)

		carrier.mu.Lock()
		require.NoError(t, carrier.sess.Authenticate(uuid.New()))
		carrier.mu.Unlock()

		w := postForm(r, "/submit", url.Values{"csrf_token": {token}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "csrf_token_invalid", rejectionCode(t, w))
	})

	t.Run("session secret missing", func(t *testing.T) {
		t.Parallel()

		guard := newCSRFGuard(t)
		carrier := newSessionCarrier(t)
		r := newCSRFRouter(carrier, middleware.CSRF[*router.Context, testSessionData](guard))
		r.Post("/submit", okHandler)

		// No GET has run, so the session has nothing to verify against.
		w := postForm(r, "/submit", url.Values{"csrf_token": {"never-issued"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "csrf_token_invalid", rejectionCode(t, w))
	})

	t.Run("handler still reads the form body", func(t *testing.T) {
		t.Parallel()

		guard := newCSRFGuard(t)
		carrier := newSessionCarrier(t)

		carrier.mu.Lock()
		secret, err := carrier.sess.EnsureCSRFSecret()
		require.NoError(t, err)
		token, err := guard.Issue(secret, carrier.sess.ID)
		require.NoError(t, err)
		carrier.mu.Unlock()

		r := newCSRFRouter(carrier, middleware.CSRF[*router.Context, testSessionData](guard))
		r.Post("/submit", func(ctx *router.Context) handler.Response {
			assert.Equal(t, "restore", ctx.Request().PostFormValue("action"))
			return response.JSON(map[string]string{"status": "ok"})
		})

		w := postForm(r, "/submit", url.Values{
			"csrf_token": {token},
			"action":     {"restore"},
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCSRFDeliverySurfaceConfig(t *testing.T) {
	t.Parallel()

	t.Run("form surface disabled", func(t *testing.T) {
		t.Parallel()

		guard := newCSRFGuard(t, csrf.WithAcceptForm(false))
		carrier := newSessionCarrier(t)

		carrier.mu.Lock()
		secret, err := carrier.sess.EnsureCSRFSecret()
		require.NoError(t, err)
		token, err := guard.Issue(secret, carrier.sess.ID)
		require.NoError(t, err)
		carrier.mu.Unlock()

		r := newCSRFRouter(carrier, middleware.CSRF[*router.Context, testSessionData](guard))
		r.Post("/submit", okHandler)

		w := postForm(r, "/submit", url.Values{"csrf_token": {token}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "csrf_surface_not_accepted", rejectionCode(t, w))

		// The same token through the header is accepted.
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("X-CSRF-Token", token)
		w2 := httptest.NewRecorder()
		r.ServeHTTP(w2, req)
		assert.Equal(t, http.StatusOK, w2.Code)
	})
}

func TestCSRFExemptionsAndSkip(t *testing.T) {
	t.Parallel()

	t.Run("exempt paths bypass verification", func(t *testing.T) {
		t.Parallel()

		guard := newCSRFGuard(t)
		carrier := newSessionCarrier(t)
		r := newCSRFRouter(carrier, middleware.CSRFWithConfig[*router.Context, testSessionData](middleware.CSRFConfig[*router.Context]{
			Guard:       guard,
			ExemptPaths: []string{"/healthz", "/webhooks/*"},
		}))
		r.Post("/healthz", okHandler)
		r.Post("/webhooks/{provider}", okHandler)
		r.Post("/submit", okHandler)

		assert.Equal(t, http.StatusOK, postForm(r, "/healthz", url.Values{}).Code)
		assert.Equal(t, http.StatusOK, postForm(r, "/webhooks/stripe", url.Values{}).Code)

		w := postForm(r, "/submit", url.Values{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "csrf_token_missing", rejectionCode(t, w))
	})

	t.Run("skip function bypasses everything", func(t *testing.T) {
		t.Parallel()

		guard := newCSRFGuard(t)
		carrier := newSessionCarrier(t)
		r := newCSRFRouter(carrier, middleware.CSRFWithConfig[*router.Context, testSessionData](middleware.CSRFConfig[*router.Context]{
			Guard: guard,
			Skip: func(ctx *router.Context) bool {
				return ctx.Request().Header.Get("X-Internal") == "1"
			},
		}))
		r.Post("/submit", okHandler)

		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("X-Internal", "1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCSRFTrustedOrigins(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T, origins []string) (router.Router[*router.Context], string) {
		t.Helper()

		guard := newCSRFGuard(t)
		carrier := newSessionCarrier(t)

		carrier.mu.Lock()
		secret, err := carrier.sess.EnsureCSRFSecret()
		require.NoError(t, err)
		token, err := guard.Issue(secret, carrier.sess.ID)
		require.NoError(t, err)
		carrier.mu.Unlock()

		r := newCSRFRouter(carrier, middleware.CSRFWithConfig[*router.Context, testSessionData](middleware.CSRFConfig[*router.Context]{
			Guard:          guard,
			TrustedOrigins: origins,
		}))
		r.Post("/submit", okHandler)
		return r, token
	}

	submit := func(r http.Handler, token string, headers map[string]string) *httptest.ResponseRecorder {
		form := url.Values{"csrf_token": {token}}
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("matching origin is allowed", func(t *testing.T) {
		t.Parallel()

		r, token := setup(t, []string{"https://app.example.com"})
		w := submit(r, token, map[string]string{"Origin": "https://app.example.com"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("host-only entry matches any scheme", func(t *testing.T) {
		t.Parallel()

		r, token := setup(t, []string{"app.example.com"})
		w := submit(r, token, map[string]string{"Origin": "http://app.example.com"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("mismatched origin is rejected before token checks", func(t *testing.T) {
		t.Parallel()

		r, token := setup(t, []string{"https://app.example.com"})
		w := submit(r, token, map[string]string{"Origin": "https://evil.example.net"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "csrf_origin_untrusted", rejectionCode(t, w))
	})

	t.Run("referer is consulted when origin is absent", func(t *testing.T) {
		t.Parallel()

		r, token := setup(t, []string{"https://app.example.com"})
		w := submit(r, token, map[string]string{"Referer": "https://app.example.com/checkout"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("neither header present is rejected", func(t *testing.T) {
		t.Parallel()

		r, token := setup(t, []string{"https://app.example.com"})
		w := submit(r, token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "csrf_origin_untrusted", rejectionCode(t, w))
	})
}

func TestCSRFRotateAfterUse(t *testing.T) {
	t.Parallel()

	guard := newCSRFGuard(t)
	carrier := newSessionCarrier(t)

	carrier.mu.Lock()
	secret, err := carrier.sess.EnsureCSRFSecret()
	require.NoError(t, err)
	token, err := guard.Issue(secret, carrier.sess.ID)
	require.NoError(t, err)
	carrier.mu.Unlock()

	r := newCSRFRouter(carrier, middleware.CSRFWithConfig[*router.Context, testSessionData](middleware.CSRFConfig[*router.Context]{
		Guard:             guard,
		RotateAfterUse:    true,
		SetResponseHeader: true,
	}))
	r.Post("/submit", okHandler)

	// First use succeeds and the response already carries a replacement.
	w := postForm(r, "/submit", url.Values{"csrf_token": {token}})
	require.Equal(t, http.StatusOK, w.Code)
	next := w.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, next)
	assert.NotEqual(t, token, next)

	// Replaying the spent token fails: the secret has rotated.
	w = postForm(r, "/submit", url.Values{"csrf_token": {token}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "csrf_token_invalid", rejectionCode(t, w))

	// The replacement token from the response header works.
	w = postForm(r, "/submit", url.Values{"csrf_token": {next}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFResponseHeaderEcho(t *testing.T) {
	t.Parallel()

	guard := newCSRFGuard(t)
	carrier := newSessionCarrier(t)
	r := newCSRFRouter(carrier, middleware.CSRFWithConfig[*router.Context, testSessionData](middleware.CSRFConfig[*router.Context]{
		Guard:             guard,
		SetResponseHeader: true,
	}))
	r.Get("/page", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))

	require.Equal(t, http.StatusOK, w.Code)
	echoed := w.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, echoed)

	sess := carrier.current()
	assert.NoError(t, guard.Verify(sess.CSRFSecret, sess.ID, echoed))
}

func TestCSRFTokenHandler(t *testing.T) {
	t.Parallel()

	t.Run("returns the current token", func(t *testing.T) {
		t.Parallel()

		guard := newCSRFGuard(t)
		carrier := newSessionCarrier(t)
		r := newCSRFRouter(carrier, middleware.CSRF[*router.Context, testSessionData](guard))
		r.Get("/csrf-token", middleware.CSRFTokenHandler[*router.Context]())
		r.Post("/submit", okHandler)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/csrf-token", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotEmpty(t, body.Token)

		// The fetched token authenticates a follow-up header submission.
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("X-CSRF-Token", body.Token)
		w2 := httptest.NewRecorder()
		r.ServeHTTP(w2, req)
		assert.Equal(t, http.StatusOK, w2.Code)
	})

	t.Run("errors when no token was issued", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context](
			router.WithErrorHandler[*router.Context](response.JSONErrorHandler),
		)
		r.Get("/csrf-token", middleware.CSRFTokenHandler[*router.Context]())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/csrf-token", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "csrf_token_unavailable", rejectionCode(t, w))
	})
}

// TestCSRFFormScenario walks the canonical form lifecycle: a GET renders
// the hidden field, the browser posts it back, and stripping or
// tampering with the field turns the same POST into a rejection.
func TestCSRFFormScenario(t *testing.T) {
	t.Parallel()

	guard := newCSRFGuard(t)
	carrier := newSessionCarrier(t)
	r := newCSRFRouter(carrier, middleware.CSRF[*router.Context, testSessionData](guard))

	formTmpl := template.Must(template.New("form").Parse(
		`<form method="POST" action="/transfer">{{.CSRFField}}<button>Send</button></form>`))

	r.Get("/transfer", func(ctx *router.Context) handler.Response {
		return response.Template(formTmpl, map[string]any{
			"CSRFField": middleware.CSRFHiddenField(ctx),
		})
	})
	r.Post("/transfer", okHandler)

	// GET: the rendered page carries a submittable hidden input.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transfer", nil))
	require.Equal(t, http.StatusOK, w.Code)

	fieldRe := regexp.MustCompile(`<input type="hidden" name="csrf_token" value="([^"]+)">`)
	match := fieldRe.FindStringSubmatch(w.Body.String())
	require.Len(t, match, 2, "page must embed the hidden field, not a bare value")
	token := match[1]

	// POST with the field: accepted.
	w2 := postForm(r, "/transfer", url.Values{"csrf_token": {token}})
	assert.Equal(t, http.StatusOK, w2.Code)

	// Same POST without the field: rejected as missing.
	w3 := postForm(r, "/transfer", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w3.Code)
	assert.Equal(t, "csrf_token_missing", rejectionCode(t, w3))

	// Same POST with one character tampered: rejected as invalid.
	tampered := "A" + token[1:]
	if tampered == token {
		tampered = "B" + token[1:]
	}
	w4 := postForm(r, "/transfer", url.Values{"csrf_token": {tampered}})
	assert.Equal(t, http.StatusBadRequest, w4.Code)
	assert.Equal(t, "csrf_token_invalid", rejectionCode(t, w4))
}

func TestCSRFCustomErrorHandler(t *testing.T) {
	t.Parallel()

	guard := newCSRFGuard(t)
	carrier := newSessionCarrier(t)
	r := newCSRFRouter(carrier, middleware.CSRFWithConfig[*router.Context, testSessionData](middleware.CSRFConfig[*router.Context]{
		Guard: guard,
		ErrorHandler: func(ctx *router.Context, err error) handler.Response {
			assert.ErrorIs(t, err, csrf.ErrTokenMissing)
			return response.RedirectSeeOther("/expired")
		},
	}))
	r.Post("/submit", okHandler)

	w := postForm(r, "/submit", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/expired", w.Header().Get("Location"))
}

func TestCSRFConcurrentRequests(t *testing.T) {
	t.Parallel()

	guard := newCSRFGuard(t)
	carrier := newSessionCarrier(t)

	carrier.mu.Lock()
	secret, err := carrier.sess.EnsureCSRFSecret()
	require.NoError(t, err)
	sessionID := carrier.sess.ID
	carrier.mu.Unlock()

	r := newCSRFRouter(carrier, middleware.CSRF[*router.Context, testSessionData](guard))
	r.Get("/page", okHandler)
	r.Post("/submit", okHandler)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			token, err := guard.Issue(secret, sessionID)
			assert.NoError(t, err)

			w := postForm(r, "/submit", url.Values{"csrf_token": {token}})
			assert.Equal(t, http.StatusOK, w.Code)

			w2 := httptest.NewRecorder()
			r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/page", nil))
			assert.Equal(t, http.StatusOK, w2.Code)
		}()
	}
	wg.Wait()
}
