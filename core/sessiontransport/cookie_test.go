package sessiontransport_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hardenlab/csrfkit/core/cookie"
	"github.com/hardenlab/csrfkit/core/session"
	"github.com/hardenlab/csrfkit/core/sessiontransport"
)

const cookieSecret = "test-secret-key-for-cookie-manager-32chars"

type testData struct {
	Theme string
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[testData], error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session[testData]), args.Error(1)
}

func (m *mockStore) GetByToken(ctx context.Context, token string) (*session.Session[testData], error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session[testData]), args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, sess *session.Session[testData]) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) DeleteExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// cookieWrapper intercepts cookie manager calls while delegating to a
// real manager by default.
type cookieWrapper struct {
	*cookie.Manager
	onGetSigned func(r *http.Request, name string) (string, error)
}

func (c *cookieWrapper) GetSigned(r *http.Request, name string) (string, error) {
	if c.onGetSigned != nil {
		return c.onGetSigned(r, name)
	}
	return c.Manager.GetSigned(r, name)
}

// testContext implements handler.Context over a recorder-backed request.
type testContext struct {
	context.Context
	w *httptest.ResponseRecorder
	r *http.Request
}

func (c *testContext) Request() *http.Request { return c.r }

func (c *testContext) ResponseWriter() http.ResponseWriter { return c.w }

func (c *testContext) Param(string) string { return "" }

func (c *testContext) SetValue(key, val any) {
	c.Context = context.WithValue(c.Context, key, val)
}

func newTestContext() *testContext {
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0 Test Browser")
	r.Header.Set("X-Forwarded-For", "203.0.113.9")

	return &testContext{
		Context: context.Background(),
		w:       httptest.NewRecorder(),
		r:       r,
	}
}

func newTransport(t *testing.T, store *mockStore) (*sessiontransport.Cookie[testData], *cookieWrapper) {
	t.Helper()

	mgr, err := session.NewManager[testData](store)
	require.NoError(t, err)

	base, err := cookie.New([]string{cookieSecret})
	require.NoError(t, err)

	wrapper := &cookieWrapper{Manager: base}
	return sessiontransport.NewCookieFromConfig(sessiontransport.DefaultCookieConfig(), mgr, wrapper), wrapper
}

// validSession builds a session record as a store would return it:
// recently updated, not marked modified.
func validSession(t *testing.T) session.Session[testData] {
	t.Helper()
	now := time.Now()
	return session.Session[testData]{
		ID:          uuid.New(),
		Token:       "tok-" + uuid.NewString(),
		Fingerprint: "v1:0123456789abcdef0123456789abcdef",
		IP:          "203.0.113.9",
		UserAgent:   "Mozilla/5.0 Test Browser",
		ExpiresAt:   now.Add(time.Hour),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// sessionCookie digs the named cookie out of the recorded response.
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "__session" {
			return c
		}
	}
	return nil
}

func TestCookieLoad(t *testing.T) {
	t.Parallel()

	t.Run("valid signed cookie resolves the stored session", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		transport, _ := newTransport(t, store)
		ctx := newTestContext()
		sess := validSession(t)

		// Plant a genuinely signed cookie on the request.
		seed, err := cookie.New([]string{cookieSecret})
		require.NoError(t, err)
		require.NoError(t, seed.SetSigned(ctx.w, "__session", sess.Token))
		for _, c := range ctx.w.Result().Cookies() {
			ctx.r.AddCookie(c)
		}

		store.On("GetByToken", mock.Anything, sess.Token).Return(&sess, nil)

		loaded, err := transport.Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, sess.ID, loaded.ID)
		assert.Equal(t, sess.Token, loaded.Token)
		store.AssertExpectations(t)
	})

	t.Run("missing cookie degrades to anonymous session", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		transport, _ := newTransport(t, store)
		ctx := newTestContext()

		store.On("Save", mock.Anything, mock.MatchedBy(func(s *session.Session[testData]) bool {
			return s.UserID == uuid.Nil && s.IP == "203.0.113.9"
		})).Return(nil)

		sess, err := transport.Load(ctx)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, sess.ID)
		assert.False(t, sess.IsAuthenticated())
		assert.NotEmpty(t, sess.Token)
		assert.Equal(t, "203.0.113.9", sess.IP)
		assert.Equal(t, "Mozilla/5.0 Test Browser", sess.UserAgent)
		assert.True(t, strings.HasPrefix(sess.Fingerprint, "v1:"))
		store.AssertExpectations(t)
	})

	t.Run("unknown token degrades to anonymous session", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		transport, wrapper := newTransport(t, store)
		ctx := newTestContext()

		wrapper.onGetSigned = func(*http.Request, string) (string, error) {
			return "unknown-token", nil
		}
		store.On("GetByToken", mock.Anything, "unknown-token").Return(nil, session.ErrNotFound)
		store.On("Save", mock.Anything, mock.Anything).Return(nil)

		sess, err := transport.Load(ctx)

		require.NoError(t, err)
		assert.False(t, sess.IsAuthenticated())
		store.AssertExpectations(t)
	})

	t.Run("expired record degrades to anonymous session", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		transport, wrapper := newTransport(t, store)
		ctx := newTestContext()

		expired := validSession(t)
		expired.ExpiresAt = time.Now().Add(-time.Minute)

		wrapper.onGetSigned = func(*http.Request, string) (string, error) {
			return expired.Token, nil
		}
		store.On("GetByToken", mock.Anything, expired.Token).Return(&expired, nil)
		store.On("Save", mock.Anything, mock.MatchedBy(func(s *session.Session[testData]) bool {
			return s.ID != expired.ID
		})).Return(nil)

		sess, err := transport.Load(ctx)

		require.NoError(t, err)
		assert.NotEqual(t, expired.ID, sess.ID)
		store.AssertExpectations(t)
	})
}

func TestCookieSave(t *testing.T) {
	t.Parallel()

	t.Run("writes signed cookie with synced expiry", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		transport, wrapper := newTransport(t, store)
		ctx := newTestContext()
		sess := validSession(t)

		require.NoError(t, transport.Save(ctx, sess))

		c := sessionCookie(t, ctx.w)
		require.NotNil(t, c)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.InDelta(t, time.Hour.Seconds(), float64(c.MaxAge), 5)

		// The value round-trips through signature verification.
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)
		token, err := wrapper.Manager.GetSigned(r, "__session")
		require.NoError(t, err)
		assert.Equal(t, sess.Token, token)
	})

	t.Run("refuses expired sessions", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		transport, _ := newTransport(t, store)
		ctx := newTestContext()

		sess := validSession(t)
		sess.ExpiresAt = time.Now().Add(-time.Minute)

		err := transport.Save(ctx, sess)
		assert.ErrorIs(t, err, sessiontransport.ErrSessionExpired)
		assert.Nil(t, sessionCookie(t, ctx.w))
	})
}

func TestCookieStore(t *testing.T) {
	t.Parallel()

	t.Run("persists modified session and re-issues cookie", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		transport, _ := newTransport(t, store)
		ctx := newTestContext()

		sess := validSession(t)
		sess.SetData(testData{Theme: "dark"})

		store.On("Save", mock.Anything, mock.MatchedBy(func(s *session.Session[testData]) bool {
			return s.ID == sess.ID && s.Data.Theme == "dark"
		})).Return(nil)

		require.NoError(t, transport.Store(ctx, sess))
		assert.NotNil(t, sessionCookie(t, ctx.w))
		store.AssertExpectations(t)
	})

	t.Run("clean session skips the store write but keeps the cookie fresh", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		transport, _ := newTransport(t, store)
		ctx := newTestContext()

		require.NoError(t, transport.Store(ctx, validSession(t)))

		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.NotNil(t, sessionCookie(t, ctx.w))
	})

	t.Run("deleted session clears the cookie", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		transport, _ := newTransport(t, store)
		ctx := newTestContext()

		sess := validSession(t)
		sess.Logout()

		store.On("Delete", mock.Anything, sess.ID).Return(nil)

		require.NoError(t, transport.Store(ctx, sess))

		c := sessionCookie(t, ctx.w)
		require.NotNil(t, c)
		assert.Negative(t, c.MaxAge)
		assert.Empty(t, c.Value)
		store.AssertExpectations(t)
	})
}

func TestCookieAuthenticate(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	transport, wrapper := newTransport(t, store)
	ctx := newTestContext()

	anon := validSession(t)
	anon.CSRFSecret = bytes.Repeat([]byte{0xAB}, 32)
	oldToken, oldSecret := anon.Token, anon.CSRFSecret
	userID := uuid.New()

	wrapper.onGetSigned = func(*http.Request, string) (string, error) {
		return oldToken, nil
	}
	store.On("GetByToken", mock.Anything, oldToken).Return(&anon, nil)
	store.On("Save", mock.Anything, mock.MatchedBy(func(s *session.Session[testData]) bool {
		return s.ID == anon.ID &&
			s.UserID == userID &&
			s.Token != oldToken &&
			!assert.ObjectsAreEqual(oldSecret, s.CSRFSecret)
	})).Return(nil)

	authSess, err := transport.Authenticate(ctx, userID)

	require.NoError(t, err)
	assert.True(t, authSess.IsAuthenticated())
	assert.Equal(t, anon.ID, authSess.ID)
	store.AssertExpectations(t)

	// The cookie now carries the rotated token.
	c := sessionCookie(t, ctx.w)
	require.NotNil(t, c)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)
	got, err := wrapper.Manager.GetSigned(r, "__session")
	require.NoError(t, err)
	assert.Equal(t, authSess.Token, got)
	assert.NotEqual(t, oldToken, got)
}

func TestCookieLogout(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	transport, wrapper := newTransport(t, store)
	ctx := newTestContext()

	authed := validSession(t)
	authed.UserID = uuid.New()

	wrapper.onGetSigned = func(*http.Request, string) (string, error) {
		return authed.Token, nil
	}
	store.On("GetByToken", mock.Anything, authed.Token).Return(&authed, nil)
	store.On("Delete", mock.Anything, authed.ID).Return(nil)
	store.On("Save", mock.Anything, mock.MatchedBy(func(s *session.Session[testData]) bool {
		return s.ID != authed.ID && s.UserID == uuid.Nil && s.IP == authed.IP
	})).Return(nil)

	anonSess, err := transport.Logout(ctx)

	require.NoError(t, err)
	assert.False(t, anonSess.IsAuthenticated())
	assert.NotEqual(t, authed.ID, anonSess.ID)
	assert.NotEqual(t, authed.Token, anonSess.Token)
	store.AssertExpectations(t)
	assert.NotNil(t, sessionCookie(t, ctx.w))
}

func TestCookieDelete(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	transport, wrapper := newTransport(t, store)
	ctx := newTestContext()

	sess := validSession(t)

	wrapper.onGetSigned = func(*http.Request, string) (string, error) {
		return sess.Token, nil
	}
	store.On("GetByToken", mock.Anything, sess.Token).Return(&sess, nil)
	store.On("Delete", mock.Anything, sess.ID).Return(nil)

	require.NoError(t, transport.Delete(ctx))

	c := sessionCookie(t, ctx.w)
	require.NotNil(t, c)
	assert.Negative(t, c.MaxAge)
	store.AssertExpectations(t)
}

func TestCookieTouch(t *testing.T) {
	t.Parallel()

	t.Run("refreshes cookie when expiration moved", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		transport, _ := newTransport(t, store)
		ctx := newTestContext()

		sess := validSession(t)
		refreshed := sess
		refreshed.UpdatedAt = sess.UpdatedAt.Add(time.Minute)
		refreshed.ExpiresAt = sess.ExpiresAt.Add(time.Minute)

		store.On("GetByID", mock.Anything, sess.ID).Return(&refreshed, nil)

		require.NoError(t, transport.Touch(ctx, sess))
		assert.NotNil(t, sessionCookie(t, ctx.w))
		store.AssertExpectations(t)
	})

	t.Run("leaves cookie alone when nothing changed", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		transport, _ := newTransport(t, store)
		ctx := newTestContext()

		sess := validSession(t)
		same := sess

		store.On("GetByID", mock.Anything, sess.ID).Return(&same, nil)

		require.NoError(t, transport.Touch(ctx, sess))
		assert.Nil(t, sessionCookie(t, ctx.w))
		store.AssertExpectations(t)
	})
}
