package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/hardenlab/csrfkit/core/handler"
)

// mux backs the Router interface. Top-level routers own the route
// table; inline routers created by With and Group share the parent's
// table and only add middleware.
type mux[C handler.Context] struct {
	table        *table[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
	parent       *mux[C] // set on inline routers
	inline       bool
	registered   bool // set once the first route is added
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		table:        &table[C]{},
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	// Without a factory only the built-in *Context type is supported;
	// custom context types must provide one.
	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	// RawPath keeps percent-encoded segments intact when present.
	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}
	if path == "" {
		path = "/"
	}

	method, ok := methodMap[r.Method]
	if !ok {
		ctx := m.newContext(ww, r, nil)
		m.errorHandler(ctx, ErrMethodNotAllowed)
		return
	}

	segs := splitPath(path)
	rt, pathMatched := m.table.match(method, segs)

	var params map[string]string
	if rt != nil {
		params = rt.capture(segs)
	}

	ctx := m.newContext(ww, r, params)

	// A panic anywhere below must not take down the server. If headers
	// already went out, the only remaining option is to log it.
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{
				value: p,
				stack: debug.Stack(),
			}

			if ww.Written() {
				m.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
			} else {
				m.errorHandler(ctx, panicErr)
			}
		}
	}()

	// Delegate to a mounted subrouter with the mount prefix stripped
	if rt != nil && rt.sub != nil {
		subPath := "/"
		if tail := params["*"]; tail != "" {
			subPath = "/" + tail
		}

		r2 := r.Clone(r.Context())
		r2.URL.Path = subPath
		if r2.URL.RawPath != "" {
			r2.URL.RawPath = subPath
		}
		rt.sub.ServeHTTP(w, r2)
		return
	}

	if rt == nil {
		if pathMatched {
			allowed := m.table.allowedMethods(segs)
			// Set Allow header per RFC 7231 before responding with 405
			if len(allowed) > 0 && !ww.Written() {
				ww.Header().Set("Allow", strings.Join(allowed, ", "))
			}
			m.errorHandler(ctx, ErrMethodNotAllowed)
		} else {
			m.errorHandler(ctx, ErrNotFound)
		}
		return
	}

	fn := rt.handler
	if len(m.middlewares) > 0 {
		fn = chain(m.middlewares, fn)
	}

	response := fn(ctx)
	if response == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := response(ww, r); err != nil {
		m.errorHandler(ctx, err)
		return
	}
}

// Single-method registration, documented on the Router interface.

func (m *mux[C]) Get(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mGET, pattern, handler)
}

func (m *mux[C]) Post(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mPOST, pattern, handler)
}

func (m *mux[C]) Put(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mPUT, pattern, handler)
}

func (m *mux[C]) Delete(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mDELETE, pattern, handler)
}

func (m *mux[C]) Patch(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mPATCH, pattern, handler)
}

func (m *mux[C]) Head(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mHEAD, pattern, handler)
}

func (m *mux[C]) Options(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mOPTIONS, pattern, handler)
}

func (m *mux[C]) Connect(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mCONNECT, pattern, handler)
}

func (m *mux[C]) Trace(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mTRACE, pattern, handler)
}

// Handle registers the handler for every HTTP method at once.
func (m *mux[C]) Handle(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mALL, pattern, handler)
}

// Method registers the handler for an explicit method set. Method names
// are case-insensitive; unknown names panic at startup.
func (m *mux[C]) Method(pattern string, handler handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}

	var mask methodTyp
	for _, method := range methods {
		mt, ok := methodMap[strings.ToUpper(method)]
		if !ok {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
		}
		mask |= mt
	}
	m.handle(mask, pattern, handler)
}

// Use appends router-wide middleware. It must run before any route is
// registered so every handler passes through the same chain.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.registered {
		panic("csrfkit: middleware must be registered before routes")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With returns an inline child holding only the additional middleware.
// The parent chain is collected lazily when a route is registered
// through the child.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	return &mux[C]{
		inline:       true,
		parent:       m,
		table:        m.table,
		middlewares:  middlewares,
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
}

// Group runs fn against an inline child so a set of routes can share
// middleware without affecting the rest of the table.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Route builds a fresh sub-router, hands it to fn, and mounts it at
// pattern.
func (m *mux[C]) Route(pattern string, fn func(r Router[C])) Router[C] {
	if fn == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilSubrouter, pattern))
	}
	sub := newMux[C]()
	sub.errorHandler = m.errorHandler
	sub.newContext = m.newContext
	sub.logger = m.logger

	fn(sub)
	m.Mount(pattern, sub)
	return sub
}

// Mount registers stub routes covering pattern and everything beneath
// it, delegating matching requests to sub with the mount prefix
// stripped.
func (m *mux[C]) Mount(pattern string, sub Router[C]) {
	if sub == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilRouter, pattern))
	}

	subMux, ok := sub.(*mux[C])
	if !ok {
		panic("csrfkit: can only mount *mux[C] routers")
	}

	// Mounted subrouters inherit the parent's error handler, logger, and
	// context factory so requests behave the same on either side of the
	// mount point.
	subMux.errorHandler = m.errorHandler
	subMux.logger = m.logger
	subMux.newContext = m.newContext

	// Stub handler, never invoked: requests are delegated before dispatch.
	mountHandler := func(ctx C) handler.Response {
		return nil
	}

	var entries []*route[C]

	if pattern == "" || pattern[len(pattern)-1] != '/' {
		entries = append(entries, m.handle(mALL|mSTUB, pattern, mountHandler))
		entries = append(entries, m.handle(mALL|mSTUB, pattern+"/", mountHandler))
		pattern += "/"
	}

	entries = append(entries, m.handle(mALL|mSTUB, pattern+"*", mountHandler))

	for _, rt := range entries {
		rt.sub = subMux
	}
}

// Routes snapshots the route table.
func (m *mux[C]) Routes() []Route {
	return m.table.routes()
}

// handle registers a handler in the route table.
func (m *mux[C]) handle(methods methodTyp, pattern string, fn handler.HandlerFunc[C]) *route[C] {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	// Mark that routes exist (for the Use-before-routes check)
	if !m.inline {
		m.registered = true
	}

	// Inline routers bake their middleware chain into the handler at
	// registration time, collecting middlewares from the parent chain.
	h := fn
	if m.inline {
		var allMiddlewares []handler.Middleware[C]
		curr := m
		for curr != nil && curr.inline {
			if len(curr.middlewares) > 0 {
				allMiddlewares = append(append([]handler.Middleware[C]{}, curr.middlewares...), allMiddlewares...)
			}
			curr = curr.parent
		}
		if len(allMiddlewares) > 0 {
			h = chain(allMiddlewares, fn)
		}
	}

	return m.table.insert(methods, pattern, h)
}
