// Package session provides generic server-side session management with a
// per-session CSRF secret lifecycle. Sessions carry a typed Data payload,
// a transport token used as the cookie credential, and the secret that
// request tokens are derived from.
//
// # Architecture
//
// Three pieces cooperate:
//
//   - Session[Data] is a plain value with lifecycle methods. Mutations set
//     a dirty flag; nothing touches storage.
//   - Store[Data] is the persistence interface implemented by the
//     sessionstore backends (memory, redis, postgres, mongo).
//   - Manager[Data] orchestrates the two: loads, validates expiration,
//     applies the throttled sliding expiration, and persists changes.
//
// # Basic Usage
//
//	type AppData struct {
//		Theme string `json:"theme"`
//	}
//
//	store := memory.New[AppData]()
//	manager, err := session.NewManager(store,
//		session.WithTTL(7*24*time.Hour),
//		session.WithTouchInterval(5*time.Minute),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err := manager.New(ctx, session.NewSessionParams{
//		IP:        "203.0.113.7",
//		UserAgent: r.UserAgent(),
//	})
//
// Or from environment variables (SESSION_TTL, SESSION_TOUCH_INTERVAL):
//
//	var cfg session.Config
//	config.MustLoad(&cfg)
//	manager, err := session.NewFromConfig(store, cfg)
//
// # CSRF Secret Lifecycle
//
// A new session has no CSRF secret. The first issued token creates one:
//
//	secret, err := sess.EnsureCSRFSecret() // generates on first call
//
// From then on the secret stays stable until it is rotated, which kills
// every token derived from the old value:
//
//	err := sess.RotateCSRFSecret() // previously issued tokens now fail
//
// Authenticate rotates both the transport token and the CSRF secret, so
// tokens issued to the anonymous pre-login session stop verifying at the
// privilege boundary:
//
//	sess, err = manager.Authenticate(ctx, sess, userID)
//
// When the session expires or is destroyed the secret is discarded with
// the record; there is nothing to clean up separately. The secret never
// leaves the server: clients only ever see tokens derived from it.
//
// # Authentication Flow
//
//	// Login: anonymous session becomes authenticated, ID preserved
//	sess, err := manager.Authenticate(ctx, sess, userID)
//
//	// Logout: record deleted, fresh anonymous session returned
//	sess, err = manager.Logout(ctx, sess)
//
// # Persistence
//
// Handlers mutate the session value; the middleware persists it once at
// the end of the request via Manager.Store, which saves only when the
// dirty flag is set. Sliding expiration is throttled by the touch
// interval to keep per-request store writes rare.
package session
