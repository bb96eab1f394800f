// Package cookie provides HTTP cookie management with HMAC signing and
// multi-secret key rotation. It is the transport substrate for session
// cookies: the session token travels as a signed value so a tampered
// cookie is rejected before any store lookup happens.
//
// # Basic Usage
//
// Create a manager with at least one signing secret of 32+ characters:
//
//	manager, err := cookie.New([]string{"your-32-character-secret-key-here"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Plain cookie
//	err = manager.Set(w, "theme", "dark")
//
//	// Signed cookie: value is authenticated with HMAC-SHA256
//	err = manager.SetSigned(w, "session_token", token)
//
//	token, err := manager.GetSigned(r, "session_token")
//	if errors.Is(err, cookie.ErrInvalidSignature) {
//		// tampered or signed with an unknown key
//	}
//
// # Key Rotation
//
// All configured secrets verify, but only the first one signs. To rotate,
// prepend the new secret and keep the old one until live cookies expire:
//
//	manager, err := cookie.New([]string{newSecret, oldSecret})
//
// # Environment Configuration
//
// Load settings from environment variables via core/config:
//
//	var cfg cookie.Config
//	config.MustLoad(&cfg)
//
//	manager, err := cookie.NewFromConfig(cfg)
//
// COOKIE_SECRETS holds comma-separated secrets, newest first. Default
// attributes (Path=/, HttpOnly, SameSite=Lax) can be overridden per call:
//
//	manager.SetSigned(w, name, value,
//		cookie.WithSecure(true),
//		cookie.WithMaxAge(3600),
//	)
package cookie
