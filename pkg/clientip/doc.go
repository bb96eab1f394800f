// Package clientip extracts real client IP addresses from HTTP requests.
//
// Services running the CSRF and session middleware usually sit behind a
// proxy, load balancer, or CDN, where RemoteAddr is the address of the
// last hop rather than the client. This package resolves the client
// address from proxy headers so sessions record who they were minted
// for and rejection log entries name the actual sender.
//
// # Header Priority
//
// Headers are checked in this order:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry is the original client)
//  4. X-Real-IP (nginx and other reverse proxies)
//  5. RemoteAddr (direct connection)
//
// CDN headers outrank generic proxy headers because the CDN terminates
// the client connection and overwrites whatever the client supplied.
//
// # Usage
//
// Most callers go through the middleware, which extracts once per
// request and stores the result in the request context:
//
//	r.Use(middleware.ClientIP[*router.Context]())
//
//	r.Post("/transfer", func(ctx *router.Context) handler.Response {
//		ip, _ := middleware.GetClientIP(ctx)
//		// ...
//	})
//
// Direct extraction works anywhere an *http.Request is at hand:
//
//	params := session.NewSessionParams{
//		IP:        clientip.GetIP(r),
//		UserAgent: r.UserAgent(),
//	}
//
// # Validation
//
// Every candidate is parsed with net.ParseIP and normalized through
// net.IP.String, so IPv6 addresses come out in canonical form. The
// unspecified address (0.0.0.0 / ::) is rejected as "no client IP".
// Malformed header values fall through to the next source, and when
// nothing parses the raw RemoteAddr is returned so the result is never
// empty.
//
// # Proxy Configuration
//
// When deploying behind proxies, ensure they set the appropriate headers:
//   - Nginx: proxy_set_header X-Real-IP $remote_addr;
//   - Apache: RequestHeader set X-Forwarded-For %h
//   - Cloudflare: Automatically sets CF-Connecting-IP
//   - DigitalOcean Load Balancer: Automatically sets DO-Connecting-IP
//
// Trust these headers only when a proxy you control sets them; a client
// talking directly to the server can forge any of them, which is why
// origin checking and token verification never rely on the resolved IP.
package clientip
